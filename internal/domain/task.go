package domain

import "context"

// PipelineTask is one queued pipeline run for a session
type PipelineTask struct {
	ID            int
	ChatID        int64
	SessionID     string
	StatusMsgID   int
	QueuePosition int
	Run           func(ctx context.Context)
}
