package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Anzel0/New-Bot/internal/application/service"
	"github.com/Anzel0/New-Bot/internal/domain"
	"github.com/Anzel0/New-Bot/internal/infrastructure/metrics"
)

const queueUpdateInterval = 2 * time.Second

// QueueManager runs pipeline tasks with bounded concurrency and keeps the
// status messages of waiting tasks up to date.
type QueueManager struct {
	ctx       context.Context
	queue     *domain.PipelineQueue
	status    *service.StatusEditor
	localeSvc *service.LocaleService
	metrics   *metrics.Metrics
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewQueueManager creates a new queue manager. Tasks run with ctx.
func NewQueueManager(
	ctx context.Context,
	queue *domain.PipelineQueue,
	status *service.StatusEditor,
	localeSvc *service.LocaleService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *QueueManager {
	return &QueueManager{
		ctx:       ctx,
		queue:     queue,
		status:    status,
		localeSvc: localeSvc,
		metrics:   m,
		logger:    logger,
	}
}

// Submit adds a task and starts it if a slot is free. It returns the task's
// position in the waiting list, 0 when it started right away.
func (qm *QueueManager) Submit(task *domain.PipelineTask) int {
	_, position := qm.queue.AddTask(task)
	qm.metrics.SetQueueWaiting(qm.queue.GetWaitingCount())

	if position == 0 {
		qm.start(task)
	} else {
		qm.logger.Info("task queued", "chat_id", task.ChatID, "session_id", task.SessionID, "position", position)
	}
	return position
}

// Go runs fn outside the queue but still tracks it for Wait.
func (qm *QueueManager) Go(fn func(ctx context.Context)) {
	qm.wg.Add(1)
	go func() {
		defer qm.wg.Done()
		fn(qm.ctx)
	}()
}

// Cancel drops any waiting task of the session. Running tasks are left alone.
func (qm *QueueManager) Cancel(sessionID string) int {
	removed := qm.queue.RemoveWaiting(sessionID)
	qm.metrics.SetQueueWaiting(qm.queue.GetWaitingCount())
	return len(removed)
}

// Wait blocks until every started task has returned.
func (qm *QueueManager) Wait() {
	qm.wg.Wait()
}

func (qm *QueueManager) start(task *domain.PipelineTask) {
	qm.wg.Add(1)
	go qm.processTask(task)
}

func (qm *QueueManager) processTask(task *domain.PipelineTask) {
	defer qm.wg.Done()
	defer func() {
		next := qm.queue.CompleteTask(task.ID)
		qm.metrics.SetQueueWaiting(qm.queue.GetWaitingCount())
		if next != nil {
			qm.start(next)
		}
	}()

	qm.logger.Debug("task started", "task_id", task.ID, "chat_id", task.ChatID, "session_id", task.SessionID)
	task.Run(qm.ctx)
}

// StartQueueUpdater edits the status message of every waiting task with its
// position until ctx is done.
func (qm *QueueManager) StartQueueUpdater(ctx context.Context) {
	ticker := time.NewTicker(queueUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			qm.UpdateWaiting(ctx)
		}
	}
}

// UpdateWaiting performs one round of queue position edits.
func (qm *QueueManager) UpdateWaiting(ctx context.Context) {
	for _, task := range qm.queue.GetWaitingTasks() {
		locale := qm.localeSvc.GetLocale(ctx, task.ChatID)
		_ = qm.status.Edit(ctx, task.ChatID, task.StatusMsgID, QueueText(locale, task.QueuePosition), nil)
	}
}

// QueueText renders a waiting position.
func QueueText(locale *domain.Locale, position int) string {
	if position == 1 {
		return fmt.Sprintf(locale.InQueue, position)
	}
	return fmt.Sprintf(locale.InQueuePlural, position)
}
