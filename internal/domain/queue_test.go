package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineQueue_AddAndComplete(t *testing.T) {
	q := NewPipelineQueue(1)

	id1, pos1 := q.AddTask(&PipelineTask{SessionID: "a"})
	id2, pos2 := q.AddTask(&PipelineTask{SessionID: "b"})
	id3, pos3 := q.AddTask(&PipelineTask{SessionID: "c"})

	assert.Equal(t, []int{1, 2, 3}, []int{id1, id2, id3})
	assert.Equal(t, []int{0, 1, 2}, []int{pos1, pos2, pos3})
	assert.Equal(t, 1, q.GetActiveCount())
	assert.Equal(t, 2, q.GetWaitingCount())

	next := q.CompleteTask(id1)
	require.NotNil(t, next)
	assert.Equal(t, "b", next.SessionID)
	assert.Equal(t, 0, next.QueuePosition)

	waiting := q.GetWaitingTasks()
	require.Len(t, waiting, 1)
	assert.Equal(t, 1, waiting[0].QueuePosition)

	assert.Equal(t, "c", q.CompleteTask(id2).SessionID)
	assert.Nil(t, q.CompleteTask(id3))
	assert.Equal(t, 0, q.GetActiveCount())
}

func TestPipelineQueue_RemoveWaitingRenumbers(t *testing.T) {
	q := NewPipelineQueue(1)
	q.AddTask(&PipelineTask{SessionID: "active"})
	q.AddTask(&PipelineTask{SessionID: "x", StatusMsgID: 1})
	q.AddTask(&PipelineTask{SessionID: "y", StatusMsgID: 2})
	q.AddTask(&PipelineTask{SessionID: "z", StatusMsgID: 3})

	removed := q.RemoveWaiting("y")
	require.Len(t, removed, 1)
	assert.Equal(t, "y", removed[0].SessionID)

	assert.Equal(t, []WaitingSnapshot{
		{StatusMsgID: 1, QueuePosition: 1},
		{StatusMsgID: 3, QueuePosition: 2},
	}, q.GetWaitingTasks())

	assert.Empty(t, q.RemoveWaiting("active"))
	assert.Equal(t, 1, q.GetActiveCount())
}

func TestNewPipelineQueue_ClampsConcurrency(t *testing.T) {
	q := NewPipelineQueue(0)
	_, pos := q.AddTask(&PipelineTask{})
	assert.Equal(t, 0, pos)
	_, pos = q.AddTask(&PipelineTask{})
	assert.Equal(t, 1, pos)
}
