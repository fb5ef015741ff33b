package domain

import "sync"

// PipelineQueue bounds how many pipeline runs execute at once
type PipelineQueue struct {
	mu            sync.Mutex
	activeTasks   map[int]*PipelineTask
	waitingQueue  []*PipelineTask
	nextTaskID    int
	maxConcurrent int
}

// NewPipelineQueue creates a new pipeline queue
func NewPipelineQueue(maxConcurrent int) *PipelineQueue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &PipelineQueue{
		activeTasks:   make(map[int]*PipelineTask),
		waitingQueue:  make([]*PipelineTask, 0),
		maxConcurrent: maxConcurrent,
		nextTaskID:    1,
	}
}

// AddTask assigns an ID to the task and either activates it (position 0) or
// appends it to the waiting list.
func (pq *PipelineQueue) AddTask(task *PipelineTask) (id, position int) {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	task.ID = pq.nextTaskID
	pq.nextTaskID++

	if len(pq.activeTasks) < pq.maxConcurrent {
		pq.activeTasks[task.ID] = task
		task.QueuePosition = 0
		return task.ID, 0
	}

	pq.waitingQueue = append(pq.waitingQueue, task)
	task.QueuePosition = len(pq.waitingQueue)
	return task.ID, task.QueuePosition
}

// CompleteTask removes a task from active tasks and promotes the next waiting one
func (pq *PipelineQueue) CompleteTask(taskID int) *PipelineTask {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	delete(pq.activeTasks, taskID)

	var nextTask *PipelineTask
	if len(pq.waitingQueue) > 0 && len(pq.activeTasks) < pq.maxConcurrent {
		nextTask = pq.waitingQueue[0]
		pq.waitingQueue = pq.waitingQueue[1:]
		nextTask.QueuePosition = 0
		pq.activeTasks[nextTask.ID] = nextTask
	}

	pq.renumber()
	return nextTask
}

// RemoveWaiting drops waiting tasks that belong to a session and returns them.
func (pq *PipelineQueue) RemoveWaiting(sessionID string) []*PipelineTask {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	var removed []*PipelineTask
	kept := pq.waitingQueue[:0]
	for _, t := range pq.waitingQueue {
		if t.SessionID == sessionID {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	pq.waitingQueue = kept
	pq.renumber()
	return removed
}

func (pq *PipelineQueue) renumber() {
	for i, t := range pq.waitingQueue {
		t.QueuePosition = i + 1
	}
}

// WaitingSnapshot is a copy of a waiting task's status fields.
type WaitingSnapshot struct {
	ChatID        int64
	StatusMsgID   int
	QueuePosition int
}

// GetWaitingTasks returns a snapshot of all waiting tasks
func (pq *PipelineQueue) GetWaitingTasks() []WaitingSnapshot {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	result := make([]WaitingSnapshot, len(pq.waitingQueue))
	for i, t := range pq.waitingQueue {
		result[i] = WaitingSnapshot{ChatID: t.ChatID, StatusMsgID: t.StatusMsgID, QueuePosition: t.QueuePosition}
	}
	return result
}

// GetActiveCount returns the number of active tasks
func (pq *PipelineQueue) GetActiveCount() int {
	pq.mu.Lock()
	defer pq.mu.Unlock()
	return len(pq.activeTasks)
}

// GetWaitingCount returns the number of waiting tasks
func (pq *PipelineQueue) GetWaitingCount() int {
	pq.mu.Lock()
	defer pq.mu.Unlock()
	return len(pq.waitingQueue)
}
