package usecase

import "sync"

// ChatDispatcher runs work for each chat in arrival order while different
// chats proceed independently. A chat's goroutine exits once its queue drains.
type ChatDispatcher struct {
	mu     sync.Mutex
	queues map[int64][]func()
	wg     sync.WaitGroup
}

// NewChatDispatcher creates an idle dispatcher
func NewChatDispatcher() *ChatDispatcher {
	return &ChatDispatcher{queues: make(map[int64][]func())}
}

// Dispatch queues fn behind any pending work for chatID.
func (d *ChatDispatcher) Dispatch(chatID int64, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending, running := d.queues[chatID]
	d.queues[chatID] = append(pending, fn)
	if running {
		return
	}
	d.wg.Add(1)
	go d.drain(chatID)
}

func (d *ChatDispatcher) drain(chatID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		pending := d.queues[chatID]
		if len(pending) == 0 {
			delete(d.queues, chatID)
			d.mu.Unlock()
			return
		}
		fn := pending[0]
		pending[0] = nil
		d.queues[chatID] = pending[1:]
		d.mu.Unlock()

		fn()
	}
}

// Len returns the number of chats with queued or running work.
func (d *ChatDispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}

// Wait blocks until every dispatched func has returned.
func (d *ChatDispatcher) Wait() {
	d.wg.Wait()
}
