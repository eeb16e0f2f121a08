package event

import "sync"

// Queue is an unbounded FIFO between event sources and the engine. Drain
// swaps out everything pushed so far in one step, so a concurrent Push lands
// either in the returned batch or in the next one, never both or neither.
type Queue struct {
	mu      sync.Mutex
	pending []RawEvent
	ready   chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

func (q *Queue) Push(ev RawEvent) {
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Drain returns pending events oldest first and clears the queue.
func (q *Queue) Drain() []RawEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Ready fires at least once after any Push. Wakeups are coalesced.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}
