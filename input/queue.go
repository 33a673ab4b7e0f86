package input

import "sync"

// Queue buffers touch events between the host's input callbacks and the
// engine's frame. The host pushes as events arrive; the engine drains at
// the top of each frame, seeing events in submission order.
type Queue struct {
	mu     sync.Mutex
	events []Touch
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends one event.
func (q *Queue) Push(ev Touch) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Drain returns all buffered events in submission order and empties the
// queue. It returns nil when nothing is buffered.
func (q *Queue) Drain() []Touch {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len reports the number of buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
