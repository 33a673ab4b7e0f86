package channel

import "sync"

// Queue is one direction of the channel: an unbounded FIFO of byte
// payloads. Push never blocks and never drops; Pop returns at most one
// payload per call.
type Queue struct {
	mu       sync.Mutex
	payloads [][]byte
}

// Push appends one payload. The queue takes ownership of the slice; the
// caller must not reuse it.
func (q *Queue) Push(payload []byte) {
	q.mu.Lock()
	q.payloads = append(q.payloads, payload)
	q.mu.Unlock()
}

// Pop removes and returns the oldest payload. ok is false when the queue
// is empty.
func (q *Queue) Pop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.payloads) == 0 {
		return nil, false
	}
	payload := q.payloads[0]
	q.payloads[0] = nil
	q.payloads = q.payloads[1:]
	return payload, true
}

// Len reports the number of pending payloads.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

// Pair is the bidirectional channel between a host and its embedded
// engine: one unbounded queue per direction.
type Pair struct {
	hostToEngine Queue
	engineToHost Queue
}

// NewPair creates an empty channel pair.
func NewPair() *Pair {
	return &Pair{}
}

// Host returns the host-side endpoint: Send feeds the engine, Receive
// polls what the engine emitted.
func (p *Pair) Host() Endpoint {
	return Endpoint{send: &p.hostToEngine, recv: &p.engineToHost}
}

// Engine returns the engine-side endpoint: Send feeds the host, Receive
// polls what the host submitted.
func (p *Pair) Engine() Endpoint {
	return Endpoint{send: &p.engineToHost, recv: &p.hostToEngine}
}

// Endpoint is one side's view of the pair. Send is fire-and-forget; the
// other side buffers until its next poll. Receive returns at most one
// payload per call, oldest first, at-most-once.
type Endpoint struct {
	send *Queue
	recv *Queue
}

// Send submits one payload to the other side.
func (e Endpoint) Send(payload []byte) {
	e.send.Push(payload)
}

// Receive polls for one pending payload. ok is false when none is pending.
func (e Endpoint) Receive() ([]byte, bool) {
	return e.recv.Pop()
}

// Pending reports how many payloads await this side's polls.
func (e Endpoint) Pending() int {
	return e.recv.Len()
}
