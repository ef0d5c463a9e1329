package acquire

import (
	"sync/atomic"
)

// DefaultEventBuffer is the queue capacity used when none is given.
const DefaultEventBuffer = 1024

// Event is a status change of one link. Index is 1-based.
type Event struct {
	Index  int
	Link   string
	Status Status
	Reason Reason
}

// Queue is a FIFO hand-off from the orchestrator to one status consumer.
// Publishing never blocks: when the buffer is full the event is dropped and
// counted. Only the producer may call Publish and Close.
type Queue struct {
	ch      chan Event
	closed  atomic.Bool
	dropped atomic.Int64
}

// NewQueue returns a Queue holding up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultEventBuffer
	}
	return &Queue{ch: make(chan Event, size)}
}

// Publish enqueues e and reports whether it was accepted.
func (q *Queue) Publish(e Event) bool {
	if q.closed.Load() {
		return false
	}
	select {
	case q.ch <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Poll returns the oldest pending event, if any. An empty queue is not an error.
func (q *Queue) Poll() (Event, bool) {
	select {
	case e, ok := <-q.ch:
		return e, ok
	default:
		return Event{}, false
	}
}

// Close marks the end of the stream. Events already queued stay readable.
func (q *Queue) Close() {
	if q.closed.CompareAndSwap(false, true) {
		close(q.ch)
	}
}

// Drained reports whether the queue is closed and every event was consumed.
func (q *Queue) Drained() bool {
	return q.closed.Load() && len(q.ch) == 0
}

// Dropped returns how many events were discarded on a full queue.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}
