package render

import (
	"errors"
	"sync"

	"github.com/vovakirdan/term-invaders/internal/core"
)

// ErrQueueClosed is returned when sending on a closed queue.
var ErrQueueClosed = errors.New("render: queue closed")

// Queue is an unbounded, ordered, single-producer/single-consumer hand-off of
// frames. Send never waits for the consumer; Recv blocks until a frame is
// available or the queue is closed and drained.
type Queue struct {
	mu     sync.Mutex
	frames []*core.Frame
	closed bool
	notify chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Send appends f to the queue and transfers its ownership to the consumer.
func (q *Queue) Send(f *core.Frame) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.frames = append(q.frames, f)
	q.mu.Unlock()

	q.wake()
	return nil
}

// Recv returns the oldest queued frame. It returns (nil, false) once the
// queue has been closed and every frame sent before Close was received.
func (q *Queue) Recv() (*core.Frame, bool) {
	for {
		q.mu.Lock()
		if len(q.frames) > 0 {
			f := q.frames[0]
			q.frames[0] = nil
			q.frames = q.frames[1:]
			q.mu.Unlock()
			return f, true
		}
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		q.mu.Unlock()
		<-q.notify
	}
}

// Close marks the end of the stream. Frames already queued are still
// delivered. Calling Close more than once is harmless.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wake()
}

// wake signals a waiting Recv; the one-slot channel coalesces signals.
func (q *Queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
