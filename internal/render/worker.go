package render

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/registry"
)

// Worker is the render goroutine: it owns every frame it receives and is the
// only writer to the surface.
type Worker struct {
	surface registry.Surface
	queue   *Queue
	logger  *log.Logger

	done chan struct{}

	mu     sync.Mutex
	err    error
	frames int
}

// StartWorker launches the render goroutine. The first thing it does is a
// full redraw of an empty frame sized like the playfield. It exits when the
// queue is closed and drained.
func StartWorker(surface registry.Surface, queue *Queue, cols, rows int, logger *log.Logger) *Worker {
	w := &Worker{
		surface: surface,
		queue:   queue,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go w.run(core.NewFrameSize(cols, rows))
	return w
}

func (w *Worker) run(last *core.Frame) {
	defer close(w.done)

	if _, err := Render(w.surface, nil, last, true); err != nil {
		w.fail(err)
	}

	for {
		curr, ok := w.queue.Recv()
		if !ok {
			return
		}
		// After a write failure keep draining so the producer never piles
		// up frames, but stop touching the terminal.
		if w.Err() != nil {
			continue
		}
		if _, err := Render(w.surface, last, curr, false); err != nil {
			w.fail(err)
			continue
		}
		last = curr

		w.mu.Lock()
		w.frames++
		w.mu.Unlock()
	}
}

func (w *Worker) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	w.err = err
	if w.logger != nil {
		w.logger.Error("render failed", "err", err)
	}
}

// Err returns the first render error, if any.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Frames returns how many queued frames have been rendered.
func (w *Worker) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Wait blocks until the goroutine exits and returns the first render error.
// Close the queue first or Wait never returns.
func (w *Worker) Wait() error {
	<-w.done
	return w.Err()
}
