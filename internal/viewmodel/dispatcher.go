package viewmodel

import (
	"context"
	"sync"
)

// Dispatcher runs notification callbacks on the presentation context.
// Implementations must run callbacks one at a time in submission order.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) {
	f(fn)
}

// Inline runs callbacks on the calling goroutine. Only suitable when the
// caller already serializes access, as in single-shot CLI runs and tests.
var Inline Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// SerialQueue is a single goroutine FIFO acting as the "UI thread": every
// callback dispatched to it runs on the goroutine that called Run.
type SerialQueue struct {
	queue chan func()

	closeOnce sync.Once
	closed    chan struct{}
}

func NewSerialQueue(buffer int) *SerialQueue {
	return &SerialQueue{
		queue:  make(chan func(), buffer),
		closed: make(chan struct{}),
	}
}

// Dispatch enqueues fn. It blocks while the buffer is full and drops fn
// once the queue is closed.
func (q *SerialQueue) Dispatch(fn func()) {
	select {
	case <-q.closed:
	case q.queue <- fn:
	}
}

// Run executes queued callbacks until ctx is done or Close is called.
func (q *SerialQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closed:
			return
		case fn := <-q.queue:
			fn()
		}
	}
}

func (q *SerialQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.closed)
	})
}
