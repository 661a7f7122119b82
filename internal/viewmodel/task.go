package viewmodel

import "context"

// Task tracks one fetch cycle. Done is closed once the cycle's state
// changes are in place and its notifications have been handed to the
// Dispatcher; delivery may still be pending in the dispatcher queue.
type Task struct {
	id   string
	done chan struct{}
	err  error
}

func newTask(id string) *Task {
	return &Task{
		id:   id,
		done: make(chan struct{}),
	}
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the classified fetch error, or nil while running or on success.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the cycle finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.done:
		return t.err
	}
}
