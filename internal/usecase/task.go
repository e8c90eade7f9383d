package usecase

import "fmt"

// Task is a fire-and-forget outbound request whose outcome is still observed:
// the dispatcher always turns it into a notification, and callers may Wait.
type Task struct {
	Action string
	done   chan struct{}
	err    error
}

func newTask(action string) *Task {
	return &Task{Action: action, done: make(chan struct{})}
}

// completedTask is a task that finished before it started, e.g. a rejected scan.
func completedTask(action string, err error) *Task {
	t := newTask(action)
	t.finish(err)
	return t
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// run executes fn in its own goroutine. A panic in fn becomes the task error.
func (t *Task) run(fn func() error, onDone func(error)) {
	go func() {
		var err error
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%s panicked: %v", t.Action, p)
			}
			onDone(err)
			t.finish(err)
		}()
		err = fn()
	}()
}

// Done is closed once the task has finished and its notification was shown.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}
