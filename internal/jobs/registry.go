package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrNoHandler is returned when a task type has no registered handler.
var ErrNoHandler = errors.New("no handler registered for task type")

type Handler func(ctx context.Context, task *Task) error

// Registry dispatches tasks to handlers by type. A failing or panicking
// handler only fails its own task.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(taskType string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[taskType] = handler
}

func (r *Registry) Dispatch(ctx context.Context, task *Task) (err error) {
	r.mu.RLock()
	handler, ok := r.handlers[task.Type]
	r.mu.RUnlock()

	if !ok {
		err = fmt.Errorf("%s: %w", task.Type, ErrNoHandler)
		logrus.Warnf("task %s dropped: %v", task, err)
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task %s panicked: %v", task, rec)
		}
		if err != nil {
			logrus.WithField("task", task.ID).Warnf("task %s failed: %v", task, err)
		}
	}()

	return handler(ctx, task)
}
