package jobs

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrSchedulerClosed is returned by Schedule after Close.
	ErrSchedulerClosed = errors.New("scheduler is closed")
	// ErrSchedulerFull is returned when every worker is busy and the buffer is full.
	ErrSchedulerFull = errors.New("scheduler is full")
)

var _ Scheduler = (*LocalScheduler)(nil)

// LocalScheduler runs tasks on in-process worker goroutines.
type LocalScheduler struct {
	registry *Registry
	tasks    chan *Task
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

func NewLocalScheduler(registry *Registry, workers int, buffer int) *LocalScheduler {
	if workers <= 0 {
		workers = 1
	}

	s := &LocalScheduler{
		registry: registry,
		tasks:    make(chan *Task, buffer),
	}

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for task := range s.tasks {
				_ = s.registry.Dispatch(context.Background(), task)
			}
		}()
	}

	return s
}

// Schedule hands the task to a worker without waiting for one to free up.
func (s *LocalScheduler) Schedule(ctx context.Context, task *Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSchedulerClosed
	}

	select {
	case s.tasks <- task:
		logrus.Debugf("scheduled task %s", task)
		return nil
	default:
		return ErrSchedulerFull
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (s *LocalScheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.tasks)
	s.mu.Unlock()

	s.wg.Wait()
}
