package queue

import (
	"context"
	"errors"
)

// TaskQueue carries encoded deferred tasks between the process that commits
// a deletion and the worker that runs the follow-up work.
type TaskQueue interface {
	// Publish appends a payload to the queue.
	Publish(ctx context.Context, payload []byte) error
	// Poll removes and returns up to max payloads without blocking for long.
	Poll(ctx context.Context, max int) ([][]byte, error)
	Close() error
}

// ErrClosed is returned by operations on a closed queue.
var ErrClosed = errors.New("queue is closed")
