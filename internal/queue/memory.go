package queue

import (
	"context"
	"sync"
)

var _ TaskQueue = (*MemoryQueue)(nil)

// MemoryQueue is an in-process FIFO.
type MemoryQueue struct {
	mu     sync.Mutex
	items  [][]byte
	closed bool
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (m *MemoryQueue) Publish(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.items = append(m.items, payload)
	return nil
}

func (m *MemoryQueue) Poll(ctx context.Context, max int) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	n := min(max, len(m.items))
	out := m.items[:n:n]
	m.items = m.items[n:]

	return out, nil
}

func (m *MemoryQueue) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
