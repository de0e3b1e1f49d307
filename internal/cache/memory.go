package cache

import (
	"context"
	"sync"
)

var _ ExistenceCache = (*MemoryExistenceCache)(nil)

type MemoryExistenceCache struct {
	mu      sync.RWMutex
	entries map[string]int64
}

func NewMemoryExistenceCache() *MemoryExistenceCache {
	return &MemoryExistenceCache{entries: make(map[string]int64)}
}

func (m *MemoryExistenceCache) Lookup(ctx context.Context, ns int, title string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.entries[titleKey(ns, title)]
	return id, ok, nil
}

func (m *MemoryExistenceCache) Remember(ctx context.Context, ns int, title string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[titleKey(ns, title)] = id
	return nil
}

func (m *MemoryExistenceCache) Forget(ctx context.Context, ns int, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, titleKey(ns, title))
	return nil
}

func (m *MemoryExistenceCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]int64)
	return nil
}
