package filerepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps objects in a map. Used by tests and dry runs.
type MemoryBackend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{objects: make(map[string][]byte)}
}

func (m *MemoryBackend) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[path]
	return ok, nil
}

func (m *MemoryBackend) Read(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrObjectNotFound)
	}

	return append([]byte(nil), data...), nil
}

func (m *MemoryBackend) Put(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[path] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) Move(ctx context.Context, src string, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[src]
	if !ok {
		return fmt.Errorf("%s: %w", src, ErrObjectNotFound)
	}

	m.objects[dst] = data
	delete(m.objects, src)
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, path := range paths {
		delete(m.objects, path)
	}

	return nil
}

// Paths lists the stored paths in order.
func (m *MemoryBackend) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.objects))
	for path := range m.objects {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return paths
}
