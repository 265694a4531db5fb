package ledger

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]int64
	puts   int
}

// NewMemory returns a Memory seeded with initial.
func NewMemory(initial map[string]int64) *Memory {
	values := make(map[string]int64, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Memory{values: values}
}

func (m *Memory) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, nil
}

func (m *Memory) Put(_ context.Context, key string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.puts++
	return nil
}

// Puts counts successful Put calls.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
