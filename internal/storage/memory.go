package storage

import (
	"context"
	"slices"
	"sync"
)

// Memory is a process-local ListStore. It is exported so tests in other
// packages can seed and inspect lists directly.
type Memory struct {
	mu     sync.Mutex
	lists  map[ListName][]int64
	closed bool

	// FailSave, when set, is returned by every Save call.
	FailSave error
}

func NewMemory() *Memory {
	return &Memory{lists: map[ListName][]int64{}}
}

func (m *Memory) Load(ctx context.Context, name ListName) ([]int64, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	return slices.Clone(normalize(m.lists[name])), nil
}

func (m *Memory) Save(ctx context.Context, name ListName, ids []int64) error {
	if err := name.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.FailSave != nil {
		return m.FailSave
	}
	m.lists[name] = normalize(ids)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
