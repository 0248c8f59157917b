package store

import (
	"context"
	"sync"
	"time"
)

// Memory keeps results for the life of the process.
type Memory struct {
	mu      sync.RWMutex
	results map[string]*Result
}

func NewMemory() *Memory {
	return &Memory{results: make(map[string]*Result)}
}

func (m *Memory) Get(_ context.Context, key string) (*Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Memory) Put(_ context.Context, r *Result) error {
	if err := validate(r); err != nil {
		return err
	}
	cp := *r
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	m.mu.Lock()
	m.results[r.Key] = &cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
