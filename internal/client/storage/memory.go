package storage

import (
	"context"
	"sync"
)

// Memory keeps everything in a map. Contents are lost with the process.
type Memory struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{scopes: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, scope, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.scopes[scope][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kv, ok := m.scopes[scope]
	if !ok {
		kv = make(map[string]string)
		m.scopes[scope] = kv
	}
	kv[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, scope string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kv := m.scopes[scope]
	for _, k := range keys {
		delete(kv, k)
	}
	if len(kv) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

func (m *Memory) PurgeScope(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scopes, scope)
	return nil
}

func (m *Memory) Close() error { return nil }
