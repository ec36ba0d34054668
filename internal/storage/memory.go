package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process Storage used by tests and as a stand-in
// when a scope's backing store is not configured.
type Memory struct {
	mu       sync.Mutex
	values   map[string]json.RawMessage
	defaults map[string]json.RawMessage
	hub      hub
}

func NewMemory(defaults map[string]json.RawMessage) *Memory {
	return &Memory{
		values:   make(map[string]json.RawMessage),
		defaults: defaults,
	}
}

func (m *Memory) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	m.mu.Lock()
	values := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := m.values[key]; ok {
			values[key] = value
		}
	}
	m.mu.Unlock()

	return mergeDefaults(values, m.defaults, keys), nil
}

func (m *Memory) Set(ctx context.Context, values map[string]json.RawMessage) error {
	for key, value := range values {
		m.mu.Lock()
		m.values[key] = value
		m.mu.Unlock()

		m.hub.notify(Change{Key: key, NewValue: value})
	}

	return nil
}

func (m *Memory) Subscribe(fn func(Change)) func() {
	return m.hub.subscribe(fn)
}
