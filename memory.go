package hoard

import (
	"context"
	"sync"
)

// MemoryBackend stores entries in an in-process map. Its lifetime is tied
// to the owning process; nothing survives a restart.
type MemoryBackend struct {
	mu         sync.RWMutex
	entries    map[string]*Entry
	totalBytes int64
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]*Entry)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) (*Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[key]; ok {
		m.totalBytes -= old.SizeBytes
	}
	m.entries[key] = e
	m.totalBytes += e.SizeBytes
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		m.totalBytes -= e.SizeBytes
		delete(m.entries, key)
	}
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*Entry)
	m.totalBytes = 0
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MemoryBackend) Entries(_ context.Context) (map[string]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	view := make(map[string]*Entry, len(m.entries))
	for k, e := range m.entries {
		view[k] = e
	}
	return view, nil
}

func (m *MemoryBackend) TotalBytes(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalBytes, nil
}
