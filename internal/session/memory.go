package session

import "sync"

// MemoryStore is an in-process AckStore for tests and ephemeral sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	read    map[string]struct{}
	cleared map[string]struct{}
}

// NewMemoryStore creates an empty in-memory acknowledgment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		read:    make(map[string]struct{}),
		cleared: make(map[string]struct{}),
	}
}

// MarkRead adds ids to the read set.
func (m *MemoryStore) MarkRead(ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.read[id] = struct{}{}
	}
	return nil
}

// Clear adds ids to the cleared set.
func (m *MemoryStore) Clear(ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.cleared[id] = struct{}{}
	}
	return nil
}

// IsRead reports whether id is in the read set.
func (m *MemoryStore) IsRead(id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.read[id]
	return ok, nil
}

// IsCleared reports whether id is in the cleared set.
func (m *MemoryStore) IsCleared(id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cleared[id]
	return ok, nil
}

// ReadSet returns a snapshot of the read set.
func (m *MemoryStore) ReadSet() (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]struct{}, len(m.read))
	for id := range m.read {
		out[id] = struct{}{}
	}
	return out, nil
}

// ClearedSet returns a snapshot of the cleared set.
func (m *MemoryStore) ClearedSet() (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]struct{}, len(m.cleared))
	for id := range m.cleared {
		out[id] = struct{}{}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
