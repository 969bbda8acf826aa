package store

import (
	"context"
	"sync"
)

// MemoryKV is the default session state backend: a mutex-guarded map of
// session id to key/value pairs. State lives exactly as long as the process,
// which matches the session-scoped, no-durability data model.
type MemoryKV struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemoryKV constructs an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		sessions: make(map[string]map[string]string),
	}
}

// Get returns the value stored under key for the session, if any.
func (m *MemoryKV) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kv, ok := m.sessions[sessionID]
	if !ok {
		return "", false, nil
	}
	value, ok := kv[key]
	return value, ok, nil
}

// Set stores value under key for the session, creating the session bucket on
// first write.
func (m *MemoryKV) Set(ctx context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.sessions[sessionID]
	if !ok {
		kv = make(map[string]string)
		m.sessions[sessionID] = kv
	}
	kv[key] = value
	return nil
}

// Delete removes a single key from the session.
func (m *MemoryKV) Delete(ctx context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kv, ok := m.sessions[sessionID]; ok {
		delete(kv, key)
	}
	return nil
}

// DropSession discards the whole session bucket.
func (m *MemoryKV) DropSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Close is a no-op for the in-memory backend.
func (m *MemoryKV) Close() error {
	return nil
}
