package session

import (
	"context"
	"sync"
	"time"
)

// memoryEntry holds a stored token and its absolute expiry.
type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore implements Store with an in-process map. Intended for local
// development and tests; sessions don't survive a restart and aren't shared
// across instances.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the token stored under the session identifier.
// Expired entries are removed lazily on read.
func (m *MemoryStore) Get(ctx context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok {
		return "", ErrSessionNotFound
	}

	if !entry.expiresAt.After(m.now()) {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return "", ErrSessionNotFound
	}

	return entry.token, nil
}

// Set stores the token under the session identifier with the given TTL.
func (m *MemoryStore) Set(ctx context.Context, sessionID string, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[sessionID] = memoryEntry{
		token:     token,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Delete removes the session.
func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, sessionID)
	return nil
}
