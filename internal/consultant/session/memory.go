package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Entries expire after the
// configured TTL and the store evicts the stalest entry when full, so a
// restart or overflow silently starts the visitor over.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	ttl        time.Duration
	maxEntries int
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewMemoryStore creates an in-memory store and starts its cleanup loop.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	store := &MemoryStore{
		sessions:   make(map[string]*Session),
		ttl:        ttl,
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}
	go store.janitor()
	return store
}

// Get returns a copy of the stored session, or (nil, nil) when absent or
// expired.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if m.ttl > 0 && time.Since(s.UpdatedAt) > m.ttl {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, nil
	}
	return copySession(s), nil
}

// Upsert stores a copy of the session and stamps UpdatedAt.
func (m *MemoryStore) Upsert(_ context.Context, s *Session) error {
	stored := copySession(s)
	stored.UpdatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[stored.ID]; !exists && m.maxEntries > 0 && len(m.sessions) >= m.maxEntries {
		m.evictOldestLocked()
	}
	m.sessions[stored.ID] = stored
	return nil
}

// Delete removes the session. Deleting an absent session is a no-op.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Close stops the cleanup loop.
func (m *MemoryStore) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Len reports the number of live entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, s := range m.sessions {
		if oldestID == "" || s.UpdatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = s.UpdatedAt
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
	}
}

func (m *MemoryStore) janitor() {
	if m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *MemoryStore) sweep() {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

// copySession deep-copies through JSON so callers can never alias the
// stored quote or transcript.
func copySession(s *Session) *Session {
	raw, err := json.Marshal(s)
	if err != nil {
		// Session only holds plain data types; marshalling cannot fail.
		out := *s
		return &out
	}
	var out Session
	if err := json.Unmarshal(raw, &out); err != nil {
		dup := *s
		return &dup
	}
	return &out
}

var _ Store = (*MemoryStore)(nil)
