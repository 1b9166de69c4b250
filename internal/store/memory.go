// internal/store/memory.go
//
// In-memory implementation of Store.
// Used for development/testing, or when durability is not required.
//
// Characteristics:
//   - Sessions are copied in and out, so callers never share state with the map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/memorygame/internal/game"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex       // guards sessions map
	sessions map[string]Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]Session)}
}

// Save adds or replaces the session in the map.
func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := clone(s)
	c.UpdatedAt = time.Now().UTC()
	m.sessions[s.ID] = c
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(&s)
	return &c, nil
}

// Delete removes a session by ID.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func clone(s *Session) Session {
	c := *s
	c.Snapshot.Cards = append([]game.FaceValue(nil), s.Snapshot.Cards...)
	c.Snapshot.States = append([]game.CardState(nil), s.Snapshot.States...)
	if s.Snapshot.StartTime != nil {
		t := *s.Snapshot.StartTime
		c.Snapshot.StartTime = &t
	}
	return c
}
