// internal/store/memory.go
//
// In-memory session store.
// Each browser session owns exactly one game; the store maps the session ID
// (carried in a signed cookie) to that game.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - A Session serializes every operation on its game with its own mutex.
//   - State is lost when the process restarts.
//   - Sessions older than the cookie lifetime are removed with Prune.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lexhawkins/GameSoftware/internal/game"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID or returns ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete forgets a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are held.
	Len() int

	// Prune deletes sessions created before cutoff and reports how many
	// were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

// Session owns one game and serializes access to it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu sync.Mutex // guards g
	g  *game.Game
}

// NewSession wraps g in a session with the given ID.
func NewSession(id string, g *game.Game) *Session {
	return &Session{ID: id, CreatedAt: time.Now().UTC(), g: g}
}

// Do runs fn with exclusive access to the session's game.
// The game must not be retained after fn returns.
func (s *Session) Do(fn func(g *game.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.g)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		if err := m.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}
