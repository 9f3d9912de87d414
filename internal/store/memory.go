// Package store keeps running games in memory for the HTTP adapter. State
// is lost when the process restarts.
package store

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("store: session not found")

// Entry is one stored game. Calls to Do are serialized, which is what a
// session requires of its phase operations.
type Entry struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	engine *game.Engine
	over   atomic.Bool
}

// Do runs fn with exclusive access to the entry's engine.
func (e *Entry) Do(fn func(*game.Engine) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := fn(e.engine)
	e.over.Store(e.engine.Session().Phase() == game.Terminal)
	return err
}

// Submit hands fn the session without waiting for a phase running under
// Do. Only the session's Submit methods may be called from fn; they have
// their own lock. A finished game returns game.ErrGameOver.
func (e *Entry) Submit(fn func(*game.Session)) error {
	if e.over.Load() {
		return game.ErrGameOver
	}
	fn(e.engine.Session())
	return nil
}

// Memory is a map of entries keyed by uuid. Concurrent reads are allowed.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*Entry), now: time.Now}
}

// Create stores engine under a fresh id.
func (m *Memory) Create(engine *game.Engine) *Entry {
	e := &Entry{ID: uuid.New().String(), CreatedAt: m.now(), engine: engine}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return e
}

// Get looks up an entry by id.
func (m *Memory) Get(id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

// Delete removes an entry.
func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

// List returns every entry, oldest first.
func (m *Memory) List() []*Entry {
	m.mu.RLock()
	out := make([]*Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Prune drops entries created before cutoff and returns how many went.
func (m *Memory) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		if e.CreatedAt.Before(cutoff) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}
