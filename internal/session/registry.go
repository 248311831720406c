package session

import (
	"fmt"
	"sync"
)

// Registry is the process-wide map of live sessions. It is one of the two
// cross-session shared structures (the other is the matchmaking queue) and
// serializes all access under its mutex.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Add stores the session under its game id. Exactly one entry per id.
func (r *Registry) Add(s *Session) error {
	if s == nil {
		return fmt.Errorf("registry: nil session")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.ID]; exists {
		return fmt.Errorf("registry: session %d already present", s.ID)
	}
	r.sessions[s.ID] = s
	return nil
}

// Get looks a session up by game id.
func (r *Registry) Get(id int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// FindByPlayer resolves the session a player identity participates in. The
// bot sentinel never resolves.
func (r *Registry) FindByPlayer(playerID string) (*Session, bool) {
	if playerID == "" || playerID == BotID {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.HasPlayer(playerID) {
			return s, true
		}
	}
	return nil, false
}

// Remove drops the session and reports whether it was present. Safe to call
// repeatedly.
func (r *Registry) Remove(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// IDs lists live session ids for diagnostics.
func (r *Registry) IDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
