package session

import (
	"testing"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
)

func registrySession(id int64, leftID, rightID string) *Session {
	left := PlayerRef{ID: leftID, Output: NopSink{}}
	right := PlayerRef{ID: rightID, Output: NopSink{}}
	return New(id, left, right, Config{Settings: game.Settings{Mode: game.ModeDuel}, Seed: 1}, Deps{})
}

func TestRegistryAddAndGet(t *testing.T) {
	r := NewRegistry()
	s := registrySession(1, "alice", "bob")
	if err := r.Add(s); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.Add(s); err == nil {
		t.Fatalf("duplicate id must be rejected")
	}
	got, ok := r.Get(1)
	if !ok || got != s {
		t.Fatalf("expected session 1 back, got %v ok=%v", got, ok)
	}
	if _, ok := r.Get(99); ok {
		t.Fatalf("unknown id must miss")
	}
	if r.Len() != 1 {
		t.Fatalf("expected length 1, got %d", r.Len())
	}
}

func TestRegistryFindByPlayer(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(registrySession(1, "alice", "bob")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.Add(registrySession(2, "carol", BotID)); err != nil {
		t.Fatalf("add: %v", err)
	}

	if s, ok := r.FindByPlayer("carol"); !ok || s.ID != 2 {
		t.Fatalf("expected carol in session 2")
	}
	if _, ok := r.FindByPlayer("nobody"); ok {
		t.Fatalf("unknown player must miss")
	}
	// The bot sentinel is shared across sessions and never resolves.
	if _, ok := r.FindByPlayer(BotID); ok {
		t.Fatalf("bot sentinel must never resolve to a session")
	}
	if _, ok := r.FindByPlayer(""); ok {
		t.Fatalf("empty id must never resolve")
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(registrySession(7, "alice", "bob")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !r.Remove(7) {
		t.Fatalf("first remove must report true")
	}
	if r.Remove(7) {
		t.Fatalf("second remove must be a no-op")
	}
	if _, ok := r.Get(7); ok {
		t.Fatalf("removed session must be gone")
	}
	if got := r.IDs(); len(got) != 0 {
		t.Fatalf("expected no ids, got %v", got)
	}
}
