package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
)

// MatchRecord mirrors one row of the matches table.
type MatchRecord struct {
	ID        int64
	LeftID    string
	RightID   string
	Mode      game.Mode
	Status    string
	Scores    game.Scores
	WinnerID  string
	Finalized bool
}

// Memory keeps match records in a map. It serves development without a
// database and every test that needs a MatchStore.
type Memory struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*MatchRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[int64]*MatchRecord)}
}

func (m *Memory) CreateMatchRecord(_ context.Context, leftID, rightID string, mode game.Mode) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.records[m.nextID] = &MatchRecord{
		ID:     m.nextID,
		LeftID: leftID, RightID: rightID,
		Mode:   mode,
		Status: StatusInProgress,
	}
	return m.nextID, nil
}

func (m *Memory) FinalizeMatchRecord(_ context.Context, gameID int64, scores game.Scores, winnerID string, aborted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[gameID]
	if !ok {
		return fmt.Errorf("finalize match record: no match with id %d", gameID)
	}
	record.Scores = scores
	record.WinnerID = winnerID
	record.Status = StatusFinished
	if aborted {
		record.Status = StatusAborted
	}
	record.Finalized = true
	return nil
}

// Record returns a copy of one stored record.
func (m *Memory) Record(gameID int64) (MatchRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[gameID]
	if !ok {
		return MatchRecord{}, false
	}
	return *record, true
}

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
