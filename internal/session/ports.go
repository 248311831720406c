package session

import (
	"context"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
)

// MatchStore is the persistence collaborator. CreateMatchRecord runs before
// a session exists — the returned id names the session. FinalizeMatchRecord
// is fire-and-forget on the terminal transition: failures are logged and
// never retried.
type MatchStore interface {
	CreateMatchRecord(ctx context.Context, leftID, rightID string, mode game.Mode) (int64, error)
	FinalizeMatchRecord(ctx context.Context, gameID int64, scores game.Scores, winnerID string, aborted bool) error
}

// ResultNotifier forwards completed results to interested external systems
// (tournament progression). Best-effort: failures are logged as warnings.
type ResultNotifier interface {
	NotifyMatchResult(ctx context.Context, gameID, matchID int64, winnerID string, scores game.Scores) error
}
