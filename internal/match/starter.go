package match

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calvinhon/ft-transcendence-sub003/internal/session"
	"github.com/calvinhon/ft-transcendence-sub003/logging"
)

// SessionStarter turns a matched pair into a running session. The queue only
// depends on this interface; tests substitute a recorder.
type SessionStarter interface {
	StartSession(ctx context.Context, left, right session.PlayerRef, cfg session.Config) (*session.Session, error)
}

// Starter is the production SessionStarter: it writes the match record first
// so the persistence-allocated id exists before the session is constructed,
// then registers and launches the session.
type Starter struct {
	Registry  *session.Registry
	Store     session.MatchStore
	Notifier  session.ResultNotifier
	Publisher logging.Publisher
	Log       *slog.Logger
}

func (st *Starter) StartSession(ctx context.Context, left, right session.PlayerRef, cfg session.Config) (*session.Session, error) {
	if st.Store == nil {
		return nil, fmt.Errorf("match: starter has no store")
	}
	settings := cfg.Settings.Normalized()
	cfg.Settings = settings

	gameID, err := st.Store.CreateMatchRecord(ctx, left.ID, right.ID, settings.Mode)
	if err != nil {
		return nil, fmt.Errorf("create match record: %w", err)
	}

	s := session.New(gameID, left, right, cfg, session.Deps{
		Registry:  st.Registry,
		Store:     st.Store,
		Notifier:  st.Notifier,
		Publisher: st.Publisher,
		Log:       st.Log,
	})
	if st.Registry != nil {
		if err := st.Registry.Add(s); err != nil {
			return nil, fmt.Errorf("register session: %w", err)
		}
	}

	if st.Publisher != nil {
		st.Publisher.Publish(ctx, logging.Event{
			Type:     logging.EventMatchCreated,
			GameID:   gameID,
			Severity: logging.SeverityInfo,
			Payload:  map[string]any{"mode": settings.Mode, "left": left.ID, "right": right.ID},
		})
	}

	s.Start()
	return s, nil
}
