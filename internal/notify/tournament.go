// Package notify pushes match results to the external tournament service.
// Delivery is best-effort: callers log failures and move on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
)

const defaultTimeout = 5 * time.Second

// resultPayload is the body posted to the tournament service.
type resultPayload struct {
	GameID   int64  `json:"gameId"`
	MatchID  int64  `json:"matchId"`
	WinnerID string `json:"winnerId"`
	Left     int    `json:"leftScore"`
	Right    int    `json:"rightScore"`
}

// Tournament posts completed match results to the tournament service's
// result endpoint.
type Tournament struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewTournament builds a notifier for the given service base URL.
func NewTournament(baseURL string, log *slog.Logger) *Tournament {
	if log == nil {
		log = slog.Default()
	}
	return &Tournament{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

// NotifyMatchResult posts the result. A non-2xx response is an error; the
// caller decides whether that matters.
func (t *Tournament) NotifyMatchResult(ctx context.Context, gameID, matchID int64, winnerID string, scores game.Scores) error {
	body, err := json.Marshal(resultPayload{
		GameID:   gameID,
		MatchID:  matchID,
		WinnerID: winnerID,
		Left:     scores.Left,
		Right:    scores.Right,
	})
	if err != nil {
		return fmt.Errorf("encode result payload: %w", err)
	}

	url := fmt.Sprintf("%s/matches/%d/result", t.baseURL, matchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build result request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post match result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post match result: unexpected status %s", resp.Status)
	}
	t.log.Info("match result delivered", "gameId", gameID, "matchId", matchID, "winnerId", winnerID)
	return nil
}
