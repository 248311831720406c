// Package match pairs waiting players into game sessions, falling back to a
// bot opponent when nobody shows up within the configured timeout.
package match

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
	"github.com/calvinhon/ft-transcendence-sub003/internal/proto"
	"github.com/calvinhon/ft-transcendence-sub003/internal/session"
	"github.com/calvinhon/ft-transcendence-sub003/logging"
)

// DefaultBotTimeout is how long a lone player waits before a bot steps in.
const DefaultBotTimeout = 5 * time.Second

// ErrAlreadyQueued rejects a second enqueue for an identity still waiting.
var ErrAlreadyQueued = errors.New("match: player already queued")

// ErrInGame rejects an enqueue for an identity with a running session.
var ErrInGame = errors.New("match: player already in a game")

// Request carries everything a join event supplies to matchmaking.
type Request struct {
	Player   session.PlayerRef
	Settings game.Settings

	// Rosters for team modes; nil means single-entry rosters derived from
	// the player refs.
	LeftRoster  []session.RosterEntry
	RightRoster []session.RosterEntry

	// Tournament linkage; zero means none.
	TournamentID      int64
	TournamentMatchID int64
}

func (r Request) sessionConfig() session.Config {
	return session.Config{
		Settings:          r.Settings,
		LeftRoster:        r.LeftRoster,
		RightRoster:       r.RightRoster,
		TournamentID:      r.TournamentID,
		TournamentMatchID: r.TournamentMatchID,
	}
}

type waitingEntry struct {
	request    Request
	enqueuedAt time.Time
	timeout    TimerHandle
}

// Queue is the process-wide matchmaking queue. Entries pair FIFO; the second
// joiner's settings win the pairing, matching how join requests carry the
// desired match setup. All state is guarded by mu.
type Queue struct {
	starter    SessionStarter
	registry   *session.Registry
	scheduler  Scheduler
	botTimeout time.Duration
	publisher  logging.Publisher
	log        *slog.Logger

	broadcaster *session.Broadcaster

	mu      sync.Mutex
	waiting []*waitingEntry
	closed  bool
}

// QueueOptions configure optional collaborators of a Queue.
type QueueOptions struct {
	// Registry, when set, lets the queue reject players who already have a
	// running session.
	Registry *session.Registry
	// Scheduler defaults to the wall-clock scheduler.
	Scheduler Scheduler
	// BotTimeout defaults to DefaultBotTimeout; negative disables the bot
	// fallback entirely.
	BotTimeout time.Duration
	Publisher  logging.Publisher
	Log        *slog.Logger
}

// NewQueue builds a queue around the given starter.
func NewQueue(starter SessionStarter, opts QueueOptions) *Queue {
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = NewClockScheduler()
	}
	timeout := opts.BotTimeout
	if timeout == 0 {
		timeout = DefaultBotTimeout
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher{}
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Queue{
		starter:     starter,
		registry:    opts.Registry,
		scheduler:   scheduler,
		botTimeout:  timeout,
		publisher:   publisher,
		log:         log,
		broadcaster: session.NewBroadcaster(log),
	}
}

// Enqueue adds the player to the queue, pairing immediately when an opponent
// is already waiting. The returned session is non-nil only when a pairing
// happened; a nil session with nil error means the player is now waiting.
func (q *Queue) Enqueue(ctx context.Context, req Request) (*session.Session, error) {
	if q.registry != nil {
		if _, ok := q.registry.FindByPlayer(req.Player.ID); ok {
			return nil, ErrInGame
		}
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, errors.New("match: queue closed")
	}
	for _, entry := range q.waiting {
		if entry.request.Player.ID == req.Player.ID {
			q.mu.Unlock()
			return nil, ErrAlreadyQueued
		}
	}

	if len(q.waiting) > 0 {
		// FIFO: pair with the oldest waiting entry.
		opponent := q.waiting[0]
		q.waiting = q.waiting[1:]
		if opponent.timeout != nil {
			opponent.timeout.Stop()
		}
		q.mu.Unlock()

		q.publisher.Publish(ctx, logging.Event{
			Type:     logging.EventQueuePaired,
			Severity: logging.SeverityInfo,
			Payload:  map[string]any{"left": opponent.request.Player.ID, "right": req.Player.ID},
		})

		cfg := req.sessionConfig()
		cfg.LeftRoster = nil
		cfg.RightRoster = nil
		s, err := q.starter.StartSession(ctx, opponent.request.Player, req.Player, cfg)
		if err != nil {
			q.log.Error("failed to start paired session", "error", err,
				"left", opponent.request.Player.ID, "right", req.Player.ID)
			q.broadcaster.Publish([]session.PlayerRef{opponent.request.Player, req.Player},
				proto.NewError("failed to start match"))
			return nil, err
		}
		return s, nil
	}

	entry := &waitingEntry{request: req, enqueuedAt: time.Now()}
	if q.botTimeout > 0 {
		playerID := req.Player.ID
		entry.timeout = q.scheduler.Schedule(q.botTimeout, func() {
			q.timeoutToBot(playerID)
		})
	}
	q.waiting = append(q.waiting, entry)
	q.mu.Unlock()

	q.broadcaster.Publish([]session.PlayerRef{req.Player}, proto.NewWaiting())
	q.publisher.Publish(ctx, logging.Event{
		Type:     logging.EventQueueWaiting,
		PlayerID: req.Player.ID,
		Severity: logging.SeverityInfo,
	})
	return nil, nil
}

// EnqueueWithBot skips the queue and starts a bot match immediately. The
// request's right roster, when present, keeps its slots; otherwise the bot
// sentinel fills the opposing side.
func (q *Queue) EnqueueWithBot(ctx context.Context, req Request) (*session.Session, error) {
	q.publisher.Publish(ctx, logging.Event{
		Type:     logging.EventQueueBotMatch,
		PlayerID: req.Player.ID,
		Severity: logging.SeverityInfo,
		Payload:  map[string]any{"direct": true},
	})
	return q.StartDirect(ctx, req, session.NewBotPlayer())
}

// StartDirect bypasses matchmaking and starts a session against the given
// opponent: the bot sentinel, or a local second player sharing the joiner's
// connection (tournament direct starts).
func (q *Queue) StartDirect(ctx context.Context, req Request, opponent session.PlayerRef) (*session.Session, error) {
	if q.registry != nil {
		if _, ok := q.registry.FindByPlayer(req.Player.ID); ok {
			return nil, ErrInGame
		}
	}
	// A waiting entry for the same player becomes stale; drop it first.
	q.Remove(req.Player.ID)

	return q.starter.StartSession(ctx, req.Player, opponent, req.sessionConfig())
}

// Remove drops a still-waiting player, cancelling the pending bot fallback.
// It reports whether an entry was removed; disconnects of players already in
// a session are the registry's business, not the queue's.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, entry := range q.waiting {
		if entry.request.Player.ID != playerID {
			continue
		}
		if entry.timeout != nil {
			entry.timeout.Stop()
		}
		q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
		return true
	}
	return false
}

// Len reports the number of waiting entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}

// Close stops accepting entries and cancels every pending fallback timer.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	for _, entry := range q.waiting {
		if entry.timeout != nil {
			entry.timeout.Stop()
		}
	}
	q.waiting = nil
}

// timeoutToBot fires when a waiting entry's fallback timer expires. Pairing
// and disconnect cancel the timer under the queue lock, so a fired timer that
// still finds its entry is authoritative.
func (q *Queue) timeoutToBot(playerID string) {
	q.mu.Lock()
	var req Request
	found := false
	for i, entry := range q.waiting {
		if entry.request.Player.ID == playerID {
			req = entry.request
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			found = true
			break
		}
	}
	q.mu.Unlock()
	if !found {
		return
	}

	ctx := context.Background()
	q.publisher.Publish(ctx, logging.Event{
		Type:     logging.EventQueueBotMatch,
		PlayerID: playerID,
		Severity: logging.SeverityInfo,
		Payload:  map[string]any{"timeout": q.botTimeout.String()},
	})
	if _, err := q.starter.StartSession(ctx, req.Player, session.NewBotPlayer(), req.sessionConfig()); err != nil {
		q.log.Error("failed to start bot fallback session", "error", err, "playerId", playerID)
		q.broadcaster.Publish([]session.PlayerRef{req.Player}, proto.NewError("failed to start match"))
	}
}
