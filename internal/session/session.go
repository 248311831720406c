package session

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/calvinhon/ft-transcendence-sub003/internal/ai"
	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
	"github.com/calvinhon/ft-transcendence-sub003/internal/proto"
	"github.com/calvinhon/ft-transcendence-sub003/logging"
)

const (
	// TickRate is the simulation frequency while playing.
	TickRate     = 60
	TickInterval = time.Second / TickRate

	// CountdownStart seconds are counted down at 1 Hz before kickoff.
	CountdownStart    = 3
	CountdownInterval = time.Second

	// UnfreezeDelay is the grace period between a score and the next
	// kickoff.
	UnfreezeDelay = time.Second

	// collaboratorTimeout bounds the fire-and-forget store and notifier
	// calls dispatched off the tick path.
	collaboratorTimeout = 5 * time.Second
)

// State is the lifecycle phase of a session.
type State string

const (
	StateCountdown State = "countdown"
	StatePlaying   State = "playing"
	StateFinished  State = "finished"
)

// Direction is a paddle movement request.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Config carries the creation-time parameters beyond the two player refs.
type Config struct {
	Settings game.Settings

	// Rosters map paddle slots to controlling identities in team modes.
	// Left empty, both sides derive a one-entry roster from the player
	// refs.
	LeftRoster  []RosterEntry
	RightRoster []RosterEntry

	// Tournament linkage for the completion notification; zero means
	// none.
	TournamentID      int64
	TournamentMatchID int64

	// Seed fixes the random source; zero seeds from the clock.
	Seed int64
}

// Deps are the session's collaborators. Nil fields degrade to no-ops so the
// core stays testable without network or database.
type Deps struct {
	Registry  *Registry
	Store     MatchStore
	Notifier  ResultNotifier
	Publisher logging.Publisher
	Log       *slog.Logger
}

// Session owns one match: its ball, paddles, scores, and state machine. All
// mutable state is guarded by mu; the run loop, input events, and timers
// each take the lock so a session serializes its own updates.
type Session struct {
	ID int64

	left  PlayerRef
	right PlayerRef

	settings          game.Settings
	leftRoster        []RosterEntry
	rightRoster       []RosterEntry
	tournamentID      int64
	tournamentMatchID int64

	mu        sync.Mutex
	ball      game.Ball
	layout    game.Layout
	scores    game.Scores
	state     State
	paused    bool
	countdown int
	unfreeze  *time.Timer

	rng       *rand.Rand
	bot       *ai.Controller
	botParams ai.Params

	registry    *Registry
	store       MatchStore
	notifier    ResultNotifier
	publisher   logging.Publisher
	log         *slog.Logger
	broadcaster *Broadcaster

	stop     chan struct{}
	stopOnce sync.Once
}

// New builds a session in Countdown with a frozen, centered ball. The id
// must already exist in the persistence collaborator; sessions are only
// constructed once that id is known.
func New(id int64, left, right PlayerRef, cfg Config, deps Deps) *Session {
	settings := cfg.Settings.Normalized()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher{}
	}
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	s := &Session{
		ID:                id,
		left:              left,
		right:             right,
		settings:          settings,
		leftRoster:        normalizeRoster(cfg.LeftRoster, left, settings.LeftTeamSize, settings.Mode),
		rightRoster:       normalizeRoster(cfg.RightRoster, right, settings.RightTeamSize, settings.Mode),
		tournamentID:      cfg.TournamentID,
		tournamentMatchID: cfg.TournamentMatchID,
		layout:            settings.NewLayout(),
		state:             StateCountdown,
		countdown:         CountdownStart,
		rng:               rng,
		bot:               ai.NewController(rng),
		botParams:         ai.ParamsFor(settings.AIDifficulty),
		registry:          deps.Registry,
		store:             deps.Store,
		notifier:          deps.Notifier,
		publisher:         publisher,
		log:               log.With("gameId", id),
		broadcaster:       NewBroadcaster(log),
		stop:              make(chan struct{}),
	}

	kickoffSide := game.SideLeft
	if rng.Intn(2) == 0 {
		kickoffSide = game.SideRight
	}
	s.ball = game.NewKickoffBall(kickoffSide, settings)

	return s
}

// normalizeRoster guarantees one entry per paddle slot. Provided entries
// keep their order; missing slots become bot slots in duel-with-bot style
// setups only when the controlling player itself is a bot.
func normalizeRoster(provided []RosterEntry, owner PlayerRef, size int, mode game.Mode) []RosterEntry {
	if mode == game.ModeDuel {
		size = 1
	}
	roster := make([]RosterEntry, size)
	for i := range roster {
		if i < len(provided) {
			roster[i] = provided[i]
			continue
		}
		roster[i] = RosterEntry{PlayerID: owner.ID, Name: owner.Name, IsBot: owner.IsBot}
	}
	return roster
}

// Start announces the match and launches the run loop.
func (s *Session) Start() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcaster.Publish(s.participants(), s.startMessage())
	s.broadcaster.Publish(s.participants(), snap)
	s.publisher.Publish(context.Background(), logging.Event{
		Type:     logging.EventMatchStarted,
		GameID:   s.ID,
		Severity: logging.SeverityInfo,
		Payload:  map[string]any{"mode": s.settings.Mode, "left": s.left.ID, "right": s.right.ID},
	})

	go s.run()
}

func (s *Session) run() {
	if !s.runCountdown() {
		return
	}
	tick := time.NewTicker(TickInterval)
	defer tick.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-tick.C:
			s.step()
		}
	}
}

func (s *Session) runCountdown() bool {
	countdown := time.NewTicker(CountdownInterval)
	defer countdown.Stop()
	for {
		select {
		case <-s.stop:
			return false
		case <-countdown.C:
			if s.stepCountdown() {
				return true
			}
		}
	}
}

// stepCountdown performs one 1 Hz decrement and reports whether the
// countdown completed.
func (s *Session) stepCountdown() bool {
	s.mu.Lock()
	if s.state != StateCountdown {
		s.mu.Unlock()
		return true
	}
	s.countdown--
	done := s.countdown <= 0
	if done {
		s.state = StatePlaying
		s.ball.Frozen = false
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcaster.Publish(s.participants(), snap)
	return done
}

// step runs one fixed simulation tick: bot intents, then physics, then the
// unconditional snapshot. Pause suspends simulation but not broadcasting.
func (s *Session) step() {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}

	var pointScorer *game.Side
	if !s.paused {
		s.applyBotPaddlesLocked()
		ball, res := game.Advance(s.ball, &s.layout, s.settings)
		s.ball = ball
		if res.Scored {
			s.scores.Add(res.Scorer)
			s.ball = game.NewKickoffBall(res.Scorer, s.settings)
			scorer := res.Scorer
			pointScorer = &scorer
			if s.scores.Get(res.Scorer) >= s.settings.ScoreToWin {
				s.state = StateFinished
			} else {
				s.scheduleUnfreezeLocked()
			}
		}
	}

	snap := s.snapshotLocked()
	finished := s.state == StateFinished
	scores := s.scores
	s.mu.Unlock()

	if pointScorer != nil {
		s.publisher.Publish(context.Background(), logging.Event{
			Type:     logging.EventPointScored,
			GameID:   s.ID,
			PlayerID: s.playerFor(*pointScorer).ID,
			Severity: logging.SeverityInfo,
			Payload:  map[string]any{"left": scores.Left, "right": scores.Right},
		})
	}

	s.broadcaster.Publish(s.participants(), snap)

	if finished {
		s.finish(false)
	}
}

// applyBotPaddlesLocked consults the AI controller for every bot-controlled
// roster slot. Human slots are never touched, even inside a mixed team.
func (s *Session) applyBotPaddlesLocked() {
	for _, side := range []game.Side{game.SideLeft, game.SideRight} {
		roster := s.rosterFor(side)
		for i, entry := range roster {
			if !entry.IsBot {
				continue
			}
			paddle := s.layout.Paddle(side, i)
			if paddle == nil {
				continue
			}
			switch s.bot.Decide(*paddle, s.ball, s.botParams) {
			case ai.IntentUp:
				paddle.Pos.Y -= s.botParams.StepSize
			case ai.IntentDown:
				paddle.Pos.Y += s.botParams.StepSize
			default:
				continue
			}
			paddle.ClampY()
		}
	}
}

func (s *Session) scheduleUnfreezeLocked() {
	if s.unfreeze != nil {
		s.unfreeze.Stop()
	}
	s.unfreeze = time.AfterFunc(UnfreezeDelay, s.unfreezeBall)
}

// unfreezeBall releases the post-score grace freeze and emits an immediate
// snapshot so clients see the kickoff without waiting for the next tick.
func (s *Session) unfreezeBall() {
	s.mu.Lock()
	if s.state != StatePlaying || !s.ball.Frozen {
		s.mu.Unlock()
		return
	}
	s.ball.Frozen = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcaster.Publish(s.participants(), snap)
}

// MovePaddle applies one input event. Unknown requesters and bot-owned
// slots are rejected as silent no-ops; the caller learns the outcome through
// the applied flag only.
func (s *Session) MovePaddle(requesterID string, dir Direction, paddleIndex int) bool {
	if dir != DirectionUp && dir != DirectionDown {
		return false
	}

	s.mu.Lock()
	if s.state == StateFinished {
		s.mu.Unlock()
		return false
	}

	side, ok := s.sideOf(requesterID)
	if !ok {
		s.mu.Unlock()
		return false
	}
	roster := s.rosterFor(side)
	if paddleIndex < 0 || paddleIndex >= len(roster) {
		s.mu.Unlock()
		return false
	}
	if roster[paddleIndex].IsBot {
		s.mu.Unlock()
		return false
	}
	paddle := s.layout.Paddle(side, paddleIndex)
	if paddle == nil {
		s.mu.Unlock()
		return false
	}

	speed := s.settings.PaddleSpeedValue()
	if dir == DirectionUp {
		paddle.Pos.Y -= speed
	} else {
		paddle.Pos.Y += speed
	}
	paddle.ClampY()

	snap := s.snapshotLocked()
	s.mu.Unlock()

	// Out-of-band snapshot to cut perceived input latency.
	s.broadcaster.Publish(s.participants(), snap)
	return true
}

// SetPaused toggles (target nil) or sets the pause flag. Only valid while
// playing; the tick timer keeps running so snapshots continue, marked
// paused.
func (s *Session) SetPaused(target *bool) bool {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return false
	}
	next := !s.paused
	if target != nil {
		next = *target
	}
	if next == s.paused {
		s.mu.Unlock()
		return false
	}
	s.paused = next
	msg := proto.PauseState{Type: proto.TypePauseState, GameID: s.ID, Paused: next}
	s.mu.Unlock()

	s.broadcaster.Publish(s.participants(), msg)
	return true
}

// ForceEnd tears the session down from any non-finished state, marking the
// persisted record aborted. Idempotent: repeated calls are no-ops.
func (s *Session) ForceEnd() {
	s.finish(true)
}

// finish performs the terminal transition exactly once: stop the timers,
// leave the registry, persist and notify fire-and-forget, and emit the
// final matchEnded message.
func (s *Session) finish(aborted bool) {
	s.stopOnce.Do(func() {
		close(s.stop)

		s.mu.Lock()
		s.state = StateFinished
		if s.unfreeze != nil {
			s.unfreeze.Stop()
			s.unfreeze = nil
		}
		scores := s.scores
		s.mu.Unlock()

		if s.registry != nil {
			s.registry.Remove(s.ID)
		}

		winnerID := ""
		if !aborted {
			winnerID = s.playerFor(scores.Leader()).ID
		}

		go s.persistResult(scores, winnerID, aborted)
		if !aborted && s.tournamentMatchID != 0 {
			go s.notifyResult(scores, winnerID)
		}

		s.broadcaster.Publish(s.participants(), proto.MatchEnded{
			Type:     proto.TypeMatchEnded,
			GameID:   s.ID,
			WinnerID: winnerID,
			Scores:   scores,
			Aborted:  aborted,
		})

		eventType := logging.EventMatchFinished
		severity := logging.SeverityInfo
		if aborted {
			eventType = logging.EventMatchAborted
			severity = logging.SeverityWarn
		}
		s.publisher.Publish(context.Background(), logging.Event{
			Type:     eventType,
			GameID:   s.ID,
			PlayerID: winnerID,
			Severity: severity,
			Payload:  map[string]any{"left": scores.Left, "right": scores.Right},
		})
	})
}

func (s *Session) persistResult(scores game.Scores, winnerID string, aborted bool) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()
	if err := s.store.FinalizeMatchRecord(ctx, s.ID, scores, winnerID, aborted); err != nil {
		s.log.Error("failed to finalize match record", "error", err)
	}
}

func (s *Session) notifyResult(scores game.Scores, winnerID string) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()
	if err := s.notifier.NotifyMatchResult(ctx, s.ID, s.tournamentMatchID, winnerID, scores); err != nil {
		s.log.Warn("failed to notify match result", "error", err)
	}
}

// HasPlayer reports whether the identity is one of the two registered
// players or appears in a team roster.
func (s *Session) HasPlayer(playerID string) bool {
	if playerID == "" || playerID == BotID {
		return false
	}
	if s.left.ID == playerID || s.right.ID == playerID {
		return true
	}
	for _, entry := range s.leftRoster {
		if entry.PlayerID == playerID && !entry.IsBot {
			return true
		}
	}
	for _, entry := range s.rightRoster {
		if entry.PlayerID == playerID && !entry.IsBot {
			return true
		}
	}
	return false
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Scores returns the current tally.
func (s *Session) Scores() game.Scores {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores
}

// Paused reports the pause flag.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Settings returns the immutable session settings.
func (s *Session) Settings() game.Settings {
	return s.settings
}

func (s *Session) participants() []PlayerRef {
	return []PlayerRef{s.left, s.right}
}

func (s *Session) playerFor(side game.Side) PlayerRef {
	if side == game.SideLeft {
		return s.left
	}
	return s.right
}

// sideOf resolves the requesting identity to its court side. Registered
// players resolve directly; roster identities (local second players) resolve
// through their team.
func (s *Session) sideOf(playerID string) (game.Side, bool) {
	if playerID == "" || playerID == BotID {
		return game.SideLeft, false
	}
	switch playerID {
	case s.left.ID:
		return game.SideLeft, true
	case s.right.ID:
		return game.SideRight, true
	}
	for _, entry := range s.leftRoster {
		if entry.PlayerID == playerID && !entry.IsBot {
			return game.SideLeft, true
		}
	}
	for _, entry := range s.rightRoster {
		if entry.PlayerID == playerID && !entry.IsBot {
			return game.SideRight, true
		}
	}
	return game.SideLeft, false
}

func (s *Session) rosterFor(side game.Side) []RosterEntry {
	if side == game.SideLeft {
		return s.leftRoster
	}
	return s.rightRoster
}

func (s *Session) startMessage() proto.MatchStarted {
	return proto.MatchStarted{
		Type:        proto.TypeMatchStarted,
		GameID:      s.ID,
		Settings:    s.settings,
		LeftRoster:  rosterMessage(s.leftRoster),
		RightRoster: rosterMessage(s.rightRoster),
	}
}

func rosterMessage(roster []RosterEntry) []proto.RosterPlayer {
	players := make([]proto.RosterPlayer, len(roster))
	for i, entry := range roster {
		players[i] = proto.RosterPlayer{
			ID:          entry.PlayerID,
			Name:        entry.Name,
			IsBot:       entry.IsBot,
			PaddleIndex: i,
		}
	}
	return players
}

// snapshotLocked copies the full state into a broadcast message. Callers
// must hold the session mutex.
func (s *Session) snapshotLocked() proto.StateSnapshot {
	snap := proto.StateSnapshot{
		Type:   proto.TypeStateSnapshot,
		GameID: s.ID,
		Ball:   s.ball,
		Layout: s.layout.Clone(),
		Scores: s.scores,
		State:  string(s.state),
		Paused: s.paused,
	}
	if s.state == StateCountdown {
		countdown := s.countdown
		snap.Countdown = &countdown
	}
	return snap
}
