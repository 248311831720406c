package match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
	"github.com/calvinhon/ft-transcendence-sub003/internal/session"
)

type startCall struct {
	left  session.PlayerRef
	right session.PlayerRef
	cfg   session.Config
}

type fakeStarter struct {
	mu     sync.Mutex
	nextID int64
	calls  []startCall
	err    error
}

func (f *fakeStarter) StartSession(_ context.Context, left, right session.PlayerRef, cfg session.Config) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, startCall{left: left, right: right, cfg: cfg})
	f.nextID++
	return session.New(f.nextID, left, right, cfg, session.Deps{}), nil
}

func (f *fakeStarter) started() []startCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]startCall, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// manualScheduler collects scheduled calls and fires them only on demand.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
	mu      *sync.Mutex
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (m *manualScheduler) Schedule(_ time.Duration, fn func()) TimerHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{fn: fn, mu: &m.mu}
	m.pending = append(m.pending, t)
	return t
}

// fire runs every scheduled call that has not been stopped.
func (m *manualScheduler) fire() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	var live []func()
	for _, t := range pending {
		if !t.stopped {
			live = append(live, t.fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range live {
		fn()
	}
}

func (m *manualScheduler) pendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

func testQueue(t *testing.T) (*Queue, *fakeStarter, *manualScheduler) {
	t.Helper()
	starter := &fakeStarter{}
	scheduler := &manualScheduler{}
	q := NewQueue(starter, QueueOptions{Scheduler: scheduler})
	return q, starter, scheduler
}

func playerReq(id string) Request {
	return Request{
		Player:   session.PlayerRef{ID: id, Name: id, Output: session.NopSink{}},
		Settings: game.Settings{Mode: game.ModeDuel, BallSpeed: game.SpeedSlow},
	}
}

func TestEnqueuePairsFIFO(t *testing.T) {
	q, starter, scheduler := testQueue(t)
	ctx := context.Background()

	if s, err := q.Enqueue(ctx, playerReq("alice")); err != nil || s != nil {
		t.Fatalf("first enqueue should wait, got session=%v err=%v", s, err)
	}
	if q.Len() != 1 {
		t.Fatalf("expected one waiting entry, got %d", q.Len())
	}

	s, err := q.Enqueue(ctx, playerReq("bob"))
	if err != nil {
		t.Fatalf("pairing enqueue: %v", err)
	}
	if s == nil {
		t.Fatalf("second enqueue must produce a session")
	}
	if q.Len() != 0 {
		t.Fatalf("pairing must empty the queue, got %d waiting", q.Len())
	}

	calls := starter.started()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one session start, got %d", len(calls))
	}
	if calls[0].left.ID != "alice" || calls[0].right.ID != "bob" {
		t.Fatalf("expected oldest entry on the left: %q vs %q", calls[0].left.ID, calls[0].right.ID)
	}

	// Pairing must cancel the pending bot fallback.
	scheduler.fire()
	if len(starter.started()) != 1 {
		t.Fatalf("cancelled fallback still fired")
	}
}

func TestEnqueueRejectsDuplicate(t *testing.T) {
	q, _, _ := testQueue(t)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, playerReq("alice")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := q.Enqueue(ctx, playerReq("alice")); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("expected ErrAlreadyQueued, got %v", err)
	}
}

func TestEnqueueRejectsPlayerInGame(t *testing.T) {
	starter := &fakeStarter{}
	registry := session.NewRegistry()
	q := NewQueue(starter, QueueOptions{Registry: registry, Scheduler: &manualScheduler{}})
	ctx := context.Background()

	s, err := q.EnqueueWithBot(ctx, playerReq("alice"))
	if err != nil {
		t.Fatalf("bot enqueue: %v", err)
	}
	if err := registry.Add(s); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := q.Enqueue(ctx, playerReq("alice")); !errors.Is(err, ErrInGame) {
		t.Fatalf("expected ErrInGame, got %v", err)
	}
}

func TestTimeoutCreatesBotSession(t *testing.T) {
	q, starter, scheduler := testQueue(t)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, playerReq("alice")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	scheduler.fire()

	calls := starter.started()
	if len(calls) != 1 {
		t.Fatalf("expected one bot session, got %d", len(calls))
	}
	if calls[0].left.ID != "alice" {
		t.Fatalf("waiting player must keep the left slot, got %q", calls[0].left.ID)
	}
	if !calls[0].right.IsBot || calls[0].right.ID != session.BotID {
		t.Fatalf("expected the bot sentinel on the right, got %+v", calls[0].right)
	}
	if q.Len() != 0 {
		t.Fatalf("timed-out entry must leave the queue")
	}

	// Firing again is a no-op.
	scheduler.fire()
	if len(starter.started()) != 1 {
		t.Fatalf("stale timer created a second session")
	}
}

func TestRemoveCancelsFallback(t *testing.T) {
	q, starter, scheduler := testQueue(t)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, playerReq("alice")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if !q.Remove("alice") {
		t.Fatalf("expected removal of the waiting entry")
	}
	if q.Remove("alice") {
		t.Fatalf("second remove must be a no-op")
	}

	scheduler.fire()
	if len(starter.started()) != 0 {
		t.Fatalf("removed entry must never become a session")
	}
	if scheduler.pendingCount() != 0 {
		t.Fatalf("removal must cancel the pending timer")
	}
}

func TestConcurrentJoinsPairExactlyOnce(t *testing.T) {
	q, starter, _ := testQueue(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := q.Enqueue(ctx, playerReq(id)); err != nil {
				t.Errorf("enqueue %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	if got := len(starter.started()); got != 1 {
		t.Fatalf("two concurrent joins must produce exactly one session, got %d", got)
	}
	if q.Len() != 0 {
		t.Fatalf("queue must be empty after pairing, got %d", q.Len())
	}
}

func TestEnqueueWithBotStartsImmediately(t *testing.T) {
	q, starter, _ := testQueue(t)
	ctx := context.Background()

	req := playerReq("alice")
	req.Settings.Mode = game.ModeArcade
	req.Settings.RightTeamSize = 2
	s, err := q.EnqueueWithBot(ctx, req)
	if err != nil {
		t.Fatalf("bot enqueue: %v", err)
	}
	if s == nil {
		t.Fatalf("direct bot path must return the session")
	}
	calls := starter.started()
	if len(calls) != 1 || !calls[0].right.IsBot {
		t.Fatalf("expected one bot-backed start, got %+v", calls)
	}
}

func TestStarterFailureSurfacesError(t *testing.T) {
	starter := &fakeStarter{err: errors.New("db down")}
	q := NewQueue(starter, QueueOptions{Scheduler: &manualScheduler{}})
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, playerReq("alice")); err != nil {
		t.Fatalf("waiting enqueue should not touch the starter: %v", err)
	}
	if _, err := q.Enqueue(ctx, playerReq("bob")); err == nil {
		t.Fatalf("pairing must surface the starter error")
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	q, starter, scheduler := testQueue(t)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, playerReq("alice")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	q.Close()

	if _, err := q.Enqueue(ctx, playerReq("bob")); err == nil {
		t.Fatalf("closed queue must reject enqueues")
	}
	scheduler.fire()
	if len(starter.started()) != 0 {
		t.Fatalf("closed queue must not start sessions")
	}
}
