// Package logging carries structured match lifecycle events from the engine
// to pluggable sinks. The tick path only ever enqueues; formatting and I/O
// happen on the router's worker goroutines.
package logging

import (
	"context"
	"time"
)

// EventType names a lifecycle event.
type EventType string

const (
	EventMatchCreated  EventType = "match.created"
	EventMatchStarted  EventType = "match.started"
	EventPointScored   EventType = "match.point"
	EventMatchFinished EventType = "match.finished"
	EventMatchAborted  EventType = "match.aborted"
	EventQueueWaiting  EventType = "queue.waiting"
	EventQueuePaired   EventType = "queue.paired"
	EventQueueBotMatch EventType = "queue.bot_fallback"
)

// Severity orders events for router filtering.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

// Event is one structured lifecycle record.
type Event struct {
	Type     EventType      `json:"type"`
	GameID   int64          `json:"gameId,omitempty"`
	PlayerID string         `json:"playerId,omitempty"`
	Time     time.Time      `json:"time"`
	Severity Severity       `json:"severity"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Publisher accepts events for asynchronous delivery. Implementations must
// never block the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

// NopPublisher discards everything. Components fall back to it when no
// router is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

func cloneEvent(event Event) Event {
	cloned := event
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}
