package session

import (
	petname "github.com/dustinkirkland/golang-petname"
)

// BotID is the sentinel identity for synthetic opponents. It never resolves
// through the registry and its output sink discards everything.
const BotID = "bot"

// Sink is the output port a session writes serialized messages through. The
// engine core never sees a network connection; transports adapt their
// connections to this interface and tests plug in buffers.
type Sink interface {
	Send(data []byte) error
}

// NopSink discards all writes. Bots and locally controlled second players
// use it.
type NopSink struct{}

func (NopSink) Send([]byte) error { return nil }

// PlayerRef identifies one registered participant of a session. Exactly one
// session owns a ref for its lifetime.
type PlayerRef struct {
	ID     string
	Name   string
	IsBot  bool
	Output Sink
}

// NewBotPlayer mints the bot sentinel with a generated display name.
func NewBotPlayer() PlayerRef {
	return PlayerRef{
		ID:     BotID,
		Name:   petname.Generate(2, "-"),
		IsBot:  true,
		Output: NopSink{},
	}
}

// NewLocalPlayer builds a ref for a second player sharing the first player's
// connection (tournament local multiplayer). Output is discarded because the
// owning connection already receives every broadcast.
func NewLocalPlayer(id, name string) PlayerRef {
	return PlayerRef{ID: id, Name: name, Output: NopSink{}}
}

// RosterEntry maps one paddle slot to its controlling identity. In singles
// layouts the roster is derived from the two player refs; in team layouts it
// arrives with the join request.
type RosterEntry struct {
	PlayerID string
	Name     string
	IsBot    bool
}
