// Package proto defines the JSON wire messages exchanged with game clients.
// Inbound events arrive pre-authenticated; the transport layer attaches the
// caller identity before dispatch.
package proto

import "github.com/calvinhon/ft-transcendence-sub003/internal/game"

// Inbound event types.
const (
	TypeJoin        = "join"
	TypeJoinWithBot = "joinWithBot"
	TypeMovePaddle  = "movePaddle"
	TypePause       = "pause"
	TypeDisconnect  = "disconnect"
)

// Outbound message types.
const (
	TypeWaiting       = "waiting"
	TypeMatchStarted  = "matchStarted"
	TypeStateSnapshot = "stateSnapshot"
	TypeMatchEnded    = "matchEnded"
	TypePauseState    = "pauseState"
	TypeError         = "error"
)

// RosterPlayer describes one participant slot on a team.
type RosterPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsBot       bool   `json:"isBot,omitempty"`
	PaddleIndex int    `json:"paddleIndex"`
}

// ClientMessage is the envelope for every inbound event.
type ClientMessage struct {
	Type string `json:"type"`

	// join / joinWithBot
	Settings          *game.Settings `json:"settings,omitempty"`
	OpponentID        string         `json:"opponentId,omitempty"`
	OpponentName      string         `json:"opponentName,omitempty"`
	LeftRoster        []RosterPlayer `json:"leftRoster,omitempty"`
	RightRoster       []RosterPlayer `json:"rightRoster,omitempty"`
	TournamentID      int64          `json:"tournamentId,omitempty"`
	TournamentMatchID int64          `json:"tournamentMatchId,omitempty"`

	// movePaddle
	Direction   string `json:"direction,omitempty"`
	PaddleIndex *int   `json:"paddleIndex,omitempty"`
	// PlayerID selects the paddle owner for local two-player sessions
	// sharing one connection; empty means the connection identity.
	PlayerID string `json:"playerId,omitempty"`

	// pause; nil toggles, otherwise sets the explicit state.
	Paused *bool `json:"paused,omitempty"`
}

// Waiting tells a queued player no opponent is available yet.
type Waiting struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

func NewWaiting() Waiting {
	return Waiting{Type: TypeWaiting, Message: "Waiting for opponent..."}
}

// MatchStarted announces a freshly created session to its participants.
type MatchStarted struct {
	Type        string         `json:"type"`
	GameID      int64          `json:"gameId"`
	Settings    game.Settings  `json:"settings"`
	LeftRoster  []RosterPlayer `json:"leftRoster"`
	RightRoster []RosterPlayer `json:"rightRoster"`
}

// StateSnapshot is the periodic full-state broadcast. No delta compression:
// every tick carries the whole picture.
type StateSnapshot struct {
	Type      string      `json:"type"`
	GameID    int64       `json:"gameId"`
	Ball      game.Ball   `json:"ball"`
	Layout    game.Layout `json:"layout"`
	Scores    game.Scores `json:"scores"`
	State     string      `json:"state"`
	Paused    bool        `json:"paused,omitempty"`
	Countdown *int        `json:"countdownValue,omitempty"`
}

// MatchEnded is the terminal message, distinct from snapshots.
type MatchEnded struct {
	Type     string      `json:"type"`
	GameID   int64       `json:"gameId"`
	WinnerID string      `json:"winnerId,omitempty"`
	Scores   game.Scores `json:"finalScores"`
	Aborted  bool        `json:"aborted,omitempty"`
}

// PauseState acknowledges a pause toggle out of band.
type PauseState struct {
	Type   string `json:"type"`
	GameID int64  `json:"gameId"`
	Paused bool   `json:"paused"`
}

// Error reports a rejected event back to the offending connection.
type Error struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func NewError(reason string) Error {
	return Error{Type: TypeError, Reason: reason}
}
