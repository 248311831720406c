// Package ws is the websocket transport in front of the game engine. It
// authenticates connections, adapts them to the session output port, and
// dispatches inbound events to the matchmaking queue and the registry.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
	"github.com/calvinhon/ft-transcendence-sub003/internal/match"
	"github.com/calvinhon/ft-transcendence-sub003/internal/proto"
	"github.com/calvinhon/ft-transcendence-sub003/internal/session"
)

// Handler serves one websocket connection per authenticated player.
type Handler struct {
	queue    *match.Queue
	registry *session.Registry
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewHandler(queue *match.Queue, registry *session.Registry, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		queue:    queue,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// Handle upgrades the request and runs the connection's read loop until the
// client disconnects.
func (h *Handler) Handle(c *gin.Context) {
	claims, err := getClaims(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "playerId", claims.ID, "error", err)
		return
	}

	connID := uuid.NewString()
	sink := newConnSink(conn)
	log := h.log.With("connId", connID, "playerId", claims.ID)
	log.Info("connection established", "username", claims.Username)

	h.serve(claims, conn, sink, log)
}

func (h *Handler) serve(claims Claims, conn *websocket.Conn, sink *connSink, log *slog.Logger) {
	defer func() {
		h.drop(claims.ID)
		sink.Close()
		log.Info("connection closed")
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg proto.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Debug("discarding malformed message", "error", err)
			h.sendError(sink, "malformed message")
			continue
		}

		ctx := context.Background()
		switch msg.Type {
		case proto.TypeJoin:
			if _, err := h.queue.Enqueue(ctx, h.buildRequest(claims, sink, msg)); err != nil {
				h.sendError(sink, joinErrorReason(err))
			}
		case proto.TypeJoinWithBot:
			req := h.buildRequest(claims, sink, msg)
			var err error
			if msg.OpponentID != "" {
				// Local second player on the same connection.
				_, err = h.queue.StartDirect(ctx, req,
					session.NewLocalPlayer(msg.OpponentID, msg.OpponentName))
			} else {
				_, err = h.queue.EnqueueWithBot(ctx, req)
			}
			if err != nil {
				h.sendError(sink, joinErrorReason(err))
			}
		case proto.TypeMovePaddle:
			s, ok := h.registry.FindByPlayer(claims.ID)
			if !ok {
				continue
			}
			requester := claims.ID
			if msg.PlayerID != "" {
				requester = msg.PlayerID
			}
			paddleIndex := 0
			if msg.PaddleIndex != nil {
				paddleIndex = *msg.PaddleIndex
			}
			// Rejections are silent no-ops.
			s.MovePaddle(requester, session.Direction(msg.Direction), paddleIndex)
		case proto.TypePause:
			s, ok := h.registry.FindByPlayer(claims.ID)
			if !ok {
				continue
			}
			s.SetPaused(msg.Paused)
		case proto.TypeDisconnect:
			return
		default:
			log.Debug("unknown message type", "type", msg.Type)
			h.sendError(sink, "unknown message type")
		}
	}
}

// drop cleans up whatever the player was doing: a waiting queue entry is
// removed, a running session is force-ended.
func (h *Handler) drop(playerID string) {
	h.queue.Remove(playerID)
	if s, ok := h.registry.FindByPlayer(playerID); ok {
		s.ForceEnd()
	}
}

func (h *Handler) buildRequest(claims Claims, sink *connSink, msg proto.ClientMessage) match.Request {
	settings := game.Settings{}
	if msg.Settings != nil {
		settings = *msg.Settings
	}
	return match.Request{
		Player: session.PlayerRef{
			ID:     claims.ID,
			Name:   claims.Username,
			Output: sink,
		},
		Settings:          settings,
		LeftRoster:        rosterEntries(msg.LeftRoster),
		RightRoster:       rosterEntries(msg.RightRoster),
		TournamentID:      msg.TournamentID,
		TournamentMatchID: msg.TournamentMatchID,
	}
}

func rosterEntries(players []proto.RosterPlayer) []session.RosterEntry {
	if len(players) == 0 {
		return nil
	}
	entries := make([]session.RosterEntry, len(players))
	for i, p := range players {
		entries[i] = session.RosterEntry{PlayerID: p.ID, Name: p.Name, IsBot: p.IsBot}
	}
	return entries
}

func (h *Handler) sendError(sink *connSink, reason string) {
	data, err := json.Marshal(proto.NewError(reason))
	if err != nil {
		return
	}
	sink.Send(data)
}

func joinErrorReason(err error) string {
	switch err {
	case match.ErrAlreadyQueued:
		return "already queued"
	case match.ErrInGame:
		return "already in a game"
	default:
		return "failed to join"
	}
}
