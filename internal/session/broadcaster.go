package session

import (
	"encoding/json"
	"log/slog"
)

// Broadcaster serializes a message once and fans it out to every live
// participant sink. Closed or failing sinks are skipped silently — the
// session must keep ticking regardless of who is still listening.
type Broadcaster struct {
	log *slog.Logger
}

func NewBroadcaster(log *slog.Logger) *Broadcaster {
	if log == nil {
		log = slog.Default()
	}
	return &Broadcaster{log: log}
}

// Publish marshals msg and sends it to each participant's output handle.
func (b *Broadcaster) Publish(players []PlayerRef, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error("failed to marshal broadcast message", "error", err)
		return
	}
	for _, p := range players {
		if p.Output == nil {
			continue
		}
		if err := p.Output.Send(data); err != nil {
			b.log.Debug("skipping unreachable output", "player", p.ID, "error", err)
		}
	}
}
