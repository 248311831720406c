// Package sinks ships the router's built-in event sinks.
package sinks

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/calvinhon/ft-transcendence-sub003/logging"
)

// ConsoleSink renders events as single human-readable lines.
type ConsoleSink struct {
	logger *log.Logger
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{logger: log.New(w, "", log.LstdFlags)}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	s.logger.Printf("[%s] game=%d player=%s severity=%s%s",
		event.Type, event.GameID, orDash(event.PlayerID), formatSeverity(event.Severity), formatPayload(event.Payload))
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatSeverity(sev logging.Severity) string {
	switch sev {
	case logging.SeverityDebug:
		return "debug"
	case logging.SeverityInfo:
		return "info"
	case logging.SeverityWarn:
		return "warn"
	case logging.SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	return fmt.Sprintf(" payload=%v", payload)
}
