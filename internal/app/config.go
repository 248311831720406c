package app

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/calvinhon/ft-transcendence-sub003/logging"
)

// Config wires the process together. Every field has a sensible default so a
// bare `go run ./cmd/server` starts a working instance without a database.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DatabaseDSN is the Postgres connection string. Empty runs against
	// the in-memory store.
	DatabaseDSN string

	// JWTSecret verifies inbound bearer tokens.
	JWTSecret []byte

	// TournamentURL is the base URL of the tournament service. Empty
	// disables result notifications.
	TournamentURL string

	// BotTimeout is how long a lone queued player waits for an opponent.
	BotTimeout time.Duration

	Logging logging.Config
}

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		JWTSecret:  []byte("dev-secret"),
		BotTimeout: 5 * time.Second,
		Logging:    logging.DefaultConfig(),
	}
}

// FromEnv layers environment overrides onto the defaults. Invalid values are
// logged and skipped rather than fatal.
func FromEnv(log *slog.Logger) Config {
	if log == nil {
		log = slog.Default()
	}
	cfg := DefaultConfig()

	if addr := os.Getenv("GAME_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if secret := os.Getenv("SECRET"); secret != "" {
		cfg.JWTSecret = []byte(secret)
	}
	if url := os.Getenv("TOURNAMENT_URL"); url != "" {
		cfg.TournamentURL = url
	}
	if raw := os.Getenv("MATCHMAKING_TIMEOUT_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.BotTimeout = time.Duration(value) * time.Second
		} else {
			log.Warn("invalid MATCHMAKING_TIMEOUT_SECONDS, using default", "value", raw)
		}
	}
	if path := os.Getenv("EVENT_LOG_PATH"); path != "" {
		cfg.Logging.JSON.FilePath = path
		cfg.Logging.EnabledSinks = append(cfg.Logging.EnabledSinks, "json")
	}
	return cfg
}
