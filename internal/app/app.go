// Package app assembles the game server: storage, matchmaking, the session
// registry, the event log router, and the HTTP/websocket surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/calvinhon/ft-transcendence-sub003/internal/match"
	"github.com/calvinhon/ft-transcendence-sub003/internal/net/ws"
	"github.com/calvinhon/ft-transcendence-sub003/internal/notify"
	"github.com/calvinhon/ft-transcendence-sub003/internal/session"
	"github.com/calvinhon/ft-transcendence-sub003/internal/store"
	"github.com/calvinhon/ft-transcendence-sub003/logging"
	loggingSinks "github.com/calvinhon/ft-transcendence-sub003/logging/sinks"
)

const shutdownTimeout = 10 * time.Second

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func Run(ctx context.Context, cfg Config) error {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	router, err := buildEventRouter(cfg.Logging)
	if err != nil {
		return fmt.Errorf("construct event router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			log.Error("failed to close event router", "error", cerr)
		}
	}()

	var matchStore session.MatchStore
	if cfg.DatabaseDSN != "" {
		pg, err := store.Open(cfg.DatabaseDSN, log)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer pg.Close()
		matchStore = pg
	} else {
		log.Warn("no DATABASE_URL set, match records are in-memory only")
		matchStore = store.NewMemory()
	}

	var notifier session.ResultNotifier
	if cfg.TournamentURL != "" {
		notifier = notify.NewTournament(cfg.TournamentURL, log)
	}

	registry := session.NewRegistry()
	starter := &match.Starter{
		Registry:  registry,
		Store:     matchStore,
		Notifier:  notifier,
		Publisher: router,
		Log:       log,
	}
	queue := match.NewQueue(starter, match.QueueOptions{
		Registry:   registry,
		BotTimeout: cfg.BotTimeout,
		Publisher:  router,
		Log:        log,
	})
	defer queue.Close()

	handler := ws.NewHandler(queue, registry, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/diagnostics", func(c *gin.Context) {
		stats := router.Stats()
		c.JSON(http.StatusOK, gin.H{
			"activeSessions": registry.Len(),
			"queuedPlayers":  queue.Len(),
			"sessionIds":     registry.IDs(),
			"events": gin.H{
				"total":   stats.EventsTotal,
				"dropped": stats.DroppedTotal,
			},
		})
	})
	r.GET("/ws/game", ws.JwtAuthMiddleware(cfg.JWTSecret), handler.Handle)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

func buildEventRouter(cfg logging.Config) (*logging.Router, error) {
	var sinks []logging.NamedSink
	if cfg.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout)})
	}
	if cfg.HasSink("json") && cfg.JSON.FilePath != "" {
		jsonSink, err := loggingSinks.NewJSONSink(cfg.JSON.FilePath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: jsonSink})
	}
	return logging.NewRouter(cfg, sinks), nil
}
