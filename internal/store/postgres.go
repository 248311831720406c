// Package store persists match records. The Postgres implementation backs
// production; the in-memory implementation backs development and tests.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Match status values persisted in the matches table.
const (
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
	StatusAborted    = "aborted"
)

// Postgres writes match records through database/sql with the pq driver.
type Postgres struct {
	db  *sql.DB
	log *slog.Logger
}

// Open connects, verifies the connection, and applies pending migrations.
func Open(dsn string, log *slog.Logger) (*Postgres, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	log.Info("database migrations applied")

	return &Postgres{db: db, log: log}, nil
}

// CreateMatchRecord inserts the initial record and returns the allocated
// game id. Sessions are only constructed once this id exists.
func (p *Postgres) CreateMatchRecord(ctx context.Context, leftID, rightID string, mode game.Mode) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO matches (left_player, right_player, mode, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		leftID, rightID, string(mode), StatusInProgress,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert match record: %w", err)
	}
	return id, nil
}

// FinalizeMatchRecord stamps the terminal outcome onto an existing record.
func (p *Postgres) FinalizeMatchRecord(ctx context.Context, gameID int64, scores game.Scores, winnerID string, aborted bool) error {
	status := StatusFinished
	if aborted {
		status = StatusAborted
	}
	res, err := p.db.ExecContext(ctx,
		`UPDATE matches
		 SET left_score = $2, right_score = $3, winner_id = NULLIF($4, ''),
		     status = $5, finished_at = NOW()
		 WHERE id = $1`,
		gameID, scores.Left, scores.Right, winnerID, status,
	)
	if err != nil {
		return fmt.Errorf("finalize match record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("finalize match record: no match with id %d", gameID)
	}
	return nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
