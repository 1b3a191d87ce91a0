package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vodeneev/tipsbot/internal/pkg/config"
)

// Ensure PostgresDispatchJournal implements DispatchJournal
var _ DispatchJournal = (*PostgresDispatchJournal)(nil)

// PostgresDispatchJournal stores dispatch records in PostgreSQL
type PostgresDispatchJournal struct {
	db *sql.DB
}

// NewDispatchJournal returns a Postgres journal when a DSN is configured and
// a NopJournal otherwise.
func NewDispatchJournal(cfg *config.PostgresConfig) (DispatchJournal, error) {
	if cfg == nil || cfg.DSN == "" {
		slog.Info("Dispatch journal disabled (postgres.dsn is empty)")
		return NopJournal{}, nil
	}
	return NewPostgresDispatchJournal(cfg)
}

// NewPostgresDispatchJournal opens the database and creates the schema.
func NewPostgresDispatchJournal(cfg *config.PostgresConfig) (*PostgresDispatchJournal, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	journal := &PostgresDispatchJournal{db: db}
	if err := journal.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL dispatch journal initialized successfully")
	return journal, nil
}

func (s *PostgresDispatchJournal) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id UUID PRIMARY KEY,
		source VARCHAR(100) NOT NULL,
		sport VARCHAR(100) NOT NULL,
		date VARCHAR(10) NOT NULL,
		sink VARCHAR(100) NOT NULL,
		fixtures INTEGER NOT NULL,
		degraded BOOLEAN NOT NULL,
		delivered BOOLEAN NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_dispatches_created_at ON dispatches(created_at DESC);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// RecordDispatch inserts a dispatch; a repeated id is ignored.
func (s *PostgresDispatchJournal) RecordDispatch(ctx context.Context, d Dispatch) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO dispatches (
		id, source, sport, date, sink,
		fixtures, degraded, delivered, error, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		d.ID,
		d.Source,
		d.Sport,
		d.Date,
		d.Sink,
		d.Fixtures,
		d.Degraded,
		d.Delivered,
		d.Error,
		d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store dispatch: %w", err)
	}
	return nil
}

// RecentDispatches gets the latest dispatches, newest first
func (s *PostgresDispatchJournal) RecentDispatches(ctx context.Context, limit int) ([]Dispatch, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, source, sport, date, sink, fixtures, degraded, delivered, error, created_at
	FROM dispatches
	ORDER BY created_at DESC
	LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatches: %w", err)
	}
	defer rows.Close()

	var dispatches []Dispatch
	for rows.Next() {
		var d Dispatch
		err := rows.Scan(
			&d.ID,
			&d.Source,
			&d.Sport,
			&d.Date,
			&d.Sink,
			&d.Fixtures,
			&d.Degraded,
			&d.Delivered,
			&d.Error,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispatch: %w", err)
		}
		dispatches = append(dispatches, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return dispatches, nil
}

// Close closes the database connection
func (s *PostgresDispatchJournal) Close() error {
	return s.db.Close()
}
