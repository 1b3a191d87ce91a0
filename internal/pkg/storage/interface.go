package storage

import (
	"context"
	"time"
)

// Dispatch is one audited pipeline delivery.
type Dispatch struct {
	ID        string
	Source    string
	Sport     string
	Date      string
	Sink      string
	Fixtures  int
	Degraded  bool
	Delivered bool
	Error     string
	CreatedAt time.Time
}

// DispatchJournal records deliveries for auditing. Nothing in the pipeline
// reads it back to make decisions.
type DispatchJournal interface {
	// RecordDispatch stores one dispatch row
	RecordDispatch(ctx context.Context, d Dispatch) error

	// RecentDispatches returns the newest rows first, at most limit
	RecentDispatches(ctx context.Context, limit int) ([]Dispatch, error)

	// Close closes the database connection
	Close() error
}

// NopJournal is used when no database is configured.
type NopJournal struct{}

var _ DispatchJournal = NopJournal{}

func (NopJournal) RecordDispatch(context.Context, Dispatch) error { return nil }

func (NopJournal) RecentDispatches(context.Context, int) ([]Dispatch, error) { return nil, nil }

func (NopJournal) Close() error { return nil }
