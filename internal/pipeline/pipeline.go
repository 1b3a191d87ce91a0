// Package pipeline runs one fetch → suggest → format → send invocation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Vodeneev/tipsbot/internal/fetcher"
	"github.com/Vodeneev/tipsbot/internal/notifier"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/metrics"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
	"github.com/Vodeneev/tipsbot/internal/pkg/storage"
)

const journalTimeout = 3 * time.Second

// Request is one invocation. Deliver=false renders without notifying.
type Request struct {
	Query   fetcher.Query
	Deliver bool
}

// Outcome is what an invocation produced. It is populated even when
// delivery fails so callers can still show the text.
type Outcome struct {
	ID        string                     `json:"id"`
	Source    string                     `json:"source"`
	Sport     enums.Sport                `json:"sport"`
	Date      string                     `json:"date"`
	Title     string                     `json:"title"`
	Records   []models.FixtureRecord     `json:"-"`
	Fixtures  []notifier.RenderedFixture `json:"fixtures"`
	Blocks    []models.SuggestionBlock   `json:"-"`
	Text      string                     `json:"text"`
	Sink      string                     `json:"sink,omitempty"`
	Delivered bool                       `json:"delivered"`
	Degraded  bool                       `json:"degraded"`
}

// Deps are the collaborators of a Pipeline. Journal and Metrics are optional.
type Deps struct {
	Fetcher   fetcher.Fetcher
	Sink      notifier.Sink
	Formatter *notifier.Formatter
	Journal   storage.DispatchJournal
	Metrics   *metrics.Recorder
	Location  *time.Location
}

type Pipeline struct {
	fetcher   fetcher.Fetcher
	sink      notifier.Sink
	formatter *notifier.Formatter
	journal   storage.DispatchJournal
	metrics   *metrics.Recorder
	loc       *time.Location

	now   func() time.Time
	newID func() string
}

func New(d Deps) (*Pipeline, error) {
	if d.Fetcher == nil {
		return nil, fmt.Errorf("pipeline requires a fetcher")
	}
	if d.Sink == nil {
		return nil, fmt.Errorf("pipeline requires a sink")
	}
	if d.Formatter == nil {
		return nil, fmt.Errorf("pipeline requires a formatter")
	}
	if d.Journal == nil {
		d.Journal = storage.NopJournal{}
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	return &Pipeline{
		fetcher:   d.Fetcher,
		sink:      d.Sink,
		formatter: d.Formatter,
		journal:   d.Journal,
		metrics:   d.Metrics,
		loc:       d.Location,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// Run performs one invocation. The only errors are an invalid query
// (fetcher.ErrInvalidQuery) and a failed delivery.
func (p *Pipeline) Run(ctx context.Context, req Request) (Outcome, error) {
	source := p.fetcher.GetName()
	started := time.Now()

	records, err := p.fetcher.Fetch(ctx, req.Query)
	if err != nil {
		p.metrics.ObserveFetch(source, metrics.FetchInvalid, time.Since(started))
		return Outcome{}, err
	}

	out := Outcome{
		ID:       p.newID(),
		Source:   source,
		Sport:    req.Query.Sport,
		Date:     req.Query.DateString(p.now(), p.loc),
		Records:  records,
		Degraded: models.Degraded(records),
	}
	fetchOutcome := metrics.FetchOK
	if out.Degraded {
		fetchOutcome = metrics.FetchDegraded
	}
	p.metrics.ObserveFetch(source, fetchOutcome, time.Since(started))

	rendered := p.formatter.Render(records)
	out.Title = notifier.Title(out.Sport, out.Date)
	out.Fixtures = rendered.Fixtures
	out.Text = rendered.Text
	for _, f := range rendered.Fixtures {
		out.Blocks = append(out.Blocks, f.Blocks...)
	}
	p.metrics.ObserveRecords(records, out.Blocks)

	if !req.Deliver {
		p.metrics.ObserveDelivery(p.sink.Name(), metrics.DeliverySkipped)
		return out, nil
	}

	out.Sink = p.sink.Name()
	msg := notifier.Message{
		ID:       out.ID,
		Sport:    string(out.Sport),
		Date:     out.Date,
		Title:    out.Title,
		Text:     out.Text,
		Fixtures: countFixtures(records),
		SentAt:   p.now().UTC(),
	}
	sendErr := p.sink.Send(ctx, msg)
	out.Delivered = sendErr == nil

	if sendErr != nil {
		p.metrics.ObserveDelivery(out.Sink, metrics.DeliveryFailed)
		slog.Error("Pipeline: delivery failed", "id", out.ID, "sink", out.Sink, "error", sendErr)
		sendErr = fmt.Errorf("notify via %s: %w", out.Sink, sendErr)
	} else {
		p.metrics.ObserveDelivery(out.Sink, metrics.DeliverySent)
		slog.Info("Pipeline: delivered", "id", out.ID, "sink", out.Sink, "source", source,
			"sport", out.Sport, "date", out.Date, "fixtures", msg.Fixtures, "degraded", out.Degraded)
	}

	p.record(ctx, out, msg.Fixtures, sendErr)
	return out, sendErr
}

// record writes the journal row. Failures are logged only.
func (p *Pipeline) record(ctx context.Context, out Outcome, fixtures int, sendErr error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	d := storage.Dispatch{
		ID:        out.ID,
		Source:    out.Source,
		Sport:     string(out.Sport),
		Date:      out.Date,
		Sink:      out.Sink,
		Fixtures:  fixtures,
		Degraded:  out.Degraded,
		Delivered: out.Delivered,
		CreatedAt: p.now().UTC(),
	}
	if sendErr != nil {
		d.Error = sendErr.Error()
	}
	if err := p.journal.RecordDispatch(ctx, d); err != nil {
		slog.Warn("Pipeline: failed to record dispatch", "id", out.ID, "error", err)
	}
}

func countFixtures(records []models.FixtureRecord) int {
	n := 0
	for _, r := range records {
		if !r.IsNotice() {
			n++
		}
	}
	return n
}
