// Package fetcher turns a (date, sport) query into fixture records from one
// configured source. Provider failures never surface as errors: they degrade
// into a single notice record so callers can still render and deliver text.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

// ErrInvalidQuery marks caller errors (bad date, unsupported sport).
var ErrInvalidQuery = errors.New("invalid query")

const dateLayout = "2006-01-02"

// Fetcher returns fixtures for one query.
//
// The returned error is non-nil only for invalid queries; provider failures
// are reported as a single degraded record.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]models.FixtureRecord, error)
	GetName() string
}

// Query selects fixtures by day and sport.
type Query struct {
	Date  string // "today", "" or YYYY-MM-DD
	Sport enums.Sport
}

// NewQuery parses raw user input into a Query.
func NewQuery(date, sport string) (Query, error) {
	s, ok := enums.ParseSport(sport)
	if !ok {
		return Query{}, fmt.Errorf("%w: unknown sport %q", ErrInvalidQuery, sport)
	}
	q := Query{Date: strings.TrimSpace(date), Sport: s}
	if _, err := q.Day(time.Now(), time.UTC); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Day resolves the query date to midnight in loc. now anchors "today".
func (q Query) Day(now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch strings.ToLower(q.Date) {
	case "", "today":
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	day, err := time.ParseInLocation(dateLayout, q.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD or today", ErrInvalidQuery, q.Date)
	}
	return day, nil
}

// DateString returns the resolved date as YYYY-MM-DD.
func (q Query) DateString(now time.Time, loc *time.Location) string {
	day, err := q.Day(now, loc)
	if err != nil {
		return q.Date
	}
	return day.Format(dateLayout)
}

// Unavailable degrades a provider failure into a single notice record.
func Unavailable(source string, err error) []models.FixtureRecord {
	slog.Warn("Provider unavailable, returning degraded result", "source", source, "error", err)
	return []models.FixtureRecord{models.NoticeRecord("%s: %v", models.ProviderUnavailableNotice, err)}
}

// NoFixtures is the sentinel result for an empty provider response.
func NoFixtures(source string) []models.FixtureRecord {
	slog.Info("Provider returned no fixtures", "source", source)
	return []models.FixtureRecord{models.NoticeRecord(models.NoFixturesNotice)}
}
