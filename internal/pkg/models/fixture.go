package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
)

// Notices carried by degraded fixture records.
const (
	NoFixturesNotice          = "no fixtures found"
	ProviderUnavailableNotice = "provider unavailable"
	NoOddsPlaceholder         = "no odds available"
)

// Status is the short fixture status code shown next to a fixture.
type Status string

const (
	StatusScheduled  Status = "NS"
	StatusInProgress Status = "LIVE"
	StatusFinished   Status = "FT"
	StatusUnknown    Status = "?"
)

// ParseStatus maps provider short codes (api-football style) to a Status.
func ParseStatus(code string) Status {
	switch code {
	case "NS", "TBD":
		return StatusScheduled
	case "1H", "HT", "2H", "ET", "BT", "P", "LIVE", "INT", "SUSP":
		return StatusInProgress
	case "FT", "AET", "PEN":
		return StatusFinished
	default:
		return StatusUnknown
	}
}

// Started reports whether play has begun, i.e. scores are meaningful.
func (s Status) Started() bool {
	return s == StatusInProgress || s == StatusFinished
}

// FixtureRecord is one sporting event normalised from a provider.
type FixtureRecord struct {
	League    string                           `json:"league"`
	Home      string                           `json:"home"`
	Away      string                           `json:"away"`
	Kickoff   time.Time                        `json:"kickoff"`
	Status    Status                           `json:"status"`
	HomeScore *int                             `json:"home_score,omitempty"`
	AwayScore *int                             `json:"away_score,omitempty"`
	Odds      map[enums.Market]decimal.Decimal `json:"odds,omitempty"`

	// Notice replaces structured data when the fetch degraded.
	Notice string `json:"notice,omitempty"`
}

// NoticeRecord builds a degraded single-line record.
func NoticeRecord(format string, args ...any) FixtureRecord {
	return FixtureRecord{Notice: fmt.Sprintf(format, args...)}
}

// IsNotice reports whether the record only carries a notice.
func (r FixtureRecord) IsNotice() bool {
	return r.Notice != ""
}

// HasScore reports whether both scores are present.
func (r FixtureRecord) HasScore() bool {
	return r.HomeScore != nil && r.AwayScore != nil
}

// MatchName returns "Home vs Away".
func (r FixtureRecord) MatchName() string {
	return r.Home + " vs " + r.Away
}

// KickoffClock returns the kickoff truncated to hour:minute in loc.
func (r FixtureRecord) KickoffClock(loc *time.Location) string {
	if r.Kickoff.IsZero() {
		return "--:--"
	}
	if loc == nil {
		loc = time.UTC
	}
	return r.Kickoff.In(loc).Format("15:04")
}

// Degraded reports whether a fetch result is a single notice record.
func Degraded(records []FixtureRecord) bool {
	return len(records) == 1 && records[0].IsNotice()
}

// SuggestionBlock is one rendered betting suggestion for a fixture.
type SuggestionBlock struct {
	Market     enums.Market    `json:"market"`
	Price      decimal.Decimal `json:"price"`
	Confidence float64         `json:"confidence"`
	Text       string          `json:"text"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
