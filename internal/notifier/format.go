package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Vodeneev/tipsbot/internal/estimator"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

// Fixed separators of the text payload.
const (
	fieldSeparator   = " | "
	fixtureSeparator = "\n\n"
	bullet           = "  • "
)

// RenderedFixture pairs a record with the suggestions derived from it.
type RenderedFixture struct {
	Record models.FixtureRecord     `json:"record"`
	Blocks []models.SuggestionBlock `json:"suggestions"`
}

// Rendered is the formatted output for one fetch result.
type Rendered struct {
	Fixtures []RenderedFixture `json:"fixtures"`
	Text     string            `json:"text"`
}

// Formatter derives suggestions and renders the text payload. Apart from the
// confidence value, output depends only on the records.
type Formatter struct {
	estimator estimator.ConfidenceEstimator
	loc       *time.Location
}

func NewFormatter(est estimator.ConfidenceEstimator, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{estimator: est, loc: loc}
}

// Title returns the heading line of a payload.
func Title(sport enums.Sport, date string) string {
	return fmt.Sprintf("%s tips for %s", sport.GetSportInfo().Name, date)
}

// Suggest builds one block per recognised market, in market display order.
func (f *Formatter) Suggest(r models.FixtureRecord) []models.SuggestionBlock {
	if r.IsNotice() || len(r.Odds) == 0 {
		return nil
	}
	markets := make([]enums.Market, 0, len(r.Odds))
	for m := range r.Odds {
		if m.IsValid() {
			markets = append(markets, m)
		}
	}
	sort.Slice(markets, func(i, j int) bool { return markets[i].Order() < markets[j].Order() })

	blocks := make([]models.SuggestionBlock, 0, len(markets))
	for _, m := range markets {
		b := models.SuggestionBlock{
			Market:     m,
			Price:      r.Odds[m],
			Confidence: f.estimator.Estimate(r, m),
		}
		b.Text = formatSuggestion(b)
		blocks = append(blocks, b)
	}
	return blocks
}

// Render formats all records; fixtures are separated by a blank line.
func (f *Formatter) Render(records []models.FixtureRecord) Rendered {
	out := Rendered{Fixtures: make([]RenderedFixture, 0, len(records))}
	parts := make([]string, 0, len(records))
	for _, r := range records {
		blocks := f.Suggest(r)
		out.Fixtures = append(out.Fixtures, RenderedFixture{Record: r, Blocks: blocks})
		parts = append(parts, f.formatFixture(r, blocks))
	}
	out.Text = strings.Join(parts, fixtureSeparator)
	return out
}

func (f *Formatter) formatFixture(r models.FixtureRecord, blocks []models.SuggestionBlock) string {
	if r.IsNotice() {
		return r.Notice
	}

	var builder strings.Builder
	fields := []string{r.League, r.MatchName(), r.KickoffClock(f.loc), string(r.Status)}
	if r.HasScore() {
		fields = append(fields, fmt.Sprintf("%d-%d", *r.HomeScore, *r.AwayScore))
	}
	builder.WriteString(strings.Join(fields, fieldSeparator))

	if len(blocks) == 0 {
		builder.WriteString("\n" + bullet + models.NoOddsPlaceholder)
		return builder.String()
	}
	for _, b := range blocks {
		builder.WriteString("\n" + bullet + b.Text)
	}
	return builder.String()
}

func formatSuggestion(b models.SuggestionBlock) string {
	return fmt.Sprintf("%s @ %s%sconfidence %.0f%%", b.Market.DisplayName(), b.Price.StringFixed(2), fieldSeparator, b.Confidence*100)
}
