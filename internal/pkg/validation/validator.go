package validation

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

// ValidateRecord checks that a fixture record can be rendered.
func ValidateRecord(r models.FixtureRecord) error {
	if r.IsNotice() {
		return nil
	}
	if r.Home == "" {
		return fmt.Errorf("home team cannot be empty")
	}
	if r.Away == "" {
		return fmt.Errorf("away team cannot be empty")
	}
	if (r.HomeScore == nil) != (r.AwayScore == nil) {
		return fmt.Errorf("score must have both sides: %s", r.MatchName())
	}
	for m, price := range r.Odds {
		if !m.IsValid() {
			return fmt.Errorf("unknown market %q: %s", m, r.MatchName())
		}
		if price.LessThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("price for %s must be greater than 1, got %s", m, price)
		}
	}
	return nil
}

// CleanRecords sanitizes provider records and drops the ones that fail
// validation.
func CleanRecords(source string, records []models.FixtureRecord) []models.FixtureRecord {
	out := records[:0]
	for _, r := range records {
		SanitizeRecord(&r)
		if err := ValidateRecord(r); err != nil {
			slog.Debug("Dropping invalid fixture", "source", source, "error", err)
			continue
		}
		out = append(out, r)
	}
	return out
}
