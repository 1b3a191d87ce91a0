package oddsapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/Vodeneev/tipsbot/internal/fetcher"
	"github.com/Vodeneev/tipsbot/internal/pkg/config"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
	"github.com/Vodeneev/tipsbot/internal/pkg/validation"
)

func init() {
	fetcher.Register(config.SourceTheOddsAPI, func(cfg *config.Config) (fetcher.Fetcher, error) {
		oa := cfg.Providers.TheOddsAPI
		client := NewClient(oa.BaseURL, cfg.Providers.APIKey, oa.Regions, oa.Timeout)
		return NewFetcher(client, cfg.Location(), oa.SportKeys), nil
	})
}

// Fetcher reads one day of events with odds. The provider has no scores, so
// status is derived from the commence time.
type Fetcher struct {
	client    *Client
	loc       *time.Location
	sportKeys map[string]string
	now       func() time.Time
}

var _ fetcher.Fetcher = (*Fetcher)(nil)

func NewFetcher(client *Client, loc *time.Location, sportKeys map[string]string) *Fetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Fetcher{client: client, loc: loc, sportKeys: sportKeys, now: time.Now}
}

func (f *Fetcher) GetName() string {
	return config.SourceTheOddsAPI
}

func (f *Fetcher) sportKey(s enums.Sport) string {
	if key, ok := f.sportKeys[s.String()]; ok && key != "" {
		return key
	}
	return s.GetSportInfo().OddsAPIKey
}

func (f *Fetcher) Fetch(ctx context.Context, q fetcher.Query) ([]models.FixtureRecord, error) {
	key := f.sportKey(q.Sport)
	if key == "" {
		return nil, fmt.Errorf("%w: sport %q has no %s key", fetcher.ErrInvalidQuery, q.Sport, f.GetName())
	}
	now := f.now()
	day, err := q.Day(now, f.loc)
	if err != nil {
		return nil, err
	}

	body, err := f.client.GetOdds(ctx, key, day, day.AddDate(0, 0, 1))
	if err != nil {
		return fetcher.Unavailable(f.GetName(), err), nil
	}
	if !gjson.ValidBytes(body) {
		return fetcher.Unavailable(f.GetName(), fmt.Errorf("invalid JSON body")), nil
	}
	events := gjson.ParseBytes(body)
	if !events.IsArray() {
		return fetcher.Unavailable(f.GetName(), fmt.Errorf("unexpected payload: %s", truncate(events.Raw, 120))), nil
	}

	var records []models.FixtureRecord
	events.ForEach(func(_, ev gjson.Result) bool {
		records = append(records, toRecord(ev, now))
		return true
	})
	records = validation.CleanRecords(f.GetName(), records)
	if len(records) == 0 {
		return fetcher.NoFixtures(f.GetName()), nil
	}

	slog.Info("Fixtures fetched", "source", f.GetName(), "sport_key", key, "date", day.Format("2006-01-02"), "count", len(records))
	return records, nil
}

func toRecord(ev gjson.Result, now time.Time) models.FixtureRecord {
	home := ev.Get("home_team").String()
	away := ev.Get("away_team").String()

	kickoff, _ := time.Parse(time.RFC3339, ev.Get("commence_time").String())
	status := models.StatusScheduled
	if !kickoff.IsZero() && !kickoff.After(now) {
		status = models.StatusInProgress
	}

	return models.FixtureRecord{
		League:  ev.Get("sport_title").String(),
		Home:    home,
		Away:    away,
		Kickoff: kickoff,
		Status:  status,
		Odds:    collectOdds(ev.Get("bookmakers"), home, away),
	}
}

// collectOdds walks bookmakers in provider order; the first bookmaker that
// prices a market wins.
func collectOdds(bookmakers gjson.Result, home, away string) map[enums.Market]decimal.Decimal {
	out := make(map[enums.Market]decimal.Decimal)
	bookmakers.ForEach(func(_, bm gjson.Result) bool {
		bm.Get("markets").ForEach(func(_, mk gjson.Result) bool {
			mk.Get("outcomes").ForEach(func(_, oc gjson.Result) bool {
				m, ok := outcomeMarket(mk.Get("key").String(), oc, home, away)
				if !ok {
					return true
				}
				price := oc.Get("price").Float()
				if _, seen := out[m]; !seen && price > 1 {
					out[m] = decimal.NewFromFloat(price)
				}
				return true
			})
			return true
		})
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func outcomeMarket(marketKey string, oc gjson.Result, home, away string) (enums.Market, bool) {
	name := oc.Get("name").String()
	switch marketKey {
	case "h2h":
		switch name {
		case home:
			return enums.HomeWin, true
		case away:
			return enums.AwayWin, true
		case "Draw":
			return enums.Draw, true
		}
	case "totals":
		return enums.TotalsMarket(name, oc.Get("point").Float())
	case "btts":
		if name == "Yes" {
			return enums.BothTeamsScore, true
		}
	}
	return "", false
}

// truncate caps s at maxLen runes so error text stays valid UTF-8.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
