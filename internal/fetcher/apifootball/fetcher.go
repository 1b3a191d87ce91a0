package apifootball

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vodeneev/tipsbot/internal/fetcher"
	"github.com/Vodeneev/tipsbot/internal/pkg/config"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
	"github.com/Vodeneev/tipsbot/internal/pkg/validation"
)

func init() {
	fetcher.Register(config.SourceAPIFootball, func(cfg *config.Config) (fetcher.Fetcher, error) {
		af := cfg.Providers.APIFootball
		client := NewClient(af.BaseURL, cfg.Providers.APIKey, af.Timeout)
		return NewFetcher(client, cfg.Location(), af.Leagues), nil
	})
}

// Fetcher reads one day of football fixtures with a single GET.
type Fetcher struct {
	client  *Client
	loc     *time.Location
	leagues map[int]bool
	now     func() time.Time
}

var _ fetcher.Fetcher = (*Fetcher)(nil)

// NewFetcher creates the api-football fetcher. An empty leagues list keeps all leagues.
func NewFetcher(client *Client, loc *time.Location, leagues []int) *Fetcher {
	if loc == nil {
		loc = time.UTC
	}
	set := make(map[int]bool, len(leagues))
	for _, id := range leagues {
		set[id] = true
	}
	return &Fetcher{client: client, loc: loc, leagues: set, now: time.Now}
}

func (f *Fetcher) GetName() string {
	return config.SourceAPIFootball
}

func (f *Fetcher) Fetch(ctx context.Context, q fetcher.Query) ([]models.FixtureRecord, error) {
	if q.Sport != enums.Football {
		return nil, fmt.Errorf("%w: sport %q is not offered by %s", fetcher.ErrInvalidQuery, q.Sport, f.GetName())
	}
	day, err := q.Day(f.now(), f.loc)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.GetFixtures(ctx, day.Format("2006-01-02"), f.loc.String())
	if err != nil {
		return fetcher.Unavailable(f.GetName(), err), nil
	}

	records := make([]models.FixtureRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		if len(f.leagues) > 0 && !f.leagues[item.League.ID] {
			continue
		}
		records = append(records, f.toRecord(item))
	}
	records = validation.CleanRecords(f.GetName(), records)
	if len(records) == 0 {
		return fetcher.NoFixtures(f.GetName()), nil
	}

	slog.Info("Fixtures fetched", "source", f.GetName(), "date", day.Format("2006-01-02"), "count", len(records))
	return records, nil
}

func (f *Fetcher) toRecord(item FixtureItem) models.FixtureRecord {
	status := models.ParseStatus(item.Fixture.Status.Short)
	r := models.FixtureRecord{
		League:  item.League.Name,
		Home:    item.Teams.Home.Name,
		Away:    item.Teams.Away.Name,
		Kickoff: parseKickoff(item.Fixture),
		Status:  status,
		Odds:    mapOdds(item.Odds),
	}
	if status.Started() && item.Goals.Home != nil && item.Goals.Away != nil {
		r.HomeScore = models.IntPtr(*item.Goals.Home)
		r.AwayScore = models.IntPtr(*item.Goals.Away)
	}
	return r
}

func parseKickoff(fi FixtureInfo) time.Time {
	if t, err := time.Parse(time.RFC3339, fi.Date); err == nil {
		return t
	}
	if fi.Timestamp > 0 {
		return time.Unix(fi.Timestamp, 0)
	}
	return time.Time{}
}

// mapOdds keeps recognised markets with a valid decimal price (> 1).
func mapOdds(raw map[string]float64) map[enums.Market]decimal.Decimal {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[enums.Market]decimal.Decimal, len(raw))
	for key, price := range raw {
		m, ok := enums.ParseMarket(key)
		if !ok || price <= 1 {
			continue
		}
		out[m] = decimal.NewFromFloat(price)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
