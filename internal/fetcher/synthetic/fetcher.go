// Package synthetic serves a fixed demonstration list when no live provider
// is wired in.
package synthetic

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vodeneev/tipsbot/internal/fetcher"
	"github.com/Vodeneev/tipsbot/internal/pkg/config"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

func init() {
	fetcher.Register(config.SourceSynthetic, func(cfg *config.Config) (fetcher.Fetcher, error) {
		return NewFetcher(cfg.Location()), nil
	})
}

type fixture struct {
	league     string
	home, away string
	hour, min  int
	status     models.Status
	score      []int
	odds       map[enums.Market]string
}

var fixtures = map[enums.Sport][]fixture{
	enums.Football: {
		{"La Liga", "Real Betis", "Villarreal", 14, 0, models.StatusFinished, []int{2, 2},
			map[enums.Market]string{enums.Over15: "1.28", enums.Over25: "1.85", enums.BothTeamsScore: "1.70"}},
		{"Premier League", "Arsenal", "Brighton", 17, 30, models.StatusInProgress, []int{1, 0},
			map[enums.Market]string{enums.HomeWin: "1.55", enums.Over25: "1.72"}},
		{"Serie A", "Atalanta", "Lazio", 20, 45, models.StatusScheduled, nil,
			map[enums.Market]string{enums.HomeWin: "2.05", enums.Draw: "3.40", enums.AwayWin: "3.60", enums.Over15: "1.33", enums.Under25: "2.10", enums.BothTeamsScore: "1.62"}},
		{"Liga Portugal", "Boavista", "Estoril", 21, 15, models.StatusScheduled, nil, nil},
	},
	enums.Basketball: {
		{"EuroLeague", "Real Madrid", "Olympiacos", 20, 30, models.StatusScheduled, nil,
			map[enums.Market]string{enums.HomeWin: "1.60", enums.AwayWin: "2.35"}},
		{"ACB", "Unicaja", "Valencia Basket", 18, 0, models.StatusScheduled, nil, nil},
	},
	enums.Hockey: {
		{"NHL", "Boston Bruins", "Toronto Maple Leafs", 1, 0, models.StatusScheduled, nil,
			map[enums.Market]string{enums.HomeWin: "2.20", enums.Draw: "4.10", enums.AwayWin: "2.75"}},
	},
	enums.Tennis: {
		{"ATP Paris", "Alcaraz C.", "Rune H.", 13, 0, models.StatusScheduled, nil,
			map[enums.Market]string{enums.HomeWin: "1.30", enums.AwayWin: "3.50"}},
	},
}

// Fetcher returns the fixed list for the query's sport, dated on the query day.
type Fetcher struct {
	loc *time.Location
	now func() time.Time
}

var _ fetcher.Fetcher = (*Fetcher)(nil)

func NewFetcher(loc *time.Location) *Fetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Fetcher{loc: loc, now: time.Now}
}

func (f *Fetcher) GetName() string {
	return config.SourceSynthetic
}

func (f *Fetcher) Fetch(_ context.Context, q fetcher.Query) ([]models.FixtureRecord, error) {
	day, err := q.Day(f.now(), f.loc)
	if err != nil {
		return nil, err
	}

	list := fixtures[q.Sport]
	if len(list) == 0 {
		return fetcher.NoFixtures(f.GetName()), nil
	}

	records := make([]models.FixtureRecord, 0, len(list))
	for _, fx := range list {
		r := models.FixtureRecord{
			League:  fx.league,
			Home:    fx.home,
			Away:    fx.away,
			Kickoff: day.Add(time.Duration(fx.hour)*time.Hour + time.Duration(fx.min)*time.Minute),
			Status:  fx.status,
		}
		if len(fx.score) == 2 {
			r.HomeScore = models.IntPtr(fx.score[0])
			r.AwayScore = models.IntPtr(fx.score[1])
		}
		if len(fx.odds) > 0 {
			r.Odds = make(map[enums.Market]decimal.Decimal, len(fx.odds))
			for m, price := range fx.odds {
				r.Odds[m] = decimal.RequireFromString(price)
			}
		}
		records = append(records, r)
	}
	return records, nil
}
