package enums

import "strings"

// Market is a bet type offered on a fixture.
type Market string

const (
	HomeWin        Market = "home"
	Draw           Market = "draw"
	AwayWin        Market = "away"
	Over15         Market = "over1.5"
	Over25         Market = "over2.5"
	Under25        Market = "under2.5"
	BothTeamsScore Market = "btts"
)

// GetAllMarkets returns recognised markets in display order.
func GetAllMarkets() []Market {
	return []Market{HomeWin, Draw, AwayWin, Over15, Over25, Under25, BothTeamsScore}
}

// DisplayName returns the human-readable market name.
func (m Market) DisplayName() string {
	switch m {
	case HomeWin:
		return "Home win"
	case Draw:
		return "Draw"
	case AwayWin:
		return "Away win"
	case Over15:
		return "Over 1.5 goals"
	case Over25:
		return "Over 2.5 goals"
	case Under25:
		return "Under 2.5 goals"
	case BothTeamsScore:
		return "Both teams score"
	default:
		return string(m)
	}
}

// Order returns the display position of a market; unknown markets sort last.
func (m Market) Order() int {
	for i, known := range GetAllMarkets() {
		if known == m {
			return i
		}
	}
	return len(GetAllMarkets())
}

// IsValid checks if the market is recognised
func (m Market) IsValid() bool {
	return m.Order() < len(GetAllMarkets())
}

// String returns string representation
func (m Market) String() string {
	return string(m)
}

var marketAliases = map[string]Market{
	"home":             HomeWin,
	"1":                HomeWin,
	"homewin":          HomeWin,
	"draw":             Draw,
	"x":                Draw,
	"away":             AwayWin,
	"2":                AwayWin,
	"awaywin":          AwayWin,
	"over1.5":          Over15,
	"over1.5goals":     Over15,
	"over2.5":          Over25,
	"over2.5goals":     Over25,
	"under2.5":         Under25,
	"under2.5goals":    Under25,
	"btts":             BothTeamsScore,
	"bttsyes":          BothTeamsScore,
	"bothteamsscore":   BothTeamsScore,
	"bothteamstoscore": BothTeamsScore,
}

// ParseMarket normalises a provider market key ("Over 2.5", "btts_yes",
// "Both Teams Score") to a recognised Market.
func ParseMarket(s string) (Market, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "", "_", "", "-", "", ":", "").Replace(n)
	if m, ok := marketAliases[n]; ok {
		return m, true
	}
	return "", false
}

// TotalsMarket maps an over/under outcome with a goal line to a Market.
func TotalsMarket(side string, point float64) (Market, bool) {
	var key string
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "over":
		key = "over"
	case "under":
		key = "under"
	default:
		return "", false
	}
	switch point {
	case 1.5:
		key += "1.5"
	case 2.5:
		key += "2.5"
	default:
		return "", false
	}
	return ParseMarket(key)
}
