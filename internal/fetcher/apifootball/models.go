package apifootball

import "encoding/json"

// API models for api-football v3.
// Fixtures: GET /fixtures?date=YYYY-MM-DD&timezone=Europe/Madrid (header x-apisports-key)

// FixturesResponse is the body of GET /fixtures.
type FixturesResponse struct {
	Get     string          `json:"get"`
	Errors  json.RawMessage `json:"errors"` // [] on success, {"token": "..."} on failure
	Results int             `json:"results"`
	Items   []FixtureItem   `json:"response"`
}

// FixtureItem is one fixture.
type FixtureItem struct {
	Fixture FixtureInfo        `json:"fixture"`
	League  LeagueInfo         `json:"league"`
	Teams   TeamsInfo          `json:"teams"`
	Goals   GoalsInfo          `json:"goals"`
	Odds    map[string]float64 `json:"odds,omitempty"` // present only on odds-enriched plans
}

type FixtureInfo struct {
	ID        int64      `json:"id"`
	Date      string     `json:"date"` // RFC3339 in the requested timezone
	Timestamp int64      `json:"timestamp"`
	Status    StatusInfo `json:"status"`
}

type StatusInfo struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type LeagueInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type TeamsInfo struct {
	Home TeamInfo `json:"home"`
	Away TeamInfo `json:"away"`
}

type TeamInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GoalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
