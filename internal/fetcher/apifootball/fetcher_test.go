package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/tipsbot/internal/fetcher"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

const fixturesBody = `{
  "get": "fixtures",
  "errors": [],
  "results": 3,
  "response": [
    {
      "fixture": {"id": 1, "date": "2026-10-19T18:30:00+00:00", "timestamp": 1792434600, "status": {"long": "Not Started", "short": "NS", "elapsed": null}},
      "league": {"id": 140, "name": "La Liga", "country": "Spain"},
      "teams": {"home": {"id": 529, "name": "Barcelona"}, "away": {"id": 548, "name": "Real Sociedad"}},
      "goals": {"home": null, "away": null},
      "odds": {"Over 2.5": 1.95, "btts_yes": 1.72, "Corners Over 9.5": 1.8}
    },
    {
      "fixture": {"id": 2, "date": "2026-10-19T16:00:00+00:00", "timestamp": 1792425600, "status": {"long": "Second Half", "short": "2H", "elapsed": 67}},
      "league": {"id": 39, "name": "Premier League", "country": "England"},
      "teams": {"home": {"id": 40, "name": "Liverpool"}, "away": {"id": 49, "name": "Chelsea"}},
      "goals": {"home": 1, "away": 0}
    },
    {
      "fixture": {"id": 3, "date": "2026-10-19T20:00:00+00:00", "timestamp": 1792440000, "status": {"long": "Not Started", "short": "NS", "elapsed": null}},
      "league": {"id": 999, "name": "Friendlies", "country": "World"},
      "teams": {"home": {"id": 1, "name": "A"}, "away": {"id": 2, "name": "B"}},
      "goals": {"home": null, "away": null}
    }
  ]
}`

func newTestFetcher(t *testing.T, handler http.HandlerFunc, leagues []int) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewFetcher(NewClient(srv.URL, "secret-key", 5*time.Second), time.UTC, leagues)
	f.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return f
}

func TestFetch_MapsProviderFields(t *testing.T) {
	var gotKey, gotDate, gotTZ string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-apisports-key")
		gotDate = r.URL.Query().Get("date")
		gotTZ = r.URL.Query().Get("timezone")
		assert.Equal(t, "/fixtures", r.URL.Path)
		_, _ = w.Write([]byte(fixturesBody))
	}, []int{140, 39})

	records, err := f.Fetch(context.Background(), fetcher.Query{Date: "today", Sport: enums.Football})
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "2026-10-19", gotDate)
	assert.Equal(t, "UTC", gotTZ)

	require.Len(t, records, 2, "league filter should drop the friendly")

	barca := records[0]
	assert.Equal(t, "La Liga", barca.League)
	assert.Equal(t, "Barcelona", barca.Home)
	assert.Equal(t, "Real Sociedad", barca.Away)
	assert.Equal(t, "18:30", barca.KickoffClock(time.UTC))
	assert.Equal(t, models.StatusScheduled, barca.Status)
	assert.False(t, barca.HasScore())
	require.Len(t, barca.Odds, 2, "unrecognised market should be ignored")
	assert.Equal(t, "1.95", barca.Odds[enums.Over25].StringFixed(2))
	assert.Equal(t, "1.72", barca.Odds[enums.BothTeamsScore].StringFixed(2))

	pool := records[1]
	assert.Equal(t, models.StatusInProgress, pool.Status)
	require.True(t, pool.HasScore())
	assert.Equal(t, 1, *pool.HomeScore)
	assert.Equal(t, 0, *pool.AwayScore)
	assert.Nil(t, pool.Odds)
}

func TestFetch_EmptyResultReturnsSentinel(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"get":"fixtures","errors":[],"results":0,"response":[]}`))
	}, nil)

	records, err := f.Fetch(context.Background(), fetcher.Query{Sport: enums.Football})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.NoFixturesNotice, records[0].Notice)
}

func TestFetch_NonSuccessStatusDegrades(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}, nil)

		records, err := f.Fetch(context.Background(), fetcher.Query{Sport: enums.Football})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].IsNotice())
		assert.Contains(t, records[0].Notice, models.ProviderUnavailableNotice)
		assert.Contains(t, records[0].Notice, fmt.Sprintf("status %d", code))
	}
}

func TestFetch_ProviderErrorPayloadDegrades(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"get":"fixtures","errors":{"token":"Error/Missing application key."},"results":0,"response":[]}`))
	}, nil)

	records, err := f.Fetch(context.Background(), fetcher.Query{Sport: enums.Football})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Notice, "Missing application key")
}

func TestFetch_UnreachableProviderDegrades(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewFetcher(NewClient(url, "k", time.Second), time.UTC, nil)
	records, err := f.Fetch(context.Background(), fetcher.Query{Sport: enums.Football})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Notice, models.ProviderUnavailableNotice)
}

func TestFetch_InvalidQuery(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called for an invalid query")
	}, nil)

	_, err := f.Fetch(context.Background(), fetcher.Query{Sport: enums.Tennis})
	assert.True(t, errors.Is(err, fetcher.ErrInvalidQuery))

	_, err = f.Fetch(context.Background(), fetcher.Query{Date: "tomorrow", Sport: enums.Football})
	assert.True(t, errors.Is(err, fetcher.ErrInvalidQuery))
}
