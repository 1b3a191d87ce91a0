package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/tipsbot/internal/estimator"
	"github.com/Vodeneev/tipsbot/internal/fetcher/synthetic"
	"github.com/Vodeneev/tipsbot/internal/notifier"
	"github.com/Vodeneev/tipsbot/internal/pipeline"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/metrics"
	"github.com/Vodeneev/tipsbot/internal/pkg/storage"
)

type failingSink struct {
	err error
}

func (s failingSink) Send(context.Context, notifier.Message) error { return s.err }

func (s failingSink) Name() string { return "telegram" }

func (s failingSink) Close() error { return nil }

type countingSink struct {
	sent []notifier.Message
}

func (s *countingSink) Send(_ context.Context, msg notifier.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

func (s *countingSink) Name() string { return "counting" }

func (s *countingSink) Close() error { return nil }

func newTestHandler(t *testing.T, sink notifier.Sink) http.Handler {
	t.Helper()
	rec := metrics.New()
	p, err := pipeline.New(pipeline.Deps{
		Fetcher:   synthetic.NewFetcher(time.UTC),
		Sink:      sink,
		Formatter: notifier.NewFormatter(estimator.FixedEstimator(0.7), time.UTC),
		Metrics:   rec,
	})
	require.NoError(t, err)
	return NewHandlers(p, nil, enums.Football, 5*time.Second, rec.Handler()).Routes()
}

func postForm(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/buscar", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleIndex(t *testing.T) {
	h := newTestHandler(t, &countingSink{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<form method="post" action="/buscar">`)
	assert.Contains(t, body, `<option value="football" selected>Football</option>`)
	assert.Contains(t, body, `<option value="tennis">Tennis</option>`)
}

func TestHandleTrigger_Success(t *testing.T) {
	sink := &countingSink{}
	h := newTestHandler(t, sink)

	rec := postForm(h, url.Values{"date": {"2026-10-19"}, "sport": {"football"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `color: green`)
	assert.Contains(t, body, "<pre>Football tips for 2026-10-19")
	assert.Contains(t, body, "Atalanta vs Lazio")
	require.Len(t, sink.sent, 1)
	assert.Equal(t, "2026-10-19", sink.sent[0].Date)
}

func TestHandleTrigger_DefaultsToConfiguredSport(t *testing.T) {
	sink := &countingSink{}
	h := newTestHandler(t, sink)

	rec := postForm(h, url.Values{})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sink.sent, 1)
	assert.Equal(t, "football", sink.sent[0].Sport)
}

func TestHandleTrigger_DeliveryFailure(t *testing.T) {
	h := newTestHandler(t, failingSink{err: errors.New("Unauthorized")})

	rec := postForm(h, url.Values{"date": {"today"}, "sport": {"football"}})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `color: red`)
	assert.Contains(t, body, "notify via telegram: Unauthorized")
	assert.NotContains(t, body, "<pre>")
}

func TestHandleTrigger_InvalidInput(t *testing.T) {
	sink := &countingSink{}
	h := newTestHandler(t, sink)

	tests := []struct {
		name   string
		values url.Values
	}{
		{"unknown sport", url.Values{"sport": {"curling"}}},
		{"bad date", url.Values{"date": {"19.10.2026"}, "sport": {"football"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(h, tt.values)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "color: red")
		})
	}
	assert.Empty(t, sink.sent)
}

func TestHandleTrigger_EscapesHTML(t *testing.T) {
	h := newTestHandler(t, failingSink{err: errors.New("<script>alert(1)</script>")})

	rec := postForm(h, url.Values{"sport": {"football"}})

	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestHandleSuggestions(t *testing.T) {
	sink := &countingSink{}
	h := newTestHandler(t, sink)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/suggestions?date=2026-10-19&sport=basketball", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp struct {
		ID       string `json:"id"`
		Sport    string `json:"sport"`
		Date     string `json:"date"`
		Degraded bool   `json:"degraded"`
		Fixtures []struct {
			Record struct {
				Home string `json:"home"`
			} `json:"record"`
		} `json:"fixtures"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "basketball", resp.Sport)
	assert.Equal(t, "2026-10-19", resp.Date)
	assert.False(t, resp.Degraded)
	require.Len(t, resp.Fixtures, 2)
	assert.Equal(t, "Real Madrid", resp.Fixtures[0].Record.Home)
	assert.Empty(t, sink.sent)
}

func TestHandleSuggestions_BadSport(t *testing.T) {
	h := newTestHandler(t, &countingSink{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/suggestions?sport=chess", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown sport")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestHandler(t, &countingSink{})

	for path, want := range map[string]string{"/ping": "pong\n", "/health": "ok\n"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, want, rec.Body.String(), path)
	}

	postForm(h, url.Values{"sport": {"hockey"}})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tipsbot_deliveries_total{outcome="sent",sink="counting"} 1`)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "color: red")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", "test", http.NotFoundHandler(), time.Second)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_RequiresReadHeaderTimeout(t *testing.T) {
	err := Run(context.Background(), ":0", "test", http.NotFoundHandler(), 0)
	assert.Error(t, err)
}

type fakeJournal struct {
	rows      []storage.Dispatch
	err       error
	lastLimit int
}

func (j *fakeJournal) RecentDispatches(_ context.Context, limit int) ([]storage.Dispatch, error) {
	j.lastLimit = limit
	if j.err != nil {
		return nil, j.err
	}
	if limit < len(j.rows) {
		return j.rows[:limit], nil
	}
	return j.rows, nil
}

func TestHandleDispatches(t *testing.T) {
	created := time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)
	journal := &fakeJournal{rows: []storage.Dispatch{
		{ID: "d-2", Source: "synthetic", Sport: "football", Date: "2026-10-19", Sink: "telegram",
			Fixtures: 4, Delivered: false, Error: "notify via telegram: Unauthorized", CreatedAt: created},
		{ID: "d-1", Source: "synthetic", Sport: "football", Date: "2026-10-19", Sink: "telegram",
			Fixtures: 4, Delivered: true, CreatedAt: created.Add(-time.Hour)},
	}}
	h := NewHandlers(nil, journal, enums.Football, time.Second, nil).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dispatches?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, journal.lastLimit)

	var resp struct {
		Count      int `json:"count"`
		Dispatches []struct {
			ID        string    `json:"id"`
			Delivered bool      `json:"delivered"`
			Error     string    `json:"error"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"dispatches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Dispatches, 1)
	assert.Equal(t, "d-2", resp.Dispatches[0].ID)
	assert.False(t, resp.Dispatches[0].Delivered)
	assert.Contains(t, resp.Dispatches[0].Error, "Unauthorized")
	assert.True(t, created.Equal(resp.Dispatches[0].CreatedAt))
}

func TestHandleDispatches_Limit(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantLimit int
	}{
		{"default", "", http.StatusOK, defaultDispatchLimit},
		{"capped", "?limit=100000", http.StatusOK, maxDispatchLimit},
		{"zero", "?limit=0", http.StatusBadRequest, 0},
		{"not a number", "?limit=ten", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := &fakeJournal{}
			h := NewHandlers(nil, journal, enums.Football, time.Second, nil).Routes()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dispatches"+tt.query, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLimit, journal.lastLimit)
		})
	}
}

func TestHandleDispatches_JournalError(t *testing.T) {
	h := NewHandlers(nil, &fakeJournal{err: errors.New("connection refused")}, enums.Football, time.Second, nil).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dispatches", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestHandleDispatches_NoJournal(t *testing.T) {
	h := newTestHandler(t, &countingSink{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dispatches", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count": 0, "dispatches": []}`, rec.Body.String())
}
