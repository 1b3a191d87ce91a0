package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Vodeneev/tipsbot/internal/fetcher"
	"github.com/Vodeneev/tipsbot/internal/notifier"
	"github.com/Vodeneev/tipsbot/internal/pipeline"
	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/storage"
)

const (
	defaultDispatchLimit = 50
	maxDispatchLimit     = 500
)

// Runner runs one pipeline invocation.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Outcome, error)
}

// DispatchLister reads the dispatch journal.
type DispatchLister interface {
	RecentDispatches(ctx context.Context, limit int) ([]storage.Dispatch, error)
}

// Handlers serves the trigger endpoints.
type Handlers struct {
	runner         Runner
	dispatches     DispatchLister
	defaultSport   enums.Sport
	requestTimeout time.Duration
	metrics        http.Handler
}

// NewHandlers wires the endpoints. A nil dispatches lister serves an empty
// audit list.
func NewHandlers(runner Runner, dispatches DispatchLister, defaultSport enums.Sport, requestTimeout time.Duration, metrics http.Handler) *Handlers {
	if dispatches == nil {
		dispatches = storage.NopJournal{}
	}
	return &Handlers{
		runner:         runner,
		dispatches:     dispatches,
		defaultSport:   defaultSport,
		requestTimeout: requestTimeout,
		metrics:        metrics,
	}
}

// Routes returns the mux wrapped in panic recovery and request logging.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /buscar", h.HandleTrigger)
	mux.HandleFunc("GET /api/suggestions", h.HandleSuggestions)
	mux.HandleFunc("GET /api/dispatches", h.HandleDispatches)

	mux.HandleFunc("GET /ping", HandlePing)
	mux.HandleFunc("GET /health", HandleHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}

	return Recover(LogRequests(mux))
}

// HandleIndex serves the form page.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderIndex(w, h.defaultSport); err != nil {
		slog.Error("Failed to render index page", "error", err)
	}
}

// HandleTrigger fetches, formats and notifies, then reports the result as an
// HTML fragment. Invalid input is 400, a failed delivery 502.
func (h *Handlers) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r.FormValue("date"), r.FormValue("sport"))
	if err != nil {
		writeFragment(w, http.StatusBadRequest, fragment{Error: err.Error()})
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	out, err := h.runner.Run(ctx, pipeline.Request{Query: q, Deliver: true})
	switch {
	case errors.Is(err, fetcher.ErrInvalidQuery):
		writeFragment(w, http.StatusBadRequest, fragment{Error: err.Error()})
	case err != nil:
		writeFragment(w, http.StatusBadGateway, fragment{Error: err.Error()})
	default:
		writeFragment(w, http.StatusOK, fragment{Title: out.Title, Text: out.Text, Sink: out.Sink, Degraded: out.Degraded})
	}
}

type suggestionsResponse struct {
	ID       string                     `json:"id"`
	Sport    enums.Sport                `json:"sport"`
	Date     string                     `json:"date"`
	Degraded bool                       `json:"degraded"`
	Fixtures []notifier.RenderedFixture `json:"fixtures"`
	Text     string                     `json:"text"`
}

// HandleSuggestions returns the formatted result as JSON without notifying.
func (h *Handlers) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r.URL.Query().Get("date"), r.URL.Query().Get("sport"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	out, err := h.runner.Run(ctx, pipeline.Request{Query: q})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fetcher.ErrInvalidQuery) {
			status = http.StatusBadRequest
		}
		writeJSONError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		ID:       out.ID,
		Sport:    out.Sport,
		Date:     out.Date,
		Degraded: out.Degraded,
		Fixtures: out.Fixtures,
		Text:     out.Text,
	})
}

type dispatchResponse struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Sport     string    `json:"sport"`
	Date      string    `json:"date"`
	Sink      string    `json:"sink"`
	Fixtures  int       `json:"fixtures"`
	Degraded  bool      `json:"degraded"`
	Delivered bool      `json:"delivered"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleDispatches lists the newest journal rows, read-only.
// GET /api/dispatches?limit=20
func (h *Handlers) HandleDispatches(w http.ResponseWriter, r *http.Request) {
	limit := defaultDispatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("limit must be a positive integer, got %q", raw))
			return
		}
		limit = min(n, maxDispatchLimit)
	}

	rows, err := h.dispatches.RecentDispatches(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to read dispatch journal", "error", err)
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]dispatchResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, dispatchResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"dispatches": out, "count": len(out)})
}

func (h *Handlers) query(date, sport string) (fetcher.Query, error) {
	if sport == "" {
		sport = string(h.defaultSport)
	}
	return fetcher.NewQuery(date, sport)
}

func (h *Handlers) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
