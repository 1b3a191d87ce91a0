// Package metrics exposes pipeline counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

// Fetch outcomes.
const (
	FetchOK       = "ok"
	FetchDegraded = "degraded"
	FetchInvalid  = "invalid"
)

// Delivery outcomes.
const (
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
	DeliverySkipped = "skipped"
)

// Recorder tracks fetch and delivery outcomes. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	deliveries    *prometheus.CounterVec
	fixtures      prometheus.Counter
	confidence    prometheus.Histogram
}

// New creates a Recorder on its own registry, with Go runtime and process
// collectors attached.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipsbot",
			Name:      "fetches_total",
			Help:      "Fixture fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tipsbot",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching fixtures from a source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipsbot",
			Name:      "deliveries_total",
			Help:      "Payload deliveries by sink and outcome.",
		}, []string{"sink", "outcome"}),
		fixtures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tipsbot",
			Name:      "fixtures_total",
			Help:      "Fixtures rendered into payloads.",
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tipsbot",
			Name:      "suggestion_confidence",
			Help:      "Confidence values attached to suggestions.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
	r.registry.MustRegister(
		r.fetches, r.fetchDuration, r.deliveries, r.fixtures, r.confidence,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry for /metrics.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ObserveFetch(source, outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(source, outcome).Inc()
	r.fetchDuration.WithLabelValues(source).Observe(took.Seconds())
}

func (r *Recorder) ObserveDelivery(sink, outcome string) {
	if r == nil {
		return
	}
	r.deliveries.WithLabelValues(sink, outcome).Inc()
}

// ObserveRecords counts real fixtures and the confidence of each suggestion.
func (r *Recorder) ObserveRecords(records []models.FixtureRecord, blocks []models.SuggestionBlock) {
	if r == nil {
		return
	}
	for _, rec := range records {
		if !rec.IsNotice() {
			r.fixtures.Inc()
		}
	}
	for _, b := range blocks {
		r.confidence.Observe(b.Confidence)
	}
}
