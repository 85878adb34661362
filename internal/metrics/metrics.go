// Package metrics provides Prometheus metrics for the scan pipeline and
// the HTTP API.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/scorecard/internal/session"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/scan"
	"github.com/agentstation/scorecard/pkg/strategy"
)

var _ scan.Observer = (*Metrics)(nil)

// Metrics holds every scorecard metric. It implements scan.Observer.
type Metrics struct {
	ScansTotal         *prometheus.CounterVec
	ScanDuration       prometheus.Histogram
	ScanFailures       *prometheus.CounterVec
	StrategyTotal      *prometheus.CounterVec
	StrategyFallbacks  *prometheus.CounterVec
	CourseMatches      *prometheus.CounterVec
	MatchScore         prometheus.Histogram
	RoundConfidence    prometheus.Histogram
	ReviewFields       *prometheus.CounterVec
	RoundsConfirmed    prometheus.Counter
	SessionsEvicted    prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates the metrics and registers them with registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.init()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register scorecard metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) init() {
	m.ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorecard_scans_total",
			Help: "Completed scans partitioned by final strategy and round confidence level.",
		},
		[]string{"strategy", "level"},
	)
	m.ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scorecard_scan_duration_seconds",
			Help:    "Time taken by a scan, extraction calls included.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
		},
	)
	m.ScanFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorecard_scan_failures_total",
			Help: "Failed scan attempts partitioned by pipeline stage.",
		},
		[]string{"stage"},
	)
	m.StrategyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorecard_strategy_selections_total",
			Help: "Strategy selections partitioned by strategy and reason.",
		},
		[]string{"strategy", "reason"},
	)
	m.StrategyFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorecard_strategy_fallbacks_total",
			Help: "Narrowed extractions that fell back to full extraction, partitioned by reason.",
		},
		[]string{"reason"},
	)
	m.CourseMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorecard_course_matches_total",
			Help: "Course match attempts partitioned by outcome (exact, similar, none).",
		},
		[]string{"outcome"},
	)
	m.MatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scorecard_course_match_score",
			Help:    "Similarity score of accepted course matches.",
			Buckets: prometheus.LinearBuckets(0.8, 0.025, 9),
		},
	)
	m.RoundConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scorecard_round_confidence",
			Help:    "Overall round confidence of completed scans.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)
	m.ReviewFields = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorecard_review_fields_total",
			Help: "Fields flagged for review partitioned by field.",
		},
		[]string{"field"},
	)
	m.RoundsConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scorecard_rounds_confirmed_total",
			Help: "Rounds persisted after review.",
		},
	)
	m.SessionsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scorecard_sessions_evicted_total",
			Help: "Scan sessions removed by expiry, confirm or abandon.",
		},
	)
	m.HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorecard_http_requests_total",
			Help: "HTTP requests partitioned by route and status code.",
		},
		[]string{"route", "code"},
	)
	m.HTTPRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scorecard_http_request_duration_seconds",
			Help:    "HTTP request latency partitioned by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.ScansTotal.Describe(ch)
	ch <- m.ScanDuration.Desc()
	m.ScanFailures.Describe(ch)
	m.StrategyTotal.Describe(ch)
	m.StrategyFallbacks.Describe(ch)
	m.CourseMatches.Describe(ch)
	ch <- m.MatchScore.Desc()
	ch <- m.RoundConfidence.Desc()
	m.ReviewFields.Describe(ch)
	ch <- m.RoundsConfirmed.Desc()
	ch <- m.SessionsEvicted.Desc()
	m.HTTPRequests.Describe(ch)
	m.HTTPRequestLatency.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.ScansTotal.Collect(ch)
	ch <- m.ScanDuration
	m.ScanFailures.Collect(ch)
	m.StrategyTotal.Collect(ch)
	m.StrategyFallbacks.Collect(ch)
	m.CourseMatches.Collect(ch)
	ch <- m.MatchScore
	ch <- m.RoundConfidence
	m.ReviewFields.Collect(ch)
	ch <- m.RoundsConfirmed
	ch <- m.SessionsEvicted
	m.HTTPRequests.Collect(ch)
	m.HTTPRequestLatency.Collect(ch)
}

// ObserveSelection implements scan.Observer.
func (m *Metrics) ObserveSelection(sel *strategy.Selection) {
	if sel == nil {
		return
	}
	m.StrategyTotal.WithLabelValues(string(sel.Strategy), string(sel.Reason)).Inc()
	if sel.Fallback() {
		m.StrategyFallbacks.WithLabelValues(string(sel.Reason)).Inc()
	}
}

// ObserveMatch implements scan.Observer.
func (m *Metrics) ObserveMatch(res *matcher.Result) {
	switch {
	case res == nil || !res.Matched():
		m.CourseMatches.WithLabelValues("none").Inc()
	case res.Exact:
		m.CourseMatches.WithLabelValues("exact").Inc()
	default:
		m.CourseMatches.WithLabelValues("similar").Inc()
		m.MatchScore.Observe(res.Score)
	}
}

// ObserveScan implements scan.Observer.
func (m *Metrics) ObserveScan(sess *scan.Session, elapsed time.Duration) {
	m.ScanDuration.Observe(elapsed.Seconds())
	if sess == nil {
		return
	}
	strat := ""
	if sess.Selection != nil {
		strat = string(sess.Selection.Strategy)
	}
	m.ScansTotal.WithLabelValues(strat, string(sess.Confidence.Level)).Inc()
	m.RoundConfidence.Observe(sess.Confidence.Overall)
	for _, it := range sess.Review {
		m.ReviewFields.WithLabelValues(string(it.Field)).Inc()
	}
}

// ObserveFailure implements scan.Observer.
func (m *Metrics) ObserveFailure(stage string) {
	m.ScanFailures.WithLabelValues(stage).Inc()
}

// ObserveConfirm implements scan.Observer.
func (m *Metrics) ObserveConfirm() {
	m.RoundsConfirmed.Inc()
}

// SessionEvicted counts a session leaving the session store. It matches the
// session.WithEvictionHook signature.
func (m *Metrics) SessionEvicted(string) {
	m.SessionsEvicted.Inc()
}

// SessionGauge exports the live session count of store.
func (m *Metrics) SessionGauge(store *session.Store) error {
	return m.registry.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "scorecard_sessions_active",
			Help: "Scan sessions awaiting confirmation.",
		},
		func() float64 { return float64(store.Len()) },
	))
}

// ObserveHTTP records one request.
func (m *Metrics) ObserveHTTP(route string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPRequestLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
