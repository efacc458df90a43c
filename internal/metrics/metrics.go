// Package metrics provides the centralized Prometheus registry for the engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	CyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "cycles_total",
		Help:      "Total number of completed poll cycles",
	})
	CyclesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "cycles_skipped_total",
		Help:      "Total number of cycles skipped due to provider failure",
	})
	QuotesFetchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "quotes_fetched_total",
		Help:      "Total number of odds quotes fetched from the provider",
	})
	MatchesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "matches_skipped_total",
		Help:      "Total number of matches skipped during evaluation, by reason",
	}, []string{"reason"})
	EdgesQualifiedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "edges_qualified_total",
		Help:      "Total number of edges at or above the alert threshold",
	})
	AlertsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "alerts_sent_total",
		Help:      "Total number of alert notifications delivered",
	})
	AlertsSuppressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "alerts_suppressed_total",
		Help:      "Total number of alerts suppressed by dedup",
	})
	ProviderErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "provider_errors_total",
		Help:      "Total number of provider fetch failures",
	})
	StatsRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rift_edge",
		Name:      "stats_refreshes_total",
		Help:      "Total number of stats snapshot refresh attempts, by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	UpcomingMatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rift_edge",
		Name:      "upcoming_matches",
		Help:      "Number of upcoming matches seen in the last cycle",
	})
	SnapshotTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rift_edge",
		Name:      "snapshot_teams",
		Help:      "Number of teams in the active stats snapshot",
	})
	SnapshotAgeSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rift_edge",
		Name:      "snapshot_age_seconds",
		Help:      "Age of the active stats snapshot in seconds",
	})
	LastCycleEdgeMax = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rift_edge",
		Name:      "last_cycle_edge_max",
		Help:      "Largest edge observed in the last completed cycle",
	})
)

// Histogram metrics
var (
	CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rift_edge",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of full poll cycles in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ProviderFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rift_edge",
		Name:      "provider_fetch_duration_seconds",
		Help:      "Duration of provider quote fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	StatsLoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rift_edge",
		Name:      "stats_load_duration_seconds",
		Help:      "Duration of stats snapshot loads in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(CyclesTotal)
		registry.MustRegister(CyclesSkippedTotal)
		registry.MustRegister(QuotesFetchedTotal)
		registry.MustRegister(MatchesSkippedTotal)
		registry.MustRegister(EdgesQualifiedTotal)
		registry.MustRegister(AlertsSentTotal)
		registry.MustRegister(AlertsSuppressedTotal)
		registry.MustRegister(ProviderErrorsTotal)
		registry.MustRegister(StatsRefreshesTotal)

		registry.MustRegister(UpcomingMatches)
		registry.MustRegister(SnapshotTeams)
		registry.MustRegister(SnapshotAgeSeconds)
		registry.MustRegister(LastCycleEdgeMax)

		registry.MustRegister(CycleDuration)
		registry.MustRegister(ProviderFetchDuration)
		registry.MustRegister(StatsLoadDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordCycle records one completed cycle.
func RecordCycle(durationSeconds float64) {
	CyclesTotal.Inc()
	CycleDuration.Observe(durationSeconds)
}

// RecordCycleSkipped records a cycle abandoned on a fetch failure. Provider
// outages additionally increment ProviderErrorsTotal at the call site.
func RecordCycleSkipped() {
	CyclesSkippedTotal.Inc()
}

// RecordMatchSkipped records a match excluded from evaluation.
func RecordMatchSkipped(reason string) {
	MatchesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordStatsRefresh records a snapshot refresh attempt.
func RecordStatsRefresh(outcome string, durationSeconds float64) {
	StatsRefreshesTotal.WithLabelValues(outcome).Inc()
	StatsLoadDuration.Observe(durationSeconds)
}
