package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EntriesPosted    *prometheus.CounterVec
	EntryTransitions *prometheus.CounterVec
	PostedAmount     prometheus.Histogram
	PostingDuration  prometheus.Histogram
	PostingErrors    *prometheus.CounterVec
	ChartImports     prometheus.Counter
	LedgerViolations prometheus.Gauge

	// Classification metrics
	Classifications        *prometheus.CounterVec
	ClassificationFailures prometheus.Counter
	RulesReinforced        prometheus.Counter

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	CacheLookups *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all Prometheus metrics and registers them with reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		EntriesPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contabil_entries_posted_total",
				Help: "Total number of journal entries posted by initial status",
			},
			[]string{"status"},
		),
		EntryTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contabil_entry_transitions_total",
				Help: "Total number of entry status transitions by target status",
			},
			[]string{"status"},
		),
		PostedAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "contabil_posted_amount",
			Help:    "Journal entry amounts",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		}),
		PostingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "contabil_posting_duration_seconds",
			Help:    "Duration of posting transactions",
			Buckets: prometheus.DefBuckets,
		}),
		PostingErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contabil_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),
		ChartImports: factory.NewCounter(prometheus.CounterOpts{
			Name: "contabil_chart_imports_total",
			Help: "Total number of chart of accounts imports",
		}),
		LedgerViolations: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contabil_ledger_violations",
			Help: "Entries violating posting invariants at the last consistency check",
		}),

		// Classification metrics
		Classifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contabil_classifications_total",
				Help: "Total number of classified movements by match source",
			},
			[]string{"source"},
		),
		ClassificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "contabil_classification_failures_total",
			Help: "Total number of movements that could not be classified",
		}),
		RulesReinforced: factory.NewCounter(prometheus.CounterOpts{
			Name: "contabil_rules_reinforced_total",
			Help: "Total number of learned rule reinforcements",
		}),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contabil_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		PublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "contabil_event_publish_errors_total",
			Help: "Total outbox publish failures",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contabil_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contabil_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contabil_db_connections",
			Help: "Current number of acquired database connections",
		}),
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contabil_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contabil_chart_cache_lookups_total",
				Help: "Chart cache lookups by result",
			},
			[]string{"result"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "contabil_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}
