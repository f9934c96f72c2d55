package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counts completed lookups by kind, reported source and outcome (ok or an error key).
	LookupRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_requests_total",
			Help: "Total number of lookups served (by kind, source and outcome).",
		},
		[]string{"kind", "source", "outcome"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookup_duration_seconds",
			Help:    "Duration of lookups in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15), // 100µs → ~1.6s
		},
		[]string{"kind"},
	)

	CacheAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_cache_access_total",
			Help: "Number of hits/misses in the lookup result caches.",
		},
		[]string{"result"}, // l1_hit | redis_hit | miss
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Lookup events published to brokers.",
		},
		[]string{"sink", "result"}, // result = "ok" | "error"
	)

	PublishLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "events_publish_latency_seconds",
			Help:    "Time taken to publish a lookup event.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_errors_total",
			Help: "Count of simulator errors by component.",
		},
		[]string{"component", "reason"},
	)
)

// ObserveDuration records the time since start on a histogram or summary vec.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// counters are not meant for duration tracking
	}
}

func IncLookup(kind, source, outcome string) {
	LookupRequestsTotal.WithLabelValues(kind, source, outcome).Inc()
}

func IncCache(result string) {
	CacheAccess.WithLabelValues(result).Inc()
}

func IncPublished(sink, result string) {
	EventsPublished.WithLabelValues(sink, result).Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
