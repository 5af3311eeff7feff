package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Side label values.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// Metrics contains the Prometheus metrics of the matching engine.
// A nil *Metrics is valid: every Record method is then a no-op.
type Metrics struct {
	// RunsStarted counts match runs initiated.
	RunsStarted prometheus.Counter

	// RunsCompleted counts match runs that returned a partition.
	RunsCompleted prometheus.Counter

	// RunsFailed counts match runs that returned an error.
	RunsFailed prometheus.Counter

	// RunDuration observes the duration of match runs in seconds.
	RunDuration prometheus.Histogram

	// RecordsProcessed counts input records, labeled by side.
	RecordsProcessed *prometheus.CounterVec

	// PairsMatched counts common pairs, labeled by the stage that resolved them.
	PairsMatched *prometheus.CounterVec

	// RecordsUnmatched counts records left unmatched, labeled by side.
	RecordsUnmatched *prometheus.CounterVec

	// DistanceEvaluations counts calls to the distance function, labeled by stage.
	DistanceEvaluations *prometheus.CounterVec

	// ComponentSize observes the number of records in each resolved component.
	ComponentSize prometheus.Histogram

	// ParseCacheHits counts parsed-name cache hits.
	ParseCacheHits prometheus.Counter

	// ParseCacheMisses counts parsed-name cache misses.
	ParseCacheMisses prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names. Metrics are
// registered with reg; a nil reg leaves them unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Runs
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Total number of match runs started",
		}),
		RunsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_completed_total",
			Help:      "Total number of match runs completed successfully",
		}),
		RunsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "Total number of match runs that failed",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of match runs in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),

		// Records
		RecordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Total number of input records by side",
		}, []string{"side"}),
		PairsMatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_matched_total",
			Help:      "Total number of matched pairs by resolving stage",
		}, []string{"stage"}),
		RecordsUnmatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_unmatched_total",
			Help:      "Total number of unmatched records by side",
		}, []string{"side"}),

		// Work
		DistanceEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distance_evaluations_total",
			Help:      "Total number of distance function calls by stage",
		}, []string{"stage"}),
		ComponentSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "component_size",
			Help:      "Number of records in each connected component",
			Buckets:   []float64{2, 3, 4, 6, 8, 16, 32, 64, 128},
		}),

		// Parse cache
		ParseCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_cache_hits_total",
			Help:      "Total number of parsed-name cache hits",
		}),
		ParseCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_cache_misses_total",
			Help:      "Total number of parsed-name cache misses",
		}),
	}
}

// RecordRunStarted records that a run has started with the given input sizes.
func (m *Metrics) RecordRunStarted(leftCount, rightCount int) {
	if m == nil {
		return
	}
	m.RunsStarted.Inc()
	m.RecordsProcessed.WithLabelValues(SideLeft).Add(float64(leftCount))
	m.RecordsProcessed.WithLabelValues(SideRight).Add(float64(rightCount))
}

// RecordRunCompleted records a finished run and its unmatched counts.
func (m *Metrics) RecordRunCompleted(durationSeconds float64, leftOnly, rightOnly int) {
	if m == nil {
		return
	}
	m.RunsCompleted.Inc()
	m.RunDuration.Observe(durationSeconds)
	m.RecordsUnmatched.WithLabelValues(SideLeft).Add(float64(leftOnly))
	m.RecordsUnmatched.WithLabelValues(SideRight).Add(float64(rightOnly))
}

// RecordRunFailed records that a run has failed.
func (m *Metrics) RecordRunFailed(durationSeconds float64) {
	if m == nil {
		return
	}
	m.RunsFailed.Inc()
	m.RunDuration.Observe(durationSeconds)
}

// RecordPairsMatched records pairs resolved by a stage.
func (m *Metrics) RecordPairsMatched(stage string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.PairsMatched.WithLabelValues(stage).Add(float64(count))
}

// RecordDistanceEvaluations records distance function calls made by a stage.
func (m *Metrics) RecordDistanceEvaluations(stage string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.DistanceEvaluations.WithLabelValues(stage).Add(float64(count))
}

// RecordComponent records the size of a resolved component.
func (m *Metrics) RecordComponent(size int) {
	if m == nil {
		return
	}
	m.ComponentSize.Observe(float64(size))
}

// RecordParseCacheHit records a parsed-name cache hit.
func (m *Metrics) RecordParseCacheHit() {
	if m == nil {
		return
	}
	m.ParseCacheHits.Inc()
}

// RecordParseCacheMiss records a parsed-name cache miss.
func (m *Metrics) RecordParseCacheMiss() {
	if m == nil {
		return
	}
	m.ParseCacheMisses.Inc()
}
