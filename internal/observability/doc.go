// Package observability provides logging and metrics support for the
// author matching engine.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for match runs, stages and the parse cache
//   - Context helpers for propagating the match run ID
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "debug",
//	    Format: "console",
//	    Output: "stderr",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger = observability.WithMatchContext(logger, runID, len(left), len(right))
//
// # Metrics
//
// Initialize metrics against a registry:
//
//	reg := prometheus.NewRegistry()
//	metrics := observability.NewMetrics("author_match", reg)
//
// Record metrics:
//
//	metrics.RecordPairsMatched("last_name", 12)
//	metrics.RecordComponent(4)
//
// A nil *Metrics may be passed wherever metrics are optional.
//
// # Standard Fields
//
//   - run_id: match run identifier
//   - left_count, right_count: input list sizes
//   - stage: cascade normalizer name or "assignment"
//   - component: emitting subsystem
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
