// Package metrics exposes Prometheus collectors for the HTTP surface and the
// matching engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Engine operation labels.
const (
	OperationRecommend = "recommend"
	OperationScore     = "score"
	OperationSimilar   = "similar"
	OperationSkills    = "skills"
	OperationScan      = "scan"
)

var (
	engineOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_operation_duration_seconds",
			Help:      "Duration of matching engine operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
		[]string{"operation"},
	)

	engineResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_results_total",
			Help:      "Number of ranked results returned by engine operations",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(engineOperationDuration, engineResultsTotal)
}

// ObserveOperation records the time elapsed since start for operation.
// Use as: defer metrics.ObserveOperation(metrics.OperationScore, time.Now()).
func ObserveOperation(operation string, start time.Time) {
	engineOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// AddResults counts results returned by operation.
func AddResults(operation string, n int) {
	if n <= 0 {
		return
	}
	engineResultsTotal.WithLabelValues(operation).Add(float64(n))
}
