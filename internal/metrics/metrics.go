package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engine metrics
	timecodeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timecode_operations_total",
		Help: "Timecode engine operations by outcome",
	}, []string{"operation", "result"})

	timecodeRateRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timecode_rate_requests_total",
		Help: "Timecode requests per nominal frame rate and drop-frame mode",
	}, []string{"fps", "drop_frame"})

	spliceRangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timecode_splice_ranges_total",
		Help: "Total in/out ranges converted by the splice endpoint",
	})

	// Generator metrics
	generatorsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "timecode_generators_active",
		Help: "Number of generators in the store",
	})

	generatorCountsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timecode_generator_counts_total",
		Help: "Total counter steps applied to generators",
	}, []string{"generator_id"})

	generatorStoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timecode_generator_store_duration_seconds",
		Help:    "Generator store operation latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
	}, []string{"backend", "operation"})

	generatorStoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timecode_generator_store_errors_total",
		Help: "Generator store operations that returned an error",
	}, []string{"backend", "operation"})
)

// RecordOperation counts an engine call such as parse or encode.
func RecordOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	timecodeOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordRate counts a request for the given rate.
func RecordRate(fps uint16, dropFrame bool) {
	timecodeRateRequestsTotal.WithLabelValues(
		strconv.FormatUint(uint64(fps), 10),
		strconv.FormatBool(dropFrame),
	).Inc()
}

// AddSpliceRanges counts converted splice ranges.
func AddSpliceRanges(n int) {
	spliceRangesTotal.Add(float64(n))
}

// SetActiveGenerators sets the number of generators in the store
func SetActiveGenerators(count int) {
	generatorsActive.Set(float64(count))
}

// IncrementActiveGenerators bumps the active gauge after a create.
func IncrementActiveGenerators() {
	generatorsActive.Inc()
}

// DecrementActiveGenerators lowers the active gauge after a delete.
func DecrementActiveGenerators() {
	generatorsActive.Dec()
}

// AddGeneratorCounts records n counter steps applied to a generator.
func AddGeneratorCounts(generatorID string, n uint32) {
	generatorCountsTotal.WithLabelValues(generatorID).Add(float64(n))
}

// DeleteGeneratorMetrics drops per-generator series once it is removed.
func DeleteGeneratorMetrics(generatorID string) {
	generatorCountsTotal.DeleteLabelValues(generatorID)
}

// ObserveStoreOperation records latency and failures of a store call.
func ObserveStoreOperation(backend, operation string, seconds float64, err error) {
	generatorStoreDuration.WithLabelValues(backend, operation).Observe(seconds)
	if err != nil {
		generatorStoreErrorsTotal.WithLabelValues(backend, operation).Inc()
	}
}
