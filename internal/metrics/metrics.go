package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	analysesTotal         prometheus.Counter
	predictionsTotal      *prometheus.CounterVec
	overflowTotal         prometheus.Counter
	predictedBatchSize    prometheus.Gauge
	degenerateModelErrors *prometheus.CounterVec
)

// InitMetrics registers all custom metrics with the provided registry
func InitMetrics(registry prometheus.Registerer) {
	analysesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batchsight_analyses_received_total",
			Help: "Total number of analyses received from the profiler",
		},
	)
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batchsight_predictions_total",
			Help: "Total number of batch-size predictions by adjustment kind",
		},
		[]string{"kind"},
	)
	overflowTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batchsight_throughput_overflow_total",
			Help: "Total number of throughput targets resolved to the feasible ceiling",
		},
	)
	predictedBatchSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "batchsight_predicted_batch_size",
			Help: "Most recently predicted batch size (0 when no prediction is active)",
		},
	)
	degenerateModelErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batchsight_degenerate_model_errors_total",
			Help: "Total number of inversions rejected due to a degenerate model slope",
		},
		[]string{"model"},
	)

	registry.MustRegister(analysesTotal)
	registry.MustRegister(predictionsTotal)
	registry.MustRegister(overflowTotal)
	registry.MustRegister(predictedBatchSize)
	registry.MustRegister(degenerateModelErrors)
}

// RecordAnalysisReceived increments the received-analyses counter.
func RecordAnalysisReceived() {
	if analysesTotal != nil {
		analysesTotal.Inc()
	}
}

// RecordPrediction records one prediction of the given kind
// ("memory" or "throughput") and the resulting batch size.
func RecordPrediction(kind string, batchSize float64) {
	if predictionsTotal != nil {
		predictionsTotal.WithLabelValues(kind).Inc()
	}
	if predictedBatchSize != nil {
		predictedBatchSize.Set(batchSize)
	}
}

// RecordOverflow records a throughput target resolved by substituting the
// feasible ceiling.
func RecordOverflow() {
	if overflowTotal != nil {
		overflowTotal.Inc()
	}
}

// RecordPredictionCleared resets the predicted batch size gauge.
func RecordPredictionCleared() {
	if predictedBatchSize != nil {
		predictedBatchSize.Set(0)
	}
}

// RecordDegenerateModel records an inversion rejected because the named
// model ("memory" or "runtime") has a degenerate slope.
func RecordDegenerateModel(model string) {
	if degenerateModelErrors != nil {
		degenerateModelErrors.WithLabelValues(model).Inc()
	}
}
