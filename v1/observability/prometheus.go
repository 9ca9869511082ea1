package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver is a Prometheus-backed Observer recording a counter and a
// duration histogram per (component, operation, status).
type MetricsObserver struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	resultSize        *prometheus.HistogramVec
}

// NewMetricsObserver creates a MetricsObserver and registers its collectors
// with the given registerer. Pass prometheus.DefaultRegisterer unless the
// application manages its own registry.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	m := &MetricsObserver{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docstore_operations_total",
				Help: "Total number of document store operations.",
			},
			[]string{"component", "operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docstore_operation_duration_seconds",
				Help:    "Duration of document store operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"component", "operation"},
		),
		resultSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docstore_operation_size",
				Help:    "Documents touched or returned per operation.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"component", "operation"},
		),
	}
	reg.MustRegister(m.operationsTotal, m.operationDuration, m.resultSize)
	return m
}

// ObserveOperation implements Observer.
func (m *MetricsObserver) ObserveOperation(ctx OperationContext) {
	status := "success"
	if ctx.Error != nil {
		status = "error"
	}
	m.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	m.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
	if ctx.Size > 0 {
		m.resultSize.WithLabelValues(ctx.Component, ctx.Operation).Observe(float64(ctx.Size))
	}
}
