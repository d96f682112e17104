// Package metrics exposes prometheus counters for the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Registry *prometheus.Registry

	rowsIngested  *prometheus.CounterVec
	rowsDuplicate *prometheus.CounterVec
	rowErrors     *prometheus.CounterVec
	batches       *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		rowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brokerage_rows_ingested_total",
			Help: "Policy rows newly inserted per company.",
		}, []string{"company"}),
		rowsDuplicate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brokerage_rows_duplicate_total",
			Help: "Policy rows skipped as duplicates per company.",
		}, []string{"company"}),
		rowErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brokerage_row_errors_total",
			Help: "Policy rows rejected with row-level errors per company.",
		}, []string{"company"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brokerage_ingestion_batches_total",
			Help: "Ingestion batches processed per company.",
		}, []string{"company"}),
	}

	registry.MustRegister(m.rowsIngested, m.rowsDuplicate, m.rowErrors, m.batches)
	return m
}

func (m *Metrics) ObserveBatch(company string, inserted, duplicates, errors int) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(company).Inc()
	m.rowsIngested.WithLabelValues(company).Add(float64(inserted))
	m.rowsDuplicate.WithLabelValues(company).Add(float64(duplicates))
	m.rowErrors.WithLabelValues(company).Add(float64(errors))
}
