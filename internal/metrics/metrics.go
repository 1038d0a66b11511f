// Package metrics exposes Prometheus instrumentation for calculations and the rates table.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "landed_cost_"

	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	calculations       *prometheus.CounterVec
	calculationLatency *prometheus.HistogramVec
	ratesFallbacks     prometheus.Counter
	ratesReloads       *prometheus.CounterVec
	exports            *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculations_total",
				Help: "Total calculations by result and mode",
			},
			[]string{"result", "mode"},
		),
		calculationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "calculation_latency_seconds",
				Help:    "Calculation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		ratesFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "rates_fallback_total",
				Help: "Times the built-in rates table replaced an unreadable one",
			},
		),
		ratesReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rates_reloads_total",
				Help: "Explicit rates reloads by source",
			},
			[]string{"source"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Exports by format",
			},
			[]string{"format"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.calculations,
			m.calculationLatency,
			m.ratesFallbacks,
			m.ratesReloads,
			m.exports,
		)
	}
	return m
}

// ObserveCalculation records one calculation.
func (m *Metrics) ObserveCalculation(result, mode string, started time.Time) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(result, mode).Inc()
	m.calculationLatency.WithLabelValues(result).Observe(time.Since(started).Seconds())
}

// RatesFallback records a fallback to the built-in rates table.
func (m *Metrics) RatesFallback() {
	if m == nil {
		return
	}
	m.ratesFallbacks.Inc()
}

// RatesReloaded records an explicit reload and where the table came from.
func (m *Metrics) RatesReloaded(source string) {
	if m == nil {
		return
	}
	m.ratesReloads.WithLabelValues(source).Inc()
}

// Exported records a download.
func (m *Metrics) Exported(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
