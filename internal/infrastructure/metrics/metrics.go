// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reuseu"

const (
	LabelSuccess = "success"
	LabelFailure = "failure"
	LabelPartial = "partial"
)

type Metrics struct {
	AuthOutcomes     *prometheus.CounterVec
	Backfills        *prometheus.CounterVec
	CascadeDeletes   *prometheus.CounterVec
	PriceSuggestions *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		AuthOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_outcomes_total",
			Help:      "Session builds by outcome (ok or error code)",
		}, []string{"outcome"}),

		Backfills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "marketplace_backfills_total",
			Help:      "Marketplace id repairs of legacy accounts",
		}, []string{"result"}),

		CascadeDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_deletes_total",
			Help:      "Listing removals through moderation",
		}, []string{"result"}),

		PriceSuggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_suggestions_total",
			Help:      "Price oracle calls by result",
		}, []string{"result"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 4, 8),
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.AuthOutcomes,
		m.Backfills,
		m.CascadeDeletes,
		m.PriceSuggestions,
		m.RequestDuration,
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.PrometheusCollectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// The helpers below are safe on a nil *Metrics.

func (m *Metrics) AuthOutcome(outcome string) {
	if m != nil {
		m.AuthOutcomes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Backfill(result string) {
	if m != nil {
		m.Backfills.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Cascade(result string) {
	if m != nil {
		m.CascadeDeletes.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) PriceSuggestion(result string) {
	if m != nil {
		m.PriceSuggestions.WithLabelValues(result).Inc()
	}
}
