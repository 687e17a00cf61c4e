// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics wires the trace engine into Prometheus. Grounded on
// the teacher's internal/ebpf/metrics.Metrics (a plain struct of
// prometheus.Collector fields built with prometheus.New* and registered
// with prometheus.MustRegister), retargeted from packet/hook counters to
// trace/hop/driver counters (SPEC_FULL.md §2.4).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"pathtrace.dev/pathtrace/internal/model"
)

// Metrics holds every Prometheus collector the trace engine updates.
type Metrics struct {
	TraceDuration  *prometheus.HistogramVec
	HopCount       *prometheus.HistogramVec
	CommandsTotal  *prometheus.CounterVec
	DriverErrors   *prometheus.CounterVec
	TracesTotal    *prometheus.CounterVec
}

// New builds a fresh, unregistered Metrics. Callers that want them
// served from the default registry call Register; tests can leave them
// unregistered and inspect the collectors directly.
func New() *Metrics {
	return &Metrics{
		TraceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathtrace_trace_duration_seconds",
			Help:    "Wall-clock duration of a path trace, by terminal status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),

		HopCount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathtrace_trace_hop_count",
			Help:    "Number of hops produced by a path trace, by terminal status.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 30},
		}, []string{"status"}),

		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathtrace_driver_commands_total",
			Help: "Route lookups sent to a device, one per traced hop, by vendor tag.",
		}, []string{"vendor"}),

		DriverErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathtrace_driver_errors_total",
			Help: "Driver errors encountered while tracing, by error kind.",
		}, []string{"kind"}),

		TracesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathtrace_traces_total",
			Help: "Completed trace requests, by terminal status.",
		}, []string{"status"}),
	}
}

// Register adds every collector to reg (typically
// prometheus.DefaultRegisterer), matching the teacher's
// prometheus.MustRegister(m) call in internal/ebpf/metrics.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.TraceDuration, m.HopCount, m.CommandsTotal, m.DriverErrors, m.TracesTotal)
}

// ObserveTrace records a finished trace's duration and hop count against
// its terminal status, and increments the trace counter.
func (m *Metrics) ObserveTrace(t *model.Trace) {
	status := string(t.Status)
	m.TraceDuration.WithLabelValues(status).Observe(t.ElapsedTime.Seconds())
	m.HopCount.WithLabelValues(status).Observe(float64(len(t.Hops)))
	m.TracesTotal.WithLabelValues(status).Inc()
}

// ObserveCommand increments the per-vendor command counter.
func (m *Metrics) ObserveCommand(vendor string) {
	m.CommandsTotal.WithLabelValues(vendor).Inc()
}

// ObserveDriverError increments the per-kind driver error counter.
func (m *Metrics) ObserveDriverError(kind string) {
	m.DriverErrors.WithLabelValues(kind).Inc()
}
