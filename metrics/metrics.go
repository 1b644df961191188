// Package metrics exposes Prometheus collectors for the relay.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ncecere/mymentor/middleware"
)

const (
	namespace = "mymentor"

	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the collectors registered by New.
type Metrics struct {
	Registry *prometheus.Registry

	// UpstreamCallsTotal counts completion API calls by model and result.
	UpstreamCallsTotal *prometheus.CounterVec
	// UpstreamDurationSeconds is the latency of completion API calls.
	UpstreamDurationSeconds *prometheus.HistogramVec
	// HTTPRequestsTotal counts handled HTTP requests by route and status.
	HTTPRequestsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		UpstreamCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "Total number of completion API calls, labeled by model and result.",
		}, []string{"model", "result"}),
		UpstreamDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "call_duration_seconds",
			Help:      "Time spent waiting on the completion API.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60},
		}, []string{"model"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled, labeled by route and status code.",
		}, []string{"route", "code"}),
	}

	m.Registry.MustRegister(
		m.UpstreamCallsTotal,
		m.UpstreamDurationSeconds,
		m.HTTPRequestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns telemetry hooks that record every completion API call.
func (m *Metrics) Hooks() middleware.TelemetryHooks {
	return middleware.TelemetryHooks{
		OnLanguageModelCall: func(ctx context.Context, info middleware.LanguageModelCallInfo) {
			m.ObserveUpstream(info.Model, info.Duration(), info.Err)
		},
	}
}

// ObserveUpstream records one completion API call.
func (m *Metrics) ObserveUpstream(model string, d time.Duration, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.UpstreamCallsTotal.WithLabelValues(model, result).Inc()
	m.UpstreamDurationSeconds.WithLabelValues(model).Observe(d.Seconds())
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
