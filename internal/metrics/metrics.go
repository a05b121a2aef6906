package metrics

import (
	"net/http"

	"github.com/EternisAI/kvgate/internal/readiness"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg     *prometheus.Registry
	handler http.Handler

	probeAttempts  *prometheus.CounterVec
	readinessState *prometheus.GaugeVec

	reqTotal *prometheus.CounterVec
	reqDur   *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// New returns a fresh registry with the Go and process collectors plus the
// readiness and HTTP series. Labels are bounded (route patterns, not paths).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		reg: reg,
		probeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readiness_probe_attempts_total",
			Help: "Readiness probe attempts by dependency and outcome",
		}, []string{"dependency", "outcome"}),
		readinessState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "readiness_state",
			Help: "Readiness gate state by dependency (0 polling, 1 ready, 2 exhausted)",
		}, []string{"dependency"}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
	}

	reg.MustRegister(m.probeAttempts, m.readinessState, m.reqTotal, m.reqDur, m.inflight)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})

	return m
}

func (m *Metrics) Handler() http.Handler {
	return m.handler
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveProbe records one readiness attempt. classify maps the probe error
// to a bounded outcome label.
func (m *Metrics) ObserveProbe(dependency string, classify func(error) string) func(readiness.ProbeState) {
	m.readinessState.WithLabelValues(dependency).Set(float64(readiness.Polling))
	return func(ps readiness.ProbeState) {
		outcome := "ready"
		if !ps.Connected {
			outcome = "error"
			if classify != nil {
				outcome = classify(ps.Err)
			}
		}
		m.probeAttempts.WithLabelValues(dependency, outcome).Inc()
		if ps.Connected {
			m.readinessState.WithLabelValues(dependency).Set(float64(readiness.Ready))
		}
	}
}

func (m *Metrics) SetReadinessState(dependency string, state readiness.State) {
	m.readinessState.WithLabelValues(dependency).Set(float64(state))
}
