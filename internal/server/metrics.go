package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsRegistry struct {
	registry         *prometheus.Registry
	submissionsTotal *prometheus.CounterVec
	connectsTotal    *prometheus.CounterVec
	pageLoadsTotal   *prometheus.CounterVec
	pageSessions     prometheus.Gauge
}

func newMetricsRegistry() *metricsRegistry {
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "barkboard_submissions_total",
		Help: "Bark and meow submissions by outcome",
	}, []string{"kind", "status"})

	connects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "barkboard_connect_requests_total",
		Help: "Explicit wallet connect requests by outcome",
	}, []string{"status"})

	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "barkboard_page_loads_total",
		Help: "Page loads by whether an authorized account was found",
	}, []string{"session"})

	pages := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "barkboard_page_sessions",
		Help: "Live page sessions",
	})

	r := prometheus.NewRegistry()
	r.MustRegister(submissions, connects, loads, pages)

	return &metricsRegistry{
		registry:         r,
		submissionsTotal: submissions,
		connectsTotal:    connects,
		pageLoadsTotal:   loads,
		pageSessions:     pages,
	}
}

func (m *metricsRegistry) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metricsRegistry) incSubmission(kind, status string) {
	m.submissionsTotal.WithLabelValues(kind, status).Inc()
}

func (m *metricsRegistry) incConnect(status string) {
	m.connectsTotal.WithLabelValues(status).Inc()
}

func (m *metricsRegistry) incPageLoad(session string) {
	m.pageLoadsTotal.WithLabelValues(session).Inc()
}

func (m *metricsRegistry) setPageSessions(n int) {
	m.pageSessions.Set(float64(n))
}
