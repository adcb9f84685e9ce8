package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics usa un registry propio por instancia: el router se construye varias
// veces en tests y el registry global haría panic por registro duplicado.
type Metrics struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	FoundPetReports   prometheus.Counter
	AlertMatches      prometheus.Counter
	AdoptionDecisions *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pet_adoption",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pet_adoption",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		FoundPetReports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pet_adoption",
			Name:      "found_pet_reports_total",
			Help:      "Found-pet reports created.",
		}),
		AlertMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pet_adoption",
			Name:      "alert_matches_total",
			Help:      "Active alerts matched by found-pet reports.",
		}),
		AdoptionDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pet_adoption",
			Name:      "adoption_decisions_total",
			Help:      "Adoption requests decided by shelters, by resulting status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.FoundPetReports,
		m.AlertMatches,
		m.AdoptionDecisions,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Hooks para los servicios de dominio (evita que importen prometheus).

func (m *Metrics) FoundPetReported(matches int) {
	if m == nil {
		return
	}
	m.FoundPetReports.Inc()
	m.AlertMatches.Add(float64(matches))
}

func (m *Metrics) AdoptionDecided(status string) {
	if m == nil {
		return
	}
	m.AdoptionDecisions.WithLabelValues(status).Inc()
}
