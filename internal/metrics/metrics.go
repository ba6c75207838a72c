// Package metrics exposes Prometheus counters for the auth flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type Metrics struct {
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	Logouts       prometheus.Counter

	registry *prometheus.Registry
}

// New creates a private registry with the Go and process collectors and
// the service's own counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signin_registrations_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signin_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signin_logouts_total",
			Help: "Explicit logouts",
		}),
		registry: reg,
	}
	reg.MustRegister(m.Registrations, m.Logins, m.Logouts)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
