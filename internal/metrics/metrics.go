// Package metrics provides Prometheus metrics for engineering commands.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the orchestrator.
type Metrics struct {
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	ConflictsTotal  prometheus.Counter
	ProjectsActive  prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codebakers_engineering_commands_total",
				Help: "Total number of engineering commands by command and status.",
			},
			[]string{"command", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codebakers_engineering_command_duration_seconds",
				Help:    "Engineering command duration by command.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		ConflictsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "codebakers_engineering_conflicts_total",
				Help: "Saves rejected because the project was modified concurrently.",
			},
		),
		ProjectsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "codebakers_engineering_projects",
				Help: "Number of projects known to the store.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.CommandsTotal)
	reg.MustRegister(m.CommandDuration)
	reg.MustRegister(m.ConflictsTotal)
	reg.MustRegister(m.ProjectsActive)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCommand increments the command counter.
func (m *Metrics) RecordCommand(command, status string) {
	m.CommandsTotal.WithLabelValues(command, status).Inc()
}

// ObserveDuration records command duration.
func (m *Metrics) ObserveDuration(command string, seconds float64) {
	m.CommandDuration.WithLabelValues(command).Observe(seconds)
}

// RecordConflict increments the conflict counter.
func (m *Metrics) RecordConflict() {
	m.ConflictsTotal.Inc()
}

// IncProjects counts one newly created project.
func (m *Metrics) IncProjects() {
	m.ProjectsActive.Inc()
}

// SetProjects sets the known project count.
func (m *Metrics) SetProjects(count float64) {
	m.ProjectsActive.Set(count)
}
