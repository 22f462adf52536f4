package server

import (
	"context"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elves/commander/pkg/commander"
)

// Metrics holds the Prometheus metrics of a Server.
type Metrics struct {
	// Commands run, labeled by outcome.
	Commands *prometheus.CounterVec

	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a new set of metrics, registered in a registry of their
// own.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "commander",
				Name:      "commands_total",
				Help:      "Total number of commands run, by outcome",
			},
			[]string{"outcome"},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "commander",
				Name:      "sessions_active",
				Help:      "Number of connected terminal sessions",
			},
		),
		SessionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "commander",
				Name:      "sessions_total",
				Help:      "Total number of terminal sessions",
			},
		),
		registry: reg,
	}
}

// Handler returns an HTTP handler that serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument wraps r so that the outcome of every command is counted.
func (m *Metrics) Instrument(r commander.Resolver) commander.Resolver {
	return commander.ResolverFunc(func(ctx context.Context, out io.Writer, argv []string) error {
		err := r.Run(ctx, out, argv)
		m.Commands.WithLabelValues(commander.Classify(err).String()).Inc()
		return err
	})
}
