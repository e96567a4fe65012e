// Package telemetry wires structured logging and metrics for the rest of the
// core: a zerolog.Logger configured once at process start, and a Prometheus
// registry exposing the counters/gauges named in spec.md §6's metrics boundary.
// The teacher carries no logging or metrics of its own; both libraries are
// sourced from the rest of the example pack (go.mod: rs/zerolog,
// prometheus/client_golang) and wired in the idiomatic way those libraries are
// normally used, since the core itself never starts an HTTP listener to serve
// them — that's cmd/dcserved's job.
package telemetry

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog.Logger writing structured JSON to stderr, with a
// component field pre-set so every log line self-identifies its subsystem
// (session, ingestloop, datasource, ...).
func NewLogger(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// NewConsoleLogger returns a human-readable logger for interactive use
// (cmd/dcserved's default), instead of NewLogger's machine-readable JSON.
func NewConsoleLogger(component string) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// Registry holds every metric the core exports, registered against its own
// prometheus.Registerer so embedding processes can mount it at whatever path
// and alongside whatever other metrics they already expose.
type Registry struct {
	registry *prometheus.Registry

	IngestBytesTotal       *prometheus.CounterVec
	IngestDroppedBytesTotal *prometheus.CounterVec
	ResolutionTier         *prometheus.GaugeVec
	SessionUpdateSeconds   prometheus.Histogram
}

// NewRegistry constructs and registers every core metric against a fresh
// prometheus.Registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		IngestBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dc_ingest_bytes_total",
			Help: "Total payload bytes committed by the Ingest Processor, by buffer id.",
		}, []string{"buffer_id"}),
		IngestDroppedBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dc_ingest_dropped_bytes_total",
			Help: "Total trailing bytes dropped from malformed ingest batches.",
		}, []string{"buffer_id"}),
		ResolutionTier: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dc_resolution_tier",
			Help: "Current Resolution Controller downsampling factor, by viewport pane id.",
		}, []string{"pane_id"}),
		SessionUpdateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dc_session_update_seconds",
			Help:    "Wall-clock duration of one Chart Session Update call.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		r.IngestBytesTotal,
		r.IngestDroppedBytesTotal,
		r.ResolutionTier,
		r.SessionUpdateSeconds,
	)

	return r
}

// Gatherer exposes the underlying prometheus.Registry for an HTTP handler
// (e.g. promhttp.HandlerFor) to scrape.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// ObserveUpdateDuration records one Update call's wall-clock duration.
func (r *Registry) ObserveUpdateDuration(d time.Duration) {
	r.SessionUpdateSeconds.Observe(d.Seconds())
}
