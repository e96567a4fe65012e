package telemetry

import (
	"testing"
	"time"
)

func TestNewRegistryRegistersAllMetrics(t *testing.T) {
	r := NewRegistry()

	r.IngestBytesTotal.WithLabelValues("100").Add(42)
	r.IngestDroppedBytesTotal.WithLabelValues("100").Add(3)
	r.ResolutionTier.WithLabelValues("1").Set(2)
	r.ObserveUpdateDuration(5 * time.Millisecond)

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("metric family count = %d, want 4", len(families))
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"dc_ingest_bytes_total",
		"dc_ingest_dropped_bytes_total",
		"dc_resolution_tier",
		"dc_session_update_seconds",
	} {
		if !names[want] {
			t.Fatalf("missing metric family %q, got %v", want, names)
		}
	}
}

func TestNewLoggerSetsComponentField(t *testing.T) {
	logger := NewLogger("session")
	// zerolog.Logger has no accessor for its context fields; smoke-test that
	// constructing and logging through it doesn't panic.
	logger.Info().Msg("ready")
}
