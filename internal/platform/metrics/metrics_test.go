package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_DomainHooks(t *testing.T) {
	m := New()

	m.FoundPetReported(2)
	m.FoundPetReported(0)
	m.AdoptionDecided("approved")

	if got := testutil.ToFloat64(m.FoundPetReports); got != 2 {
		t.Fatalf("expected 2 reports, got %v", got)
	}
	if got := testutil.ToFloat64(m.AlertMatches); got != 2 {
		t.Fatalf("expected 2 matches, got %v", got)
	}
	if got := testutil.ToFloat64(m.AdoptionDecisions.WithLabelValues("approved")); got != 1 {
		t.Fatalf("expected 1 approved decision, got %v", got)
	}
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// dos instancias no deben chocar (router construido varias veces)
	_ = New()
	_ = New()
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.FoundPetReported(1)
	m.AdoptionDecided("rejected")
}
