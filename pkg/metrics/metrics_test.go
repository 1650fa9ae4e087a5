package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.RowsReadTotal.Add(10)
	r.RecordDrop("duplicates", 3)
	r.RecordDrop("duplicates", 0) // no-op
	r.SetGraphSize("projection", 5, 4)
	r.RecordRun("ok")
	r.ObserveStage("cleaning", 50*time.Millisecond)

	if got := testutil.ToFloat64(r.RowsReadTotal); got != 10 {
		t.Errorf("rows read = %v, want 10", got)
	}
	if got := testutil.ToFloat64(r.RowsDroppedTotal.WithLabelValues("duplicates")); got != 3 {
		t.Errorf("rows dropped = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.GraphNodes.WithLabelValues("projection")); got != 5 {
		t.Errorf("graph nodes = %v, want 5", got)
	}
	if got := testutil.ToFloat64(r.GraphEdges.WithLabelValues("projection")); got != 4 {
		t.Errorf("graph edges = %v, want 4", got)
	}
	if got := testutil.ToFloat64(r.RunsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("runs = %v, want 1", got)
	}
}

func TestRegistry_Isolated(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	a.RowsReadTotal.Add(7)
	if got := testutil.ToFloat64(b.RowsReadTotal); got != 0 {
		t.Errorf("Registries share state: %v", got)
	}
}
