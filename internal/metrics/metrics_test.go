package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordProjection(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordProjection("fstat", 3, false, time.Millisecond)
	m.RecordProjection("fstat", 2, true, time.Millisecond)
	m.RecordProjection("where", 1, false, time.Millisecond)

	if got := testutil.ToFloat64(m.ProjectionsTotal.WithLabelValues("fstat")); got != 2 {
		t.Errorf("fstat projections = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RecordsProjectedTotal); got != 6 {
		t.Errorf("records projected = %v, want 6", got)
	}
	if got := testutil.ToFloat64(m.ResultErrorsTotal); got != 1 {
		t.Errorf("result errors = %v, want 1", got)
	}
}

func TestRecordParse(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordParse("head", true)
	m.RecordParse("head", true)
	m.RecordParse("", false)

	if got := testutil.ToFloat64(m.RevisionParsesTotal.WithLabelValues("head")); got != 2 {
		t.Errorf("head parses = %v", got)
	}
	if got := testutil.ToFloat64(m.RevisionMissesTotal); got != 1 {
		t.Errorf("misses = %v", got)
	}
}

func TestRecordGrpcRequestAndResolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordGrpcRequest("/depotview.v1.DepotView/Resolve", "OK", 2*time.Millisecond)
	m.RecordResolve("range", "ok", 3)

	if got := testutil.ToFloat64(m.GrpcRequestsTotal.WithLabelValues("/depotview.v1.DepotView/Resolve", "OK")); got != 1 {
		t.Errorf("requests = %v", got)
	}
	if got := testutil.ToFloat64(m.HistoryEntriesReturned); got != 3 {
		t.Errorf("entries = %v", got)
	}
	if n, err := testutil.GatherAndCount(reg, "depotview_grpc_request_duration_seconds"); err != nil || n != 1 {
		t.Errorf("histogram series = %d, %v", n, err)
	}
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances on their own registries must not collide.
	NewMetrics(prometheus.NewRegistry())
	NewMetrics(prometheus.NewRegistry())
}

func TestRunUptimeStops(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		m.RunUptime(done)
		close(finished)
	}()
	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("RunUptime did not return after done closed")
	}
}
