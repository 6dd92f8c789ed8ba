package infra

import (
	"context"
	"testing"
	"time"

	"stravan-client/client/dispatch/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromStatsStore_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	pool := NewChanPool(4)
	s, err := NewPromStatsStore(reg, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	_ = s.Record(ctx, domain.StatsEvent{Version: domain.V2, Secure: true, Operation: domain.FetchText, OK: true, Duration: 5 * time.Millisecond})
	_ = s.Record(ctx, domain.StatsEvent{Version: domain.V2, Secure: true, Operation: domain.FetchText, OK: true})
	_ = s.Record(ctx, domain.StatsEvent{Version: domain.V1, Operation: domain.FetchBytes,
		Kind: domain.KindTransportFailure, StatusCode: 503})

	if got := testutil.ToFloat64(s.requests.WithLabelValues("v2", "true", "fetch_text", "ok")); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(s.requests.WithLabelValues("v1", "false", "fetch_bytes", "transport_failure")); got != 1 {
		t.Fatalf("expected 1 transport failure, got %v", got)
	}
	if got := testutil.ToFloat64(s.statuses.WithLabelValues("503")); got != 1 {
		t.Fatalf("expected one 503, got %v", got)
	}

	release, _ := pool.Acquire(ctx)
	defer release()
	n, err := testutil.GatherAndCount(reg, "stravan_dispatch_permits_in_use", "stravan_dispatch_permits_capacity")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected pool gauges, got %d series", n)
	}
}

func TestPromStatsStore_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromStatsStore(reg, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewPromStatsStore(reg, nil); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
