package timetable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/warsaw-transit-tools/transfer-engine/config"
)

func testClientConfig(baseURL string) config.TimetableConfig {
	return config.TimetableConfig{
		BaseURL:        baseURL,
		TimeoutMS:      500,
		RetryAttempts:  3,
		RetryBackoffMS: 1,
		CacheTTLMS:     15000,
		FetchSize:      20,
		TrainLines:     []string{"A1"},
	}
}

const departuresBody = `[
	{"vehicle_type_id": 2, "line": "A1", "direction": "Grodzisk", "stop_id": "wkd_wrako", "day": "2026-08-31", "departure_time": 28800, "departure_time_live": 28860},
	{"vehicle_type_id": 3, "route_id": "189", "headsign": "Ursus", "stop_id": "7013", "date": "20260831", "scheduled_sec": 29000}
]`

func TestClientCachesWithinTTL(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		_, _ = w.Write([]byte(departuresBody))
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	ctx := context.Background()

	first := c.GetDepartures(ctx, "wkd_wrako", 10)
	second := c.GetDepartures(ctx, "wkd_wrako", 10)

	if got := atomic.LoadInt64(&requests); got != 1 {
		t.Errorf("expected exactly one upstream fetch within TTL, got %d", got)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("expected 2 departures from both calls, got %d and %d", len(first), len(second))
	}
}

func TestClientRetriesThenSucceeds(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&requests, 1)
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(departuresBody))
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	deps := c.GetDepartures(context.Background(), "wkd_wrako", 10)

	if got := atomic.LoadInt64(&requests); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if len(deps) != 2 {
		t.Errorf("expected departures after retries, got %d", len(deps))
	}
}

func TestClientStaleFallback(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(departuresBody))
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	ctx := context.Background()

	if deps := c.GetDepartures(ctx, "wkd_wrako", 10); len(deps) != 2 {
		t.Fatalf("priming fetch failed: %d departures", len(deps))
	}

	// Expire the cache and knock the upstream over: the stale payload must
	// still be served.
	fail.Store(true)
	c.cache.now = func() time.Time { return time.Now().Add(time.Hour) }

	deps := c.GetDepartures(ctx, "wkd_wrako", 10)
	if len(deps) != 2 {
		t.Errorf("expected stale fallback to serve cached departures, got %d", len(deps))
	}
}

func TestClientEmptyOnTotalFailure(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	deps := c.GetDepartures(context.Background(), "7013", 10)

	if deps == nil || len(deps) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", deps)
	}
	if got := atomic.LoadInt64(&requests); got != 3 {
		t.Errorf("expected all 3 attempts to be made, got %d", got)
	}
}

func TestClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	if deps := c.GetDepartures(context.Background(), "7013", 10); len(deps) != 0 {
		t.Errorf("expected no departures from malformed payload, got %d", len(deps))
	}
}

func TestClientLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(departuresBody))
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	if deps := c.GetDepartures(context.Background(), "wkd_wrako", 1); len(deps) != 1 {
		t.Errorf("expected limit to trim to 1, got %d", len(deps))
	}
	if deps := c.GetDepartures(context.Background(), "wkd_wrako", 0); len(deps) != 2 {
		t.Errorf("expected limit 0 to return all, got %d", len(deps))
	}
}
