package historian

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tagspc/tagspc/internal/config"
)

func testConfig(baseURL string) config.Historian {
	return config.Historian{
		BaseURL:    baseURL,
		Dataset:    "Virtual Factory",
		Timeout:    2 * time.Second,
		BatchSize:  5,
		MaxRetries: 2,
	}
}

func TestClient_Query_ParsesAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/api/datasets/Virtual%20Factory/data" &&
			got != "/api/datasets/Virtual Factory/data" {
			t.Errorf("path = %q", got)
		}
		if r.URL.Query().Get("start") != "2026-01-01T06:00:00Z" {
			t.Errorf("start = %q", r.URL.Query().Get("start"))
		}
		// Second point has no "v": a missing reading that must be dropped.
		fmt.Fprint(w, `{"tl":[{"t":{"n":"line1/weight"},"d":[
			{"t":"2026-01-01T06:01:00Z","v":100.5},
			{"t":"2026-01-01T06:02:00Z"},
			{"t":"2026-01-01T06:03:00Z","v":101.25}
		]}]}`)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	points, err := c.QueryTag(context.Background(), "line1/weight",
		"2026-01-01T06:00:00Z", "2026-01-01T18:00:00Z")
	if err != nil {
		t.Fatalf("QueryTag: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2 (missing reading filtered)", len(points))
	}
	if v, ok := points[1].Float(); !ok || v != 101.25 {
		t.Errorf("points[1] = %+v", points[1])
	}
}

func TestClient_Query_Batches(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		names := r.URL.Query()["tagname"]
		if len(names) > 2 {
			t.Errorf("batch carried %d tags, want at most 2", len(names))
		}
		fmt.Fprint(w, `{"tl":[]}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BatchSize = 2
	c := New(cfg)

	tags := []string{"a", "b", "c", "d", "e"}
	if _, err := c.Query(context.Background(), tags, "s", "e"); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("requests = %d, want 3 batches of (2,2,1)", got)
	}
}

func TestClient_Query_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"tl":[{"t":{"n":"a"},"d":[{"t":"t0","v":1.0}]}]}`)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	points, err := c.QueryTag(context.Background(), "a", "s", "e")
	if err != nil {
		t.Fatalf("QueryTag after retry: %v", err)
	}
	if len(points) != 1 {
		t.Errorf("points = %d, want 1", len(points))
	}
	if calls.Load() < 2 {
		t.Errorf("calls = %d, want a retry after the 502", calls.Load())
	}
}

func TestClient_Query_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	if _, err := c.QueryTag(context.Background(), "a", "s", "e"); err == nil {
		t.Fatal("expected error on 404")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want no retries on a 4xx", calls.Load())
	}
}

func TestClient_Query_APIKeyHeader(t *testing.T) {
	t.Setenv("TAGSPC_TEST_HISTORIAN_KEY", "k-123")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "k-123" {
			t.Errorf("X-API-Key = %q", got)
		}
		fmt.Fprint(w, `{"tl":[]}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Auth = config.Auth{Mode: "apikey", Header: "X-API-Key", KeyEnv: "TAGSPC_TEST_HISTORIAN_KEY"}
	c := New(cfg)
	if _, err := c.Query(context.Background(), []string{"a"}, "s", "e"); err != nil {
		t.Fatalf("Query: %v", err)
	}
}

func TestPointHelpers(t *testing.T) {
	points := []Point{
		{Timestamp: "t0", Value: 10.0},
		{Timestamp: "t1", Value: "Running"},
		{Timestamp: "t2", Value: 25.0},
	}

	samples := Numeric(points)
	if len(samples) != 2 || samples[1].Value != 25 {
		t.Errorf("Numeric = %+v, want the two numeric points", samples)
	}

	if v, ok := LatestFloat(points); !ok || v != 25 {
		t.Errorf("LatestFloat = %v/%v", v, ok)
	}
	if s, ok := points[1].Text(); !ok || s != "Running" {
		t.Errorf("Text = %q/%v", s, ok)
	}

	if d, ok := Delta(points[:1]); !ok || d != 0 {
		t.Errorf("Delta single point = %v/%v, want 0/true", d, ok)
	}
	if _, ok := Delta(nil); ok {
		t.Error("Delta of no points should report absent")
	}
	if d, ok := Delta([]Point{{Value: 10.0}, {Value: 35.5}}); !ok || d != 25.5 {
		t.Errorf("Delta = %v/%v, want 25.5/true", d, ok)
	}
}
