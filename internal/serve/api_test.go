package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tagspc/tagspc/internal/history"
)

type fakeSource struct {
	entries []history.Entry
	gotTag  string
	gotLim  int
}

func (f *fakeSource) Recent(ctx context.Context, tag string, limit int) ([]history.Entry, error) {
	f.gotTag, f.gotLim = tag, limit
	return f.entries, nil
}

func apiMux(store ReportSource) *http.ServeMux {
	mux := http.NewServeMux()
	api := NewAPI(store, NewHub(), 4, time.Now().Add(-90*time.Second))
	api.Register(mux)
	return mux
}

func TestAPI_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	apiMux(&fakeSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Status    string `json:"status"`
		UptimeSec int    `json:"uptime_sec"`
		WatchTags int    `json:"watch_tags"`
		Storage   bool   `json:"storage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.WatchTags != 4 || !body.Storage {
		t.Errorf("body = %+v", body)
	}
	if body.UptimeSec < 90 {
		t.Errorf("uptime_sec = %d, want >= 90", body.UptimeSec)
	}
}

func TestAPI_Reports(t *testing.T) {
	src := &fakeSource{entries: []history.Entry{
		{ID: 2, Tag: "a", Status: "ok"},
		{ID: 1, Tag: "a", Status: "ok", ViolationCount: 3},
	}}
	rec := httptest.NewRecorder()
	apiMux(src).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/reports?tag=a&limit=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if src.gotTag != "a" || src.gotLim != 10 {
		t.Errorf("query passed tag=%q limit=%d, want a/10", src.gotTag, src.gotLim)
	}

	var body struct {
		Count   int             `json:"count"`
		Reports []history.Entry `json:"reports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 || len(body.Reports) != 2 {
		t.Errorf("count = %d, reports = %d, want 2/2", body.Count, len(body.Reports))
	}
}

func TestAPI_ReportsEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	apiMux(&fakeSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))

	var body struct {
		Reports json.RawMessage `json:"reports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body.Reports) != "[]" {
		t.Errorf("reports = %s, want []", body.Reports)
	}
}

func TestAPI_ReportsBadLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	apiMux(&fakeSource{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/reports?limit=nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAPI_ReportsStorageDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	apiMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	for _, path := range []string{"/api/v1/health", "/api/v1/reports"} {
		rec := httptest.NewRecorder()
		apiMux(&fakeSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want 405", path, rec.Code)
		}
	}
}
