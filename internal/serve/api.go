package serve

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tagspc/tagspc/internal/history"
)

// ReportSource reads back stored reports; *history.Store satisfies it.
type ReportSource interface {
	Recent(ctx context.Context, tag string, limit int) ([]history.Entry, error)
}

// API serves the JSON endpoints for serve mode.
type API struct {
	store     ReportSource // nil when storage is disabled
	hub       *Hub
	tagCount  int
	startedAt time.Time
}

// NewAPI wires the handlers. store may be nil when storage is disabled;
// the reports endpoint then answers 404.
func NewAPI(store ReportSource, hub *Hub, tagCount int, startedAt time.Time) *API {
	return &API{store: store, hub: hub, tagCount: tagCount, startedAt: startedAt}
}

// Register attaches the API routes to mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/health", a.handleHealth)
	mux.HandleFunc("/api/v1/reports", a.handleReports)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"uptime_sec":  int(time.Since(a.startedAt).Seconds()),
		"watch_tags":  a.tagCount,
		"ws_clients":  a.hub.Count(),
		"storage":     a.store != nil,
		"server_time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if a.store == nil {
		jsonErr(w, http.StatusNotFound, "report storage is disabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			jsonErr(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	entries, err := a.store.Recent(r.Context(), r.URL.Query().Get("tag"), limit)
	if err != nil {
		slog.Error("api: recent reports query failed", "err", err)
		jsonErr(w, http.StatusInternalServerError, "failed to read reports")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	jsonResp(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"reports": entries,
	})
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: encode response failed", "err", err)
	}
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, map[string]string{"status": "error", "message": msg})
}
