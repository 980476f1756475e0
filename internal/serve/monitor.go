package serve

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tagspc/tagspc/internal/config"
	"github.com/tagspc/tagspc/internal/historian"
	"github.com/tagspc/tagspc/internal/spc"
)

// Querier is the slice of the historian client the monitor needs.
type Querier interface {
	QueryTag(ctx context.Context, tag, start, end string) ([]historian.Point, error)
}

// Archiver persists evaluated reports; *history.Store satisfies it.
type Archiver interface {
	Save(ctx context.Context, rep *spc.Report) error
}

// Monitor periodically re-evaluates every watched tag over the trailing
// window. Each tick is a fresh, independent batch evaluation through the
// SPC core; no rule state survives between ticks.
type Monitor struct {
	q       Querier
	hub     *Hub
	metrics *Metrics
	archive Archiver // nil disables persistence

	mu  sync.RWMutex
	cfg config.Serve

	now func() time.Time // injectable for deterministic tests
}

// NewMonitor wires a Monitor. archive may be nil when storage is disabled.
func NewMonitor(cfg config.Serve, q Querier, hub *Hub, metrics *Metrics, archive Archiver) *Monitor {
	return &Monitor{
		q:       q,
		hub:     hub,
		metrics: metrics,
		archive: archive,
		cfg:     cfg,
		now:     time.Now,
	}
}

// UpdateConfig swaps the watched tag list and window on config reload.
// The tick interval stays as started; changing it requires a restart.
func (m *Monitor) UpdateConfig(cfg config.Serve) {
	m.mu.Lock()
	m.cfg.Tags = cfg.Tags
	m.cfg.Window = cfg.Window
	m.mu.Unlock()
	slog.Info("monitor: watch list updated", "tags", len(cfg.Tags))
}

// Run evaluates all tags once immediately, then on every interval tick
// until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.evaluateAll(ctx)

	t := time.NewTicker(m.cfg.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.evaluateAll(ctx)
		}
	}
}

func (m *Monitor) evaluateAll(ctx context.Context) {
	m.mu.RLock()
	tags := make([]config.WatchTag, len(m.cfg.Tags))
	copy(tags, m.cfg.Tags)
	window := m.cfg.Window
	m.mu.RUnlock()

	for _, wt := range tags {
		if ctx.Err() != nil {
			return
		}
		rep := m.evaluate(ctx, wt, window)
		if rep == nil {
			continue
		}

		if m.archive != nil {
			if err := m.archive.Save(ctx, rep); err != nil {
				slog.Error("monitor: archive save failed", "tag", wt.Tag, "err", err)
			}
		}
		m.hub.Broadcast(rep)
		m.metrics.ObserveReport(rep)

		if rep.ViolationCount > 0 {
			slog.Warn("monitor: violations detected",
				"tag", wt.Tag,
				"violations", rep.ViolationCount,
				"summary", rep.ViolationSummary,
			)
		} else {
			slog.Debug("monitor: tag evaluated", "tag", wt.Tag)
		}
	}
}

// evaluate runs one batch evaluation for a single watch tag. Returns nil
// when the historian query failed; the failure is counted, not fatal.
func (m *Monitor) evaluate(ctx context.Context, wt config.WatchTag, window time.Duration) *spc.Report {
	now := m.now().UTC()
	start := now.Add(-window).Format(time.RFC3339)
	end := now.Format(time.RFC3339)

	points, err := m.q.QueryTag(ctx, wt.Tag, start, end)
	if err != nil {
		slog.Warn("monitor: historian query failed", "tag", wt.Tag, "err", err)
		m.metrics.ObserveQueryError()
		return nil
	}

	return spc.Evaluate(wt.Tag, spc.Period{Start: start, End: end},
		historian.Numeric(points),
		spc.Overrides{UCL: wt.UCL, LCL: wt.LCL, Target: wt.Target})
}
