// Package history persists produced SPC reports to SQLite so serve mode
// can expose past evaluations and survive restarts.
//
// The payload is stored as JSON next to a few indexed columns; standard
// SQLite tooling can query the database directly.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tagspc/tagspc/internal/spc"
)

const schema = `
CREATE TABLE IF NOT EXISTS spc_reports (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	tag             TEXT NOT NULL,
	period_start    TEXT NOT NULL,
	period_end      TEXT NOT NULL,
	status          TEXT NOT NULL,
	violation_count INTEGER NOT NULL,
	payload         TEXT NOT NULL,
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spc_reports_tag ON spc_reports (tag, created_at);
CREATE INDEX IF NOT EXISTS idx_spc_reports_created ON spc_reports (created_at);
`

// Store is a SQLite-backed report archive. It is safe for concurrent use;
// database/sql serializes access to the underlying connections.
type Store struct {
	db  *sql.DB
	now func() time.Time // injectable for deterministic tests
}

// Entry is one stored report row.
type Entry struct {
	ID             int64       `json:"id"`
	Tag            string      `json:"tag"`
	PeriodStart    string      `json:"period_start"`
	PeriodEnd      string      `json:"period_end"`
	Status         string      `json:"status"`
	ViolationCount int         `json:"violation_count"`
	CreatedAt      time.Time   `json:"created_at"`
	Report         *spc.Report `json:"report"`
}

// Open opens (creating if needed) the report database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Save appends one report to the archive.
func (s *Store) Save(ctx context.Context, rep *spc.Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("history: marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO spc_reports (tag, period_start, period_end, status, violation_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rep.Tag, rep.Period.Start, rep.Period.End, rep.Status, rep.ViolationCount,
		string(payload), s.now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("history: insert report: %w", err)
	}
	return nil
}

// Recent returns the newest entries, newest first. A non-empty tag
// filters to that tag only.
func (s *Store) Recent(ctx context.Context, tag string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, tag, period_start, period_end, status, violation_count, payload, created_at
		FROM spc_reports`
	args := []any{}
	if tag != "" {
		query += ` WHERE tag = ?`
		args = append(args, tag)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var payload string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Tag, &e.PeriodStart, &e.PeriodEnd,
			&e.Status, &e.ViolationCount, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		e.Report = &spc.Report{}
		if err := json.Unmarshal([]byte(payload), e.Report); err != nil {
			return nil, fmt.Errorf("history: unmarshal payload: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries created before cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM spc_reports WHERE created_at < ?`, cutoff.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	return res.RowsAffected()
}

// Run starts the background retention loop, pruning entries older than
// retention once an hour. It blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context, retention time.Duration) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n, err := s.Prune(ctx, now.Add(-retention)); err != nil {
				slog.Error("history: prune failed", "err", err)
			} else if n > 0 {
				slog.Debug("history: pruned old reports", "count", n)
			}
		}
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
