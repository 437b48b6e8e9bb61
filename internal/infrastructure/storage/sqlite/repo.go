package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"perpdesk/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  name TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts_ms);
CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  asset TEXT NOT NULL,
  status TEXT NOT NULL,
  detail TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_asset ON submissions(asset);
`)
	return err
}

func (r *Repo) InsertEvent(ctx context.Context, ts int64, name, payload string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events(ts_ms, name, payload, created_at) VALUES(?, ?, ?, ?)`,
		ts, name, payload, time.Now().UnixMilli())
	return err
}

func (r *Repo) InsertSubmission(ctx context.Context, id, kind, asset, status, detail string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions(id, kind, asset, status, detail, created_at) VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status=excluded.status, detail=excluded.detail`,
		id, kind, asset, status, detail, time.Now().UnixMilli())
	return err
}

// ListEvents returns up to limit most recent events for name, newest first.
func (r *Repo) ListEvents(ctx context.Context, name string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM events WHERE name = ? ORDER BY ts_ms DESC LIMIT ?`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ port.EventJournal = (*Repo)(nil)
