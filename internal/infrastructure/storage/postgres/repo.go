package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"perpdesk/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

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
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  name TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts_ms);
CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  asset TEXT NOT NULL,
  status TEXT NOT NULL,
  detail TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`)
	return err
}

func (r *Repo) InsertEvent(ctx context.Context, ts int64, name, payload string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events(ts_ms, name, payload, created_at) VALUES($1, $2, $3, $4)`,
		ts, name, payload, time.Now().UnixMilli())
	return err
}

func (r *Repo) InsertSubmission(ctx context.Context, id, kind, asset, status, detail string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions(id, kind, asset, status, detail, created_at)
		 VALUES($1, $2, $3, $4, $5, $6)
		 ON CONFLICT(id) DO UPDATE SET status=EXCLUDED.status, detail=EXCLUDED.detail`,
		id, kind, asset, status, detail, time.Now().UnixMilli())
	return err
}

var _ port.EventJournal = (*Repo)(nil)
