package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not_found")

// Store is the Postgres ledger of generation runs.
type Store struct {
	Pool *pgxpool.Pool
}

// maxConns covers one writer per run plus the odd reader; the ledger is
// written a few times per checkpoint at most.
const maxConns = 4

func New(dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = maxConns
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS generation_runs (
  id                TEXT PRIMARY KEY,
  mode              TEXT NOT NULL,
  output_path       TEXT NOT NULL,
  paytable          TEXT NOT NULL DEFAULT '',
  status            TEXT NOT NULL,
  start_hand_index  BIGINT NOT NULL DEFAULT 0,
  hands_written     BIGINT NOT NULL DEFAULT 0,
  canonical_solves  BIGINT NOT NULL DEFAULT 0,
  error             TEXT,
  started_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  finished_at       TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS generation_runs_started_at_idx ON generation_runs (started_at DESC);
`

// EnsureSchema creates the run ledger table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schemaSQL)
	return err
}
