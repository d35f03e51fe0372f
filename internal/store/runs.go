package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	RunStatusRunning  = "running"
	RunStatusStopped  = "stopped"
	RunStatusComplete = "complete"
	RunStatusFailed   = "failed"
)

// Run is one generator invocation.
type Run struct {
	ID              string
	Mode            string
	OutputPath      string
	Paytable        string
	Status          string
	StartHandIndex  int64
	HandsWritten    int64
	CanonicalSolves int64
	Error           string
	StartedAt       time.Time
	UpdatedAt       time.Time
	FinishedAt      *time.Time
}

type CreateRunParams struct {
	Mode           string
	OutputPath     string
	Paytable       string
	StartHandIndex int64
}

func (s *Store) CreateRun(ctx context.Context, p CreateRunParams) (string, error) {
	id := NewRunID()
	now := time.Now()
	_, err := s.Pool.Exec(ctx, `
INSERT INTO generation_runs (id, mode, output_path, paytable, status, start_hand_index, hands_written, started_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6, $7, $7)`,
		id, p.Mode, p.OutputPath, p.Paytable, RunStatusRunning, p.StartHandIndex, timestamptzParam(now))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateRunProgress(ctx context.Context, id string, handsWritten, canonicalSolves int64) error {
	tag, err := s.Pool.Exec(ctx, `
UPDATE generation_runs
SET hands_written = $2, canonical_solves = $3, updated_at = now()
WHERE id = $1`, id, handsWritten, canonicalSolves)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FinishRun records the terminal status. runErr is empty unless the run
// failed.
func (s *Store) FinishRun(ctx context.Context, id, status string, handsWritten, canonicalSolves int64, runErr string) error {
	tag, err := s.Pool.Exec(ctx, `
UPDATE generation_runs
SET status = $2, hands_written = $3, canonical_solves = $4, error = $5, updated_at = now(), finished_at = now()
WHERE id = $1`, id, status, handsWritten, canonicalSolves, textParam(runErr))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var (
		r        Run
		errText  pgtype.Text
		started  pgtype.Timestamptz
		updated  pgtype.Timestamptz
		finished pgtype.Timestamptz
	)
	err := s.Pool.QueryRow(ctx, `
SELECT id, mode, output_path, paytable, status, start_hand_index, hands_written, canonical_solves, error, started_at, updated_at, finished_at
FROM generation_runs WHERE id = $1`, id).Scan(
		&r.ID, &r.Mode, &r.OutputPath, &r.Paytable, &r.Status, &r.StartHandIndex,
		&r.HandsWritten, &r.CanonicalSolves, &errText, &started, &updated, &finished,
	)
	if err != nil {
		return Run{}, mapNotFound(err)
	}
	r.Error = textVal(errText)
	r.StartedAt = started.Time
	r.UpdatedAt = updated.Time
	r.FinishedAt = timePtrVal(finished)
	return r, nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx, `SELECT id FROM generation_runs ORDER BY started_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]Run, 0, len(ids))
	for _, id := range ids {
		r, err := s.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
