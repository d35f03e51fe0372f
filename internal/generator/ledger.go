package generator

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"holdwise/internal/store"
)

// Ledger records generator runs somewhere durable.
type Ledger interface {
	CreateRun(ctx context.Context, p store.CreateRunParams) (string, error)
	UpdateRunProgress(ctx context.Context, id string, handsWritten, canonicalSolves int64) error
	FinishRun(ctx context.Context, id, status string, handsWritten, canonicalSolves int64, runErr string) error
}

var _ Ledger = (*store.Store)(nil)

const ledgerTimeout = 5 * time.Second

func (p *pipeline) startLedger(ctx context.Context) string {
	if p.cfg.Ledger == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
	defer cancel()
	id, err := p.cfg.Ledger.CreateRun(ctx, store.CreateRunParams{
		Mode:           string(p.cfg.Mode),
		OutputPath:     p.cfg.Output,
		Paytable:       paytableFor(p.cfg),
		StartHandIndex: int64(p.next),
	})
	if err != nil {
		metricLedgerErrors.Add(1)
		log.Warn().Err(err).Msg("run ledger unavailable")
		return ""
	}
	log.Info().Str("run_id", id).Msg("run recorded")

	// Progress reaches the ledger through the checkpoint hook.
	userProgress := p.cfg.Progress
	p.cfg.Progress = func(pr Progress) {
		if userProgress != nil {
			userProgress(pr)
		}
		uctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
		defer cancel()
		if err := p.cfg.Ledger.UpdateRunProgress(uctx, id, int64(pr.Next), pr.Solves); err != nil {
			metricLedgerErrors.Add(1)
			log.Warn().Err(err).Str("run_id", id).Msg("run progress not recorded")
		}
	}
	return id
}

func (p *pipeline) finishLedger(id, status string, runErr error) {
	if p.cfg.Ledger == nil || id == "" {
		return
	}
	res := p.result()
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()
	if err := p.cfg.Ledger.FinishRun(ctx, id, status, int64(res.NextHandIndex), res.Solves, msg); err != nil {
		metricLedgerErrors.Add(1)
		log.Warn().Err(err).Str("run_id", id).Msg("run result not recorded")
	}
}

func statusFor(res Result, err error) string {
	switch {
	case err != nil:
		return store.RunStatusFailed
	case res.Complete:
		return store.RunStatusComplete
	}
	return store.RunStatusStopped
}
