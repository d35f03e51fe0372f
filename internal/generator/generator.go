// Package generator produces the precomputed lookup tables offline.
//
// Per-hand tables are computed by a pool of workers over batches of hand
// ranks and written strictly in rank order, so the output is byte-identical
// however the work was scheduled and however often the run was interrupted.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"

	"holdwise/internal/aggregate"
	"holdwise/internal/cards"
	"holdwise/internal/combin"
	"holdwise/internal/paytable"
	"holdwise/internal/strategy"
)

type Mode string

const (
	ModeStrategy  Mode = "strategy"
	ModeAgnostic  Mode = "agnostic"
	ModeLegacy    Mode = "legacy"
	ModeAggregate Mode = "aggregate"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeStrategy, ModeAgnostic, ModeLegacy, ModeAggregate:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) format() strategy.Format {
	switch m {
	case ModeAgnostic:
		return strategy.FormatAgnostic
	case ModeLegacy:
		return strategy.FormatLegacy
	}
	return strategy.FormatStrategy
}

const (
	DefaultCheckpointEvery = 10000
	DefaultBatchSize       = 512
)

// DefaultThreads is half the available cores, at least one and at most four.
func DefaultThreads() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	if n > 4 {
		n = 4
	}
	return n
}

type Config struct {
	Mode            Mode
	Output          string
	Checkpoint      string
	Threads         int
	CheckpointEvery int
	BatchSize       int
	// Limit stops the run once this many hands are written; zero means all.
	Limit int
	// Fresh discards any previous checkpoint and output.
	Fresh bool
	// Schedule is the reference schedule for strategy and legacy EVs.
	Schedule paytable.Schedule
	// Aggregate serves the per-class solves; it is built in memory when nil.
	Aggregate *aggregate.Table
	// Progress is called after every checkpoint and once at the end.
	Progress func(Progress)
	// Ledger, when set, records the run. Its failures are logged only.
	Ledger Ledger
}

type Progress struct {
	Next   int
	End    int
	Solves int64
}

// Result describes where a run ended.
type Result struct {
	NextHandIndex int
	End           int
	Written       int
	Solves        int64
	Complete      bool
}

func (c *Config) normalize() error {
	if c.Output == "" || (c.Checkpoint == "" && c.Mode != ModeAggregate) {
		return ErrMissingPath
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Threads <= 0 {
		c.Threads = DefaultThreads()
	}
	if c.CheckpointEvery <= 0 {
		c.CheckpointEvery = DefaultCheckpointEvery
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Limit <= 0 || c.Limit > strategy.NumHands {
		c.Limit = strategy.NumHands
	}
	if c.Schedule.Name == "" {
		c.Schedule = paytable.Default()
	}
	return nil
}

// Run generates cfg.Output. Cancelling ctx stops the run cleanly: batches in
// flight finish, everything writable is flushed, and the checkpoint is saved
// so a later Run resumes where this one stopped.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.normalize(); err != nil {
		return Result{}, err
	}
	if cfg.Mode == ModeAggregate {
		return runAggregate(ctx, cfg)
	}
	if cfg.Aggregate == nil {
		log.Info().Msg("building aggregate table in memory")
		t, err := aggregate.BuildContext(ctx, nil)
		if err != nil {
			log.Info().Msg("stopped before generation started")
			return Result{}, nil
		}
		cfg.Aggregate = t
	}
	return runHands(ctx, cfg)
}

// runAggregate writes nothing when stopped early; the build has no partial
// form worth resuming.
func runAggregate(ctx context.Context, cfg Config) (Result, error) {
	t, err := aggregate.BuildContext(ctx, func(done, total int) {
		if cfg.Progress != nil {
			cfg.Progress(Progress{Next: done, End: total})
		}
	})
	if err != nil {
		log.Info().Str("path", cfg.Output).Msg("aggregate build stopped, nothing written")
		return Result{}, nil
	}
	if err := t.Save(cfg.Output); err != nil {
		return Result{}, err
	}
	log.Info().Str("path", cfg.Output).Int("bytes", aggregate.Size()).Msg("aggregate table written")
	return Result{Complete: true}, nil
}

func runHands(ctx context.Context, cfg Config) (Result, error) {
	recordSize := cfg.Mode.format().RecordSize()
	cp, err := prepare(cfg, recordSize)
	if err != nil {
		return Result{}, err
	}

	out, err := os.OpenFile(cfg.Output, os.O_WRONLY, 0o644)
	if err != nil {
		return Result{}, err
	}
	defer out.Close()
	if _, err := out.Seek(cp.NextHandIndex*int64(recordSize), 0); err != nil {
		return Result{}, err
	}

	p := newPipeline(cfg, out, cp)
	runID := p.startLedger(ctx)
	runErr := p.run(ctx)
	res := p.result()

	status := statusFor(res, runErr)
	p.finishLedger(runID, status, runErr)
	if runErr != nil {
		log.Error().Err(runErr).Int("next_hand_index", res.NextHandIndex).Msg("generation failed")
		return res, runErr
	}
	log.Info().
		Str("mode", string(cfg.Mode)).
		Int("next_hand_index", res.NextHandIndex).
		Int64("canonical_solves", res.Solves).
		Bool("complete", res.Complete).
		Msg("generation stopped")
	return res, nil
}

// prepare resolves the starting point and leaves the output truncated to
// exactly the checkpointed records.
func prepare(cfg Config, recordSize int) (Checkpoint, error) {
	fresh := Checkpoint{Mode: string(cfg.Mode), Paytable: paytableFor(cfg)}
	if cfg.Fresh {
		if err := os.Remove(cfg.Checkpoint); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Checkpoint{}, err
		}
		return fresh, truncate(cfg.Output, 0)
	}

	cp, ok, err := LoadCheckpoint(cfg.Checkpoint)
	if err != nil {
		return Checkpoint{}, err
	}
	if !ok {
		return fresh, truncate(cfg.Output, 0)
	}
	if cp.Mode != fresh.Mode || cp.Paytable != fresh.Paytable {
		return Checkpoint{}, fmt.Errorf("%w: checkpoint is %s/%s, run is %s/%s",
			ErrCheckpointMismatch, cp.Mode, cp.Paytable, fresh.Mode, fresh.Paytable)
	}
	if cp.NextHandIndex < 0 || cp.NextHandIndex > strategy.NumHands {
		return Checkpoint{}, fmt.Errorf("%w: next hand index %d", ErrCheckpointMismatch, cp.NextHandIndex)
	}

	want := cp.NextHandIndex * int64(recordSize)
	info, err := os.Stat(cfg.Output)
	if err != nil {
		return Checkpoint{}, err
	}
	if info.Size() < want {
		return Checkpoint{}, fmt.Errorf("%w: %d bytes, checkpoint needs %d", ErrOutputShort, info.Size(), want)
	}
	log.Info().Int64("next_hand_index", cp.NextHandIndex).Int64("discarded_bytes", info.Size()-want).Msg("resuming from checkpoint")
	return cp, truncate(cfg.Output, want)
}

// paytableFor names the schedule baked into the output; agnostic tables
// depend on none.
func paytableFor(cfg Config) string {
	if cfg.Mode == ModeAgnostic {
		return ""
	}
	return cfg.Schedule.Name
}

func truncate(path string, size int64) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func unrankHand(r int) [cards.HandSize]uint8 {
	var idx [cards.HandSize]uint8
	combin.UnrankInto(idx[:], r, cards.DeckSize)
	return idx
}
