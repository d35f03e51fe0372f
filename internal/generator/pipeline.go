package generator

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type pipeline struct {
	cfg    Config
	solver *solver
	end    int

	cursorMu sync.Mutex
	cursor   int

	// Guarded by writeMu. pending holds finished batches keyed by their first
	// hand rank until every lower batch has been written.
	writeMu          sync.Mutex
	out              *os.File
	pending          map[int][]byte
	next             int
	written          int64
	sinceCheckpoint  int
	baseSolves       int64
	lastCheckpointed int
}

func newPipeline(cfg Config, out *os.File, cp Checkpoint) *pipeline {
	start := int(cp.NextHandIndex)
	return &pipeline{
		cfg:              cfg,
		solver:           newSolver(cfg.Aggregate),
		end:              cfg.Limit,
		cursor:           start,
		out:              out,
		pending:          make(map[int][]byte),
		next:             start,
		written:          cp.WrittenRecords,
		baseSolves:       cp.CalculationsDone,
		lastCheckpointed: start,
	}
}

// claim hands out the next batch of ranks, or ok=false once exhausted.
func (p *pipeline) claim() (start, end int, ok bool) {
	p.cursorMu.Lock()
	defer p.cursorMu.Unlock()
	if p.cursor >= p.end {
		return 0, 0, false
	}
	start = p.cursor
	end = min(start+p.cfg.BatchSize, p.end)
	p.cursor = end
	return start, end, true
}

func (p *pipeline) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.cfg.Threads; i++ {
		g.Go(func() error {
			return p.work(gctx)
		})
	}
	err := g.Wait()

	// Whatever is contiguous is already on disk; make it durable.
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if cpErr := p.checkpointLocked(); cpErr != nil {
		if err == nil {
			return cpErr
		}
		log.Error().Err(cpErr).Msg("final checkpoint failed")
	}
	if p.cfg.Progress != nil {
		p.cfg.Progress(p.progressLocked())
	}
	return err
}

func (p *pipeline) work(ctx context.Context) error {
	recordSize := p.cfg.Mode.format().RecordSize()
	for {
		if ctx.Err() != nil {
			return nil
		}
		start, end, ok := p.claim()
		if !ok {
			return nil
		}
		buf := make([]byte, 0, (end-start)*recordSize)
		for r := start; r < end; r++ {
			buf = p.solver.encodeHand(buf, p.cfg.Mode, p.cfg.Schedule, r)
		}
		if err := p.submit(start, buf); err != nil {
			return err
		}
	}
}

// submit parks a finished batch and writes out every batch that is now
// contiguous with the file.
func (p *pipeline) submit(start int, buf []byte) error {
	recordSize := p.cfg.Mode.format().RecordSize()
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.pending[start] = buf
	for {
		b, ok := p.pending[p.next]
		if !ok {
			return nil
		}
		delete(p.pending, p.next)
		if _, err := p.out.Write(b); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		n := len(b) / recordSize
		p.next += n
		p.written += int64(n)
		p.sinceCheckpoint += n
		metricHandsWritten.Add(int64(n))
		if p.sinceCheckpoint >= p.cfg.CheckpointEvery {
			if err := p.checkpointLocked(); err != nil {
				return err
			}
			if p.cfg.Progress != nil {
				p.cfg.Progress(p.progressLocked())
			}
		}
	}
}

// checkpointLocked syncs the output before recording it, so a checkpoint
// never points past durable data.
func (p *pipeline) checkpointLocked() error {
	if p.next == p.lastCheckpointed && p.sinceCheckpoint == 0 {
		return nil
	}
	if err := p.out.Sync(); err != nil {
		return fmt.Errorf("sync output: %w", err)
	}
	cp := Checkpoint{
		Mode:             string(p.cfg.Mode),
		Paytable:         paytableFor(p.cfg),
		NextHandIndex:    int64(p.next),
		WrittenRecords:   p.written,
		CalculationsDone: p.baseSolves + p.solver.solves.Load(),
	}
	if err := SaveCheckpoint(p.cfg.Checkpoint, cp); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	p.sinceCheckpoint = 0
	p.lastCheckpointed = p.next
	log.Debug().Int("next_hand_index", p.next).Int64("calculations_done", cp.CalculationsDone).Msg("checkpoint saved")
	return nil
}

func (p *pipeline) progressLocked() Progress {
	return Progress{Next: p.next, End: p.end, Solves: p.baseSolves + p.solver.solves.Load()}
}

func (p *pipeline) result() Result {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return Result{
		NextHandIndex: p.next,
		End:           p.end,
		Written:       int(p.written),
		Solves:        p.baseSolves + p.solver.solves.Load(),
		Complete:      p.next >= p.end,
	}
}
