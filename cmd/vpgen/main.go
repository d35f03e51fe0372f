package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"

	"holdwise/internal/aggregate"
	"holdwise/internal/config"
	"holdwise/internal/generator"
	"holdwise/internal/logging"
	"holdwise/internal/paytable"
	"holdwise/internal/store"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	mode            string
	output          string
	checkpoint      string
	threads         int
	checkpointEvery int
	batchSize       int
	limit           int
	fresh           bool
	aggregate       string
	paytable        string
	progress        bool
}

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.LoadGenApp()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}
	logging.Init(cfg.Log)

	opts, err := parseFlags(args, cfg.Generator, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	genCfg, cleanup, err := buildConfig(opts, cfg.Generator)
	if err != nil {
		fmt.Fprintf(stderr, "vpgen: %v\n", err)
		return exitUsage
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := &progressBar{title: "vpgen " + string(genCfg.Mode)}
	if opts.progress {
		genCfg.Progress = bar.report
	}
	res, err := generator.Run(ctx, genCfg)
	bar.stop()
	if err != nil {
		log.Error().Err(err).Msg("vpgen failed")
		return exitError
	}
	if !res.Complete {
		log.Info().Int("next_hand_index", res.NextHandIndex).Msg("stopped; rerun with the same flags to resume")
	}
	return exitOK
}

func parseFlags(args []string, defaults config.GeneratorConfig, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("vpgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.mode, "mode", defaults.Mode, "strategy | agnostic | legacy | aggregate")
	fs.StringVar(&o.output, "output", defaults.Output, "output table path (required)")
	fs.StringVar(&o.checkpoint, "checkpoint", defaults.Checkpoint, "checkpoint path (required except in aggregate mode)")
	fs.IntVar(&o.threads, "threads", defaults.Threads, "worker count; 0 picks half the cores, at most 4")
	fs.IntVar(&o.checkpointEvery, "checkpoint-every", defaults.CheckpointEvery, "hands written between checkpoints")
	fs.IntVar(&o.batchSize, "batch-size", defaults.BatchSize, "hands per worker batch")
	fs.IntVar(&o.limit, "limit", 0, "stop after the first n hands; 0 means all")
	fs.BoolVar(&o.fresh, "fresh", false, "discard any previous checkpoint and output")
	fs.StringVar(&o.aggregate, "aggregate", defaults.Aggregate, "prebuilt aggregate table; built in memory when empty")
	fs.StringVar(&o.paytable, "paytable", defaults.Paytable, "reference schedule for strategy and legacy EVs")
	fs.BoolVar(&o.progress, "progress", false, "show a progress bar")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return o, fmt.Errorf("unexpected arguments")
	}
	if o.output == "" || (o.checkpoint == "" && o.mode != string(generator.ModeAggregate)) {
		fmt.Fprintln(stderr, "--output and --checkpoint are required")
		fs.Usage()
		return o, generator.ErrMissingPath
	}
	return o, nil
}

func buildConfig(o options, defaults config.GeneratorConfig) (generator.Config, func(), error) {
	noop := func() {}
	mode, err := generator.ParseMode(o.mode)
	if err != nil {
		return generator.Config{}, noop, err
	}
	sched, err := paytable.Lookup(o.paytable)
	if err != nil {
		return generator.Config{}, noop, err
	}
	cfg := generator.Config{
		Mode:            mode,
		Output:          o.output,
		Checkpoint:      o.checkpoint,
		Threads:         o.threads,
		CheckpointEvery: o.checkpointEvery,
		BatchSize:       o.batchSize,
		Limit:           o.limit,
		Fresh:           o.fresh,
		Schedule:        sched,
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if o.aggregate != "" && mode != generator.ModeAggregate {
		t, err := aggregate.Load(o.aggregate)
		if err != nil {
			return generator.Config{}, noop, fmt.Errorf("load aggregate table: %w", err)
		}
		cfg.Aggregate = t
		closers = append(closers, func() { _ = t.Close() })
	}
	if defaults.PostgresDSN != "" {
		st, err := store.New(defaults.PostgresDSN)
		if err == nil {
			err = st.EnsureSchema(context.Background())
			if err != nil {
				st.Close()
			}
		}
		if err != nil {
			log.Warn().Err(err).Msg("run ledger disabled")
		} else {
			cfg.Ledger = st
			closers = append(closers, st.Close)
		}
	}
	return cfg, cleanup, nil
}

// progressBar draws a pterm bar sized on the first report, which carries
// the run's end.
type progressBar struct {
	title string
	bar   *pterm.ProgressbarPrinter
	last  int
}

func (b *progressBar) report(p generator.Progress) {
	if b.bar == nil {
		bar, err := pterm.DefaultProgressbar.WithTotal(p.End).WithTitle(b.title).Start()
		if err != nil {
			return
		}
		b.bar = bar
	}
	if p.Next > b.last {
		b.bar.Add(p.Next - b.last)
		b.last = p.Next
	}
}

func (b *progressBar) stop() {
	if b.bar != nil {
		_, _ = b.bar.Stop()
	}
}
