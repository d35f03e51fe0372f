package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"holdwise/internal/config"
	"holdwise/internal/engine"
	"holdwise/internal/logging"
	"holdwise/internal/paytable"
	"holdwise/internal/strategy"
	httptransport "holdwise/internal/transport/http"
)

func main() {
	_ = godotenv.Load()

	app, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(app.Log)
	cfg := app.Server

	e, tables, err := newEngine(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("engine init failed")
	}
	defer tables.Close()
	log.Info().
		Str("paytable", e.Schedule().Name).
		Strs("resolvers", e.Stats().Resolvers).
		Float64("baseline_ev", e.Baseline()).
		Msg("engine ready")

	r := httptransport.NewRouter(e, cfg)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func newEngine(cfg config.ServerConfig) (*engine.Engine, *engine.Loaded, error) {
	sched, err := paytable.Lookup(cfg.Paytable)
	if err != nil {
		return nil, nil, err
	}
	ref, err := paytable.Lookup(cfg.StrategyTablePaytable)
	if err != nil {
		return nil, nil, err
	}
	format, err := strategy.ParseFormat(cfg.StrategyTableFormat)
	if err != nil {
		return nil, nil, err
	}
	e, loaded := engine.Open(engine.Tables{
		AggregatePath:     cfg.AggregateTablePath,
		AgnosticPath:      cfg.AgnosticTablePath,
		StrategyPath:      cfg.StrategyTablePath,
		StrategyFormat:    format,
		StrategyReference: ref,
	},
		engine.WithSchedule(sched),
		engine.WithCoins(cfg.Coins),
		engine.WithCacheLimits(cfg.EVCacheMax, cfg.TemplateCacheMax),
	)
	return e, loaded, nil
}
