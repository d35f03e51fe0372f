package engine

import (
	"github.com/rs/zerolog/log"

	"holdwise/internal/aggregate"
	"holdwise/internal/paytable"
	"holdwise/internal/strategy"
)

// Tables names the precomputed files to load. Empty paths are skipped.
type Tables struct {
	AggregatePath     string
	AgnosticPath      string
	StrategyPath      string
	StrategyFormat    strategy.Format
	StrategyReference paytable.Schedule
}

// Loaded holds whatever tables opened successfully.
type Loaded struct {
	Aggregate *aggregate.Table
	Agnostic  *strategy.Table
	Strategy  *strategy.Table
}

// Options turns the loaded tables into engine options.
func (l *Loaded) Options(reference paytable.Schedule) []Option {
	var opts []Option
	if l.Aggregate != nil {
		opts = append(opts, WithAggregate(l.Aggregate))
	}
	if l.Agnostic != nil {
		opts = append(opts, WithAgnosticTable(l.Agnostic))
	}
	if l.Strategy != nil {
		opts = append(opts, WithStrategyTable(l.Strategy, reference))
	}
	return opts
}

func (l *Loaded) Close() error {
	var closers []interface{ Close() error }
	if l.Aggregate != nil {
		closers = append(closers, l.Aggregate)
	}
	if l.Agnostic != nil {
		closers = append(closers, l.Agnostic)
	}
	if l.Strategy != nil {
		closers = append(closers, l.Strategy)
	}
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Load opens every configured table. A table that is missing or malformed
// is logged and left out; the engine then answers from the next resolver.
func Load(t Tables) *Loaded {
	l := &Loaded{}
	if t.AggregatePath != "" {
		a, err := aggregate.Load(t.AggregatePath)
		if err != nil {
			metricTableLoadErrors.Add(1)
			log.Warn().Err(err).Str("path", t.AggregatePath).Msg("aggregate table unavailable")
		} else {
			l.Aggregate = a
			log.Info().Str("path", t.AggregatePath).Msg("aggregate table loaded")
		}
	}
	if t.AgnosticPath != "" {
		a, err := strategy.Open(t.AgnosticPath, strategy.FormatAgnostic)
		if err != nil {
			metricTableLoadErrors.Add(1)
			log.Warn().Err(err).Str("path", t.AgnosticPath).Msg("agnostic table unavailable")
		} else {
			l.Agnostic = a
			log.Info().Str("path", t.AgnosticPath).Msg("agnostic table loaded")
		}
	}
	if t.StrategyPath != "" {
		s, err := strategy.Open(t.StrategyPath, t.StrategyFormat)
		if err != nil {
			metricTableLoadErrors.Add(1)
			log.Warn().Err(err).Str("path", t.StrategyPath).Str("format", t.StrategyFormat.String()).Msg("strategy table unavailable")
		} else {
			l.Strategy = s
			log.Info().Str("path", t.StrategyPath).Str("format", t.StrategyFormat.String()).Msg("strategy table loaded")
		}
	}
	return l
}

// Open loads the tables and builds an engine over them.
func Open(t Tables, opts ...Option) (*Engine, *Loaded) {
	l := Load(t)
	all := append(l.Options(t.StrategyReference), opts...)
	return New(all...), l
}
