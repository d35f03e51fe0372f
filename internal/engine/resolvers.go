package engine

import (
	"holdwise/internal/aggregate"
	"holdwise/internal/cards"
	"holdwise/internal/handeval"
	"holdwise/internal/paytable"
	"holdwise/internal/strategy"
)

const (
	sourceAggregate  = "aggregate"
	sourceAgnostic   = "agnostic_table"
	sourceStrategy   = "strategy_table"
	sourceTemplate   = "template"
	sourceBruteForce = "brute_force"
	sourceCache      = "cache"
)

type request struct {
	hand      cards.Hand
	mask      cards.HoldMask
	schedule  paytable.Schedule
	needTally bool
}

// resolution carries an exact tally, or only a per-coin EV when the source
// stores nothing else.
type resolution struct {
	tally     handeval.Tally
	hasTally  bool
	evPerCoin float64
	source    string
}

func (r resolution) perCoin(s paytable.Schedule) float64 {
	if r.hasTally {
		return s.EV(r.tally, 1)
	}
	return r.evPerCoin
}

// resolver is one link of the fallback chain. A resolver answers completely
// or not at all.
type resolver interface {
	name() string
	tryResolve(req request) (resolution, bool)
}

// batchResolver answers all 32 holds of a hand at once.
type batchResolver interface {
	name() string
	resolveAll(h cards.Hand) ([cards.NumMasks]handeval.Tally, bool)
}

type aggregateResolver struct {
	table *aggregate.Table
}

func (aggregateResolver) name() string { return sourceAggregate }

func (r aggregateResolver) tryResolve(req request) (resolution, bool) {
	return resolution{tally: r.table.Tally(req.hand, req.mask), hasTally: true, source: sourceAggregate}, true
}

func (r aggregateResolver) resolveAll(h cards.Hand) ([cards.NumMasks]handeval.Tally, bool) {
	idx, pos := h.Sorted()
	sorted := r.table.TallyAll(idx)
	var out [cards.NumMasks]handeval.Tally
	for m := cards.HoldMask(0); m < cards.NumMasks; m++ {
		out[m.Remap(pos)] = sorted[m]
	}
	return out, true
}

type agnosticResolver struct {
	table *strategy.Table
}

func (agnosticResolver) name() string { return sourceAgnostic }

func (r agnosticResolver) tryResolve(req request) (resolution, bool) {
	t, ok := r.table.Tally(req.hand, req.mask)
	if !ok {
		return resolution{}, false
	}
	return resolution{tally: t, hasTally: true, source: sourceAgnostic}, true
}

func (r agnosticResolver) resolveAll(h cards.Hand) ([cards.NumMasks]handeval.Tally, bool) {
	var out [cards.NumMasks]handeval.Tally
	for m := cards.HoldMask(0); m < cards.NumMasks; m++ {
		t, ok := r.table.Tally(h, m)
		if !ok {
			return out, false
		}
		out[m] = t
	}
	return out, true
}

// strategyResolver only knows each hand's stored optimum. Winning counts are
// schedule independent, so a strategy-format record serves any schedule; a
// legacy record's EV is only valid for the schedule it was generated under.
type strategyResolver struct {
	table     *strategy.Table
	reference paytable.Schedule
}

func (strategyResolver) name() string { return sourceStrategy }

func (r strategyResolver) tryResolve(req request) (resolution, bool) {
	e, ok := r.table.Lookup(req.hand)
	if !ok || e.Mask != req.mask {
		return resolution{}, false
	}
	if e.HasWins {
		return resolution{tally: e.WinsTally(), hasTally: true, source: sourceStrategy}, true
	}
	if req.needTally || !req.schedule.Equal(r.reference) {
		return resolution{}, false
	}
	return resolution{evPerCoin: e.EV, source: sourceStrategy}, true
}

type bruteForceResolver struct{}

func (bruteForceResolver) name() string { return sourceBruteForce }

func (bruteForceResolver) tryResolve(req request) (resolution, bool) {
	return resolution{tally: handeval.DrawTally(req.hand, req.mask), hasTally: true, source: sourceBruteForce}, true
}
