// Package engine computes exact draw expected values for Jacks or Better.
//
// Every answer comes from the first resolver in the chain that can give it:
// the subset aggregate table, an agnostic per-hand table, a strategy table's
// stored optimum, memoized templates, and finally full enumeration. All of
// them are exact, so they agree to floating-point tolerance.
package engine

import (
	"math"
	"sync"

	"holdwise/internal/aggregate"
	"holdwise/internal/cards"
	"holdwise/internal/handeval"
	"holdwise/internal/paytable"
	"holdwise/internal/strategy"
)

const (
	DefaultCoins          = 5
	DefaultEVCacheMax     = 200000
	DefaultTemplateMax    = 50000
	tolerance             = 1e-9
	baselineToleranceCoin = 1e-6
)

type Engine struct {
	mu       sync.RWMutex
	schedule paytable.Schedule
	coins    int

	resolvers []resolver
	batch     []batchResolver

	aggregate *aggregate.Table

	evCache   *boundedCache[evKey, float64]
	templates *boundedCache[templateKey, handeval.Tally]
}

type options struct {
	schedule    paytable.Schedule
	coins       int
	aggregate   *aggregate.Table
	agnostic    *strategy.Table
	strategy    *strategy.Table
	reference   paytable.Schedule
	evMax       int
	templateMax int
	noTemplates bool
}

type Option func(*options)

func WithSchedule(s paytable.Schedule) Option { return func(o *options) { o.schedule = s } }

// WithCoins sets the bet that EVs are reported for.
func WithCoins(n int) Option { return func(o *options) { o.coins = n } }

func WithAggregate(t *aggregate.Table) Option { return func(o *options) { o.aggregate = t } }

func WithAgnosticTable(t *strategy.Table) Option { return func(o *options) { o.agnostic = t } }

// WithStrategyTable adds a table of stored optima generated under reference.
func WithStrategyTable(t *strategy.Table, reference paytable.Schedule) Option {
	return func(o *options) {
		o.strategy = t
		o.reference = reference
	}
}

func WithCacheLimits(evMax, templateMax int) Option {
	return func(o *options) {
		o.evMax = evMax
		o.templateMax = templateMax
	}
}

func withoutTemplates() Option { return func(o *options) { o.noTemplates = true } }

func New(opts ...Option) *Engine {
	o := options{
		schedule:    paytable.Default(),
		coins:       DefaultCoins,
		evMax:       DefaultEVCacheMax,
		templateMax: DefaultTemplateMax,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.coins <= 0 {
		o.coins = DefaultCoins
	}
	if o.evMax < 0 {
		o.evMax = 0
	}
	if o.templateMax < 0 {
		o.templateMax = 0
	}

	e := &Engine{
		schedule:  o.schedule,
		coins:     o.coins,
		aggregate: o.aggregate,
		evCache:   newBoundedCache[evKey, float64](o.evMax),
		templates: newBoundedCache[templateKey, handeval.Tally](o.templateMax),
	}
	if o.aggregate != nil {
		r := aggregateResolver{table: o.aggregate}
		e.resolvers = append(e.resolvers, r)
		e.batch = append(e.batch, r)
	}
	if o.agnostic != nil && o.agnostic.Format() == strategy.FormatAgnostic {
		r := agnosticResolver{table: o.agnostic}
		e.resolvers = append(e.resolvers, r)
		e.batch = append(e.batch, r)
	}
	if o.strategy != nil && o.strategy.Format() != strategy.FormatAgnostic {
		e.resolvers = append(e.resolvers, strategyResolver{table: o.strategy, reference: o.reference})
	}
	if !o.noTemplates {
		e.resolvers = append(e.resolvers, templateResolver{cache: e.templates})
	}
	e.resolvers = append(e.resolvers, bruteForceResolver{})
	return e
}

// Schedule returns the active payout schedule.
func (e *Engine) Schedule() paytable.Schedule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.schedule
}

func (e *Engine) Coins() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.coins
}

// SetSchedule swaps the active schedule and drops memoized EVs. Template
// tallies are schedule independent and survive.
func (e *Engine) SetSchedule(s paytable.Schedule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.schedule = s
	e.evCache = newBoundedCache[evKey, float64](e.evCache.max)
}

// snapshot pins the schedule together with the EV memo built for it.
type snapshot struct {
	schedule paytable.Schedule
	coins    int
	evs      *boundedCache[evKey, float64]
}

func (e *Engine) settings() snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return snapshot{schedule: e.schedule, coins: e.coins, evs: e.evCache}
}

// Hold is a hold decision and its EV for the engine's bet.
type Hold struct {
	Mask   cards.HoldMask
	Hold   []bool
	EV     float64
	Source string
}

// Outcome is one category of a hold's draw distribution.
type Outcome struct {
	Category     handeval.Category
	Probability  float64
	Contribution float64
}

// ExpectedValue returns the exact EV of holding hold (one flag per card)
// for the engine's bet.
func (e *Engine) ExpectedValue(hand []cards.Card, hold []bool) (float64, error) {
	h, m, err := parse(hand, hold)
	if err != nil {
		return 0, err
	}
	snap := e.settings()
	ev, _, err := e.perCoin(h, m, snap)
	if err != nil {
		return 0, err
	}
	return ev * float64(snap.coins), nil
}

// Distribution returns every outcome with non-zero probability, strongest
// first. Contributions are for a bet of coins.
func (e *Engine) Distribution(hand []cards.Card, hold []bool, coins int) ([]Outcome, error) {
	h, m, err := parse(hand, hold)
	if err != nil {
		return nil, err
	}
	if coins <= 0 {
		return nil, ErrInvalidCoins
	}
	s := e.settings().schedule
	res, err := e.resolve(request{hand: h, mask: m, schedule: s, needTally: true})
	if err != nil {
		return nil, err
	}
	out := make([]Outcome, 0, handeval.NumCategories)
	for _, c := range handeval.Categories() {
		if res.tally.Counts[c] == 0 {
			continue
		}
		p := res.tally.Probability(c)
		out = append(out, Outcome{
			Category:     c,
			Probability:  p,
			Contribution: p * float64(s.Pay(c)) * float64(coins),
		})
	}
	return out, nil
}

// HoldEVs returns the EV of all 32 holds in mask order. Callers that treat
// near-optimal holds as correct pick their own tolerance.
func (e *Engine) HoldEVs(hand []cards.Card) ([]Hold, error) {
	h, err := cards.NewHand(hand)
	if err != nil {
		return nil, err
	}
	snap := e.settings()
	vals, err := e.allHolds(h, snap)
	if err != nil {
		return nil, err
	}
	coins := snap.coins
	out := make([]Hold, cards.NumMasks)
	for m := cards.HoldMask(0); m < cards.NumMasks; m++ {
		out[m] = Hold{Mask: m, Hold: m.Bools(), EV: vals[m].ev * float64(coins), Source: vals[m].source}
	}
	return out, nil
}

// FindOptimalHold returns the hold with the highest EV; among exact ties the
// lowest mask wins.
func (e *Engine) FindOptimalHold(hand []cards.Card) (Hold, error) {
	h, err := cards.NewHand(hand)
	if err != nil {
		return Hold{}, err
	}
	snap := e.settings()
	vals, err := e.allHolds(h, snap)
	if err != nil {
		return Hold{}, err
	}
	s, coins := snap.schedule, snap.coins
	best := cards.HoldMask(0)
	for m := cards.HoldMask(1); m < cards.NumMasks; m++ {
		if vals[m].greater(vals[best], s) {
			best = m
		}
	}
	// No dealt hand plays worse than five fresh cards from a full deck.
	if vals[best].ev < s.EV(fullDeckTally(e.aggregate), 1)-baselineToleranceCoin {
		metricBaselineFailures.Add(1)
		return Hold{}, ErrBaselineViolation
	}
	return Hold{
		Mask:   best,
		Hold:   best.Bools(),
		EV:     vals[best].ev * float64(coins),
		Source: vals[best].source,
	}, nil
}

// Baseline is the EV of five fresh cards from a full deck, the floor under
// every optimal hold. A dealt hand's own discard-all EV differs from it
// slightly because its five discards are dead.
func (e *Engine) Baseline() float64 {
	snap := e.settings()
	return snap.schedule.EV(fullDeckTally(e.aggregate), snap.coins)
}

type Stats struct {
	Resolvers     []string
	EVCache       int
	TemplateCache int
}

func (e *Engine) Stats() Stats {
	names := make([]string, len(e.resolvers))
	for i, r := range e.resolvers {
		names[i] = r.name()
	}
	return Stats{Resolvers: names, EVCache: e.settings().evs.Len(), TemplateCache: e.templates.Len()}
}

func parse(hand []cards.Card, hold []bool) (cards.Hand, cards.HoldMask, error) {
	h, err := cards.NewHand(hand)
	if err != nil {
		return h, 0, err
	}
	m, err := cards.MaskFromHold(hold)
	if err != nil {
		return h, 0, err
	}
	return h, m, nil
}

// holdValue is one hold's per-coin EV, with the tally behind it when known
// so ties can be compared exactly.
type holdValue struct {
	ev       float64
	tally    handeval.Tally
	hasTally bool
	source   string
}

func (v holdValue) greater(o holdValue, s paytable.Schedule) bool {
	if v.hasTally && o.hasTally {
		return s.Return(v.tally)*o.tally.Total > s.Return(o.tally)*v.tally.Total
	}
	return v.ev > o.ev+tolerance*math.Max(1, math.Abs(o.ev))
}

func (e *Engine) allHolds(h cards.Hand, snap snapshot) ([cards.NumMasks]holdValue, error) {
	s := snap.schedule
	var out [cards.NumMasks]holdValue
	for _, b := range e.batch {
		tallies, ok := b.resolveAll(h)
		if !ok {
			continue
		}
		src := b.name()
		metricResolutions.Add(src, 1)
		for m := range tallies {
			out[m] = holdValue{ev: s.EV(tallies[m], 1), tally: tallies[m], hasTally: true, source: src}
		}
		return out, nil
	}
	for m := cards.HoldMask(0); m < cards.NumMasks; m++ {
		ev, res, err := e.perCoin(h, m, snap)
		if err != nil {
			return out, err
		}
		out[m] = holdValue{ev: ev, tally: res.tally, hasTally: res.hasTally, source: res.source}
	}
	return out, nil
}

type evKey uint64

func makeEVKey(h cards.Hand, m cards.HoldMask) evKey {
	idx, pos := h.Sorted()
	var k uint64
	for _, v := range idx {
		k = k<<6 | uint64(v)
	}
	return evKey(k<<cards.HandSize | uint64(m.Remap(cards.Invert(pos))))
}

func (e *Engine) perCoin(h cards.Hand, m cards.HoldMask, snap snapshot) (float64, resolution, error) {
	s, cache := snap.schedule, snap.evs
	key := makeEVKey(h, m)
	if ev, ok := cache.Get(key); ok {
		metricEVCacheHits.Add(1)
		return ev, resolution{evPerCoin: ev, source: sourceCache}, nil
	}
	res, err := e.resolve(request{hand: h, mask: m, schedule: s})
	if err != nil {
		return 0, res, err
	}
	ev := res.perCoin(s)
	if !cache.Put(key, ev) {
		metricEVCacheSkipped.Add(1)
	}
	return ev, res, nil
}

func (e *Engine) resolve(req request) (resolution, error) {
	for _, r := range e.resolvers {
		res, ok := r.tryResolve(req)
		if !ok {
			continue
		}
		if req.needTally && !res.hasTally {
			continue
		}
		metricResolutions.Add(r.name(), 1)
		return res, nil
	}
	return resolution{}, ErrUnresolved
}

var (
	fullDeckOnce sync.Once
	fullDeck     handeval.Tally
)

func fullDeckTally(t *aggregate.Table) handeval.Tally {
	if t != nil {
		var wins [handeval.NumWinning]int64
		for i, n := range t.Lookup(nil) {
			wins[i] = int64(n)
		}
		return handeval.FromWins(wins, strategy.NumHands)
	}
	fullDeckOnce.Do(func() {
		var h [cards.HandSize]uint8
		for a := 0; a < cards.DeckSize; a++ {
			for b := a + 1; b < cards.DeckSize; b++ {
				for c := b + 1; c < cards.DeckSize; c++ {
					for d := c + 1; d < cards.DeckSize; d++ {
						for x := d + 1; x < cards.DeckSize; x++ {
							h[0], h[1], h[2], h[3], h[4] = uint8(a), uint8(b), uint8(c), uint8(d), uint8(x)
							fullDeck.Counts[handeval.ClassifyIndices(&h)]++
						}
					}
				}
			}
		}
		fullDeck.Total = strategy.NumHands
	})
	return fullDeck
}
