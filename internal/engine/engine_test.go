package engine

import (
	"errors"
	"math"
	"sync"
	"testing"

	"holdwise/internal/aggregate"
	"holdwise/internal/canonical"
	"holdwise/internal/cards"
	"holdwise/internal/combin"
	"holdwise/internal/handeval"
	"holdwise/internal/paytable"
	"holdwise/internal/strategy"
)

var (
	aggOnce  sync.Once
	aggTable *aggregate.Table
)

func sharedAggregate(t *testing.T) *aggregate.Table {
	t.Helper()
	aggOnce.Do(func() { aggTable = aggregate.Build(nil) })
	return aggTable
}

func mustCards(t *testing.T, s string) []cards.Card {
	t.Helper()
	cs, err := cards.ParseList(s)
	if err != nil {
		t.Fatalf("ParseList(%q) error = %v", s, err)
	}
	return cs
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestFindOptimalHoldExamples(t *testing.T) {
	tests := []struct {
		hand string
		mask cards.HoldMask
		ev   float64
	}{
		{"Ah Kh Qh Jh Th", cards.HoldAll, 4000},
		{"Jh Jd 3c 5s 7h", 0b00011, 7.682701202590194},
		{"Td Ah 2h 3s 9h", 0b00010, 2.320971042525159},
		{"8h 2c 7d 5s 9h", cards.DiscardAll, 1.7969358625082223},
	}
	e := New()
	for _, tt := range tests {
		got, err := e.FindOptimalHold(mustCards(t, tt.hand))
		if err != nil {
			t.Fatalf("FindOptimalHold(%s) error = %v", tt.hand, err)
		}
		if got.Mask != tt.mask {
			t.Fatalf("FindOptimalHold(%s) mask = %05b, want %05b", tt.hand, got.Mask, tt.mask)
		}
		if !near(got.EV, tt.ev) {
			t.Fatalf("FindOptimalHold(%s) EV = %v, want %v", tt.hand, got.EV, tt.ev)
		}
		if len(got.Hold) != cards.HandSize {
			t.Fatalf("FindOptimalHold(%s) hold = %v", tt.hand, got.Hold)
		}
	}
}

func TestDiscardAllWinnerMatchesExpectedValue(t *testing.T) {
	e := New()
	hand := mustCards(t, "8h 2c 7d 5s 9h")
	best, err := e.FindOptimalHold(hand)
	if err != nil {
		t.Fatalf("FindOptimalHold() error = %v", err)
	}
	ev, err := e.ExpectedValue(hand, make([]bool, cards.HandSize))
	if err != nil {
		t.Fatalf("ExpectedValue() error = %v", err)
	}
	if best.EV != ev {
		t.Fatalf("optimal EV = %v, discard-all EV = %v", best.EV, ev)
	}
}

func TestResolverPathsAgree(t *testing.T) {
	agg := sharedAggregate(t)
	engines := map[string]*Engine{
		"brute_force": New(withoutTemplates()),
		"template":    New(),
		"aggregate":   New(WithAggregate(agg)),
	}
	hands := []string{
		"Jh Jd 3c 5s 7h",
		"Td Ah 2h 3s 9h",
		"Kh Qh Jh Th 2c",
		"7c 7d 7h 2s 2c",
		"2s 3s 4s 5s 9d",
	}
	for _, hs := range hands {
		hand := mustCards(t, hs)
		want, err := engines["brute_force"].HoldEVs(hand)
		if err != nil {
			t.Fatalf("HoldEVs(%s) error = %v", hs, err)
		}
		for name, e := range engines {
			got, err := e.HoldEVs(hand)
			if err != nil {
				t.Fatalf("%s HoldEVs(%s) error = %v", name, hs, err)
			}
			for m := range got {
				if math.Abs(got[m].EV-want[m].EV) > 1e-6 {
					t.Fatalf("%s %s mask %05b: EV = %v, brute force = %v", name, hs, m, got[m].EV, want[m].EV)
				}
			}
		}
	}
}

func TestAggregateSourceReported(t *testing.T) {
	e := New(WithAggregate(sharedAggregate(t)))
	got, err := e.FindOptimalHold(mustCards(t, "Jh Jd 3c 5s 7h"))
	if err != nil {
		t.Fatalf("FindOptimalHold() error = %v", err)
	}
	if got.Source != sourceAggregate {
		t.Fatalf("Source = %q, want %q", got.Source, sourceAggregate)
	}
}

// prefixHands returns the first n hands in rank order; their cards are
// already ascending, so sorted masks equal dealt masks.
func prefixHands(n int) []cards.Hand {
	out := make([]cards.Hand, n)
	for r := range out {
		for i, idx := range combin.Unrank(r, cards.DeckSize, cards.HandSize) {
			out[r][i] = cards.FromIndex(int(idx))
		}
	}
	return out
}

func TestAgnosticTableResolves(t *testing.T) {
	hands := prefixHands(4)
	var data []byte
	for _, h := range hands {
		var tallies [cards.NumMasks]handeval.Tally
		for m := cards.HoldMask(0); m < cards.NumMasks; m++ {
			tallies[m] = handeval.DrawTally(h, m)
		}
		data = strategy.AppendAgnostic(data, &tallies)
	}
	tbl, err := strategy.FromBytes(data, strategy.FormatAgnostic)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}

	e := New(WithAgnosticTable(tbl))
	ref := New(withoutTemplates())
	for _, h := range hands {
		got, err := e.FindOptimalHold(h[:])
		if err != nil {
			t.Fatalf("FindOptimalHold(%s) error = %v", h, err)
		}
		want, err := ref.FindOptimalHold(h[:])
		if err != nil {
			t.Fatalf("reference FindOptimalHold(%s) error = %v", h, err)
		}
		if got.Mask != want.Mask || !near(got.EV, want.EV) {
			t.Fatalf("%s: got %05b/%v, want %05b/%v", h, got.Mask, got.EV, want.Mask, want.EV)
		}
		if got.Source != sourceAgnostic {
			t.Fatalf("%s: Source = %q, want %q", h, got.Source, sourceAgnostic)
		}
	}
}

func TestStrategyTableResolvesStoredOptimum(t *testing.T) {
	hands := prefixHands(3)
	ref := New(withoutTemplates())
	s := paytable.Default()

	var full, legacy []byte
	wants := make([]Hold, len(hands))
	for r, h := range hands {
		best, err := ref.FindOptimalHold(h[:])
		if err != nil {
			t.Fatalf("FindOptimalHold(%s) error = %v", h, err)
		}
		wants[r] = best
		tally := handeval.DrawTally(h, best.Mask)
		rec := strategy.Record{
			HandIndex: uint32(r),
			Mask:      best.Mask,
			EV:        float32(s.EV(tally, 1)),
			Wins:      tally.Wins(),
		}
		full = rec.AppendStrategy(full)
		legacy = rec.AppendLegacy(legacy)
	}

	for _, f := range []struct {
		format strategy.Format
		data   []byte
	}{{strategy.FormatStrategy, full}, {strategy.FormatLegacy, legacy}} {
		tbl, err := strategy.FromBytes(f.data, f.format)
		if err != nil {
			t.Fatalf("FromBytes(%s) error = %v", f.format, err)
		}
		e := New(WithStrategyTable(tbl, s), withoutTemplates())
		for r, h := range hands {
			got, err := e.FindOptimalHold(h[:])
			if err != nil {
				t.Fatalf("%s FindOptimalHold(%s) error = %v", f.format, h, err)
			}
			if got.Mask != wants[r].Mask {
				t.Fatalf("%s %s: mask = %05b, want %05b", f.format, h, got.Mask, wants[r].Mask)
			}
			if math.Abs(got.EV-wants[r].EV) > 1e-4 {
				t.Fatalf("%s %s: EV = %v, want %v", f.format, h, got.EV, wants[r].EV)
			}
		}
	}
}

func TestLegacyTableIgnoredUnderOtherSchedule(t *testing.T) {
	h := prefixHands(1)[0]
	// A deliberately wrong stored EV shows whether the record was used.
	rec := strategy.Record{Mask: cards.HoldAll, EV: 1000}
	tbl, err := strategy.FromBytes(rec.AppendLegacy(nil), strategy.FormatLegacy)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	e := New(WithStrategyTable(tbl, paytable.Default()))

	ev, err := e.ExpectedValue(h[:], cards.HoldAll.Bools())
	if err != nil {
		t.Fatalf("ExpectedValue() error = %v", err)
	}
	if ev != 5000 {
		t.Fatalf("ExpectedValue() under reference schedule = %v, want stored 5000", ev)
	}

	other, err := paytable.Lookup("8/5")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	e.SetSchedule(other)
	ev, err = e.ExpectedValue(h[:], cards.HoldAll.Bools())
	if err != nil {
		t.Fatalf("ExpectedValue() error = %v", err)
	}
	// 2s 3s 4s 5s 6s is a straight flush.
	if ev != 250 {
		t.Fatalf("ExpectedValue() under 8/5 = %v, want 250", ev)
	}
}

func TestSuitPermutationAndOrderInvariance(t *testing.T) {
	e := New()
	reverse := [cards.HandSize]uint8{4, 3, 2, 1, 0}
	for _, hs := range []string{"Jh Jd 3c 5s 7h", "Td Ah 2h 3s 9h", "Kh Qh Jh Th 2c"} {
		h := cards.MustParseHand(hs)
		base, err := e.FindOptimalHold(h[:])
		if err != nil {
			t.Fatalf("FindOptimalHold(%s) error = %v", hs, err)
		}
		for _, p := range canonical.Permutations() {
			ph := canonical.Apply(h, p)
			var rev cards.Hand
			for i := range ph {
				rev[reverse[i]] = ph[i]
			}
			got, err := e.FindOptimalHold(rev[:])
			if err != nil {
				t.Fatalf("FindOptimalHold(%s) error = %v", rev, err)
			}
			if got.Mask != base.Mask.Remap(reverse) {
				t.Fatalf("%s: mask = %05b, want %05b", rev, got.Mask, base.Mask.Remap(reverse))
			}
			if !near(got.EV, base.EV) {
				t.Fatalf("%s: EV = %v, want %v", rev, got.EV, base.EV)
			}
		}
	}
}

func TestDistribution(t *testing.T) {
	e := New()
	out, err := e.Distribution(mustCards(t, "Ah Kh Qh Jh Th"), cards.HoldAll.Bools(), 5)
	if err != nil {
		t.Fatalf("Distribution() error = %v", err)
	}
	if len(out) != 1 || out[0].Category != handeval.RoyalFlush || out[0].Probability != 1 || out[0].Contribution != 4000 {
		t.Fatalf("Distribution(royal) = %+v", out)
	}

	hand := mustCards(t, "Jh Jd 3c 5s 7h")
	hold := cards.HoldMask(0b00011).Bools()
	out, err = e.Distribution(hand, hold, 5)
	if err != nil {
		t.Fatalf("Distribution() error = %v", err)
	}
	ev, err := e.ExpectedValue(hand, hold)
	if err != nil {
		t.Fatalf("ExpectedValue() error = %v", err)
	}
	var prob, contrib float64
	for i, o := range out {
		if o.Probability <= 0 {
			t.Fatalf("outcome %v has probability %v", o.Category, o.Probability)
		}
		if i > 0 && !out[i-1].Category.Better(o.Category) {
			t.Fatalf("outcomes out of order: %v before %v", out[i-1].Category, o.Category)
		}
		prob += o.Probability
		contrib += o.Contribution
	}
	if !near(prob, 1) {
		t.Fatalf("probabilities sum to %v, want 1", prob)
	}
	if !near(contrib, ev) {
		t.Fatalf("contributions sum to %v, want EV %v", contrib, ev)
	}
	if out[len(out)-1].Category != handeval.NoPay {
		t.Fatalf("last outcome = %v, want no_pay", out[len(out)-1].Category)
	}
}

func TestInvalidInput(t *testing.T) {
	e := New()
	if _, err := e.FindOptimalHold(mustCards(t, "Ah Kh Qh Jh")); !errors.Is(err, ErrInvalidHandSize) {
		t.Fatalf("four cards: error = %v, want ErrInvalidHandSize", err)
	}
	if _, err := e.FindOptimalHold(mustCards(t, "Ah Kh Qh Jh Ah")); !errors.Is(err, ErrDuplicateCard) {
		t.Fatalf("duplicate: error = %v, want ErrDuplicateCard", err)
	}
	hand := mustCards(t, "Ah Kh Qh Jh Th")
	if _, err := e.ExpectedValue(hand, []bool{true, true}); !errors.Is(err, ErrInvalidHoldCombination) {
		t.Fatalf("short hold: error = %v, want ErrInvalidHoldCombination", err)
	}
	if _, err := e.Distribution(hand, cards.HoldAll.Bools(), 0); !errors.Is(err, ErrInvalidCoins) {
		t.Fatalf("zero coins: error = %v, want ErrInvalidCoins", err)
	}
}

func TestCacheLimits(t *testing.T) {
	e := New(WithCacheLimits(3, 2))
	if _, err := e.HoldEVs(mustCards(t, "Jh Jd 3c 5s 7h")); err != nil {
		t.Fatalf("HoldEVs() error = %v", err)
	}
	st := e.Stats()
	if st.EVCache != 3 {
		t.Fatalf("EVCache = %d, want 3", st.EVCache)
	}
	if st.TemplateCache != 2 {
		t.Fatalf("TemplateCache = %d, want 2", st.TemplateCache)
	}
}

func TestSetScheduleChangesEV(t *testing.T) {
	hand := mustCards(t, "Jh Jd 3c 5s 7h")
	hold := cards.HoldMask(0b00011).Bools()
	e := New()
	before, err := e.ExpectedValue(hand, hold)
	if err != nil {
		t.Fatalf("ExpectedValue() error = %v", err)
	}

	other, err := paytable.Lookup("6/5")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	e.SetSchedule(other)
	after, err := e.ExpectedValue(hand, hold)
	if err != nil {
		t.Fatalf("ExpectedValue() error = %v", err)
	}
	fresh, err := New(WithSchedule(other)).ExpectedValue(hand, hold)
	if err != nil {
		t.Fatalf("ExpectedValue() error = %v", err)
	}
	if after != fresh {
		t.Fatalf("EV after SetSchedule = %v, fresh engine = %v", after, fresh)
	}
	if after >= before {
		t.Fatalf("6/5 EV %v should be below 9/6 EV %v", after, before)
	}
	if e.Schedule().Name != "6/5" {
		t.Fatalf("Schedule() = %q, want 6/5", e.Schedule().Name)
	}
}

func TestBaseline(t *testing.T) {
	const want = 1.684335272570567
	if got := New().Baseline(); !near(got, want) {
		t.Fatalf("Baseline() = %v, want %v", got, want)
	}
	if got := New(WithAggregate(sharedAggregate(t))).Baseline(); !near(got, want) {
		t.Fatalf("Baseline() with aggregate = %v, want %v", got, want)
	}
	if got := New(WithCoins(1)).Baseline(); !near(got, want/5) {
		t.Fatalf("Baseline() for one coin = %v, want %v", got, want/5)
	}
}

func TestOptimalHoldNeverBelowBaseline(t *testing.T) {
	if testing.Short() {
		t.Skip("walks every suit class")
	}
	e := New(WithAggregate(sharedAggregate(t)))
	floor := e.Baseline()
	seen := make(map[canonical.Key]struct{}, 140000)
	idx := make([]uint8, cards.HandSize)
	minEV, minHand := math.Inf(1), ""
	for r := 0; r < strategy.NumHands; r++ {
		combin.UnrankInto(idx, r, cards.DeckSize)
		var h cards.Hand
		for i, v := range idx {
			h[i] = cards.FromIndex(int(v))
		}
		f := canonical.Canonicalize(h)
		if _, ok := seen[f.Key]; ok {
			continue
		}
		seen[f.Key] = struct{}{}
		best, err := e.FindOptimalHold(f.Hand[:])
		if err != nil {
			t.Fatalf("FindOptimalHold(%s) error = %v", f.Hand, err)
		}
		if best.EV < minEV {
			minEV, minHand = best.EV, f.Hand.String()
		}
	}
	if len(seen) != 134459 {
		t.Fatalf("walked %d classes, want 134459", len(seen))
	}
	if minEV < floor {
		t.Fatalf("lowest optimal EV = %v (%s), below baseline %v", minEV, minHand, floor)
	}
}

func TestFourFlushShapes(t *testing.T) {
	tests := []struct {
		hand string
		mask cards.HoldMask
		want shape
	}{
		{"Kh Qh Jh Th 2c", 0b01111, shapeFourToRoyal},
		{"Kh Qh Jh Th Ah", 0b01111, shapeFourToStraightFlush},
		{"9h 8h 7h 6h 2c", 0b01111, shapeFourToStraightFlush},
		{"Kh 9h 5h 2h 2c", 0b01111, shapeFourFlush},
		{"7c 7d 2s 2c Ah", 0b01111, shapeTwoPair},
		{"Ah 4d 9c 2s 3h", 0b00001, shapeHighCard},
		{"Ah 4d 9c 2s 3h", 0b00010, shapeNone},
	}
	for _, tt := range tests {
		if got := classifyShape(cards.MustParseHand(tt.hand), tt.mask); got != tt.want {
			t.Fatalf("classifyShape(%s, %05b) = %v, want %v", tt.hand, tt.mask, got, tt.want)
		}
	}
}
