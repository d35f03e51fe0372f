package engine

import (
	"holdwise/internal/canonical"
	"holdwise/internal/cards"
	"holdwise/internal/handeval"
)

type shape int

const (
	shapeNone shape = iota
	shapeDiscardAll
	shapeHighCard
	shapeLowPair
	shapeHighPair
	shapeTrips
	shapeTwoPair
	shapeFourFlush
	shapeFourToStraightFlush
	shapeFourToRoyal
)

var shapeNames = map[shape]string{
	shapeDiscardAll:          "discard_all",
	shapeHighCard:            "high_card",
	shapeLowPair:             "low_pair",
	shapeHighPair:            "high_pair",
	shapeTrips:               "three_of_a_kind",
	shapeTwoPair:             "two_pair",
	shapeFourFlush:           "four_to_flush",
	shapeFourToStraightFlush: "four_to_straight_flush",
	shapeFourToRoyal:         "four_to_royal",
}

func (s shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "none"
}

// classifyShape names the common holds worth memoizing. Four-card flush
// holds are split by whether some card still in the deck completes a
// straight flush, checked by classifying every completion.
func classifyShape(h cards.Hand, m cards.HoldMask) shape {
	held, _ := h.Split(m)
	switch len(held) {
	case 0:
		return shapeDiscardAll
	case 1:
		if held[0].Rank >= cards.Jack {
			return shapeHighCard
		}
	case 2:
		if held[0].Rank != held[1].Rank {
			return shapeNone
		}
		if held[0].Rank >= cards.Jack {
			return shapeHighPair
		}
		return shapeLowPair
	case 3:
		if held[0].Rank == held[1].Rank && held[1].Rank == held[2].Rank {
			return shapeTrips
		}
	case 4:
		if isTwoPair(held) {
			return shapeTwoPair
		}
		if suited(held) {
			return fourFlushShape(h, held)
		}
	}
	return shapeNone
}

func isTwoPair(held []cards.Card) bool {
	counts := map[cards.Rank]int{}
	for _, c := range held {
		counts[c.Rank]++
	}
	if len(counts) != 2 {
		return false
	}
	for _, n := range counts {
		if n != 2 {
			return false
		}
	}
	return true
}

func suited(held []cards.Card) bool {
	for _, c := range held[1:] {
		if c.Suit != held[0].Suit {
			return false
		}
	}
	return true
}

func fourFlushShape(h cards.Hand, held []cards.Card) shape {
	used := h.Bits()
	var pick [cards.HandSize]uint8
	for i, c := range held {
		pick[i] = uint8(c.Index())
	}
	royal, straightFlush := false, false
	for r := cards.Two; r <= cards.Ace; r++ {
		c := cards.Card{Rank: r, Suit: held[0].Suit}
		if used&(1<<c.Index()) != 0 {
			continue
		}
		pick[4] = uint8(c.Index())
		switch handeval.ClassifyIndices(&pick) {
		case handeval.RoyalFlush:
			royal = true
		case handeval.StraightFlush:
			straightFlush = true
		}
	}
	switch {
	case royal:
		return shapeFourToRoyal
	case straightFlush:
		return shapeFourToStraightFlush
	}
	return shapeFourFlush
}

// templateKey pins a distribution exactly: the discarded cards are dead, so
// the key carries the suit-canonical form of the whole held/discarded split,
// not just the held cards.
type templateKey struct {
	shape shape
	key   canonical.Key
}

type templateResolver struct {
	cache *boundedCache[templateKey, handeval.Tally]
}

func (templateResolver) name() string { return sourceTemplate }

func (r templateResolver) tryResolve(req request) (resolution, bool) {
	s := classifyShape(req.hand, req.mask)
	if s == shapeNone {
		return resolution{}, false
	}
	k := templateKey{shape: s, key: canonical.Marked(req.hand, req.mask)}
	if t, ok := r.cache.Get(k); ok {
		metricTemplateHits.Add(1)
		return resolution{tally: t, hasTally: true, source: sourceTemplate}, true
	}
	// Any member of the orbit represents it; the dealt hand is one.
	t := handeval.DrawTally(req.hand, req.mask)
	if !r.cache.Put(k, t) {
		metricTemplateSkipped.Add(1)
	}
	return resolution{tally: t, hasTally: true, source: sourceTemplate}, true
}
