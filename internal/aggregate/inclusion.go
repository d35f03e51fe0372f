package aggregate

import (
	"math/bits"

	"holdwise/internal/cards"
	"holdwise/internal/handeval"
)

// Tally returns the exact draw distribution for holding m of h.
func (t *Table) Tally(h cards.Hand, m cards.HoldMask) handeval.Tally {
	idx, pos := h.Sorted()
	return t.TallySorted(idx, m.Remap(cards.Invert(pos)))
}

// TallySorted is Tally for a hand given as ascending deck indices, with m
// relative to that order.
//
// Let H be the held cards and D the discards. A lookup of H∪S counts the
// winning hands containing H∪S; the draws we want are the hands containing H
// and no card of D, so
//
//	wins = Σ_{S⊆D} (-1)^|S| · lookup(H∪S)
//
// Because idx is ascending, H∪S is just a superset of m over the same
// positions and needs no merge.
func (t *Table) TallySorted(idx [cards.HandSize]uint8, m cards.HoldMask) handeval.Tally {
	m &= cards.HoldAll
	held := bits.OnesCount8(uint8(m))
	var acc [handeval.NumWinning]int64
	var sub [cards.HandSize]uint8
	for u := m; u < cards.NumMasks; u = (u + 1) | m {
		k := 0
		for j := 0; j < cards.HandSize; j++ {
			if u&(1<<j) != 0 {
				sub[k] = idx[j]
				k++
			}
		}
		counts := t.Lookup(sub[:k])
		if (k-held)%2 == 0 {
			for i, n := range counts {
				acc[i] += int64(n)
			}
		} else {
			for i, n := range counts {
				acc[i] -= int64(n)
			}
		}
		if u == cards.HoldAll {
			break
		}
	}
	for i := range acc {
		if acc[i] < 0 {
			acc[i] = 0
		}
	}
	return handeval.FromWins(acc, handeval.Draws(cards.HandSize-held))
}

// TallyAll returns the distributions of all 32 holds, masks relative to the
// ascending order of idx.
func (t *Table) TallyAll(idx [cards.HandSize]uint8) [cards.NumMasks]handeval.Tally {
	// Each of the 32 subsets is looked up once and reused by every mask.
	var lookups [cards.NumMasks][handeval.NumWinning]uint32
	var sub [cards.HandSize]uint8
	for u := 0; u < cards.NumMasks; u++ {
		k := 0
		for j := 0; j < cards.HandSize; j++ {
			if u&(1<<j) != 0 {
				sub[k] = idx[j]
				k++
			}
		}
		lookups[u] = t.Lookup(sub[:k])
	}

	var out [cards.NumMasks]handeval.Tally
	for m := 0; m < cards.NumMasks; m++ {
		held := bits.OnesCount8(uint8(m))
		var acc [handeval.NumWinning]int64
		for u := m; u < cards.NumMasks; u = (u + 1) | m {
			sign := int64(1)
			if (bits.OnesCount8(uint8(u))-held)%2 != 0 {
				sign = -1
			}
			for i, n := range lookups[u] {
				acc[i] += sign * int64(n)
			}
			if u == cards.NumMasks-1 {
				break
			}
		}
		for i := range acc {
			if acc[i] < 0 {
				acc[i] = 0
			}
		}
		out[m] = handeval.FromWins(acc, handeval.Draws(cards.HandSize-held))
	}
	return out
}
