package handeval

import "holdwise/internal/cards"

// Tally is an exact outcome distribution: Counts[c] of Total equally likely
// draws end in category c.
type Tally struct {
	Counts [NumCategories]int64
	Total  int64
}

// FromWins builds a tally from winning counts over total draws; whatever is
// left over is NoPay.
func FromWins(wins [NumWinning]int64, total int64) Tally {
	t := Tally{Total: total}
	var sum int64
	for i, n := range wins {
		t.Counts[i] = n
		sum += n
	}
	t.Counts[NoPay] = total - sum
	return t
}

func (t Tally) Wins() [NumWinning]uint32 {
	var out [NumWinning]uint32
	for i := range out {
		out[i] = uint32(t.Counts[i])
	}
	return out
}

func (t Tally) Probability(c Category) float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Counts[c]) / float64(t.Total)
}

// Draws returns C(47, k): the number of ways to replace k discarded cards.
func Draws(k int) int64 {
	n, r := int64(1), int64(1)
	for i := 0; i < k; i++ {
		n *= int64(cards.DeckSize - cards.HandSize - i)
		r *= int64(i + 1)
	}
	return n / r
}

// DrawTally enumerates every replacement for the discarded cards and
// classifies each resulting hand. It is the exact fallback every faster path
// is checked against.
func DrawTally(h cards.Hand, m cards.HoldMask) Tally {
	var pick [cards.HandSize]uint8
	k := 0
	for i, c := range h {
		if m.Holds(i) {
			pick[k] = uint8(c.Index())
			k++
		}
	}

	used := h.Bits()
	rest := make([]uint8, 0, cards.DeckSize-cards.HandSize)
	for i := 0; i < cards.DeckSize; i++ {
		if used&(1<<i) == 0 {
			rest = append(rest, uint8(i))
		}
	}

	d := cards.HandSize - k
	var t Tally
	if d == 0 {
		t.Counts[ClassifyIndices(&pick)]++
		t.Total = 1
		return t
	}

	var idx [cards.HandSize]int
	for i := 0; i < d; i++ {
		idx[i] = i
	}
	n := len(rest)
	for {
		for i := 0; i < d; i++ {
			pick[k+i] = rest[idx[i]]
		}
		t.Counts[ClassifyIndices(&pick)]++
		t.Total++

		i := d - 1
		for i >= 0 && idx[i] == n-d+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < d; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return t
}
