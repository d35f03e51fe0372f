package cards

import (
	"math/bits"
	"strings"
)

// Hand is five cards in dealt order. Hold masks refer to these positions.
type Hand [HandSize]Card

func NewHand(cs []Card) (Hand, error) {
	var h Hand
	if len(cs) != HandSize {
		return h, ErrInvalidHandSize
	}
	var seen uint64
	for i, c := range cs {
		if !c.Valid() {
			return h, ErrInvalidCard
		}
		bit := uint64(1) << c.Index()
		if seen&bit != 0 {
			return h, ErrDuplicateCard
		}
		seen |= bit
		h[i] = c
	}
	return h, nil
}

func ParseHand(s string) (Hand, error) {
	cs, err := ParseList(s)
	if err != nil {
		return Hand{}, err
	}
	return NewHand(cs)
}

func MustParseHand(s string) Hand {
	h, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h Hand) String() string {
	parts := make([]string, HandSize)
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func (h Hand) Indices() [HandSize]uint8 {
	var out [HandSize]uint8
	for i, c := range h {
		out[i] = uint8(c.Index())
	}
	return out
}

// Sorted returns the deck indices in ascending order together with, for each
// sorted position, the dealt position it came from.
func (h Hand) Sorted() (idx [HandSize]uint8, pos [HandSize]uint8) {
	idx = h.Indices()
	for i := range pos {
		pos[i] = uint8(i)
	}
	for i := 1; i < HandSize; i++ {
		for j := i; j > 0 && idx[j] < idx[j-1]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
			pos[j], pos[j-1] = pos[j-1], pos[j]
		}
	}
	return idx, pos
}

// Bits is the 52-bit set of cards in the hand.
func (h Hand) Bits() uint64 {
	var b uint64
	for _, c := range h {
		b |= 1 << c.Index()
	}
	return b
}

// HoldMask selects the dealt positions to keep; bit i keeps position i.
type HoldMask uint8

const (
	DiscardAll HoldMask = 0
	HoldAll    HoldMask = 1<<HandSize - 1
	NumMasks            = 1 << HandSize
)

func MaskFromHold(hold []bool) (HoldMask, error) {
	if len(hold) != HandSize {
		return 0, ErrInvalidHoldCombination
	}
	var m HoldMask
	for i, keep := range hold {
		if keep {
			m |= 1 << i
		}
	}
	return m, nil
}

func (m HoldMask) Bools() []bool {
	out := make([]bool, HandSize)
	for i := range out {
		out[i] = m.Holds(i)
	}
	return out
}

func (m HoldMask) Holds(pos int) bool { return m&(1<<pos) != 0 }

func (m HoldMask) Count() int { return bits.OnesCount8(uint8(m & HoldAll)) }

// Remap moves a mask through a position mapping: bit j of m becomes bit
// to[j] of the result.
func (m HoldMask) Remap(to [HandSize]uint8) HoldMask {
	var out HoldMask
	for j := 0; j < HandSize; j++ {
		if m.Holds(j) {
			out |= 1 << to[j]
		}
	}
	return out
}

// Invert returns the inverse of a position permutation.
func Invert(p [HandSize]uint8) [HandSize]uint8 {
	var out [HandSize]uint8
	for i, v := range p {
		out[v] = uint8(i)
	}
	return out
}

// Split returns the held and discarded cards for a mask, in dealt order.
func (h Hand) Split(m HoldMask) (held, discarded []Card) {
	for i, c := range h {
		if m.Holds(i) {
			held = append(held, c)
		} else {
			discarded = append(discarded, c)
		}
	}
	return held, discarded
}
