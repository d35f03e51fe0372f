package handeval

import (
	"math/bits"

	"holdwise/internal/cards"
)

var (
	rankOf [cards.DeckSize]uint8
	suitOf [cards.DeckSize]uint8

	// straightTable[rankBits] is set when exactly those five ranks form a
	// straight. Rank bit 0 is a deuce, bit 12 an ace.
	straightTable [1 << cards.NumRanks]bool
)

const (
	wheelBits   = 0x100F
	royalBits   = 0x1F00
	jackRankBit = 1 << (cards.Jack - cards.Two)
)

func init() {
	for i := 0; i < cards.DeckSize; i++ {
		rankOf[i] = uint8(i % cards.NumRanks)
		suitOf[i] = uint8(i / cards.NumRanks)
	}
	for low := 0; low+5 <= cards.NumRanks; low++ {
		straightTable[0x1F<<low] = true
	}
	straightTable[wheelBits] = true
}

// ClassifyIndices classifies five distinct deck indices without allocating.
func ClassifyIndices(h *[cards.HandSize]uint8) Category {
	a, b, c, d, e := h[0], h[1], h[2], h[3], h[4]
	ra, rb, rc, rd, re := uint16(1)<<rankOf[a], uint16(1)<<rankOf[b], uint16(1)<<rankOf[c], uint16(1)<<rankOf[d], uint16(1)<<rankOf[e]
	set := ra | rb | rc | rd | re
	// Ranks seen an even number of times cancel out.
	odd := ra ^ rb ^ rc ^ rd ^ re

	switch bits.OnesCount16(set) {
	case 5:
		flush := suitOf[a] == suitOf[b] && suitOf[a] == suitOf[c] && suitOf[a] == suitOf[d] && suitOf[a] == suitOf[e]
		isStraight := straightTable[set]
		switch {
		case flush && isStraight && set == royalBits:
			return RoyalFlush
		case flush && isStraight:
			return StraightFlush
		case flush:
			return Flush
		case isStraight:
			return Straight
		}
		return NoPay
	case 4:
		if set&^odd >= jackRankBit {
			return JacksOrBetter
		}
		return NoPay
	case 3:
		if bits.OnesCount16(odd) == 1 {
			return TwoPair
		}
		return ThreeOfAKind
	default:
		// Quads leave the kicker in odd, a full house leaves the trips rank.
		n := 0
		for _, r := range [...]uint16{ra, rb, rc, rd, re} {
			if r == odd {
				n++
			}
		}
		if n == 1 {
			return FourOfAKind
		}
		return FullHouse
	}
}
