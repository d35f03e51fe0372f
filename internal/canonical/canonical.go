// Package canonical reduces hands to a representative of their orbit under
// the 24 suit permutations. Hands in one orbit have identical hold EVs once
// masks are carried through the position mapping.
package canonical

import "holdwise/internal/cards"

// Key identifies an orbit. Keys from Canonicalize and Marked are not
// comparable with each other.
type Key uint64

// Permutation maps each suit to its replacement.
type Permutation [cards.NumSuits]cards.Suit

var permutations = buildPermutations()

func buildPermutations() []Permutation {
	var out []Permutation
	var p Permutation
	var used [cards.NumSuits]bool
	var rec func(i int)
	rec = func(i int) {
		if i == cards.NumSuits {
			out = append(out, p)
			return
		}
		for s := cards.Suit(0); s < cards.NumSuits; s++ {
			if used[s] {
				continue
			}
			used[s] = true
			p[i] = s
			rec(i + 1)
			used[s] = false
		}
	}
	rec(0)
	return out
}

// Permutations returns all 24 suit permutations, identity first.
func Permutations() []Permutation {
	return append([]Permutation(nil), permutations...)
}

// Apply relabels suits without moving cards.
func Apply(h cards.Hand, p Permutation) cards.Hand {
	var out cards.Hand
	for i, c := range h {
		out[i] = cards.Card{Rank: c.Rank, Suit: p[c.Suit]}
	}
	return out
}

// Form is a canonical representative.
type Form struct {
	Hand cards.Hand
	// Orig[j] is the position in the input hand that canonical position j
	// came from.
	Orig [cards.HandSize]uint8
	Key  Key
}

// ToOriginal carries a mask over canonical positions back to input positions.
func (f Form) ToOriginal(m cards.HoldMask) cards.HoldMask { return m.Remap(f.Orig) }

// FromOriginal carries a mask over input positions to canonical positions.
func (f Form) FromOriginal(m cards.HoldMask) cards.HoldMask {
	return m.Remap(cards.Invert(f.Orig))
}

// Canonicalize picks, across all suit permutations, the one whose cards
// sorted by (rank, suit) give the smallest sequence.
func Canonicalize(h cards.Hand) Form {
	var none [cards.HandSize]uint8
	codes, orig, key := minimize(h, none, 6)
	f := Form{Orig: orig, Key: key}
	for j, code := range codes {
		f.Hand[j] = cardOf(code % cards.DeckSize)
	}
	return f
}

// Marked is the orbit key of a hand together with which cards are held.
// Held cards sort first, so two hands share a key exactly when a suit
// permutation maps held cards onto held cards and discards onto discards.
func Marked(h cards.Hand, m cards.HoldMask) Key {
	var flags [cards.HandSize]uint8
	for i := range flags {
		if !m.Holds(i) {
			flags[i] = 1
		}
	}
	_, _, key := minimize(h, flags, 7)
	return key
}

func codeOf(r cards.Rank, s cards.Suit) uint8 {
	return uint8(r-cards.Two)*cards.NumSuits + uint8(s)
}

func cardOf(code uint8) cards.Card {
	return cards.Card{Rank: cards.Two + cards.Rank(code/cards.NumSuits), Suit: cards.Suit(code % cards.NumSuits)}
}

func minimize(h cards.Hand, flags [cards.HandSize]uint8, width uint) ([cards.HandSize]uint8, [cards.HandSize]uint8, Key) {
	var bestCodes, bestOrig [cards.HandSize]uint8
	best := Key(^uint64(0))
	for _, p := range permutations {
		var codes, orig [cards.HandSize]uint8
		for i, c := range h {
			codes[i] = flags[i]*cards.DeckSize + codeOf(c.Rank, p[c.Suit])
			orig[i] = uint8(i)
		}
		for i := 1; i < cards.HandSize; i++ {
			for j := i; j > 0 && (codes[j] < codes[j-1] || (codes[j] == codes[j-1] && orig[j] < orig[j-1])); j-- {
				codes[j], codes[j-1] = codes[j-1], codes[j]
				orig[j], orig[j-1] = orig[j-1], orig[j]
			}
		}
		var key Key
		for _, code := range codes {
			key = key<<width | Key(code)
		}
		if key < best {
			best, bestCodes, bestOrig = key, codes, orig
		}
	}
	return bestCodes, bestOrig, best
}
