package handeval

import (
	"sort"

	"holdwise/internal/cards"
)

// Classify is the reference classifier. It favours readability over speed;
// hot loops use ClassifyIndices, which must agree with it on every hand.
func Classify(h cards.Hand) Category {
	counts := map[int]int{}
	suits := map[cards.Suit]int{}
	ranks := make([]int, 0, cards.HandSize)
	for _, c := range h {
		r := int(c.Rank)
		counts[r]++
		suits[c.Suit]++
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	isFlush := len(suits) == 1
	isStraight := straight(ranks)
	if isFlush && isStraight {
		if ranks[0] == int(cards.Ten) && ranks[4] == int(cards.Ace) {
			return RoyalFlush
		}
		return StraightFlush
	}

	groups := make([]int, 0, len(counts))
	for _, n := range counts {
		groups = append(groups, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(groups)))

	switch {
	case groups[0] == 4:
		return FourOfAKind
	case groups[0] == 3 && groups[1] == 2:
		return FullHouse
	case isFlush:
		return Flush
	case isStraight:
		return Straight
	case groups[0] == 3:
		return ThreeOfAKind
	case groups[0] == 2 && groups[1] == 2:
		return TwoPair
	case groups[0] == 2:
		for r, n := range counts {
			if n == 2 && r >= int(cards.Jack) {
				return JacksOrBetter
			}
		}
	}
	return NoPay
}

// straight expects ascending ranks with ace as 14.
func straight(ranks []int) bool {
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			return false
		}
	}
	if ranks[4]-ranks[0] == 4 {
		return true
	}
	// Wheel A-5: the ace sorts high, so the run is not consecutive.
	return ranks[0] == 2 && ranks[1] == 3 && ranks[2] == 4 && ranks[3] == 5 && ranks[4] == 14
}
