// Package paytable holds Jacks-or-Better payout schedules.
//
// Pays are per coin with the max-coin royal bonus folded in, so a full-pay
// royal is 800: a five-coin bet on a royal returns 4000.
package paytable

import (
	"fmt"
	"sort"

	"holdwise/internal/handeval"
)

// Schedule maps every outcome category to its per-coin payout. Values are
// immutable once built by New.
type Schedule struct {
	Name string
	Pays [handeval.NumCategories]int
}

func New(name string, pays map[handeval.Category]int) (Schedule, error) {
	s := Schedule{Name: name}
	if name == "" {
		return Schedule{}, ErrUnnamed
	}
	for c, p := range pays {
		if c < handeval.RoyalFlush || c > handeval.NoPay {
			return Schedule{}, fmt.Errorf("%w: category %d", ErrInvalidSchedule, c)
		}
		if p < 0 {
			return Schedule{}, fmt.Errorf("%w: negative pay for %v", ErrInvalidSchedule, c)
		}
		s.Pays[c] = p
	}
	if s.Pays[handeval.NoPay] != 0 {
		return Schedule{}, fmt.Errorf("%w: no_pay must pay 0", ErrInvalidSchedule)
	}
	if _, ok := pays[handeval.RoyalFlush]; !ok {
		return Schedule{}, fmt.Errorf("%w: missing royal_flush", ErrInvalidSchedule)
	}
	if _, ok := pays[handeval.JacksOrBetter]; !ok {
		return Schedule{}, fmt.Errorf("%w: missing jacks_or_better", ErrInvalidSchedule)
	}
	return s, nil
}

func (s Schedule) Pay(c handeval.Category) int {
	if c < 0 || c >= handeval.NumCategories {
		return 0
	}
	return s.Pays[c]
}

// EV is the expected return of a tally for a bet of coins.
func (s Schedule) EV(t handeval.Tally, coins int) float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(s.Return(t)) * float64(coins) / float64(t.Total)
}

// Return is the summed per-coin payout over every draw in t. Comparing
// Return(a)*b.Total with Return(b)*a.Total orders holds exactly.
func (s Schedule) Return(t handeval.Tally) int64 {
	var sum int64
	for c := handeval.RoyalFlush; c < handeval.NoPay; c++ {
		sum += t.Counts[c] * int64(s.Pays[c])
	}
	return sum
}

func (s Schedule) Equal(o Schedule) bool {
	return s.Name == o.Name && s.Pays == o.Pays
}

func mustNew(name string, royal, sf, quads, fh, flush, straight, trips, twoPair, jacks int) Schedule {
	s, err := New(name, map[handeval.Category]int{
		handeval.RoyalFlush:    royal,
		handeval.StraightFlush: sf,
		handeval.FourOfAKind:   quads,
		handeval.FullHouse:     fh,
		handeval.Flush:         flush,
		handeval.Straight:      straight,
		handeval.ThreeOfAKind:  trips,
		handeval.TwoPair:       twoPair,
		handeval.JacksOrBetter: jacks,
	})
	if err != nil {
		panic(err)
	}
	return s
}

const DefaultName = "9/6"

var builtin = map[string]Schedule{
	"9/6": mustNew("9/6", 800, 50, 25, 9, 6, 4, 3, 2, 1),
	"9/5": mustNew("9/5", 800, 50, 25, 9, 5, 4, 3, 2, 1),
	"8/6": mustNew("8/6", 800, 50, 25, 8, 6, 4, 3, 2, 1),
	"8/5": mustNew("8/5", 800, 50, 25, 8, 5, 4, 3, 2, 1),
	"7/5": mustNew("7/5", 800, 50, 25, 7, 5, 4, 3, 2, 1),
	"6/5": mustNew("6/5", 800, 50, 25, 6, 5, 4, 3, 2, 1),
}

func Lookup(name string) (Schedule, error) {
	s, ok := builtin[name]
	if !ok {
		return Schedule{}, fmt.Errorf("%w: %q", ErrUnknownSchedule, name)
	}
	return s, nil
}

func Default() Schedule { return builtin[DefaultName] }

func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
