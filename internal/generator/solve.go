package generator

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"holdwise/internal/aggregate"
	"holdwise/internal/canonical"
	"holdwise/internal/cards"
	"holdwise/internal/handeval"
	"holdwise/internal/paytable"
	"holdwise/internal/strategy"
)

// solution holds the winning counts of all 32 holds of a canonical hand,
// masks relative to canonical positions.
type solution [cards.NumMasks][handeval.NumWinning]uint32

// solver memoizes one solution per suit-equivalence class for the whole run.
// Concurrent requests for the same class share a single computation.
type solver struct {
	agg *aggregate.Table

	mu    sync.RWMutex
	memo  map[canonical.Key]*solution
	group singleflight.Group

	solves atomic.Int64
}

func newSolver(agg *aggregate.Table) *solver {
	return &solver{agg: agg, memo: make(map[canonical.Key]*solution)}
}

func (s *solver) cached(k canonical.Key) (*solution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sol, ok := s.memo[k]
	return sol, ok
}

func (s *solver) solve(f canonical.Form) *solution {
	if sol, ok := s.cached(f.Key); ok {
		metricMemoHits.Add(1)
		return sol
	}
	v, _, _ := s.group.Do(strconv.FormatUint(uint64(f.Key), 36), func() (any, error) {
		if sol, ok := s.cached(f.Key); ok {
			return sol, nil
		}
		sol := s.compute(f.Hand)
		s.mu.Lock()
		s.memo[f.Key] = sol
		s.mu.Unlock()
		s.solves.Add(1)
		metricCanonicalSolves.Add(1)
		return sol, nil
	})
	return v.(*solution)
}

func (s *solver) compute(h cards.Hand) *solution {
	idx, pos := h.Sorted()
	tallies := s.agg.TallyAll(idx)
	sol := new(solution)
	for m := cards.HoldMask(0); m < cards.NumMasks; m++ {
		sol[m.Remap(pos)] = tallies[m].Wins()
	}
	return sol
}

// handTallies carries a class solution over to a concrete hand. The hand's
// positions are its ascending deck order.
func handTallies(f canonical.Form, sol *solution) [cards.NumMasks]handeval.Tally {
	var out [cards.NumMasks]handeval.Tally
	for m := cards.HoldMask(0); m < cards.NumMasks; m++ {
		var wins [handeval.NumWinning]int64
		for i, n := range sol[m] {
			wins[i] = int64(n)
		}
		out[f.ToOriginal(m)] = handeval.FromWins(wins, handeval.Draws(cards.HandSize-m.Count()))
	}
	return out
}

// bestHold picks the highest-returning hold; exact ties go to the lowest
// mask.
func bestHold(tallies *[cards.NumMasks]handeval.Tally, s paytable.Schedule) cards.HoldMask {
	best := cards.HoldMask(0)
	bestRet := s.Return(tallies[0])
	for m := cards.HoldMask(1); m < cards.NumMasks; m++ {
		ret := s.Return(tallies[m])
		if ret*tallies[best].Total > bestRet*tallies[m].Total {
			best, bestRet = m, ret
		}
	}
	return best
}

// encodeHand appends the record for the hand at rank r.
func (s *solver) encodeHand(dst []byte, mode Mode, sched paytable.Schedule, r int) []byte {
	var h cards.Hand
	for i, idx := range unrankHand(r) {
		h[i] = cards.FromIndex(int(idx))
	}
	f := canonical.Canonicalize(h)
	tallies := handTallies(f, s.solve(f))
	if mode == ModeAgnostic {
		return strategy.AppendAgnostic(dst, &tallies)
	}
	m := bestHold(&tallies, sched)
	rec := strategy.Record{
		HandIndex: uint32(r),
		Mask:      m,
		EV:        float32(sched.EV(tallies[m], 1)),
		Wins:      tallies[m].Wins(),
	}
	if mode == ModeLegacy {
		return rec.AppendLegacy(dst)
	}
	return rec.AppendStrategy(dst)
}
