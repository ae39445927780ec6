package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"sort"

	"tsched/catalog"
)

var _ Scheduler = &BranchBound{}

// BranchBound solves by depth-first search over candidates in descending
// value density, pruning with the fractional knapsack bound. Memory does
// not grow with the budget, which makes it the choice for budgets too wide
// for a DP table. ctx is checked at every node expansion.
type BranchBound struct {
	Name string
}

type bnbSearch struct {
	done   <-chan struct{}
	cands  []catalog.Candidate
	order  []int // catalog indices, densest first
	budget int64

	chosen []bool
	value  int64
	cost   int64

	best      []bool
	bestValue int64
	bestCost  int64

	nodes int
}

func (b *BranchBound) Solve(ctx context.Context, c *catalog.Catalog, budget int64) (*Schedule, error) {
	if err := checkBudget(budget); err != nil {
		return nil, err
	}

	cands := c.Candidates()
	s := &bnbSearch{
		done:   ctx.Done(),
		cands:  cands,
		budget: budget,
		chosen: make([]bool, len(cands)),
	}

	// Zero-cost candidates belong to every optimal selection.
	for i, cand := range cands {
		switch {
		case cand.Cost == 0:
			s.chosen[i] = true
			s.value += cand.Value
		case cand.Cost <= budget:
			s.order = append(s.order, i)
		}
	}
	sort.SliceStable(s.order, func(x, y int) bool {
		return denser(cands[s.order[x]], cands[s.order[y]])
	})

	s.best = make([]bool, len(cands))
	copy(s.best, s.chosen)
	s.bestValue = s.value
	s.bestCost = s.cost

	if err := s.expand(0); err != nil {
		return nil, fmt.Errorf("bnb interrupted after %d nodes: %w", s.nodes, ctx.Err())
	}

	var picked []int
	for i, ok := range s.best {
		if ok {
			picked = append(picked, i)
		}
	}

	return newSchedule(cands, picked, budget, b.Name), nil
}

func (s *bnbSearch) expand(k int) error {
	s.nodes++
	select {
	case <-s.done:
		return errInterrupted
	default:
	}

	if k == len(s.order) {
		s.offer()
		return nil
	}

	bound := s.bound(k)
	if bound < s.bestValue || (bound == s.bestValue && s.cost > s.bestCost) {
		return nil
	}

	i := s.order[k]
	cand := s.cands[i]
	if s.cost+cand.Cost <= s.budget {
		s.chosen[i] = true
		s.value += cand.Value
		s.cost += cand.Cost
		err := s.expand(k + 1)
		s.chosen[i] = false
		s.value -= cand.Value
		s.cost -= cand.Cost
		if err != nil {
			return err
		}
	}

	return s.expand(k + 1)
}

// offer records the current selection if it beats the best so far.
func (s *bnbSearch) offer() {
	switch {
	case s.value > s.bestValue:
	case s.value < s.bestValue:
		return
	case s.cost < s.bestCost:
	case s.cost > s.bestCost:
		return
	case !earlierIncluded(s.chosen, s.best):
		return
	}

	copy(s.best, s.chosen)
	s.bestValue = s.value
	s.bestCost = s.cost
}

// bound is the floor of the fractional relaxation over order[k:].
func (s *bnbSearch) bound(k int) int64 {
	value := s.value
	room := s.budget - s.cost

	for _, i := range s.order[k:] {
		cand := s.cands[i]
		if cand.Cost <= room {
			room -= cand.Cost
			value += cand.Value
			continue
		}
		// room < cand.Cost, so room*Value/Cost < Value and the quotient fits.
		hi, lo := bits.Mul64(uint64(room), uint64(cand.Value))
		q, _ := bits.Div64(hi, lo, uint64(cand.Cost))
		return value + int64(q)
	}

	return value
}

// denser orders by Value/Cost descending, compared exactly.
func denser(a, b catalog.Candidate) bool {
	ahi, alo := bits.Mul64(uint64(a.Value), uint64(b.Cost))
	bhi, blo := bits.Mul64(uint64(b.Value), uint64(a.Cost))
	if ahi != bhi {
		return ahi > bhi
	}
	return alo > blo
}

// earlierIncluded reports whether a contains the first index at which a
// and b differ.
func earlierIncluded(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i]
		}
	}
	return false
}

var errInterrupted = errors.New("interrupted")
