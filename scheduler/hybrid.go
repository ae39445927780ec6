package scheduler

import (
	"context"

	"tsched/catalog"
)

var _ Scheduler = &Hybrid{}

// DefaultMaxCells is the DP table size above which Hybrid switches to
// branch and bound.
const DefaultMaxCells = 1 << 27

// Hybrid runs DP when its table fits MaxCells and BranchBound otherwise.
// Both return the same schedule, so the switch is invisible to callers.
type Hybrid struct {
	Name     string
	MaxCells int64
}

func (h *Hybrid) Solve(ctx context.Context, c *catalog.Catalog, budget int64) (*Schedule, error) {
	if err := checkBudget(budget); err != nil {
		return nil, err
	}

	limit := h.MaxCells
	if limit <= 0 {
		limit = DefaultMaxCells
	}

	var s *Schedule
	var err error
	if tooWide(c.Size(), tableWidth(c, budget), limit) {
		s, err = (&BranchBound{Name: "bnb"}).Solve(ctx, c, budget)
	} else {
		s, err = (&DP{Name: "dp", MaxCells: limit}).Solve(ctx, c, budget)
	}
	if err != nil {
		return nil, err
	}

	s.Strategy = h.Name + "/" + s.Strategy
	return s, nil
}
