package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tsched/catalog"
)

// Scheduler picks the value-maximizing admission set whose total cost fits
// the budget. Among optimal sets it returns the one with the lowest total
// cost, and among those the one that includes the earliest catalog index
// where two candidate sets differ. Implementations are stateless and safe
// for concurrent use.
type Scheduler interface {
	Solve(ctx context.Context, c *catalog.Catalog, budget int64) (*Schedule, error)
}

// ErrUnknownScheduler is returned by New for an unregistered name.
var ErrUnknownScheduler = errors.New("unknown scheduler")

// New returns the scheduler registered under name.
func New(name string) (Scheduler, error) {
	switch name {
	case "dp":
		return &DP{Name: "dp"}, nil
	case "bnb":
		return &BranchBound{Name: "bnb"}, nil
	case "hybrid", "":
		return &Hybrid{Name: "hybrid"}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownScheduler, name)
	}
}

// NewLimited is New with the DP table bound set to maxCells. Zero keeps
// DefaultMaxCells.
func NewLimited(name string, maxCells int64) (Scheduler, error) {
	s, err := New(name)
	if err != nil {
		return nil, err
	}

	switch v := s.(type) {
	case *Hybrid:
		v.MaxCells = maxCells
	case *DP:
		v.MaxCells = maxCells
	}

	return s, nil
}

// Schedule is the selected subset of a catalog, in catalog order.
type Schedule struct {
	Selected   []catalog.Candidate `json:"selected"`
	TotalCost  int64               `json:"total_cost"`
	TotalValue int64               `json:"total_value"`
	Count      int                 `json:"count"`
	Budget     int64               `json:"budget"`
	Strategy   string              `json:"strategy"`
}

// IDs returns the selected candidate ids in catalog order.
func (s *Schedule) IDs() []string {
	ids := make([]string, len(s.Selected))
	for i, c := range s.Selected {
		ids[i] = c.ID
	}
	return ids
}

// InvalidBudgetError is returned for a negative budget, or one that cannot
// be represented in cost units.
type InvalidBudgetError struct {
	Budget int64
	Reason string
}

func (e *InvalidBudgetError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid budget: %s", e.Reason)
	}
	return fmt.Sprintf("invalid budget %d: must be >= 0", e.Budget)
}

func checkBudget(budget int64) error {
	if budget < 0 {
		return &InvalidBudgetError{Budget: budget}
	}
	return nil
}

// tableWidth is the largest cost a selection can reach under budget.
func tableWidth(c *catalog.Catalog, budget int64) int64 {
	if total := c.TotalCost(); total < budget {
		return total
	}
	return budget
}

func newSchedule(cands []catalog.Candidate, picked []int, budget int64, strategy string) *Schedule {
	sort.Ints(picked)

	s := &Schedule{
		Selected: make([]catalog.Candidate, 0, len(picked)),
		Budget:   budget,
		Strategy: strategy,
	}
	for _, i := range picked {
		s.Selected = append(s.Selected, cands[i])
		s.TotalCost += cands[i].Cost
		s.TotalValue += cands[i].Value
	}
	s.Count = len(s.Selected)

	return s
}
