package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"

	"tsched/catalog"
)

var _ Scheduler = &DP{}

// ErrTableTooLarge is returned by DP when the table would exceed MaxCells.
var ErrTableTooLarge = errors.New("dp table too large")

// DP solves by dynamic programming over exact total cost. It runs in
// O(n*W) time and keeps one bit per cell for backtracking, where W is
// min(budget, catalog total cost).
type DP struct {
	Name string
	// MaxCells bounds n*(W+1); zero or less means DefaultMaxCells.
	MaxCells int64
}

func (d *DP) Solve(ctx context.Context, c *catalog.Catalog, budget int64) (*Schedule, error) {
	if err := checkBudget(budget); err != nil {
		return nil, err
	}

	cands := c.Candidates()
	n := len(cands)
	width := tableWidth(c, budget)
	limit := d.MaxCells
	if limit <= 0 {
		limit = DefaultMaxCells
	}
	if tooWide(n, width, limit) {
		return nil, fmt.Errorf("%w: %d candidates x %d cost units exceeds %d cells", ErrTableTooLarge, n, width, limit)
	}

	cols := width + 1
	words := (cols + 63) / 64

	// best[w] is the top value reachable with total cost exactly w, -1 if none.
	best := make([]int64, cols)
	for w := int64(1); w < cols; w++ {
		best[w] = -1
	}
	take := make([]uint64, int64(n)*words)

	// Rows run last to first so that row i describes the suffix i..n-1 and
	// the forward walk below can favour earlier candidates on ties.
	for i := n - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dp interrupted at row %d: %w", i, err)
		}

		cost, value := cands[i].Cost, cands[i].Value
		if cost > width {
			continue
		}

		row := take[int64(i)*words : int64(i+1)*words]
		for w := width; w >= cost; w-- {
			prev := best[w-cost]
			if prev < 0 {
				continue
			}
			if prev+value >= best[w] {
				best[w] = prev + value
				row[w/64] |= 1 << uint(w%64)
			}
		}
	}

	target := int64(0)
	for w := int64(1); w < cols; w++ {
		if best[w] > best[target] {
			target = w
		}
	}

	var picked []int
	w := target
	for i := 0; i < n; i++ {
		row := take[int64(i)*words : int64(i+1)*words]
		if row[w/64]&(1<<uint(w%64)) != 0 {
			picked = append(picked, i)
			w -= cands[i].Cost
		}
	}

	return newSchedule(cands, picked, budget, d.Name), nil
}

// tooWide reports whether an n x (width+1) table exceeds limit cells.
func tooWide(n int, width, limit int64) bool {
	if width == math.MaxInt64 {
		return n > 0
	}
	return exceeds(int64(n), width+1, limit)
}

// exceeds reports whether a*b > limit without overflowing.
func exceeds(a, b, limit int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	return a > limit/b || a*b > limit
}
