package catalog

import (
	"fmt"
	"math"
)

// Scale is the number of fixed-point sub-units per input unit. Costs are
// seconds, so one sub-unit is a millisecond.
const Scale = 1000

// Entry is a raw candidate row as handed over by an input collaborator.
type Entry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Cost  float64 `json:"cost"`
	Value float64 `json:"value"`
}

// Candidate is a schedulable unit with fixed-point cost and value.
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cost  int64  `json:"cost"`
	Value int64  `json:"value"`
}

// Catalog is the ordered, validated candidate set. It is never mutated
// after Build.
type Catalog struct {
	candidates []Candidate
	totalCost  int64
	totalValue int64
}

// Build validates entries and converts them to fixed-point candidates,
// keeping their order.
func Build(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		candidates: make([]Candidate, 0, len(entries)),
	}
	seen := make(map[string]int, len(entries))

	for row, e := range entries {
		if e.ID == "" {
			return nil, &MalformedInputError{Row: row, Reason: "empty id"}
		}
		if first, ok := seen[e.ID]; ok {
			return nil, &MalformedInputError{Row: row, ID: e.ID, Reason: fmt.Sprintf("duplicate id, first seen at row %d", first)}
		}
		seen[e.ID] = row

		cost, err := ToFixed(e.Cost)
		if err != nil {
			return nil, &MalformedInputError{Row: row, ID: e.ID, Reason: "cost " + err.Error()}
		}
		value, err := ToFixed(e.Value)
		if err != nil {
			return nil, &MalformedInputError{Row: row, ID: e.ID, Reason: "value " + err.Error()}
		}

		if c.totalCost > math.MaxInt64-cost {
			return nil, &MalformedInputError{Row: row, ID: e.ID, Reason: "total cost overflows"}
		}
		if c.totalValue > math.MaxInt64-value {
			return nil, &MalformedInputError{Row: row, ID: e.ID, Reason: "total value overflows"}
		}
		c.totalCost += cost
		c.totalValue += value

		c.candidates = append(c.candidates, Candidate{
			ID:    e.ID,
			Name:  e.Name,
			Cost:  cost,
			Value: value,
		})
	}

	return c, nil
}

// Size returns the number of candidates. A nil catalog is empty.
func (c *Catalog) Size() int {
	if c == nil {
		return 0
	}
	return len(c.candidates)
}

// Get returns the candidate at index.
func (c *Catalog) Get(index int) (Candidate, error) {
	if index < 0 || index >= c.Size() {
		return Candidate{}, &IndexOutOfRangeError{Index: index, Size: c.Size()}
	}
	return c.candidates[index], nil
}

// Candidates returns a copy of the candidates in catalog order.
func (c *Catalog) Candidates() []Candidate {
	if c == nil {
		return nil
	}
	out := make([]Candidate, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// TotalCost is the cost of admitting every candidate.
func (c *Catalog) TotalCost() int64 {
	if c == nil {
		return 0
	}
	return c.totalCost
}

// TotalValue is the value of admitting every candidate.
func (c *Catalog) TotalValue() int64 {
	if c == nil {
		return 0
	}
	return c.totalValue
}

// ToFixed converts x to sub-units, truncating toward zero.
func ToFixed(x float64) (int64, error) {
	switch {
	case math.IsNaN(x):
		return 0, fmt.Errorf("is NaN")
	case math.IsInf(x, 0):
		return 0, fmt.Errorf("is infinite")
	case x < 0:
		return 0, fmt.Errorf("is negative (%g)", x)
	}

	scaled := math.Trunc(x * Scale)
	// float64(MaxInt64) rounds up to 2^63, so >= is the overflow test.
	if scaled >= math.MaxInt64 {
		return 0, fmt.Errorf("%g is too large", x)
	}
	return int64(scaled), nil
}

// FromFixed converts sub-units back to input units for display.
func FromFixed(n int64) float64 {
	return float64(n) / Scale
}
