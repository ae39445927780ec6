package catalog

import (
	"errors"
	"math"
	"testing"
)

func TestBuild_ConvertsToFixedPoint(t *testing.T) {
	c, err := Build([]Entry{
		{ID: "t1", Name: "ResetWorks", Cost: 1.5, Value: 0.8765},
		{ID: "t2", Name: "Recovery", Cost: 0.0004, Value: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Size() != 2 {
		t.Fatalf("expected 2 candidates, got %d", c.Size())
	}

	first, _ := c.Get(0)
	if first.Cost != 1500 || first.Value != 876 {
		t.Errorf("expected cost 1500 value 876, got cost %d value %d", first.Cost, first.Value)
	}

	second, _ := c.Get(1)
	if second.Cost != 0 {
		t.Errorf("expected sub-millisecond cost to truncate to 0, got %d", second.Cost)
	}
	if second.Value != 2000 {
		t.Errorf("expected value 2000, got %d", second.Value)
	}

	if c.TotalCost() != 1500 || c.TotalValue() != 2876 {
		t.Errorf("expected totals 1500/2876, got %d/%d", c.TotalCost(), c.TotalValue())
	}
}

func TestBuild_KeepsOrder(t *testing.T) {
	ids := []string{"c", "a", "b"}
	var entries []Entry
	for _, id := range ids {
		entries = append(entries, Entry{ID: id, Cost: 1, Value: 1})
	}

	c, err := Build(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, cand := range c.Candidates() {
		if cand.ID != ids[i] {
			t.Errorf("position %d: expected %q, got %q", i, ids[i], cand.ID)
		}
	}
}

func TestBuild_RejectsMalformedEntries(t *testing.T) {
	cases := map[string][]Entry{
		"duplicate id":   {{ID: "a", Cost: 1, Value: 1}, {ID: "a", Cost: 2, Value: 2}},
		"empty id":       {{ID: "", Cost: 1, Value: 1}},
		"negative cost":  {{ID: "a", Cost: -1, Value: 1}},
		"negative value": {{ID: "a", Cost: 1, Value: -0.5}},
		"nan cost":       {{ID: "a", Cost: math.NaN(), Value: 1}},
		"inf value":      {{ID: "a", Cost: 1, Value: math.Inf(1)}},
		"huge cost":      {{ID: "a", Cost: 1e300, Value: 1}},
		"total overflow": {{ID: "a", Cost: 9e15, Value: 1}, {ID: "b", Cost: 9e15, Value: 1}},
	}

	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Build(entries)
			var mErr *MalformedInputError
			if !errors.As(err, &mErr) {
				t.Fatalf("expected MalformedInputError, got %v", err)
			}
		})
	}
}

func TestBuild_DuplicateReportsRow(t *testing.T) {
	_, err := Build([]Entry{
		{ID: "x", Cost: 1, Value: 1},
		{ID: "y", Cost: 1, Value: 1},
		{ID: "x", Cost: 1, Value: 1},
	})

	var mErr *MalformedInputError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
	if mErr.Row != 2 || mErr.ID != "x" {
		t.Errorf("expected row 2 id x, got row %d id %q", mErr.Row, mErr.ID)
	}
}

func TestBuild_Empty(t *testing.T) {
	c, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Size() != 0 {
		t.Errorf("expected empty catalog, got %d", c.Size())
	}
}

func TestGet_OutOfRange(t *testing.T) {
	c, _ := Build([]Entry{{ID: "a", Cost: 1, Value: 1}})

	for _, idx := range []int{-1, 1, 5} {
		_, err := c.Get(idx)
		var rErr *IndexOutOfRangeError
		if !errors.As(err, &rErr) {
			t.Errorf("index %d: expected IndexOutOfRangeError, got %v", idx, err)
			continue
		}
		if rErr.Size != 1 {
			t.Errorf("expected size 1 in error, got %d", rErr.Size)
		}
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if c.Size() != 0 || c.TotalCost() != 0 || c.Candidates() != nil {
		t.Errorf("expected nil catalog to behave as empty")
	}
	if _, err := c.Get(0); err == nil {
		t.Errorf("expected error from Get on nil catalog")
	}
}

func TestFromFixed(t *testing.T) {
	if got := FromFixed(1500); got != 1.5 {
		t.Errorf("expected 1.5, got %v", got)
	}
}
