package run

import "testing"

func TestValidStateTransition(t *testing.T) {
	cases := []struct {
		src, dst State
		want     bool
	}{
		{Pending, Solved, true},
		{Pending, Failed, true},
		{Pending, Running, false},
		{Solved, Running, true},
		{Solved, Pending, false},
		{Running, Completed, true},
		{Running, Failed, true},
		{Running, Running, false},
		{Completed, Running, true},
		{Failed, Running, true},
		{Failed, Solved, false},
	}

	for _, c := range cases {
		if got := ValidStateTransition(c.src, c.dst); got != c.want {
			t.Errorf("%v -> %v: expected %v, got %v", c.src, c.dst, c.want, got)
		}
	}
}

func TestStateString(t *testing.T) {
	if Solved.String() != "Solved" {
		t.Errorf("expected Solved, got %s", Solved.String())
	}
	if State(42).String() != "" {
		t.Errorf("expected empty string for unknown state, got %q", State(42).String())
	}
}

func TestRunPassed(t *testing.T) {
	r := Run{Results: []Result{{Passed: true}, {Passed: false}, {Passed: true}}}
	if r.Passed() != 2 {
		t.Errorf("expected 2 passed, got %d", r.Passed())
	}
}
