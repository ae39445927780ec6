package store

import (
	"errors"
	"path/filepath"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func exerciseStore(t *testing.T, s Store[*record]) {
	t.Helper()

	if n, err := s.Count(); err != nil || n != 0 {
		t.Fatalf("expected empty store, got %d (%v)", n, err)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	for _, k := range []string{"b", "a", "c"} {
		if err := s.Put(k, &record{Name: k, Score: len(k)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.Put("a", &record{Name: "a", Score: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 7 {
		t.Errorf("expected overwritten score 7, got %d", got.Score)
	}

	if n, _ := s.Count(); n != 3 {
		t.Errorf("expected 3 records, got %d", n)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(list) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(list))
	}
	for i, r := range list {
		if r.Name != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], r.Name)
		}
	}
}

func TestInMemoryStore(t *testing.T) {
	exerciseStore(t, NewInMemoryStore[*record]())
}

func TestPersistentStore(t *testing.T) {
	s, err := NewPersistentStore[*record](filepath.Join(t.TempDir(), "runs.db"), 0600, "runs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestPersistentStore_Reopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "runs.db")

	s, err := NewPersistentStore[*record](file, 0600, "runs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Put("x", &record{Name: "x", Score: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Close()

	s, err = NewPersistentStore[*record](file, 0600, "runs")
	if err != nil {
		t.Fatalf("expected reopen to reuse the bucket, got %v", err)
	}
	defer s.Close()

	got, err := s.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 1 {
		t.Errorf("expected score 1, got %d", got.Score)
	}
}
