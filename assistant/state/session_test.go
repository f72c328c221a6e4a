package state

import (
	"errors"
	"testing"
)

func TestCategoryOther(t *testing.T) {
	t.Parallel()

	if CategoryLocal.Other() != CategoryNonLocal {
		t.Error("local.Other() should be non-local")
	}
	if CategoryNonLocal.Other() != CategoryLocal {
		t.Error("non-local.Other() should be local")
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Category{
		"local":     CategoryLocal,
		"non-local": CategoryNonLocal,
		" LOCAL ":   CategoryLocal,
		"Non-Local": CategoryNonLocal,
	} {
		got, err := ParseCategory(raw)
		if err != nil || got != want {
			t.Errorf("ParseCategory(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}

	if _, err := ParseCategory("remote"); !errors.Is(err, ErrBadCategory) {
		t.Errorf("expected ErrBadCategory, got %v", err)
	}
}

func TestNextTargetAlternates(t *testing.T) {
	t.Parallel()

	st := &SessionState{MyLocation: "NYC", LastServed: CategoryNonLocal}

	// Simulate a run of served suggestions: each commit makes the next
	// target the opposite group.
	seen := make([]Category, 0, 4)
	for i := 0; i < 4; i++ {
		target := st.NextTarget()
		seen = append(seen, target)
		st.LastServed = target
	}
	want := []Category{CategoryLocal, CategoryNonLocal, CategoryLocal, CategoryNonLocal}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("round %d: target = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestSessionStateValidate(t *testing.T) {
	t.Parallel()

	ok := &SessionState{MyLocation: "NYC", LastServed: CategoryLocal}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid state rejected: %v", err)
	}

	if err := (&SessionState{LastServed: CategoryLocal}).Validate(); err == nil {
		t.Error("empty location accepted")
	}
	if err := (&SessionState{MyLocation: "NYC", LastServed: "sometimes"}).Validate(); err == nil {
		t.Error("bad category accepted")
	}
}
