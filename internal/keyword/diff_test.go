package keyword

import (
	"testing"

	"github.com/fatih/color"
)

func equal(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestDiffPartition(t *testing.T) {
	alt := Diff(
		[]string{"review", "thalamus", "visual cortex"},
		[]string{"review", "primate", "visual cortex"},
	)
	if !equal(alt.Kept, []string{"review", "visual cortex"}) {
		t.Errorf("Kept = %v", alt.Kept)
	}
	if !equal(alt.Added, []string{"primate"}) {
		t.Errorf("Added = %v", alt.Added)
	}
	if !equal(alt.Deleted, []string{"thalamus"}) {
		t.Errorf("Deleted = %v", alt.Deleted)
	}
}

func TestDiffDisjointSlices(t *testing.T) {
	alt := Diff([]string{"a", "b"}, []string{"b", "c"})
	seen := make(map[string]int)
	for _, group := range [][]string{alt.Kept, alt.Added, alt.Deleted} {
		for _, term := range group {
			seen[term]++
		}
	}
	for term, n := range seen {
		if n != 1 {
			t.Errorf("term %q appears in %d groups", term, n)
		}
	}
	if len(seen) != 3 {
		t.Errorf("union lost terms: %v", seen)
	}
}

func TestDiffIdentical(t *testing.T) {
	alt := Diff([]string{"x", "y"}, []string{"y", "x"})
	if len(alt.Added) != 0 || len(alt.Deleted) != 0 {
		t.Errorf("identical sets must only keep: %+v", alt)
	}
	if !equal(alt.Kept, []string{"x", "y"}) {
		t.Errorf("Kept = %v", alt.Kept)
	}
}

func TestDiffCollapsesDuplicates(t *testing.T) {
	alt := Diff([]string{"a", "a"}, []string{"a", "b", "b"})
	if !equal(alt.Kept, []string{"a"}) || !equal(alt.Added, []string{"b"}) {
		t.Errorf("duplicates not collapsed: %+v", alt)
	}
}

func TestApply(t *testing.T) {
	alt := Apply([]string{"review"}, []string{"primate", "review"}, []string{"absent"})
	if !equal(alt.Kept, []string{"review"}) {
		t.Errorf("Kept = %v", alt.Kept)
	}
	if !equal(alt.Added, []string{"primate"}) {
		t.Errorf("re-adding an existing term must be a no-op: %v", alt.Added)
	}
	if len(alt.Deleted) != 0 {
		t.Errorf("removing an absent term must be a no-op: %v", alt.Deleted)
	}
}

func TestApplyAddThenRemove(t *testing.T) {
	alt := Apply([]string{"review"}, []string{"review"}, []string{"review"})
	if !equal(alt.Deleted, []string{"review"}) {
		t.Errorf("removal must win over addition: %+v", alt)
	}
}

func TestRenderOrder(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	alt := Diff([]string{"b", "d"}, []string{"a", "b", "c"})
	got := alt.Render()
	want := "a | b | c | d"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
