// Package keyword computes and renders the change set between an
// entry's keywords before and after an edit.
package keyword

import (
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Alteration partitions the union of two keyword sets. Every term
// lands in exactly one slice and each slice is sorted.
type Alteration struct {
	Kept    []string
	Added   []string
	Deleted []string
}

// Diff compares the keyword set before an edit with the set after it.
// Duplicates within either input are collapsed.
func Diff(before, after []string) Alteration {
	b := toSet(before)
	a := toSet(after)

	var alt Alteration
	for term := range a {
		if b[term] {
			alt.Kept = append(alt.Kept, term)
		} else {
			alt.Added = append(alt.Added, term)
		}
	}
	for term := range b {
		if !a[term] {
			alt.Deleted = append(alt.Deleted, term)
		}
	}
	sort.Strings(alt.Kept)
	sort.Strings(alt.Added)
	sort.Strings(alt.Deleted)
	return alt
}

// Apply folds additions and removals into a keyword set and diffs the
// result against the original. A term both added and removed counts as
// removed.
func Apply(current, add, remove []string) Alteration {
	after := toSet(current)
	for _, term := range add {
		after[term] = true
	}
	for _, term := range remove {
		delete(after, term)
	}
	return Diff(current, keys(after))
}

var (
	addedColor   = color.New(color.FgBlue)
	deletedColor = color.New(color.FgRed, color.CrossedOut)
)

// Render formats the alteration on one line, all terms sorted
// together: kept terms plain, added terms blue, deleted terms red and
// struck through.
func (a Alteration) Render() string {
	type span struct {
		term string
		text string
	}
	spans := make([]span, 0, len(a.Kept)+len(a.Added)+len(a.Deleted))
	for _, term := range a.Kept {
		spans = append(spans, span{term, term})
	}
	for _, term := range a.Added {
		spans = append(spans, span{term, addedColor.Sprint(term)})
	}
	for _, term := range a.Deleted {
		spans = append(spans, span{term, deletedColor.Sprint(term)})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].term < spans[j].term })

	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = s.text
	}
	return strings.Join(parts, " | ")
}

func toSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		if t != "" {
			set[t] = true
		}
	}
	return set
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}
