package ingest

import (
	"fmt"
	"strings"

	"bibgo/internal/bib"
)

// CitationConflict reports that the incoming entry's citation key is
// already taken. It carries the full existing entry so the caller can
// show it and decide between renaming the incoming entry and merging
// into the existing one.
type CitationConflict struct {
	Existing bib.Entry
}

func (c *CitationConflict) Error() string {
	return fmt.Sprintf("citation %q already exists", c.Existing.Citation)
}

// JournalNotFound reports that a journal name resolved against neither
// the main store nor the reference catalog. The caller must supply the
// canonical (name, abbr, abbr_no_dot) triple to continue.
type JournalNotFound struct {
	Name string
}

func (j *JournalNotFound) Error() string {
	return fmt.Sprintf("journal %q not found", j.Name)
}

// PersonCandidates pairs one incoming person with the existing people
// sharing its search term. An empty candidate list means the person is
// entirely new; a non-empty list means same last name with a different
// first name. Either way the caller must disambiguate.
type PersonCandidates struct {
	Incoming   bib.Person
	Candidates []bib.Person
}

// PersonConflict reports every unresolved person on the incoming
// entry, authors first, original order preserved.
type PersonConflict struct {
	Conflicts []PersonCandidates
}

func (p *PersonConflict) Error() string {
	names := make([]string, len(p.Conflicts))
	for i, c := range p.Conflicts {
		names[i] = c.Incoming.LastName
	}
	return fmt.Sprintf("unresolved people: %s", strings.Join(names, ", "))
}
