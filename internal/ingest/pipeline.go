// Package ingest drives an entry through the insertion checks in a
// fixed order: citation, then journal, then people, then the final
// commit. Each stage is a distinct type whose methods only move
// forward, so a caller cannot commit an entry that skipped a check.
// Conflicts surface as typed errors carrying everything an interactive
// caller needs to resolve them and retry the same stage.
package ingest

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"bibgo/internal/bib"
	"bibgo/internal/journals"
	"bibgo/internal/store"
)

// Start is the pipeline entry point. The entry is taken by value so
// resolver-driven edits never leak back into the caller's copy.
type Start struct {
	store *store.Store
	entry bib.Entry
}

// New begins the insertion pipeline for one entry. Entries without a
// citation key get one generated from the first author and year.
func New(s *store.Store, e bib.Entry) *Start {
	if e.Citation == "" {
		e.Citation = e.GenerateCitation()
	}
	return &Start{store: s, entry: e}
}

// Entry returns the entry as currently staged.
func (s *Start) Entry() bib.Entry { return s.entry }

// Rename replaces the staged citation key. The caller retries
// CheckCitation afterwards.
func (s *Start) Rename(citation string) {
	s.entry.Citation = citation
}

// CheckCitation verifies the citation key is free. An occupied key
// yields a *CitationConflict carrying the existing entry.
func (s *Start) CheckCitation() (*NamedOk, error) {
	existing, err := s.store.GetItem(s.entry.Citation)
	if errors.Is(err, store.ErrNotFound) {
		logrus.Debugf("citation %q is free", s.entry.Citation)
		return &NamedOk{store: s.store, entry: s.entry}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking citation %q: %w", s.entry.Citation, err)
	}
	return nil, &CitationConflict{Existing: *existing}
}

// Update resolves a citation conflict by merging into the existing
// entry. Fields already present on the stored entry win; the incoming
// entry only fills gaps and contributes new keywords.
func (s *Start) Update(existing bib.Entry) *NamedOk {
	merged := bib.Merge(existing, s.entry)
	logrus.Debugf("updating %q in place", merged.Citation)
	return &NamedOk{store: s.store, entry: merged, update: true}
}

// NamedOk holds an entry whose citation key is settled.
type NamedOk struct {
	store  *store.Store
	entry  bib.Entry
	update bool
}

// Entry returns the entry as currently staged.
func (n *NamedOk) Entry() bib.Entry { return n.entry }

// ResolveJournal maps the entry's journal name to a stored journal
// row. The main store is consulted first; on a miss the reference
// catalog is searched and a hit is copied into the main store. When
// both miss, the caller gets a *JournalNotFound and must answer with
// SupplyJournal. A nil catalog skips the fallback. Entries without a
// journal pass straight through.
func (n *NamedOk) ResolveJournal(catalog *journals.Catalog) (*JournalOk, error) {
	if n.entry.Journal == "" {
		return &JournalOk{store: n.store, entry: n.entry, update: n.update}, nil
	}

	j, err := n.store.JournalByName(n.entry.Journal)
	if err == nil {
		n.entry.Journal = j.Name
		return &JournalOk{store: n.store, entry: n.entry, journalID: j.ID, update: n.update}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("resolving journal %q: %w", n.entry.Journal, err)
	}

	if catalog != nil {
		hit, err := catalog.Search(n.entry.Journal)
		if err == nil {
			logrus.Debugf("journal %q found in catalog as %q", n.entry.Journal, hit.Name)
			return n.SupplyJournal(*hit)
		}
		if !errors.Is(err, journals.ErrNotFound) {
			return nil, fmt.Errorf("resolving journal %q: %w", n.entry.Journal, err)
		}
	}

	return nil, &JournalNotFound{Name: n.entry.Journal}
}

// SupplyJournal resolves a journal miss with a caller-provided
// canonical journal, persisting it into the main store.
func (n *NamedOk) SupplyJournal(j bib.Journal) (*JournalOk, error) {
	id, err := n.store.InsertJournal(j)
	if err != nil {
		return nil, fmt.Errorf("storing journal %q: %w", j.Name, err)
	}
	n.entry.Journal = j.Name
	return &JournalOk{store: n.store, entry: n.entry, journalID: id, update: n.update}, nil
}

// JournalOk holds an entry whose journal is resolved. Person
// resolutions accumulate here across CheckPeople retries.
type JournalOk struct {
	store     *store.Store
	entry     bib.Entry
	journalID int64
	update    bool

	confirmed map[string]bool
}

// Entry returns the entry as currently staged.
func (j *JournalOk) Entry() bib.Entry { return j.entry }

// CheckPeople matches every author and editor against stored persons.
// A person with an exact (last name, first name) match silently adopts
// the stored identity. Everyone else is reported in one
// *PersonConflict; the caller answers each with UsePerson or
// ConfirmNew and retries.
func (j *JournalOk) CheckPeople() (*PeopleOk, error) {
	var conflicts []PersonCandidates
	for _, group := range [][]bib.Person{j.entry.Authors, j.entry.Editors} {
		for i := range group {
			p := &group[i]
			if p.ID != 0 || j.confirmed[personKey(*p)] {
				continue
			}
			candidates, err := j.store.SearchLastName(p.SearchTerm)
			if err != nil {
				return nil, fmt.Errorf("matching person %q: %w", p.LastName, err)
			}
			if exact := exactMatch(*p, candidates); exact != nil {
				logrus.Debugf("person %s, %s matched stored id %d", p.LastName, p.FirstName, exact.ID)
				*p = *exact
				continue
			}
			conflicts = append(conflicts, PersonCandidates{Incoming: *p, Candidates: candidates})
		}
	}
	if len(conflicts) > 0 {
		return nil, &PersonConflict{Conflicts: conflicts}
	}
	return &PeopleOk{store: j.store, entry: j.entry, journalID: j.journalID, update: j.update}, nil
}

// UsePerson resolves one conflicted person to an existing stored
// person, replacing every staged occurrence of the incoming identity.
func (j *JournalOk) UsePerson(incoming, chosen bib.Person) {
	for _, group := range [][]bib.Person{j.entry.Authors, j.entry.Editors} {
		for i := range group {
			if group[i].ID == 0 && personKey(group[i]) == personKey(incoming) {
				group[i] = chosen
			}
		}
	}
}

// ConfirmNew resolves one conflicted person by accepting it as a new
// person row, to be created at commit.
func (j *JournalOk) ConfirmNew(incoming bib.Person) {
	if j.confirmed == nil {
		j.confirmed = make(map[string]bool)
	}
	j.confirmed[personKey(incoming)] = true
}

// PeopleOk is the final stage: every check has passed and the entry
// can be committed.
type PeopleOk struct {
	store     *store.Store
	entry     bib.Entry
	journalID int64
	update    bool
}

// Entry returns the entry as it will be committed.
func (p *PeopleOk) Entry() bib.Entry { return p.entry }

// Commit writes the entry and all of its relations in one
// transaction. In update mode the previous rows are replaced.
func (p *PeopleOk) Commit() (*bib.Entry, error) {
	if err := p.store.AddItem(&p.entry, p.journalID, p.update); err != nil {
		return nil, err
	}
	return &p.entry, nil
}

func personKey(p bib.Person) string {
	return p.SearchTerm + "\x00" + p.FirstName
}

func exactMatch(p bib.Person, candidates []bib.Person) *bib.Person {
	for i := range candidates {
		if candidates[i].SameAs(p) {
			return &candidates[i]
		}
	}
	return nil
}
