package ingest

import (
	"errors"
	"fmt"

	"bibgo/internal/bib"
	"bibgo/internal/journals"
	"bibgo/internal/prompt"
	"bibgo/internal/store"
)

// ErrAborted is returned when the user abandons an entry at any
// resolver stage.
var ErrAborted = errors.New("entry aborted")

// Resolve runs one entry through the full pipeline, answering every
// conflict through the prompter, and commits it. The catalog may be
// nil. Returns the entry as committed.
func Resolve(s *store.Store, catalog *journals.Catalog, p prompt.Prompter, e bib.Entry) (*bib.Entry, error) {
	start := New(s, e)

	var named *NamedOk
	for named == nil {
		n, err := start.CheckCitation()
		if err == nil {
			named = n
			break
		}
		var cc *CitationConflict
		if !errors.As(err, &cc) {
			return nil, err
		}
		choice, key, err := p.Citation(cc.Existing)
		if err != nil {
			return nil, err
		}
		switch choice {
		case prompt.CitationUpdate:
			named = start.Update(cc.Existing)
		case prompt.CitationRename:
			start.Rename(key)
		case prompt.CitationAbort:
			return nil, fmt.Errorf("%q: %w", cc.Existing.Citation, ErrAborted)
		}
	}

	journaled, err := named.ResolveJournal(catalog)
	if err != nil {
		var jnf *JournalNotFound
		if !errors.As(err, &jnf) {
			return nil, err
		}
		choice, j, perr := p.Journal(jnf.Name)
		if perr != nil {
			return nil, perr
		}
		if choice != prompt.JournalCreate {
			return nil, fmt.Errorf("journal %q: %w", jnf.Name, ErrAborted)
		}
		journaled, err = named.SupplyJournal(j)
		if err != nil {
			return nil, err
		}
	}

	var done *PeopleOk
	for done == nil {
		ok, err := journaled.CheckPeople()
		if err == nil {
			done = ok
			break
		}
		var pc *PersonConflict
		if !errors.As(err, &pc) {
			return nil, err
		}
		for _, c := range pc.Conflicts {
			choice, idx, err := p.Person(c.Incoming, c.Candidates)
			if err != nil {
				return nil, err
			}
			switch choice {
			case prompt.PersonPick:
				if idx < 0 || idx >= len(c.Candidates) {
					return nil, fmt.Errorf("person %q: candidate %d out of range", c.Incoming.LastName, idx)
				}
				journaled.UsePerson(c.Incoming, c.Candidates[idx])
			case prompt.PersonNew:
				journaled.ConfirmNew(c.Incoming)
			case prompt.PersonAbort:
				return nil, fmt.Errorf("person %q: %w", c.Incoming.LastName, ErrAborted)
			}
		}
	}

	return done.Commit()
}
