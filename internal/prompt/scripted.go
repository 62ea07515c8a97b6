package prompt

import (
	"fmt"

	"bibgo/internal/bib"
)

// Scripted is a Prompter with canned answers, consumed in order. It
// backs non-interactive runs and tests; running out of answers is an
// error rather than a hang.
type Scripted struct {
	CitationAnswers []ScriptedCitation
	JournalAnswers  []ScriptedJournal
	PersonAnswers   []ScriptedPerson
}

type ScriptedCitation struct {
	Choice CitationChoice
	Key    string
}

type ScriptedJournal struct {
	Choice  JournalChoice
	Journal bib.Journal
}

type ScriptedPerson struct {
	Choice PersonChoice
	Index  int
}

func (s *Scripted) Citation(existing bib.Entry) (CitationChoice, string, error) {
	if len(s.CitationAnswers) == 0 {
		return CitationAbort, "", fmt.Errorf("no scripted answer for citation %q", existing.Citation)
	}
	a := s.CitationAnswers[0]
	s.CitationAnswers = s.CitationAnswers[1:]
	return a.Choice, a.Key, nil
}

func (s *Scripted) Journal(name string) (JournalChoice, bib.Journal, error) {
	if len(s.JournalAnswers) == 0 {
		return JournalAbort, bib.Journal{}, fmt.Errorf("no scripted answer for journal %q", name)
	}
	a := s.JournalAnswers[0]
	s.JournalAnswers = s.JournalAnswers[1:]
	return a.Choice, a.Journal, nil
}

func (s *Scripted) Person(incoming bib.Person, candidates []bib.Person) (PersonChoice, int, error) {
	if len(s.PersonAnswers) == 0 {
		return PersonAbort, 0, fmt.Errorf("no scripted answer for person %q", incoming.LastName)
	}
	a := s.PersonAnswers[0]
	s.PersonAnswers = s.PersonAnswers[1:]
	return a.Choice, a.Index, nil
}
