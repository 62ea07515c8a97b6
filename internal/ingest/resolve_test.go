package ingest

import (
	"errors"
	"testing"

	"bibgo/internal/bib"
	"bibgo/internal/prompt"
)

func TestResolveFreshEntry(t *testing.T) {
	s := newTestStore(t)
	p := &prompt.Scripted{
		PersonAnswers: []prompt.ScriptedPerson{
			{Choice: prompt.PersonNew},
			{Choice: prompt.PersonNew},
		},
	}
	committed, err := Resolve(s, nil, p, testEntry())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if committed.Citation != "casagrande1994" {
		t.Errorf("committed citation = %q", committed.Citation)
	}
	if _, err := s.GetItem("casagrande1994"); err != nil {
		t.Errorf("entry not stored: %v", err)
	}
}

func TestResolveRenameLoop(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, testEntry())

	p := &prompt.Scripted{
		CitationAnswers: []prompt.ScriptedCitation{
			{Choice: prompt.CitationRename, Key: "casagrande1994"},
			{Choice: prompt.CitationRename, Key: "casagrande1994b"},
		},
	}
	committed, err := Resolve(s, nil, p, testEntry())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if committed.Citation != "casagrande1994b" {
		t.Errorf("committed citation = %q", committed.Citation)
	}
	if len(p.CitationAnswers) != 0 {
		t.Errorf("renaming to a taken key must re-prompt")
	}
}

func TestResolveUpdate(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, testEntry())

	incoming := testEntry()
	incoming.Pages = "121-181"
	p := &prompt.Scripted{
		CitationAnswers: []prompt.ScriptedCitation{{Choice: prompt.CitationUpdate}},
	}
	committed, err := Resolve(s, nil, p, incoming)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if committed.Pages != "121-181" {
		t.Errorf("update lost incoming pages: %+v", committed)
	}
}

func TestResolveJournalCreate(t *testing.T) {
	s := newTestStore(t)
	e := testEntry()
	e.Journal = "Obscure Quarterly"
	p := &prompt.Scripted{
		JournalAnswers: []prompt.ScriptedJournal{{
			Choice:  prompt.JournalCreate,
			Journal: bib.Journal{Name: "Obscure Quarterly", Abbr: "Obsc. Q.", AbbrNoDot: "Obsc Q"},
		}},
		PersonAnswers: []prompt.ScriptedPerson{
			{Choice: prompt.PersonNew},
			{Choice: prompt.PersonNew},
		},
	}
	if _, err := Resolve(s, nil, p, e); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := s.JournalByName("Obscure Quarterly"); err != nil {
		t.Errorf("created journal not stored: %v", err)
	}
}

func TestResolveAbort(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, testEntry())

	p := &prompt.Scripted{
		CitationAnswers: []prompt.ScriptedCitation{{Choice: prompt.CitationAbort}},
	}
	_, err := Resolve(s, nil, p, testEntry())
	if !errors.Is(err, ErrAborted) {
		t.Errorf("expected ErrAborted, got %v", err)
	}
}

func TestResolvePersonPick(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, testEntry())

	e := bib.Entry{
		Citation: "casagrande1999",
		Type:     bib.Article,
		Title:    "Another paper",
		Year:     1999,
		Authors:  []bib.Person{bib.NewPerson("Casagrande", "v. a.")},
	}
	p := &prompt.Scripted{
		PersonAnswers: []prompt.ScriptedPerson{{Choice: prompt.PersonPick, Index: 0}},
	}
	committed, err := Resolve(s, nil, p, e)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if committed.Authors[0].FirstName != "vivien a." {
		t.Errorf("picked candidate not adopted: %+v", committed.Authors)
	}
}
