package ingest

import (
	"errors"
	"path/filepath"
	"testing"

	"bibgo/internal/bib"
	"bibgo/internal/journals"
	"bibgo/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "bib.sqlite"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestCatalog(t *testing.T) *journals.Catalog {
	t.Helper()
	c, err := journals.Create(filepath.Join(t.TempDir(), "journal.sqlite"))
	if err != nil {
		t.Fatalf("creating test catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	if err := c.Add(bib.Journal{
		Name: "Journal of Comparative Neurology", Abbr: "J. Comp. Neurol.", AbbrNoDot: "J Comp Neurol",
	}); err != nil {
		t.Fatalf("seeding catalog: %v", err)
	}
	return c
}

func testEntry() bib.Entry {
	return bib.Entry{
		Citation: "casagrande1994",
		Type:     bib.Article,
		Title:    "The afferent, intrinsic, and efferent connections of primary visual cortex in primates",
		Year:     1994,
		Authors: []bib.Person{
			bib.NewPerson("Casagrande", "vivien a."),
			bib.NewPerson("Kaas", "jon h."),
		},
		Keywords: []string{"visual cortex"},
	}
}

// confirmAll answers a person conflict by accepting every incoming
// person as new, then retries.
func confirmAll(t *testing.T, j *JournalOk) *PeopleOk {
	t.Helper()
	ok, err := j.CheckPeople()
	if err == nil {
		return ok
	}
	var pc *PersonConflict
	if !errors.As(err, &pc) {
		t.Fatalf("CheckPeople: %v", err)
	}
	for _, c := range pc.Conflicts {
		if len(c.Candidates) != 0 {
			t.Fatalf("expected no candidates for %q, got %d", c.Incoming.LastName, len(c.Candidates))
		}
		j.ConfirmNew(c.Incoming)
	}
	ok, err = j.CheckPeople()
	if err != nil {
		t.Fatalf("CheckPeople after confirming: %v", err)
	}
	return ok
}

func insert(t *testing.T, s *store.Store, e bib.Entry) {
	t.Helper()
	named, err := New(s, e).CheckCitation()
	if err != nil {
		t.Fatalf("CheckCitation: %v", err)
	}
	journaled, err := named.ResolveJournal(nil)
	if err != nil {
		t.Fatalf("ResolveJournal: %v", err)
	}
	if _, err := confirmAll(t, journaled).Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestInsertNewEntry(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, testEntry())

	e, err := s.GetItem("casagrande1994")
	if err != nil {
		t.Fatalf("GetItem after commit: %v", err)
	}
	if e.Title != testEntry().Title || len(e.Authors) != 2 {
		t.Errorf("round trip lost data: %+v", e)
	}
}

func TestGeneratedCitation(t *testing.T) {
	s := newTestStore(t)
	e := testEntry()
	e.Citation = ""
	p := New(s, e)
	if got := p.Entry().Citation; got != "casagrande1994" {
		t.Errorf("generated citation = %q, want casagrande1994", got)
	}
}

func TestCitationConflictUpdate(t *testing.T) {
	s := newTestStore(t)
	first := testEntry()
	first.Volume = 10
	insert(t, s, first)

	incoming := testEntry()
	incoming.Volume = 99
	incoming.Pages = "201-259"
	incoming.Keywords = []string{"review"}

	p := New(s, incoming)
	_, err := p.CheckCitation()
	var cc *CitationConflict
	if !errors.As(err, &cc) {
		t.Fatalf("expected CitationConflict, got %v", err)
	}
	if cc.Existing.Volume != 10 {
		t.Errorf("conflict carries wrong existing entry: %+v", cc.Existing)
	}

	named := p.Update(cc.Existing)
	journaled, err := named.ResolveJournal(nil)
	if err != nil {
		t.Fatalf("ResolveJournal: %v", err)
	}
	peopleOk, err := journaled.CheckPeople()
	if err != nil {
		t.Fatalf("people carried over from the stored entry must match: %v", err)
	}
	if _, err := peopleOk.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	e, err := s.GetItem("casagrande1994")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if e.Volume != 10 {
		t.Errorf("existing field must win on update, got volume %d", e.Volume)
	}
	if e.Pages != "201-259" {
		t.Errorf("incoming must fill gaps, got pages %q", e.Pages)
	}
	if len(e.Keywords) != 2 {
		t.Errorf("keywords must be unioned, got %v", e.Keywords)
	}
}

func TestCitationConflictRename(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, testEntry())

	p := New(s, testEntry())
	if _, err := p.CheckCitation(); err == nil {
		t.Fatal("expected a conflict on the taken key")
	}
	p.Rename("casagrande1994a")
	named, err := p.CheckCitation()
	if err != nil {
		t.Fatalf("CheckCitation after rename: %v", err)
	}
	if named.Entry().Citation != "casagrande1994a" {
		t.Errorf("staged citation = %q", named.Entry().Citation)
	}
}

func TestResolveJournalCatalogFallback(t *testing.T) {
	s := newTestStore(t)
	c := newTestCatalog(t)

	e := testEntry()
	e.Journal = "J Comp Neurol"
	named, err := New(s, e).CheckCitation()
	if err != nil {
		t.Fatalf("CheckCitation: %v", err)
	}
	journaled, err := named.ResolveJournal(c)
	if err != nil {
		t.Fatalf("ResolveJournal: %v", err)
	}
	if got := journaled.Entry().Journal; got != "Journal of Comparative Neurology" {
		t.Errorf("canonical name not adopted: %q", got)
	}

	// The catalog hit must now live in the main store.
	j, err := s.JournalByName("J. Comp. Neurol.")
	if err != nil {
		t.Fatalf("catalog hit was not persisted: %v", err)
	}
	if j.Name != "Journal of Comparative Neurology" {
		t.Errorf("persisted journal = %+v", j)
	}
}

func TestResolveJournalMiss(t *testing.T) {
	s := newTestStore(t)
	c := newTestCatalog(t)

	e := testEntry()
	e.Journal = "Obscure Quarterly"
	named, err := New(s, e).CheckCitation()
	if err != nil {
		t.Fatalf("CheckCitation: %v", err)
	}
	_, err = named.ResolveJournal(c)
	var jnf *JournalNotFound
	if !errors.As(err, &jnf) {
		t.Fatalf("expected JournalNotFound, got %v", err)
	}
	if jnf.Name != "Obscure Quarterly" {
		t.Errorf("conflict names %q", jnf.Name)
	}

	journaled, err := named.SupplyJournal(bib.Journal{
		Name: "Obscure Quarterly", Abbr: "Obsc. Q.", AbbrNoDot: "Obsc Q",
	})
	if err != nil {
		t.Fatalf("SupplyJournal: %v", err)
	}
	if _, err := confirmAll(t, journaled).Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := s.GetItem("casagrande1994")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Journal != "Obscure Quarterly" {
		t.Errorf("journal on stored entry = %q", got.Journal)
	}
}

func TestCheckPeopleCandidates(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, testEntry())

	// Same last name, different first name: must surface the stored
	// person as a candidate instead of matching silently.
	e := bib.Entry{
		Citation: "casagrande1999",
		Type:     bib.Article,
		Title:    "Another paper",
		Year:     1999,
		Authors:  []bib.Person{bib.NewPerson("Casagrande", "v. a.")},
	}
	named, err := New(s, e).CheckCitation()
	if err != nil {
		t.Fatalf("CheckCitation: %v", err)
	}
	journaled, err := named.ResolveJournal(nil)
	if err != nil {
		t.Fatalf("ResolveJournal: %v", err)
	}
	_, err = journaled.CheckPeople()
	var pc *PersonConflict
	if !errors.As(err, &pc) {
		t.Fatalf("expected PersonConflict, got %v", err)
	}
	if len(pc.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v", pc.Conflicts)
	}
	c := pc.Conflicts[0]
	if len(c.Candidates) != 1 || c.Candidates[0].FirstName != "vivien a." {
		t.Fatalf("candidates = %+v", c.Candidates)
	}

	journaled.UsePerson(c.Incoming, c.Candidates[0])
	peopleOk, err := journaled.CheckPeople()
	if err != nil {
		t.Fatalf("CheckPeople after UsePerson: %v", err)
	}
	if _, err := peopleOk.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := s.GetItem("casagrande1999")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(got.Authors) != 1 || got.Authors[0].FirstName != "vivien a." {
		t.Errorf("stored author = %+v", got.Authors)
	}
}

func TestExactPersonMatchIsSilent(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, testEntry())

	e := bib.Entry{
		Citation: "casagrande2001",
		Type:     bib.Article,
		Title:    "Yet another paper",
		Year:     2001,
		Authors:  []bib.Person{bib.NewPerson("Casagrande", "vivien a.")},
	}
	named, err := New(s, e).CheckCitation()
	if err != nil {
		t.Fatalf("CheckCitation: %v", err)
	}
	journaled, err := named.ResolveJournal(nil)
	if err != nil {
		t.Fatalf("ResolveJournal: %v", err)
	}
	if _, err := journaled.CheckPeople(); err != nil {
		t.Errorf("exact match must not conflict: %v", err)
	}
}
