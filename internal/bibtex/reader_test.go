package bibtex

import (
	"os"
	"path/filepath"
	"testing"

	"bibgo/internal/bib"
)

const sampleBib = `
@string{anp = "Annalen der Physik"}

@article{einstein1905,
    author = {Einstein, Albert},
    title = {Zur Elektrodynamik bewegter {K}{\"o}rper},
    journal = {Annalen der Physik},
    volume = {322},
    number = {10},
    pages = {891-921},
    year = {1905},
    keywords = {relativity, electrodynamics}
}

@incollection{stein2004,
    author = {Stein, Barry E. and Jiang, Wan},
    editor = {Calvert, Gemma A.},
    title = {Multisensory convergence and integration},
    booktitle = {The Handbook of Multisensory Processes},
    publisher = {MIT Press},
    address = "Cambridge, MA",
    chapter = 15,
    pages = {243-6},
    year = 2004
}
`

func writeBib(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.bib")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestReadEntries(t *testing.T) {
	entries, err := Read(writeBib(t, sampleBib))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	e := entries[0]
	if e.Citation != "einstein1905" || e.Type != bib.Article {
		t.Errorf("first entry header wrong: %q %q", e.Citation, e.Type)
	}
	if e.Journal != "Annalen der Physik" || e.Year != 1905 {
		t.Errorf("journal/year wrong: %q %d", e.Journal, e.Year)
	}
	if e.Volume != 322 || e.Number != 10 || e.Pages != "891-921" {
		t.Errorf("numbers wrong: %d %d %q", e.Volume, e.Number, e.Pages)
	}
	if len(e.Authors) != 1 || e.Authors[0].LastName != "einstein" || e.Authors[0].FirstName != "albert" {
		t.Errorf("author wrong: %+v", e.Authors)
	}
	if len(e.Keywords) != 2 || e.Keywords[0] != "relativity" {
		t.Errorf("keywords wrong: %v", e.Keywords)
	}
}

func TestReadExtraAndBareValues(t *testing.T) {
	entries, err := Read(writeBib(t, sampleBib))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	e := entries[1]
	if e.Chapter != 15 || e.Year != 2004 {
		t.Errorf("bare numeric values not parsed: %d %d", e.Chapter, e.Year)
	}
	if e.Extra["publisher"] != "MIT Press" {
		t.Errorf("extra publisher = %q", e.Extra["publisher"])
	}
	if e.Extra["address"] != "Cambridge, MA" {
		t.Errorf("quoted value = %q", e.Extra["address"])
	}
	if e.Pages != "243-246" {
		t.Errorf("shorthand pages not expanded: %q", e.Pages)
	}
	if len(e.Editors) != 1 || e.Editors[0].LastName != "calvert" {
		t.Errorf("editors wrong: %+v", e.Editors)
	}
}

func TestReadAccentedCitation(t *testing.T) {
	entries, err := Read(writeBib(t, "@misc{Müller2001,\n  title = {Notes}\n}\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if entries[0].Citation != "muller2001" {
		t.Errorf("citation = %q, want muller2001", entries[0].Citation)
	}
}

func TestReadUnbalancedBraces(t *testing.T) {
	_, err := Read(writeBib(t, "@article{broken,\n  title = {no closing\n"))
	if err == nil {
		t.Error("expected an error for unbalanced braces")
	}
}

func TestCleanPages(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"123-126", "123-126"},
		{"123-6", "123-126"},
		{"123:126", "123-126"},
		{"123--126", "123-126"},
		{"123_126", "123-126"},
		{"12345-51", "12345-12351"},
		{"S123-6", "S123-126"},
		{"10.1016/j.neuron.2004", "10.1016/j.neuron.2004"},
		{"e1003711", "e1003711"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanPages(tt.in); got != tt.want {
			t.Errorf("cleanPages(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	got := cleanTitle("The genome of <i>Drosophila melanogaster</i> revisited")
	want := `The genome of \textit{Drosophila melanogaster} revisited`
	if got != want {
		t.Errorf("cleanTitle = %q, want %q", got, want)
	}
	if got := cleanTitle("No markup here"); got != "No markup here" {
		t.Errorf("plain title changed: %q", got)
	}
}
