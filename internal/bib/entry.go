// Package bib defines the bibliographic data model: entries, people,
// journals, and the invariants the store relies on.
package bib

import (
	"fmt"
	"strings"
)

// File object types.
const (
	FilePDF     = "pdf"
	FileComment = "comment"
)

// FileRef is a file attached to an entry.
type FileRef struct {
	Name       string
	ObjectType string // FilePDF or FileComment
}

// Entry is one bibliographic record. The citation key is the unique
// identifier across the store. Optional integer fields use 0 for
// "unset"; optional string fields use "".
type Entry struct {
	Citation  string
	Type      EntryType
	Title     string
	Booktitle string
	Year      int
	Month     int
	Chapter   int
	Edition   int
	Volume    int
	Number    int
	Pages     string
	Journal   string
	Authors   []Person
	Editors   []Person
	Keywords  []string
	Extra     map[string]string
	Files     []FileRef
}

// extraFields is the allow list of auxiliary bibtex fields kept in the
// extra_fields table.
var extraFields = map[string]bool{
	"howpublished": true,
	"institution":  true,
	"organization": true,
	"address":      true,
	"note":         true,
	"publisher":    true,
	"school":       true,
	"series":       true,
	"doi":          true,
	"eprint":       true,
}

// ExtraFieldAllowed reports whether name is a stored auxiliary field.
func ExtraFieldAllowed(name string) bool {
	return extraFields[name]
}

// SetExtra records an allow-listed auxiliary field, dropping anything
// outside the allow list.
func (e *Entry) SetExtra(field, value string) {
	if !ExtraFieldAllowed(field) {
		return
	}
	if e.Extra == nil {
		e.Extra = make(map[string]string)
	}
	e.Extra[field] = value
}

// HasKeyword reports whether the entry carries the exact keyword text.
func (e *Entry) HasKeyword(text string) bool {
	for _, k := range e.Keywords {
		if k == text {
			return true
		}
	}
	return false
}

// GenerateCitation derives the citation key from the first author's
// normalized last name and the year, e.g. "casagrande1994". Editors
// stand in when there are no authors.
func (e *Entry) GenerateCitation() string {
	name := "anon"
	if len(e.Authors) > 0 {
		name = e.Authors[0].SearchTerm
	} else if len(e.Editors) > 0 {
		name = e.Editors[0].SearchTerm
	}
	return fmt.Sprintf("%s%d", name, e.Year)
}

// Merge realizes the update-path rule: the existing entry's citation
// and non-empty fields win; incoming values only fill fields that are
// currently empty. Ordered list fields are taken from the incoming
// entry only when the existing list is empty. Keywords are unioned.
func Merge(existing, incoming Entry) Entry {
	out := existing

	if out.Type == "" || out.Type == Misc {
		if incoming.Type != "" {
			out.Type = incoming.Type
		}
	}
	out.Title = firstNonEmpty(out.Title, incoming.Title)
	out.Booktitle = firstNonEmpty(out.Booktitle, incoming.Booktitle)
	out.Pages = firstNonEmpty(out.Pages, incoming.Pages)
	out.Journal = firstNonEmpty(out.Journal, incoming.Journal)

	out.Year = firstNonZero(out.Year, incoming.Year)
	out.Month = firstNonZero(out.Month, incoming.Month)
	out.Chapter = firstNonZero(out.Chapter, incoming.Chapter)
	out.Edition = firstNonZero(out.Edition, incoming.Edition)
	out.Volume = firstNonZero(out.Volume, incoming.Volume)
	out.Number = firstNonZero(out.Number, incoming.Number)

	if len(out.Authors) == 0 {
		out.Authors = incoming.Authors
	}
	if len(out.Editors) == 0 {
		out.Editors = incoming.Editors
	}

	for _, k := range incoming.Keywords {
		if !out.HasKeyword(k) {
			out.Keywords = append(out.Keywords, k)
		}
	}

	for field, value := range incoming.Extra {
		if _, ok := out.Extra[field]; ok {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]string)
		}
		out.Extra[field] = value
	}

	if len(out.Files) == 0 {
		out.Files = incoming.Files
	}

	return out
}

// People returns authors then editors, order preserved within each
// group. The ordering is semantically significant for citation
// rendering and for person resolution.
func (e *Entry) People() []Person {
	people := make([]Person, 0, len(e.Authors)+len(e.Editors))
	people = append(people, e.Authors...)
	people = append(people, e.Editors...)
	return people
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}
