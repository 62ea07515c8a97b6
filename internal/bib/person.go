package bib

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Person is an author or editor. LastName and FirstName are stored
// lowercase; SearchTerm is the de-duplication key (see Normalize).
type Person struct {
	ID         int64 // 0 until persisted
	LastName   string
	FirstName  string
	SearchTerm string
}

// Normalize lowercases s, decomposes accented characters, and keeps
// only ASCII letters and digits. The result is the person search term
// and the alphabet for citation keys.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewPerson builds a Person from name parts, normalizing case and
// computing the search term.
func NewPerson(last, first string) Person {
	last = strings.ToLower(strings.TrimSpace(last))
	first = strings.ToLower(strings.TrimSpace(first))
	return Person{LastName: last, FirstName: first, SearchTerm: Normalize(last)}
}

// ParsePerson parses a bibtex person string, either "Last, First" or
// "First Middle Last".
func ParsePerson(s string) Person {
	s = strings.TrimSpace(s)
	if last, first, ok := strings.Cut(s, ","); ok {
		return NewPerson(last, first)
	}
	if idx := strings.LastIndex(s, " "); idx >= 0 {
		return NewPerson(s[idx+1:], s[:idx])
	}
	return NewPerson(s, "")
}

// ParsePeople splits a bibtex author/editor field on " and ".
func ParsePeople(s string) []Person {
	var people []Person
	for _, part := range strings.Split(s, " and ") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		people = append(people, ParsePerson(part))
	}
	return people
}

// SameAs reports whether two people are the same identity: equal search
// term and exactly equal first name. Equal search terms with different
// first names are conflict candidates, not matches.
func (p Person) SameAs(q Person) bool {
	return p.SearchTerm == q.SearchTerm && p.FirstName == q.FirstName
}
