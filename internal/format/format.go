// Package format renders entries for terminal display and BibTeX
// export.
package format

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/color"

	"bibgo/internal/bib"
)

// TitleCase uppercases the first letter of each word. Anything inside
// curly braces keeps its case, matching BibTeX conventions for
// protected words.
func TitleCase(s string) string {
	var b strings.Builder
	depth := 0
	atWordStart := true
	for _, r := range s {
		switch {
		case r == '{':
			depth++
			atWordStart = false
			b.WriteRune(r)
		case r == '}':
			depth--
			atWordStart = false
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			atWordStart = true
			b.WriteRune(r)
		case depth > 0:
			atWordStart = false
			b.WriteRune(r)
		case atWordStart:
			atWordStart = false
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// personPlain renders a person "First Last", title-cased.
func personPlain(p bib.Person) string {
	if p.FirstName == "" {
		return TitleCase(p.LastName)
	}
	return TitleCase(p.FirstName) + " " + TitleCase(p.LastName)
}

// peoplePlain joins people "A, B & C".
func peoplePlain(people []bib.Person) string {
	return joinPeople(people, personPlain)
}

func joinPeople(people []bib.Person, render func(bib.Person) string) string {
	switch len(people) {
	case 0:
		return ""
	case 1:
		return render(people[0])
	default:
		parts := make([]string, len(people)-1)
		for i, p := range people[:len(people)-1] {
			parts[i] = render(p)
		}
		return strings.Join(parts, ", ") + " & " + render(people[len(people)-1])
	}
}

// Plain renders an entry as a one-line citation: people, year, title,
// then journal or book title.
func Plain(e bib.Entry) string {
	return labeled(e, nil)
}

var (
	firstNameColor = color.New(color.FgRed)
	lastNameColor  = color.New(color.FgBlue)
)

// Labeled renders an entry like Plain but highlights every person
// whose search term is in searched. Search results use it to show why
// each entry matched.
func Labeled(e bib.Entry, searched []string) string {
	return labeled(e, searched)
}

func labeled(e bib.Entry, searched []string) string {
	render := func(p bib.Person) string {
		for _, term := range searched {
			if p.SearchTerm == term {
				return firstNameColor.Sprint(TitleCase(p.FirstName)) + " " +
					lastNameColor.Sprint(TitleCase(p.LastName))
			}
		}
		return personPlain(p)
	}

	var b strings.Builder
	if len(e.Authors) > 0 {
		b.WriteString(joinPeople(e.Authors, render))
	} else if len(e.Editors) > 0 {
		b.WriteString(joinPeople(e.Editors, render))
	}
	fmt.Fprintf(&b, ". (%d) %s. ", e.Year, TitleCase(e.Title))
	if e.Journal != "" {
		b.WriteString(e.Journal)
	} else if e.Booktitle != "" {
		b.WriteString(e.Booktitle)
	}
	return strings.TrimSpace(b.String())
}

// personBib renders a person "Last, First", title-cased.
func personBib(p bib.Person) string {
	if p.FirstName == "" {
		return TitleCase(p.LastName)
	}
	return TitleCase(p.LastName) + ", " + TitleCase(p.FirstName)
}

// BibTeX renders an entry as a BibTeX record. Field order is fixed so
// exports diff cleanly.
func BibTeX(e bib.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s", e.Type, e.Citation)

	writeField := func(name, value string) {
		fmt.Fprintf(&b, ",\n\t%s = {%s}", name, value)
	}
	writeInt := func(name string, value int) {
		if value != 0 {
			writeField(name, fmt.Sprintf("%d", value))
		}
	}

	writeInt("year", e.Year)
	if e.Title != "" {
		writeField("title", e.Title)
	}
	if e.Booktitle != "" {
		writeField("booktitle", e.Booktitle)
	}
	writeInt("chapter", e.Chapter)
	writeInt("edition", e.Edition)
	writeInt("month", e.Month)
	writeInt("volume", e.Volume)
	writeInt("number", e.Number)
	if e.Pages != "" {
		writeField("pages", e.Pages)
	}
	if e.Journal != "" {
		writeField("journal", e.Journal)
	}
	if len(e.Editors) > 0 {
		writeField("editor", joinBibPeople(e.Editors))
	}
	if len(e.Authors) > 0 {
		writeField("author", joinBibPeople(e.Authors))
	}
	if len(e.Keywords) > 0 {
		keywords := append([]string(nil), e.Keywords...)
		sort.Strings(keywords)
		writeField("keywords", strings.Join(keywords, ", "))
	}
	for _, name := range sortedKeys(e.Extra) {
		writeField(name, e.Extra[name])
	}
	b.WriteString("\n}")
	return b.String()
}

// BibTeXList renders entries separated by blank lines.
func BibTeXList(entries []bib.Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = BibTeX(e)
	}
	return strings.Join(parts, "\n\n")
}

func joinBibPeople(people []bib.Person) string {
	parts := make([]string, len(people))
	for i, p := range people {
		parts[i] = personBib(p)
	}
	return strings.Join(parts, " and ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
