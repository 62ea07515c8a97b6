// Package bibtex reads .bib files into entries, applying the field
// cleanups the rest of the system expects: normalized page ranges,
// LaTeX italics in titles, and comma-separated keywords.
package bibtex

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"bibgo/internal/bib"
)

// Read parses every entry in a .bib file. Unknown fields outside the
// extra-field allow list are dropped; @string, @preamble and @comment
// blocks are skipped.
func Read(path string) ([]bib.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibtex file: %w", err)
	}
	raws, err := parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	entries := make([]bib.Entry, 0, len(raws))
	for _, r := range raws {
		entries = append(entries, fromRaw(r))
	}
	logrus.Debugf("read %d entries from %s", len(entries), path)
	return entries, nil
}

var (
	italicRE = regexp.MustCompile(`<\s*i\s*>([\w\s]+)<\s*/i>`)
	pageRE   = regexp.MustCompile(`^([A-Za-z]*)(\d+)[-:_]{1,2}(\d+)$`)
)

// fromRaw maps raw bibtex fields onto an entry. Numeric fields that
// fail to parse are left unset rather than failing the whole file.
func fromRaw(r rawEntry) bib.Entry {
	e := bib.Entry{
		Citation: bib.Normalize(r.key),
		Type:     bib.ParseEntryType(r.kind),
		Extra:    make(map[string]string),
	}
	for _, f := range r.fields {
		switch f.name {
		case "title":
			e.Title = cleanTitle(f.value)
		case "booktitle":
			e.Booktitle = cleanTitle(f.value)
		case "pages":
			e.Pages = cleanPages(f.value)
		case "author":
			e.Authors = bib.ParsePeople(f.value)
		case "editor":
			e.Editors = bib.ParsePeople(f.value)
		case "keywords":
			e.Keywords = splitKeywords(f.value)
		case "journal":
			e.Journal = f.value
		case "year":
			e.Year, _ = strconv.Atoi(f.value)
		case "month":
			e.Month, _ = strconv.Atoi(f.value)
		case "chapter":
			e.Chapter, _ = strconv.Atoi(f.value)
		case "edition":
			e.Edition, _ = strconv.Atoi(f.value)
		case "volume":
			e.Volume, _ = strconv.Atoi(f.value)
		case "number":
			e.Number, _ = strconv.Atoi(f.value)
		default:
			e.SetExtra(f.name, f.value)
		}
	}
	return e
}

// cleanTitle rewrites HTML italic markup to the LaTeX form.
func cleanTitle(s string) string {
	return italicRE.ReplaceAllString(s, `\textit{$1}`)
}

// cleanPages normalizes page ranges to full start-end form, expanding
// shorthand like 123-6 to 123-126. Values containing '.' or '/' are
// DOI-like and pass through untouched.
func cleanPages(s string) string {
	if strings.ContainsAny(s, "./") {
		return s
	}
	m := pageRE.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	prefix, start, end := m[1], m[2], m[3]
	if len(start) > len(end) {
		end = start[:len(start)-len(end)] + end
	}
	startN, err1 := strconv.Atoi(start)
	endN, err2 := strconv.Atoi(end)
	if err1 != nil || err2 != nil {
		return s
	}
	return fmt.Sprintf("%s%d-%d", prefix, startN, endN)
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ", ") {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
