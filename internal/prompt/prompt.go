// Package prompt defines how interactive conflict resolution talks to
// the user. Each resolver stage has a closed set of answers; the
// Prompter implementation decides how those answers are obtained.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"bibgo/internal/bib"
)

// CitationChoice answers a citation key conflict.
type CitationChoice int

const (
	CitationAbort CitationChoice = iota
	CitationUpdate
	CitationRename
)

// JournalChoice answers an unknown journal name.
type JournalChoice int

const (
	JournalAbort JournalChoice = iota
	JournalCreate
)

// PersonChoice answers one unmatched person.
type PersonChoice int

const (
	PersonAbort PersonChoice = iota
	PersonNew
	PersonPick
)

// Prompter resolves ingestion conflicts interactively. Citation
// returns the replacement key when the choice is CitationRename;
// Journal returns the canonical journal when the choice is
// JournalCreate; Person returns the picked candidate index when the
// choice is PersonPick.
type Prompter interface {
	Citation(existing bib.Entry) (CitationChoice, string, error)
	Journal(name string) (JournalChoice, bib.Journal, error)
	Person(incoming bib.Person, candidates []bib.Person) (PersonChoice, int, error)
}

// Terminal prompts on an io.Reader/io.Writer pair, normally stdin and
// stdout. Invalid input re-prompts until a valid choice arrives.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

var headerColor = color.New(color.FgYellow)

func (t *Terminal) Citation(existing bib.Entry) (CitationChoice, string, error) {
	headerColor.Fprintf(t.out, "Citation %q already exists:\n", existing.Citation)
	fmt.Fprintf(t.out, "  %s (%d)\n", existing.Title, existing.Year)
	for {
		fmt.Fprint(t.out, "[u]pdate existing, [r]ename new entry, [a]bort: ")
		input, err := t.readLine()
		if err != nil {
			return CitationAbort, "", err
		}
		switch input {
		case "u":
			return CitationUpdate, "", nil
		case "r":
			fmt.Fprint(t.out, "New citation key: ")
			key, err := t.readLine()
			if err != nil {
				return CitationAbort, "", err
			}
			if key == "" {
				continue
			}
			return CitationRename, key, nil
		case "a":
			return CitationAbort, "", nil
		}
		fmt.Fprintln(t.out, "Invalid choice.")
	}
}

func (t *Terminal) Journal(name string) (JournalChoice, bib.Journal, error) {
	headerColor.Fprintf(t.out, "Unknown journal %q.\n", name)
	for {
		fmt.Fprint(t.out, "[c]reate it, [a]bort: ")
		input, err := t.readLine()
		if err != nil {
			return JournalAbort, bib.Journal{}, err
		}
		switch input {
		case "c":
			j, err := t.readJournal(name)
			if err != nil {
				return JournalAbort, bib.Journal{}, err
			}
			return JournalCreate, j, nil
		case "a":
			return JournalAbort, bib.Journal{}, nil
		}
		fmt.Fprintln(t.out, "Invalid choice.")
	}
}

func (t *Terminal) readJournal(name string) (bib.Journal, error) {
	fmt.Fprintf(t.out, "Full name [%s]: ", name)
	full, err := t.readLine()
	if err != nil {
		return bib.Journal{}, err
	}
	if full == "" {
		full = name
	}
	fmt.Fprint(t.out, "Abbreviation: ")
	abbr, err := t.readLine()
	if err != nil {
		return bib.Journal{}, err
	}
	noDot := strings.ReplaceAll(abbr, ".", "")
	return bib.Journal{Name: full, Abbr: abbr, AbbrNoDot: noDot}, nil
}

func (t *Terminal) Person(incoming bib.Person, candidates []bib.Person) (PersonChoice, int, error) {
	headerColor.Fprintf(t.out, "Unmatched person: %s, %s\n", incoming.LastName, incoming.FirstName)
	for i, c := range candidates {
		fmt.Fprintf(t.out, "  [%d] %s, %s\n", i+1, c.LastName, c.FirstName)
	}
	for {
		if len(candidates) > 0 {
			fmt.Fprintf(t.out, "[1-%d] use existing, [n]ew person, [a]bort: ", len(candidates))
		} else {
			fmt.Fprint(t.out, "[n]ew person, [a]bort: ")
		}
		input, err := t.readLine()
		if err != nil {
			return PersonAbort, 0, err
		}
		switch input {
		case "n":
			return PersonNew, 0, nil
		case "a":
			return PersonAbort, 0, nil
		default:
			idx, err := strconv.Atoi(input)
			if err == nil && idx >= 1 && idx <= len(candidates) {
				return PersonPick, idx - 1, nil
			}
		}
		fmt.Fprintln(t.out, "Invalid choice.")
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
