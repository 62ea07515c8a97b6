package bibtex

import (
	"fmt"
	"strings"
	"unicode"
)

type rawEntry struct {
	kind   string
	key    string
	fields []rawField
}

type rawField struct {
	name  string
	value string
}

// parse scans bibtex source into raw entries. Values may be brace
// delimited with arbitrary nesting, quote delimited, or bare.
func parse(src string) ([]rawEntry, error) {
	var entries []rawEntry
	p := &parser{src: src}
	for {
		if !p.seek('@') {
			return entries, nil
		}
		kind := strings.ToLower(p.ident())
		switch kind {
		case "string", "preamble", "comment":
			if err := p.skipBlock(); err != nil {
				return nil, err
			}
			continue
		case "":
			return nil, fmt.Errorf("missing entry type at offset %d", p.pos)
		}

		if !p.expect('{') {
			return nil, fmt.Errorf("entry @%s: expected '{'", kind)
		}
		key := strings.TrimSpace(p.until(','))
		if key == "" {
			return nil, fmt.Errorf("entry @%s: missing citation key", kind)
		}

		entry := rawEntry{kind: kind, key: key}
		for {
			p.skipSpace()
			if p.eof() {
				return nil, fmt.Errorf("entry %q: unexpected end of input", key)
			}
			if p.src[p.pos] == '}' {
				p.pos++
				break
			}
			name := strings.ToLower(p.ident())
			if name == "" {
				return nil, fmt.Errorf("entry %q: expected field name at offset %d", key, p.pos)
			}
			if !p.expect('=') {
				return nil, fmt.Errorf("entry %q: field %q missing '='", key, name)
			}
			value, err := p.value()
			if err != nil {
				return nil, fmt.Errorf("entry %q: field %q: %w", key, name, err)
			}
			entry.fields = append(entry.fields, rawField{name: name, value: value})

			p.skipSpace()
			if !p.eof() && p.src[p.pos] == ',' {
				p.pos++
			}
		}
		entries = append(entries, entry)
	}
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

// seek advances past the next occurrence of c. Reports false when the
// input is exhausted first.
func (p *parser) seek(c byte) bool {
	for !p.eof() {
		if p.src[p.pos] == c {
			p.pos++
			return true
		}
		p.pos++
	}
	return false
}

// ident reads a run of letters, digits, '-' and '_'.
func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if c == '-' || c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) expect(c byte) bool {
	p.skipSpace()
	if p.eof() || p.src[p.pos] != c {
		return false
	}
	p.pos++
	return true
}

// until consumes up to and including c and returns what came before.
func (p *parser) until(c byte) string {
	start := p.pos
	for !p.eof() {
		if p.src[p.pos] == c {
			s := p.src[start:p.pos]
			p.pos++
			return s
		}
		p.pos++
	}
	return p.src[start:]
}

// value reads one field value: braced with nesting, quoted, or bare
// up to the next ',' or '}'.
func (p *parser) value() (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", fmt.Errorf("unexpected end of input")
	}
	switch p.src[p.pos] {
	case '{':
		return p.braced()
	case '"':
		p.pos++
		return p.until('"'), nil
	default:
		start := p.pos
		for !p.eof() && p.src[p.pos] != ',' && p.src[p.pos] != '}' {
			p.pos++
		}
		return strings.TrimSpace(p.src[start:p.pos]), nil
	}
}

// braced reads a brace-delimited value, stripping the outer braces
// and keeping inner ones.
func (p *parser) braced() (string, error) {
	p.pos++ // opening brace
	start := p.pos
	depth := 1
	for !p.eof() {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s := p.src[start:p.pos]
				p.pos++
				return s, nil
			}
		}
		p.pos++
	}
	return "", fmt.Errorf("unbalanced braces")
}

// skipBlock consumes a @string/@preamble/@comment block.
func (p *parser) skipBlock() error {
	if !p.expect('{') {
		// Some files use parentheses for these blocks.
		if !p.expect('(') {
			return fmt.Errorf("malformed directive at offset %d", p.pos)
		}
		p.until(')')
		return nil
	}
	depth := 1
	for !p.eof() {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
		p.pos++
	}
	return fmt.Errorf("unterminated directive")
}
