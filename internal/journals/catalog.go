// Package journals provides the read-only reference catalog of
// canonical journal names, with full-text lookup over name and
// abbreviation forms.
package journals

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bibgo/internal/bib"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no catalog journal matches a query.
var ErrNotFound = errors.New("journal not found in catalog")

// Catalog is the secondary journal lookup source. The main store
// consults it when an incoming journal name is unknown; a hit is
// copied into the main store once and never re-inserted.
type Catalog struct {
	db *sql.DB
}

const catalogSchema = `
	CREATE TABLE IF NOT EXISTS journals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		abbr TEXT,
		abbr_no_dot TEXT
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS journals_fts USING fts5(
		id,
		name,
		abbr,
		abbr_no_dot
	);
`

// Open opens an existing catalog read-only.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening journal catalog: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Catalog{db: db}, nil
}

// Create opens (creating if needed) a writable catalog. Used by init
// and by tests to build fixtures; normal lookups go through Open.
func Create(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("creating journal catalog: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the catalog connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add inserts a canonical journal into the catalog and its FTS index.
func (c *Catalog) Add(j bib.Journal) error {
	res, err := c.db.Exec(
		"INSERT INTO journals (name, abbr, abbr_no_dot) VALUES (?, ?, ?)",
		j.Name, j.Abbr, j.AbbrNoDot)
	if err != nil {
		return fmt.Errorf("adding catalog journal %q: %w", j.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("adding catalog journal %q: %w", j.Name, err)
	}
	if _, err := c.db.Exec(
		"INSERT INTO journals_fts (id, name, abbr, abbr_no_dot) VALUES (?, ?, ?, ?)",
		id, j.Name, j.Abbr, j.AbbrNoDot); err != nil {
		return fmt.Errorf("indexing catalog journal %q: %w", j.Name, err)
	}
	return nil
}

// Search finds the canonical journal matching a free-form name. When
// several catalog rows match, the shortest full name wins (ties broken
// lexicographically) so the most specific canonical form is picked.
// Returns ErrNotFound when nothing matches.
func (c *Catalog) Search(name string) (*bib.Journal, error) {
	var j bib.Journal
	var abbr, abbrNoDot sql.NullString
	err := c.db.QueryRow(`
		SELECT journals.id, journals.name, journals.abbr, journals.abbr_no_dot
		  FROM journals
		 WHERE journals.id IN (SELECT id FROM journals_fts WHERE journals_fts MATCH ?)
		 ORDER BY length(journals.name), journals.name
		 LIMIT 1`, prepareFTSQuery(name)).Scan(&j.ID, &j.Name, &abbr, &abbrNoDot)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("searching catalog for %q: %w", name, err)
	}
	j.Abbr = abbr.String
	j.AbbrNoDot = abbrNoDot.String
	return &j, nil
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
