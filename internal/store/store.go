// Package store provides the relational SQLite store for bibliographic
// entries: schema, primitive read/write operations, the search query
// builder, and the transactional item commit.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by lookups that miss. Expected and
// recoverable; check with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError reports caller misuse of a store operation, such as
// searching with no terms at all.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Store wraps the single SQLite connection for the library database.
type Store struct {
	db *sql.DB
}

// schema is the relational contract. Join rows reference items by
// citation, so a cascade is one delete per table.
const schema = `
	CREATE TABLE IF NOT EXISTS items (
		citation TEXT PRIMARY KEY,
		entry_type TEXT NOT NULL,
		title TEXT NOT NULL,
		booktitle TEXT,
		year INTEGER NOT NULL,
		month INTEGER,
		chapter INTEGER,
		edition INTEGER,
		volume INTEGER,
		"number" INTEGER,
		pages TEXT,
		journal_id INTEGER REFERENCES journals(id)
	);

	CREATE TABLE IF NOT EXISTS persons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		search_term TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_persons_search_term ON persons(search_term);

	CREATE TABLE IF NOT EXISTS item_persons (
		item_id TEXT NOT NULL REFERENCES items(citation),
		person_id INTEGER NOT NULL REFERENCES persons(id),
		order_seq INTEGER NOT NULL,
		is_editor INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_item_persons_item ON item_persons(item_id);

	CREATE TABLE IF NOT EXISTS keywords (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS item_keywords (
		item_id TEXT NOT NULL REFERENCES items(citation),
		keyword_id INTEGER NOT NULL REFERENCES keywords(id)
	);

	CREATE INDEX IF NOT EXISTS idx_item_keywords_item ON item_keywords(item_id);

	CREATE TABLE IF NOT EXISTS journals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		abbr TEXT,
		abbr_no_dot TEXT
	);

	CREATE TABLE IF NOT EXISTS extra_fields (
		item_id TEXT NOT NULL REFERENCES items(citation),
		field TEXT NOT NULL,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS files (
		item_id TEXT NOT NULL REFERENCES items(citation),
		name TEXT NOT NULL,
		object_type TEXT NOT NULL
	);
`

// Open opens (creating if needed) the library database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logrus.Debugf("store: opened %s", path)
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// placeholders returns n comma-separated SQL parameter markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// stringArgs converts a term list for variadic query arguments.
func stringArgs(terms []string) []any {
	args := make([]any, len(terms))
	for i, t := range terms {
		args[i] = t
	}
	return args
}

func nullableString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullableInt(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func nullableID(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
