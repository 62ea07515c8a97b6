package store

import (
	"database/sql"
	"fmt"

	"bibgo/internal/bib"
)

// JournalByName looks a journal up by exact (case-insensitive) match
// against its full name, abbreviation, or dotless abbreviation.
// Returns ErrNotFound on a miss.
func (s *Store) JournalByName(name string) (*bib.Journal, error) {
	var j bib.Journal
	var abbr, abbrNoDot sql.NullString
	err := s.db.QueryRow(`
		SELECT id, name, abbr, abbr_no_dot
		  FROM journals
		 WHERE name = ? COLLATE NOCASE
		    OR abbr = ? COLLATE NOCASE
		    OR abbr_no_dot = ? COLLATE NOCASE
		 LIMIT 1`, name, name, name).Scan(&j.ID, &j.Name, &abbr, &abbrNoDot)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("journal %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up journal %q: %w", name, err)
	}
	j.Abbr = abbr.String
	j.AbbrNoDot = abbrNoDot.String
	return &j, nil
}

// InsertJournal persists a canonical journal row and returns its id.
func (s *Store) InsertJournal(j bib.Journal) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO journals (name, abbr, abbr_no_dot) VALUES (?, ?, ?)",
		j.Name, nullableString(j.Abbr), nullableString(j.AbbrNoDot))
	if err != nil {
		return 0, fmt.Errorf("inserting journal %q: %w", j.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting journal %q: %w", j.Name, err)
	}
	return id, nil
}
