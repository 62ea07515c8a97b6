package store

import (
	"database/sql"
	"fmt"

	"bibgo/internal/bib"
)

const itemQuery = `
	SELECT citation, entry_type, title, booktitle, year, month, chapter,
	       edition, volume, "number", pages, journals.name
	  FROM items
	       LEFT JOIN journals ON items.journal_id = journals.id
	 WHERE citation = ?
	 LIMIT 1`

// GetItem retrieves one entry with its people, keywords, extra fields,
// and file records. Returns ErrNotFound when the citation is free.
func (s *Store) GetItem(citation string) (*bib.Entry, error) {
	var (
		e                                      bib.Entry
		entryType                              string
		booktitle, pages, journal              sql.NullString
		month, chapter, edition, volume, numbr sql.NullInt64
	)

	err := s.db.QueryRow(itemQuery, citation).Scan(
		&e.Citation, &entryType, &e.Title, &booktitle, &e.Year,
		&month, &chapter, &edition, &volume, &numbr, &pages, &journal,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("entry %q: %w", citation, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading entry %q: %w", citation, err)
	}

	e.Type = bib.ParseEntryType(entryType)
	e.Booktitle = booktitle.String
	e.Pages = pages.String
	e.Journal = journal.String
	e.Month = int(month.Int64)
	e.Chapter = int(chapter.Int64)
	e.Edition = int(edition.Int64)
	e.Volume = int(volume.Int64)
	e.Number = int(numbr.Int64)

	if e.Authors, e.Editors, err = s.getPeople(citation); err != nil {
		return nil, err
	}
	if e.Keywords, err = s.getKeywords(citation); err != nil {
		return nil, err
	}
	if e.Extra, err = s.getExtraFields(citation); err != nil {
		return nil, err
	}
	if e.Files, err = s.GetFiles(citation); err != nil {
		return nil, err
	}

	return &e, nil
}

// getPeople returns the authors and editors of an item, each group in
// its stored order.
func (s *Store) getPeople(citation string) (authors, editors []bib.Person, err error) {
	rows, err := s.db.Query(`
		SELECT is_editor, persons.id, last_name, first_name, search_term
		  FROM item_persons
		       JOIN persons ON item_persons.person_id = persons.id
		 WHERE item_id = ?
		 ORDER BY is_editor, order_seq`, citation)
	if err != nil {
		return nil, nil, fmt.Errorf("reading people for %q: %w", citation, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p bib.Person
		var isEditor bool
		if err := rows.Scan(&isEditor, &p.ID, &p.LastName, &p.FirstName, &p.SearchTerm); err != nil {
			return nil, nil, fmt.Errorf("scanning person for %q: %w", citation, err)
		}
		if isEditor {
			editors = append(editors, p)
		} else {
			authors = append(authors, p)
		}
	}
	return authors, editors, rows.Err()
}

// getKeywords returns the item's keyword texts sorted alphabetically.
func (s *Store) getKeywords(citation string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT text
		  FROM item_keywords
		       JOIN keywords ON item_keywords.keyword_id = keywords.id
		 WHERE item_id = ?
		 ORDER BY text ASC`, citation)
	if err != nil {
		return nil, fmt.Errorf("reading keywords for %q: %w", citation, err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning keyword for %q: %w", citation, err)
		}
		texts = append(texts, t)
	}
	return texts, rows.Err()
}

func (s *Store) getExtraFields(citation string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT field, value FROM extra_fields WHERE item_id = ?`, citation)
	if err != nil {
		return nil, fmt.Errorf("reading extra fields for %q: %w", citation, err)
	}
	defer rows.Close()

	var fields map[string]string
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scanning extra field for %q: %w", citation, err)
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[field] = value
	}
	return fields, rows.Err()
}

// GetFiles returns the file records attached to an item.
func (s *Store) GetFiles(citation string) ([]bib.FileRef, error) {
	rows, err := s.db.Query(
		`SELECT name, object_type FROM files WHERE item_id = ? ORDER BY name`, citation)
	if err != nil {
		return nil, fmt.Errorf("reading files for %q: %w", citation, err)
	}
	defer rows.Close()

	var files []bib.FileRef
	for rows.Next() {
		var f bib.FileRef
		if err := rows.Scan(&f.Name, &f.ObjectType); err != nil {
			return nil, fmt.Errorf("scanning file for %q: %w", citation, err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// AddFile attaches a file record to an existing item.
func (s *Store) AddFile(citation string, ref bib.FileRef) error {
	if _, err := s.GetItem(citation); err != nil {
		return err
	}
	_, err := s.db.Exec(
		"INSERT INTO files (item_id, name, object_type) VALUES (?, ?, ?)",
		citation, ref.Name, ref.ObjectType)
	if err != nil {
		return fmt.Errorf("attaching %s to %q: %w", ref.Name, citation, err)
	}
	return nil
}

// Delete removes an entry and every dependent row: person links,
// keyword links, extra fields, and file records, then the item itself.
// The whole cascade runs in one transaction. Shared person and keyword
// rows are kept; only the join rows go.
func (s *Store) Delete(citation string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting delete of %q: %w", citation, err)
	}
	defer tx.Rollback()

	if err := deleteCascade(tx, citation); err != nil {
		return err
	}

	return tx.Commit()
}

// deleteCascade removes the item row and its join rows inside tx.
// Returns ErrNotFound when the citation does not exist.
func deleteCascade(tx *sql.Tx, citation string) error {
	for _, table := range []string{"item_persons", "item_keywords", "extra_fields", "files"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE item_id = ?", citation); err != nil {
			return fmt.Errorf("deleting %s rows of %q: %w", table, citation, err)
		}
	}

	res, err := tx.Exec("DELETE FROM items WHERE citation = ?", citation)
	if err != nil {
		return fmt.Errorf("deleting entry %q: %w", citation, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("entry %q: %w", citation, ErrNotFound)
	}
	return nil
}
