package store

import (
	"database/sql"
	"fmt"
	"sort"

	"bibgo/internal/bib"

	"github.com/sirupsen/logrus"
)

// AddItem writes an entry and all of its dependent rows in one
// transaction: the item row, person rows and ordered links, keyword
// rows and links, extra fields, and file records. With update set, the
// existing citation's rows are cascaded away first. Any failure rolls
// the whole write back.
//
// journalID is the resolved canonical journal id, or 0 for none.
// People without an id are persisted here and get their id assigned.
func (s *Store) AddItem(e *bib.Entry, journalID int64, update bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting insert of %q: %w", e.Citation, err)
	}
	defer tx.Rollback()

	if update {
		if err := deleteCascade(tx, e.Citation); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO items (citation, entry_type, title, booktitle, year,
		                   month, chapter, edition, volume, "number",
		                   pages, journal_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Citation, e.Type.String(), e.Title, nullableString(e.Booktitle), e.Year,
		nullableInt(e.Month), nullableInt(e.Chapter), nullableInt(e.Edition),
		nullableInt(e.Volume), nullableInt(e.Number),
		nullableString(e.Pages), nullableID(journalID))
	if err != nil {
		return fmt.Errorf("inserting entry %q: %w", e.Citation, err)
	}

	if err := insertPeople(tx, e.Citation, e.Authors, false); err != nil {
		return err
	}
	if err := insertPeople(tx, e.Citation, e.Editors, true); err != nil {
		return err
	}
	if err := insertKeywords(tx, e.Citation, e.Keywords); err != nil {
		return err
	}
	if err := insertExtraFields(tx, e.Citation, e.Extra); err != nil {
		return err
	}
	if err := insertFiles(tx, e.Citation, e.Files); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entry %q: %w", e.Citation, err)
	}
	logrus.Debugf("store: committed %s (update=%v)", e.Citation, update)
	return nil
}

// insertPeople links people to an item in order, persisting any person
// that has no id yet. Identity is (search_term, first_name); matching
// people are reused, never duplicated.
func insertPeople(tx *sql.Tx, citation string, people []bib.Person, editors bool) error {
	for seq := range people {
		p := &people[seq]
		if p.ID == 0 {
			id, err := findOrInsertPerson(tx, *p)
			if err != nil {
				return err
			}
			p.ID = id
		}
		_, err := tx.Exec(`
			INSERT INTO item_persons (item_id, person_id, order_seq, is_editor)
			VALUES (?, ?, ?, ?)`, citation, p.ID, seq, editors)
		if err != nil {
			return fmt.Errorf("linking person %q to %q: %w", p.LastName, citation, err)
		}
	}
	return nil
}

func findOrInsertPerson(tx *sql.Tx, p bib.Person) (int64, error) {
	var id int64
	err := tx.QueryRow(`
		SELECT id FROM persons
		 WHERE search_term = ? AND first_name = ?
		 LIMIT 1`, p.SearchTerm, p.FirstName).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("looking up person %q: %w", p.LastName, err)
	}

	res, err := tx.Exec(
		"INSERT INTO persons (last_name, first_name, search_term) VALUES (?, ?, ?)",
		p.LastName, p.FirstName, p.SearchTerm)
	if err != nil {
		return 0, fmt.Errorf("inserting person %q: %w", p.LastName, err)
	}
	return res.LastInsertId()
}

func insertKeywords(tx *sql.Tx, citation string, terms []string) error {
	seen := make(map[string]bool)
	for _, t := range terms {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true

		var id int64
		err := tx.QueryRow("SELECT id FROM keywords WHERE text = ?", t).Scan(&id)
		if err == sql.ErrNoRows {
			res, insErr := tx.Exec("INSERT INTO keywords (text) VALUES (?)", t)
			if insErr != nil {
				return fmt.Errorf("inserting keyword %q: %w", t, insErr)
			}
			if id, insErr = res.LastInsertId(); insErr != nil {
				return fmt.Errorf("inserting keyword %q: %w", t, insErr)
			}
		} else if err != nil {
			return fmt.Errorf("looking up keyword %q: %w", t, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO item_keywords (item_id, keyword_id) VALUES (?, ?)",
			citation, id); err != nil {
			return fmt.Errorf("linking keyword %q to %q: %w", t, citation, err)
		}
	}
	return nil
}

func insertExtraFields(tx *sql.Tx, citation string, extra map[string]string) error {
	fields := make([]string, 0, len(extra))
	for f := range extra {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, f := range fields {
		if _, err := tx.Exec(
			"INSERT INTO extra_fields (item_id, field, value) VALUES (?, ?, ?)",
			citation, f, extra[f]); err != nil {
			return fmt.Errorf("inserting extra field %q of %q: %w", f, citation, err)
		}
	}
	return nil
}

func insertFiles(tx *sql.Tx, citation string, files []bib.FileRef) error {
	for _, f := range files {
		if _, err := tx.Exec(
			"INSERT INTO files (item_id, name, object_type) VALUES (?, ?, ?)",
			citation, f.Name, f.ObjectType); err != nil {
			return fmt.Errorf("inserting file %q of %q: %w", f.Name, citation, err)
		}
	}
	return nil
}
