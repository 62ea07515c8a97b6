package store

import (
	"fmt"
)

// AddKeywords attaches keyword terms to an entry. Terms the entry
// already carries are dropped silently; missing keyword rows are
// created, existing ones are linked.
func (s *Store) AddKeywords(citation string, terms []string) error {
	entry, err := s.GetItem(citation)
	if err != nil {
		return err
	}

	var fresh []string
	for _, t := range terms {
		if t != "" && !entry.HasKeyword(t) {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	existing, err := s.keywordIDs(fresh)
	if err != nil {
		return err
	}

	var ids []int64
	for _, t := range fresh {
		id, ok := existing[t]
		if !ok {
			res, err := s.db.Exec("INSERT INTO keywords (text) VALUES (?)", t)
			if err != nil {
				return fmt.Errorf("inserting keyword %q: %w", t, err)
			}
			if id, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("inserting keyword %q: %w", t, err)
			}
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		if _, err := s.db.Exec(
			"INSERT INTO item_keywords (item_id, keyword_id) VALUES (?, ?)",
			citation, id); err != nil {
			return fmt.Errorf("linking keyword to %q: %w", citation, err)
		}
	}
	return nil
}

// DelKeywords removes keyword links from an entry. Terms the entry
// does not carry are ignored; keyword rows themselves stay (they may
// be shared with other entries).
func (s *Store) DelKeywords(citation string, terms []string) error {
	if len(terms) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM item_keywords
		 WHERE rowid IN (
		       SELECT item_keywords.rowid
		         FROM item_keywords
		              JOIN keywords ON item_keywords.keyword_id = keywords.id
		        WHERE item_keywords.item_id = ?
		          AND keywords.text IN (%s))`, placeholders(len(terms)))

	args := append([]any{citation}, stringArgs(terms)...)
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("deleting keywords from %q: %w", citation, err)
	}
	return nil
}

// keywordIDs returns the ids of the keyword rows that already exist
// for the given texts.
func (s *Store) keywordIDs(terms []string) (map[string]int64, error) {
	query := fmt.Sprintf(
		"SELECT id, text FROM keywords WHERE text IN (%s)", placeholders(len(terms)))
	rows, err := s.db.Query(query, stringArgs(terms)...)
	if err != nil {
		return nil, fmt.Errorf("looking up keywords: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var text string
		if err := rows.Scan(&id, &text); err != nil {
			return nil, fmt.Errorf("scanning keyword row: %w", err)
		}
		ids[text] = id
	}
	return ids, rows.Err()
}
