package store

import (
	"fmt"

	"bibgo/internal/bib"
)

// Search returns the entries matching ALL supplied author search terms
// AND ALL supplied keyword texts. Either list may be empty, but not
// both. The ALL-of semantics come from grouping join rows per item and
// keeping only items whose distinct matched-term count equals the
// number of supplied terms; when both categories are given, the two
// item-id sets are intersected.
func (s *Store) Search(authors, keywords []string) ([]bib.Entry, error) {
	if len(authors) == 0 && len(keywords) == 0 {
		return nil, ValidationError("search needs at least one author or keyword")
	}

	var (
		query string
		args  []any
	)

	authorSub := fmt.Sprintf(`
		SELECT item_id
		  FROM item_persons
		       JOIN persons ON person_id = persons.id
		 WHERE search_term IN (%s)
		 GROUP BY item_id
		HAVING count(DISTINCT search_term) = ?`, placeholders(len(authors)))

	keywordSub := fmt.Sprintf(`
		SELECT item_id
		  FROM item_keywords
		       JOIN keywords ON keyword_id = keywords.id
		 WHERE keywords.text IN (%s)
		 GROUP BY item_id
		HAVING count(DISTINCT keywords.text) = ?`, placeholders(len(keywords)))

	switch {
	case len(authors) > 0 && len(keywords) > 0:
		query = authorSub + "\n\t\tINTERSECT" + keywordSub
		args = append(stringArgs(authors), len(authors))
		args = append(args, stringArgs(keywords)...)
		args = append(args, len(keywords))
	case len(authors) > 0:
		query = authorSub
		args = append(stringArgs(authors), len(authors))
	default:
		query = keywordSub
		args = append(stringArgs(keywords), len(keywords))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	// Hydrate by primary key; ordering beyond fetch order is not promised.
	var entries []bib.Entry
	for _, id := range ids {
		e, err := s.GetItem(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}
