package store

import (
	"fmt"

	"bibgo/internal/bib"
)

// SearchLastName returns every stored person sharing the normalized
// last-name search term. Used by the person resolver to collect
// disambiguation candidates.
func (s *Store) SearchLastName(searchTerm string) ([]bib.Person, error) {
	rows, err := s.db.Query(`
		SELECT id, last_name, first_name, search_term
		  FROM persons
		 WHERE search_term = ?
		 ORDER BY first_name`, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("searching people by %q: %w", searchTerm, err)
	}
	defer rows.Close()

	var people []bib.Person
	for rows.Next() {
		var p bib.Person
		if err := rows.Scan(&p.ID, &p.LastName, &p.FirstName, &p.SearchTerm); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}
