package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bibgo/internal/bib"
	"bibgo/internal/format"
)

var (
	searchAuthors  []string
	searchKeywords []string
)

func init() {
	searchCmd.Flags().StringArrayVarP(&searchAuthors, "author", "a", nil, "Author last name (repeatable, AND logic)")
	searchCmd.Flags().StringArrayVarP(&searchKeywords, "keyword", "k", nil, "Keyword (repeatable, AND logic)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:     "search",
	Aliases: []string{"s"},
	Short:   "Search entries by author last names and keywords",
	Long: `Search entries. Every given author and keyword must match; an entry
is printed only when it has all of them. Matched author names are
highlighted in the output.

Examples:
  bib search -a casagrande -a rosa
  bib s -k "visual cortex" -a stein`,
	RunE: func(cmd *cobra.Command, args []string) error {
		authors := normalizeTerms(searchAuthors)
		keywords := splitTerms(searchKeywords)

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.Search(authors, keywords)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Printf("Entries not found for authors [%s] and keywords [%s]\n",
				strings.Join(authors, ", "), strings.Join(keywords, ", "))
			return nil
		}
		for _, e := range results {
			fmt.Println(format.Labeled(e, authors))
		}
		return nil
	},
}

// splitTerms flattens comma-separated flag values and drops empties.
func splitTerms(values []string) []string {
	var out []string
	for _, v := range values {
		for _, term := range strings.Split(v, ",") {
			term = strings.TrimSpace(term)
			if term != "" {
				out = append(out, term)
			}
		}
	}
	return out
}

// normalizeTerms splits like splitTerms and reduces each term to the
// person search alphabet.
func normalizeTerms(values []string) []string {
	var out []string
	for _, term := range splitTerms(values) {
		if n := bib.Normalize(term); n != "" {
			out = append(out, n)
		}
	}
	return out
}
