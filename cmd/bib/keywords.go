package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bibgo/internal/format"
	"bibgo/internal/keyword"
)

var (
	keywordsAdd []string
	keywordsDel []string
)

func init() {
	keywordsCmd.Flags().StringArrayVarP(&keywordsAdd, "add", "a", nil, "Keyword to add (repeatable)")
	keywordsCmd.Flags().StringArrayVarP(&keywordsDel, "del", "d", nil, "Keyword to delete (repeatable)")
	rootCmd.AddCommand(keywordsCmd)
}

var keywordsCmd = &cobra.Command{
	Use:     "keywords <citation>",
	Aliases: []string{"k"},
	Short:   "Add or delete an entry's keywords",
	Long: `Edit the keywords of one entry and show the change set: kept terms
plain, added terms blue, deleted terms struck through. Adding a
present keyword or deleting an absent one is a silent no-op.

Example:
  bib keywords casagrande1994 -a thalamus -d review`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		citation := args[0]
		add := splitTerms(keywordsAdd)
		del := splitTerms(keywordsDel)

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		before, err := s.GetItem(citation)
		if err != nil {
			return err
		}
		if len(add) > 0 {
			if err := s.AddKeywords(citation, add); err != nil {
				return err
			}
		}
		if len(del) > 0 {
			if err := s.DelKeywords(citation, del); err != nil {
				return err
			}
		}
		after, err := s.GetItem(citation)
		if err != nil {
			return err
		}

		alt := keyword.Diff(before.Keywords, after.Keywords)
		fmt.Println(format.Plain(*after))
		fmt.Printf("Keywords: %s\n", alt.Render())
		return nil
	},
}
