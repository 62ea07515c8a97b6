package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bibgo/internal/bib"
	"bibgo/internal/bibtex"
	"bibgo/internal/format"
	"bibgo/internal/store"
)

var (
	outputBibtex bool
	outputSimple bool
)

func init() {
	outputCmd.Flags().BoolVarP(&outputBibtex, "bibtex", "b", false, "BibTeX output")
	outputCmd.Flags().BoolVarP(&outputSimple, "string", "s", false, "One-line citation output")
	rootCmd.AddCommand(outputCmd)
}

var outputCmd = &cobra.Command{
	Use:     "output <citation|manuscript>",
	Aliases: []string{"u"},
	Short:   "Print entries as BibTeX or citation lines",
	Long: `Print one entry, or every entry cited by a manuscript. The argument
is treated as a manuscript path when such a file exists, otherwise as
a citation key. Manuscripts may be markdown or pandoc JSON; their
citations print in order of appearance.

Examples:
  bib output casagrande1994 -b
  bib u draft.md -s`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputBibtex == outputSimple {
			return fmt.Errorf("select exactly one output format, --bibtex or --string")
		}
		source := args[0]

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := os.Stat(source); err == nil {
			return outputManuscript(s, source)
		}
		entry, err := s.GetItem(source)
		if err != nil {
			return err
		}
		printEntry(*entry)
		return nil
	},
}

func outputManuscript(s *store.Store, path string) error {
	keys, err := bibtex.ReadCitations(path)
	if err != nil {
		return err
	}
	for _, key := range keys {
		entry, err := s.GetItem(key)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("Entry not found for %s!\n", key)
			continue
		}
		if err != nil {
			return err
		}
		printEntry(*entry)
	}
	return nil
}

func printEntry(e bib.Entry) {
	if outputBibtex {
		fmt.Println(format.BibTeX(e))
	} else {
		fmt.Println(format.Plain(e))
	}
}
