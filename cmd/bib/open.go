package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bibgo/internal/bib"
	"bibgo/internal/files"
	"bibgo/internal/format"
	"bibgo/internal/store"
)

var (
	openPDF     bool
	openComment bool
)

func init() {
	openCmd.Flags().BoolVarP(&openPDF, "pdf", "p", false, "Open the PDF")
	openCmd.Flags().BoolVarP(&openComment, "comment", "c", false, "Open the comment file")
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:     "open <citation>",
	Aliases: []string{"o"},
	Short:   "Open an entry's PDF or comment file",
	Long: `Open the attachments of an entry. Requesting a comment when none
exists creates one seeded with the entry's citation line.

Examples:
  bib open casagrande1994 -p
  bib o casagrande1994 -c`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !openPDF && !openComment {
			return fmt.Errorf("nothing to open, pass --pdf and/or --comment")
		}
		citation := args[0]

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		entry, err := s.GetItem(citation)
		if err != nil {
			return err
		}

		set := fileSet()
		hasComment := false
		for _, ref := range entry.Files {
			open := (openPDF && ref.ObjectType == bib.FilePDF) ||
				(openComment && ref.ObjectType == bib.FileComment)
			if ref.ObjectType == bib.FileComment {
				hasComment = true
			}
			if !open {
				continue
			}
			h, err := set.ForType(ref.ObjectType)
			if err != nil {
				return err
			}
			if err := h.Open(ref.Name); err != nil {
				return err
			}
		}

		if openComment && !hasComment {
			return createComment(s, set, entry)
		}
		return nil
	},
}

// createComment seeds a new comment file with the entry's citation
// line, registers it, and opens it.
func createComment(s *store.Store, set *files.Set, entry *bib.Entry) error {
	h, err := set.ForType(bib.FileComment)
	if err != nil {
		return err
	}
	name := entry.Citation + commentExt()
	if err := os.MkdirAll(cfg.Comment.Folder, 0o755); err != nil {
		return fmt.Errorf("creating comment folder: %w", err)
	}
	if err := os.WriteFile(h.Path(name), []byte(format.Plain(*entry)+"\n\n"), 0o644); err != nil {
		return fmt.Errorf("creating comment for %s: %w", entry.Citation, err)
	}
	ref := bib.FileRef{Name: name, ObjectType: bib.FileComment}
	if err := s.AddFile(entry.Citation, ref); err != nil {
		return err
	}
	return h.Open(name)
}

func commentExt() string {
	if len(cfg.Comment.Extensions) > 0 {
		return cfg.Comment.Extensions[0]
	}
	return ".txt"
}
