package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bibgo/internal/bib"
	"bibgo/internal/bibtex"
	"bibgo/internal/files"
	"bibgo/internal/format"
	"bibgo/internal/ingest"
	"bibgo/internal/prompt"
	"bibgo/internal/store"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:     "add [keywords...]",
	Aliases: []string{"a"},
	Short:   "Add an entry from the downloaded BibTeX file",
	Long: `Add the newest BibTeX file in the download folder as an entry.
Citation, journal, and author conflicts are resolved interactively. A
PDF waiting in the download folder is attached to the new entry, with
its DOI extracted when possible. Positional arguments become initial
keywords.

Example:
  bib add "visual cortex" review`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bibPath, err := newestFile(cfg.TempBib.Folder, ".bib")
		if err != nil {
			return fmt.Errorf("no bibtex file to add: %w", err)
		}
		entries, err := bibtex.Read(bibPath)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no entries in %s", bibPath)
		}
		entry := entries[len(entries)-1]
		entry.Keywords = append(entry.Keywords, splitTerms(args)...)

		pdfPath, err := newestFile(cfg.TempPDF.Folder, ".pdf")
		if err == nil {
			if doi, err := files.ExtractDOI(pdfPath); err == nil && doi != "" {
				entry.SetExtra("doi", doi)
				logrus.Debugf("extracted doi %s from %s", doi, pdfPath)
			}
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		catalog := openCatalog()
		if catalog != nil {
			defer catalog.Close()
		}

		fmt.Printf("New item:\n%s\n", format.Plain(entry))
		term := prompt.NewTerminal(os.Stdin, os.Stdout)
		committed, err := ingest.Resolve(s, catalog, term, entry)
		if err != nil {
			return err
		}

		if pdfPath != "" {
			if err := attachPDF(s, committed, pdfPath); err != nil {
				return err
			}
		}

		fmt.Printf("Added %s\n", committed.Citation)
		return nil
	},
}

func attachPDF(s *store.Store, committed *bib.Entry, pdfPath string) error {
	handler, err := fileSet().ForType(bib.FilePDF)
	if err != nil {
		return err
	}
	ref, err := handler.Store(pdfPath, committed.Citation)
	if err != nil {
		return err
	}
	return s.AddFile(committed.Citation, ref)
}

// newestFile returns the most recently modified file with the given
// extension in a folder.
func newestFile(folder, ext string) (string, error) {
	dirents, err := os.ReadDir(folder)
	if err != nil {
		return "", err
	}
	var newest string
	var newestMod int64
	for _, d := range dirents {
		if d.IsDir() || filepath.Ext(d.Name()) != ext {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(folder, d.Name())
			newestMod = mod
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no %s files in %s", ext, folder)
	}
	return newest, nil
}
