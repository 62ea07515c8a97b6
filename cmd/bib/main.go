// Package main provides the bib CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bibgo/internal/config"
	"bibgo/internal/files"
	"bibgo/internal/ingest"
	"bibgo/internal/journals"
	"bibgo/internal/store"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	configPath string
	verbose    bool

	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ingest.ErrAborted):
		return ExitAborted
	default:
		return ExitError
	}
}

var rootCmd = &cobra.Command{
	Use:   "bib",
	Short: "Personal reference library manager",
	Long: `bib manages a personal library of bibliographic references.

Entries live in a normalized SQLite database; PDFs and comment files
are stored alongside and opened from the command line. New entries are
ingested from BibTeX files with interactive resolution of citation,
journal, and author conflicts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		path := configPath
		if path == "" {
			var err error
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// openStore opens the main library database.
func openStore() (*store.Store, error) {
	return store.Open(cfg.Database)
}

// openCatalog opens the journal reference catalog. A missing catalog
// is not fatal; resolution just falls back to prompting.
func openCatalog() *journals.Catalog {
	if cfg.JournalDB == "" {
		return nil
	}
	if _, err := os.Stat(cfg.JournalDB); err != nil {
		logrus.Debugf("journal catalog unavailable: %v", err)
		return nil
	}
	c, err := journals.Open(cfg.JournalDB)
	if err != nil {
		logrus.Debugf("journal catalog unavailable: %v", err)
		return nil
	}
	return c
}

func fileSet() *files.Set {
	return files.NewSet(cfg)
}
