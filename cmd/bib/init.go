package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bibgo/internal/journals"
	"bibgo/internal/store"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configured folders and databases",
	Long: `Create every folder and database the config file points at: the
library database with its schema, an empty journal catalog, and the
attachment and download folders. Existing files are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders := []string{
			filepath.Dir(cfg.Database),
			cfg.PDF.Folder,
			cfg.Comment.Folder,
			cfg.TempPDF.Folder,
			cfg.TempBib.Folder,
		}
		if cfg.JournalDB != "" {
			folders = append(folders, filepath.Dir(cfg.JournalDB))
		}
		for _, folder := range folders {
			if folder == "" {
				continue
			}
			if err := os.MkdirAll(folder, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", folder, err)
			}
		}

		s, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := s.Close(); err != nil {
			return err
		}

		if cfg.JournalDB != "" {
			c, err := journals.Create(cfg.JournalDB)
			if err != nil {
				return err
			}
			if err := c.Close(); err != nil {
				return err
			}
		}

		fmt.Println("Initialized library.")
		return nil
	},
}
