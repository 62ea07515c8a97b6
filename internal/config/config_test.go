package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
database: .local/share/bibgo/bib.sqlite
journal_db: .local/share/bibgo/journal.sqlite
pdf:
  folder: papers/pdf
  extensions: [".pdf"]
  opener: zathura
comment:
  folder: papers/comments
  extensions: [".txt", ".md"]
  opener: nvim
temp_pdf:
  folder: /tmp/bibgo/pdf
temp_bib:
  folder: /tmp/bibgo/bib
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}
	if cfg.Database != filepath.Join(home, ".local/share/bibgo/bib.sqlite") {
		t.Errorf("relative database path not resolved: %q", cfg.Database)
	}
	if cfg.TempPDF.Folder != "/tmp/bibgo/pdf" {
		t.Errorf("absolute path must pass through: %q", cfg.TempPDF.Folder)
	}
	if cfg.PDF.Opener != "zathura" || cfg.Comment.Opener != "nvim" {
		t.Errorf("openers wrong: %q %q", cfg.PDF.Opener, cfg.Comment.Opener)
	}
}

func TestHandlerAccepts(t *testing.T) {
	h := FileHandler{Extensions: []string{".txt", ".md"}}
	if !h.Accepts("notes.md") {
		t.Error("handler must accept its extensions")
	}
	if h.Accepts("paper.pdf") {
		t.Error("handler must reject other extensions")
	}
	if h.Accepts("noextension") {
		t.Error("handler must reject files without an extension")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestDefaultPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if path != "/custom/config/bibgo/config.yml" {
		t.Errorf("DefaultPath = %q", path)
	}
}
