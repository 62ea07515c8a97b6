// Package config loads the YAML configuration file that tells the
// rest of the system where its databases and attachment folders live.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileHandler configures one attachment class: where its files live,
// which extensions belong to it, and the program that opens them.
type FileHandler struct {
	Folder     string   `yaml:"folder"`
	Extensions []string `yaml:"extensions"`
	Opener     string   `yaml:"opener"`
}

// Accepts reports whether a filename's extension belongs to this
// handler.
func (h FileHandler) Accepts(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range h.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Config is the full configuration. Relative paths are resolved
// against the user's home directory at load time.
type Config struct {
	Database  string      `yaml:"database"`
	JournalDB string      `yaml:"journal_db"`
	PDF       FileHandler `yaml:"pdf"`
	Comment   FileHandler `yaml:"comment"`
	TempPDF   FileHandler `yaml:"temp_pdf"`
	TempBib   FileHandler `yaml:"temp_bib"`
}

// DefaultPath returns the standard config location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bibgo", "config.yml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating config: %w", err)
	}
	return filepath.Join(home, ".config", "bibgo", "config.yml"), nil
}

// Load reads and resolves a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config paths: %w", err)
	}
	cfg.Database = resolve(home, cfg.Database)
	cfg.JournalDB = resolve(home, cfg.JournalDB)
	cfg.PDF.Folder = resolve(home, cfg.PDF.Folder)
	cfg.Comment.Folder = resolve(home, cfg.Comment.Folder)
	cfg.TempPDF.Folder = resolve(home, cfg.TempPDF.Folder)
	cfg.TempBib.Folder = resolve(home, cfg.TempBib.Folder)
	return &cfg, nil
}

func resolve(home, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, path)
}
