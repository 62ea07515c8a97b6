package bibtex

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ReadCitations extracts the citation keys referenced by a manuscript,
// in order of appearance with repeats preserved. JSON pandoc ASTs are
// read directly; markdown is converted by invoking pandoc.
func ReadCitations(path string) ([]string, error) {
	var raw []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ast":
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading manuscript: %w", err)
		}
	case ".md", ".markdown", ".txt":
		out, err := exec.Command("pandoc", "-f", "markdown", "-t", "json", path).Output()
		if err != nil {
			return nil, fmt.Errorf("converting %s with pandoc: %w", path, err)
		}
		raw = out
	default:
		return nil, fmt.Errorf("unsupported manuscript format %q", filepath.Ext(path))
	}

	var ast struct {
		Blocks []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(raw, &ast); err != nil {
		return nil, fmt.Errorf("parsing pandoc output: %w", err)
	}

	var keys []string
	for _, block := range ast.Blocks {
		var node interface{}
		if err := json.Unmarshal(block, &node); err != nil {
			return nil, fmt.Errorf("parsing pandoc output: %w", err)
		}
		keys = collectCitations(node, keys)
	}
	return keys, nil
}

// collectCitations walks a pandoc AST node, appending every
// citationId it finds.
func collectCitations(node interface{}, keys []string) []string {
	switch v := node.(type) {
	case map[string]interface{}:
		if v["t"] == "Cite" {
			if content, ok := v["c"].([]interface{}); ok && len(content) > 0 {
				if cites, ok := content[0].([]interface{}); ok {
					for _, c := range cites {
						if m, ok := c.(map[string]interface{}); ok {
							if id, ok := m["citationId"].(string); ok {
								keys = append(keys, id)
							}
						}
					}
				}
			}
			return keys
		}
		for _, child := range v {
			keys = collectCitations(child, keys)
		}
	case []interface{}:
		for _, child := range v {
			keys = collectCitations(child, keys)
		}
	}
	return keys
}
