// Package files manages entry attachments on disk. Each attachment
// class (pdf, comment) has a handler that knows its folder, its
// extensions, and the program that opens it.
package files

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"bibgo/internal/bib"
	"bibgo/internal/config"
)

// Handler manages one attachment class.
type Handler struct {
	objectType string
	cfg        config.FileHandler
}

func NewHandler(objectType string, cfg config.FileHandler) Handler {
	return Handler{objectType: objectType, cfg: cfg}
}

// Path returns the absolute path of a stored attachment.
func (h Handler) Path(name string) string {
	return filepath.Join(h.cfg.Folder, name)
}

// Accepts reports whether a filename belongs to this class.
func (h Handler) Accepts(name string) bool {
	return h.cfg.Accepts(name)
}

// Open launches the configured opener on a stored attachment without
// waiting for it to exit. An empty opener falls back to xdg-open.
func (h Handler) Open(name string) error {
	path := h.Path(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	opener := h.cfg.Opener
	if opener == "" {
		opener = "xdg-open"
	}
	cmd := exec.Command(opener, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s for %s: %w", opener, name, err)
	}
	return nil
}

// Store moves a file into the handler's folder, renamed after the
// citation with its extension preserved. Returns the stored FileRef.
func (h Handler) Store(src, citation string) (bib.FileRef, error) {
	if !h.Accepts(src) {
		return bib.FileRef{}, fmt.Errorf("%s does not take %q files", h.objectType, filepath.Ext(src))
	}
	name := citation + filepath.Ext(src)
	dst := h.Path(name)
	if err := os.MkdirAll(h.cfg.Folder, 0o755); err != nil {
		return bib.FileRef{}, fmt.Errorf("storing %s: %w", name, err)
	}
	if err := moveFile(src, dst); err != nil {
		return bib.FileRef{}, fmt.Errorf("storing %s: %w", name, err)
	}
	logrus.Debugf("stored %s as %s", src, dst)
	return bib.FileRef{Name: name, ObjectType: h.objectType}, nil
}

// moveFile renames src to dst, falling back to copy and remove when the
// rename fails. Downloads often land on a different filesystem than the
// library folder, where rename alone returns EXDEV.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Remove deletes a stored attachment. A missing file is not an error;
// the database row is the source of truth being cleaned up.
func (h Handler) Remove(name string) error {
	err := os.Remove(h.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// Set holds the handler for every attachment class.
type Set struct {
	handlers map[string]Handler
}

// NewSet builds the standard pdf and comment handlers from config.
func NewSet(cfg *config.Config) *Set {
	return &Set{handlers: map[string]Handler{
		bib.FilePDF:     NewHandler(bib.FilePDF, cfg.PDF),
		bib.FileComment: NewHandler(bib.FileComment, cfg.Comment),
	}}
}

// ForType returns the handler for an object type.
func (s *Set) ForType(objectType string) (Handler, error) {
	h, ok := s.handlers[objectType]
	if !ok {
		return Handler{}, fmt.Errorf("no handler for object type %q", objectType)
	}
	return h, nil
}

// Classify returns the handler whose extensions match a filename.
func (s *Set) Classify(name string) (Handler, error) {
	for _, h := range s.handlers {
		if h.Accepts(name) {
			return h, nil
		}
	}
	return Handler{}, fmt.Errorf("no handler takes %q files", filepath.Ext(name))
}

// RemoveAll deletes every attachment of an entry from disk.
func (s *Set) RemoveAll(refs []bib.FileRef) error {
	for _, ref := range refs {
		h, err := s.ForType(ref.ObjectType)
		if err != nil {
			return err
		}
		if err := h.Remove(ref.Name); err != nil {
			return err
		}
	}
	return nil
}
