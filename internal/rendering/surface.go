package rendering

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sync"
)

// ErrSurfaceUnavailable is returned by surfaces that are not mounted yet.
var ErrSurfaceUnavailable = errors.New("rendering surface unavailable")

// Surface is an isolated place a preview document is written to. Every
// Write replaces the previous document entirely.
type Surface interface {
	Write(document string) error
}

// BufferSurface keeps the last written document in memory.
type BufferSurface struct {
	mu       sync.Mutex
	document string
	writes   int
}

// Write replaces the buffered document.
func (s *BufferSurface) Write(document string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = document
	s.writes++
	return nil
}

// Document returns the last written document.
func (s *BufferSurface) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

// Writes returns how many documents have been written.
func (s *BufferSurface) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FileSurface writes each document to Path, replacing it atomically.
type FileSurface struct {
	Path string
}

// Write replaces the file at Path. An empty Path is an unmounted surface.
func (s FileSurface) Write(document string) error {
	if s.Path == "" {
		return ErrSurfaceUnavailable
	}
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".preview-*.html")
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	if _, err := tmp.WriteString(document); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preview file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preview file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace preview file: %w", err)
	}
	return nil
}

// FrameSandbox allows scripts but not top-level navigation, forms or popups.
const FrameSandbox = "allow-scripts"

// Frame embeds document in a sandboxed iframe for a host page.
func Frame(document string) string {
	return fmt.Sprintf(`<iframe title="Component Preview" sandbox="%s" srcdoc="%s"></iframe>`,
		FrameSandbox, html.EscapeString(document))
}
