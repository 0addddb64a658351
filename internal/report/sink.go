package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDir is the output directory used when none is configured.
const DefaultDir = "responses"

// Sink owns the report output directory and filename generation. It is
// created once and passed to the Reporter instead of relying on a
// process-wide directory.
type Sink struct {
	dir string
	now func() time.Time
}

// NewSink creates a sink writing into dir. An empty dir falls back to
// DefaultDir relative to the working directory.
func NewSink(dir string) *Sink {
	if dir == "" {
		dir = DefaultDir
	}
	return &Sink{dir: dir, now: time.Now}
}

// Dir returns the output directory path.
func (s *Sink) Dir() string {
	return s.dir
}

// Ensure creates the output directory if it does not exist yet.
func (s *Sink) Ensure() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}
	return nil
}

// Filename builds "<YYYYMMDD_HHMMSS>_<prefix>[_<qualifier>...].<ext>".
// Qualifiers keep their given order and are sanitized for path-hostile
// characters; empty qualifiers are dropped. Timestamps have second
// resolution, so two sessions finishing within the same second collide.
// That risk is accepted for this tool's batch usage.
func (s *Sink) Filename(prefix string, qualifiers []string, ext string) string {
	parts := []string{s.now().Format("20060102_150405"), prefix}
	for _, q := range qualifiers {
		if q == "" {
			continue
		}
		parts = append(parts, SanitizeQualifier(q))
	}
	return strings.Join(parts, "_") + "." + ext
}

// Write stores a whole document under filename inside the sink directory
// and returns the full path.
func (s *Sink) Write(filename, content string) (string, error) {
	if err := s.Ensure(); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}

// SanitizeQualifier replaces the filename-hostile sequences found in model
// identifiers ("::" separators and path slashes) with underscores.
func SanitizeQualifier(q string) string {
	q = strings.ReplaceAll(q, "::", "_")
	q = strings.ReplaceAll(q, "/", "_")
	return q
}
