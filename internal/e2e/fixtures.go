package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauern/styleimport/internal/model"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// StyleSpec describes a style record written by WriteStyles.
type StyleSpec struct {
	Name     string
	Sections []string
	// Extra holds additional top-level keys.
	Extra map[string]any
}

// WriteStyles writes a JSON style list to relPath.
func (f *Fixture) WriteStyles(relPath string, styles ...StyleSpec) string {
	f.t.Helper()

	records := make([]map[string]any, 0, len(styles))
	for _, s := range styles {
		sections := make([]map[string]string, 0, len(s.Sections))
		for _, code := range s.Sections {
			sections = append(sections, map[string]string{"code": code})
		}
		rec := map[string]any{"name": s.Name, "sections": sections}
		for k, v := range s.Extra {
			rec[k] = v
		}
		records = append(records, rec)
	}

	// Exports from the styling application do not escape HTML characters.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		f.t.Fatalf("failed to encode styles: %v", err)
	}
	return f.WriteFile(relPath, buf.String())
}

// MkdirAll creates a directory and all parent directories relative to the base.
func (f *Fixture) MkdirAll(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	if err := os.MkdirAll(fullPath, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Stat(filepath.Join(f.baseDir, relPath))
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}

// Files returns the sorted names of regular files directly inside relDir.
func (f *Fixture) Files(relDir string) []string {
	f.t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.baseDir, relDir))
	if err != nil {
		f.t.Fatalf("failed to read directory %s: %v", relDir, err)
	}
	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// StandardProject lays out a styles directory and a master list with the
// given master styles, writing each one's CSS file.
func (h *Harness) StandardProject(master ...StyleSpec) *Fixture {
	h.t.Helper()
	p := h.Project()
	p.MkdirAll("styles")
	p.WriteStyles("style-pack.json", master...)
	for _, s := range master {
		css := ""
		for _, code := range s.Sections {
			css += code
		}
		p.WriteFile(filepath.Join("styles", model.FileName(s.Name)), css)
	}
	return p
}
