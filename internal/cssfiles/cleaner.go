package cssfiles

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/klauern/styleimport/internal/logging"
	"github.com/klauern/styleimport/internal/model"
	"github.com/klauern/styleimport/internal/ui"
)

// Cleaner removes files from the styles directory that no retained style owns.
type Cleaner struct {
	Dir string
	// Keep holds glob patterns of file names that are never removed.
	Keep   []string
	Out    io.Writer
	Logger *slog.Logger
}

// Clean deletes every file directly inside Dir whose name is not the file
// name of one of styles, and returns the removed names. Sub-directories and
// links to directories are left alone. A link to a file, or a dangling link,
// counts as a file and the link itself is removed.
func (c Cleaner) Clean(styles []*model.Style) ([]string, error) {
	logger := c.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	out := c.Out
	if out == nil {
		out = io.Discard
	}

	for _, pattern := range c.Keep {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid keep pattern %q", pattern)
		}
	}

	accepted := make(map[string]bool, len(styles))
	for _, s := range styles {
		accepted[s.FileName()] = true
	}

	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.Dir, err)
	}

	var removed []string
	for _, e := range entries {
		if c.isDir(e) {
			continue
		}
		name := e.Name()
		if accepted[name] || c.kept(name) {
			continue
		}
		fmt.Fprintf(out, "%s not in list of master styles. Removing...\n", ui.Warning(name))
		if err := os.Remove(filepath.Join(c.Dir, name)); err != nil {
			logger.Debug("Failed to remove stale CSS file", logging.File(name), logging.Err(err))
			return removed, fmt.Errorf("remove stale css %s: %w", name, err)
		}
		logger.Debug("Removed stale CSS file", logging.File(name))
		removed = append(removed, name)
	}

	if len(removed) > 0 {
		logger.Debug("Total CSS files removed",
			logging.Count(len(removed)),
			slog.String("files", strings.Join(removed, ", ")))
	}
	return removed, nil
}

func (c Cleaner) isDir(e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(c.Dir, e.Name()))
	return err == nil && info.IsDir()
}

func (c Cleaner) kept(name string) bool {
	for _, pattern := range c.Keep {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
