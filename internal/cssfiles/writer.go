// Package cssfiles maintains the per-style CSS files kept next to the master
// style pack.
package cssfiles

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauern/styleimport/internal/logging"
	"github.com/klauern/styleimport/internal/model"
	"github.com/klauern/styleimport/internal/progress"
)

// filePerm is the mode for newly created CSS files.
const filePerm = 0o644

// Writer writes the concatenated code of each style to its CSS file.
type Writer struct {
	Dir    string
	Logger *slog.Logger
	// Progress draws a progress bar when Out is a terminal.
	Progress bool
	// Out receives the progress bar; defaults to os.Stderr.
	Out io.Writer
}

// WriteAll creates or truncates one file per style and returns the file names
// written, in order.
func (w Writer) WriteAll(styles []*model.Style) ([]string, error) {
	logger := w.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	bar := progress.New(progress.Options{
		Max:         len(styles),
		Description: "Writing CSS",
		Writer:      w.Out,
		Logger:      logger,
		Disabled:    !w.Progress,
	})

	written := make([]string, 0, len(styles))
	for _, s := range styles {
		name := s.FileName()
		path := filepath.Join(w.Dir, name)
		if err := os.WriteFile(path, []byte(s.Code()), filePerm); err != nil {
			logger.Debug("Failed to write CSS file", logging.Style(s.Name), logging.File(name), logging.Err(err))
			return written, fmt.Errorf("write css for %q: %w", s.Name, err)
		}
		logger.Debug("Wrote CSS file", logging.Style(s.Name), logging.File(name))
		written = append(written, name)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return written, nil
}
