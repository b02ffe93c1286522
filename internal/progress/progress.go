// Package progress provides progress indicators for long-running operations.
package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/klauern/styleimport/internal/logging"
	"github.com/klauern/styleimport/internal/ui"
)

// Bar wraps progressbar and falls back to debug logging when no terminal is
// attached.
type Bar struct {
	bar    *progressbar.ProgressBar
	desc   string
	logger *slog.Logger
}

// Options configures the progress bar behavior.
type Options struct {
	// Max is the total number of steps.
	Max int
	// Description is the prefix text shown before the bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
	// Logger receives start and finish lines when the bar is hidden.
	Logger *slog.Logger
	// Disabled hides the bar regardless of the terminal.
	Disabled bool
}

// New creates a progress bar. The bar is drawn only when Writer is a
// terminal, colors are enabled and the logger is not at debug level.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	b := &Bar{desc: opts.Description, logger: opts.Logger}
	if opts.Disabled || !shouldShowProgress(opts.Writer, opts.Logger) {
		opts.Logger.Debug(fmt.Sprintf("%s started", opts.Description), logging.Count(opts.Max))
		return b
	}

	b.bar = progressbar.NewOptions(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
	return b
}

// Visible reports whether the bar is drawn.
func (b *Bar) Visible() bool {
	return b.bar != nil
}

// Add advances the bar by n steps.
func (b *Bar) Add(n int) error {
	if b.bar == nil {
		return nil
	}
	return b.bar.Add(n)
}

// Finish completes the bar.
func (b *Bar) Finish() error {
	if b.bar == nil {
		b.logger.Debug(fmt.Sprintf("%s completed", b.desc))
		return nil
	}
	return b.bar.Finish()
}

func shouldShowProgress(w io.Writer, logger *slog.Logger) bool {
	if !ui.IsColorEnabled() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok || !ui.IsTerminal(f) {
		return false
	}
	// Debug lines would interleave with the bar.
	return !logger.Enabled(context.Background(), logging.LevelDebug)
}
