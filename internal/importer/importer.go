// Package importer runs one import of a source style export into the master
// style pack and its CSS directory.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/klauern/styleimport/internal/config"
	"github.com/klauern/styleimport/internal/cssfiles"
	"github.com/klauern/styleimport/internal/logging"
	"github.com/klauern/styleimport/internal/reconcile"
	"github.com/klauern/styleimport/internal/stylepack"
	"github.com/klauern/styleimport/internal/ui"
)

// ErrAborted is returned when the operator rejects the change summary.
var ErrAborted = errors.New("changes not accepted")

// SummaryHeading opens the change summary shown at the final confirmation.
const SummaryHeading = "Confirm the style changes:"

// Prompter asks the operator about single entries and about the whole change
// set before anything is written.
type Prompter interface {
	reconcile.Confirmer
	ConfirmChanges(ctx context.Context, summary string) (bool, error)
}

// Options configures a run.
type Options struct {
	Paths    stylepack.Paths
	Config   *config.Config
	Prompter Prompter
	// Logger defaults to the logger carried by the context.
	Logger *slog.Logger
	// Out receives the summary in dry-run mode and stale-file notices.
	Out io.Writer
	// ProgressOut receives the CSS progress bar; defaults to os.Stderr.
	ProgressOut io.Writer
	// Now is the clock used for timestamps; defaults to time.Now.
	Now func() time.Time
	// DryRun stops after printing the summary.
	DryRun bool
}

// Report describes what a run did.
type Report struct {
	Changes reconcile.ChangeLog
	Skipped int
	Styles  int
	Written []string
	Removed []string
	DryRun  bool
}

// Tallies returns the report counts in display order.
func (r *Report) Tallies() []ui.Tally {
	return []ui.Tally{
		{Label: "added", Count: len(r.Changes.Add)},
		{Label: "changed", Count: len(r.Changes.Change)},
		{Label: "removed", Count: len(r.Changes.Remove)},
		{Label: "skipped", Count: r.Skipped},
		{Label: "css written", Count: len(r.Written)},
		{Label: "css removed", Count: len(r.Removed)},
	}
}

// Groups returns the change log as labelled groups for the summary.
func Groups(c reconcile.ChangeLog) []ui.Group {
	return []ui.Group{
		{Label: string(reconcile.KindAdd), Names: c.Add},
		{Label: string(reconcile.KindChange), Names: c.Change},
		{Label: string(reconcile.KindRemove), Names: c.Remove},
	}
}

// Run reconciles the source export with the master list, asks for final
// confirmation and then rewrites the CSS files and the master file. Nothing
// is written before the confirmation.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Prompter == nil {
		return nil, errors.New("importer: no prompter configured")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	if err := opts.Paths.Check(); err != nil {
		return nil, err
	}
	source, err := stylepack.Load(opts.Paths.Source)
	if err != nil {
		return nil, err
	}
	master, err := stylepack.Load(opts.Paths.Master)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded style lists",
		slog.Int("source", len(source)), slog.Int("master", len(master)))

	decisions, err := reconcile.Plan(ctx, reconcile.Merge(source, master), opts.Prompter, logger)
	if err != nil {
		return nil, err
	}
	result := reconcile.Apply(decisions)
	logger.Debug("Style import process completed.")

	report := &Report{
		Changes: result.Changes,
		Skipped: result.Skipped,
		Styles:  len(result.Master),
		DryRun:  opts.DryRun,
	}

	summary := ui.RenderChangeList(SummaryHeading, Groups(result.Changes))
	if opts.DryRun {
		fmt.Fprint(out, summary)
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ok, err := opts.Prompter.ConfirmChanges(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("confirm changes: %w", err)
	}
	if !ok {
		logger.Debug("Changes not accepted. Stopping instance.")
		return report, ErrAborted
	}

	failed := func(op string, err error) (*Report, error) {
		logger.Debug("Import stage failed", logging.Operation(op), logging.Err(err))
		return report, err
	}

	logger.Debug("Beginning CSS breakout process",
		logging.Operation("write"), logging.Path(opts.Paths.StylesDir))
	report.Written, err = cssfiles.Writer{
		Dir:      opts.Paths.StylesDir,
		Logger:   logger,
		Progress: cfg.Output.Progress,
		Out:      opts.ProgressOut,
	}.WriteAll(result.Master)
	if err != nil {
		return failed("write", err)
	}

	logger.Debug("Cleaning stale styles from CSS folder", logging.Operation("clean"))
	report.Removed, err = cssfiles.Cleaner{
		Dir:    opts.Paths.StylesDir,
		Keep:   cfg.Cleanup.Keep,
		Out:    out,
		Logger: logger,
	}.Clean(result.Master)
	if err != nil {
		return failed("clean", err)
	}

	logger.Debug("Cleaning JSON file of metadata and updating timestamps", logging.Operation("normalize"))
	normalized, err := stylepack.Normalizer{Enabled: cfg.IsEnabledStyle, Now: opts.Now}.Normalize(result.Master)
	if err != nil {
		return failed("normalize", err)
	}

	if err := stylepack.Save(opts.Paths.Master, normalized, cfg.Indent); err != nil {
		return failed("save", fmt.Errorf("write master list: %w", err))
	}
	logger.Debug("Wrote master list", logging.Operation("save"),
		logging.Path(opts.Paths.Master), logging.Count(len(normalized)))
	return report, nil
}
