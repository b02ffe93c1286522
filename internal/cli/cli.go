// Package cli provides the command-line interface for styleimport.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/styleimport/internal/config"
	"github.com/klauern/styleimport/internal/importer"
	"github.com/klauern/styleimport/internal/logging"
	"github.com/klauern/styleimport/internal/stylepack"
	"github.com/klauern/styleimport/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Streams are the terminal streams the CLI reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run executes the CLI application against the process streams.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, StdStreams())
}

// app holds state shared between the Before hook and the actions.
type app struct {
	streams Streams
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
}

// Execute runs the CLI with explicit streams.
func Execute(ctx context.Context, args []string, streams Streams) error {
	a := &app{streams: streams}

	root := &cli.Command{
		Name:      "styleimport",
		Usage:     "Import a style export into the master style pack",
		ArgsUsage: "<source.json>",
		Version:   Version,
		Reader:    streams.In,
		Writer:    streams.Out,
		ErrWriter: streams.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "styles-dir",
				Usage: "Directory holding one CSS file per style",
			},
			&cli.StringFlag{
				Name:  "master",
				Usage: "Path of the master style pack JSON file",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML or TOML config file",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show the change summary without writing anything",
			},
			&cli.BoolFlag{
				Name:  "no-diff",
				Usage: "Do not preview CSS changes before change prompts",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := a.loadConfig(cmd); err != nil {
				return ctx, err
			}
			a.configureColors(cmd)
			a.configureLogging(cmd)
			return logging.NewContext(ctx, a.logger), nil
		},
		Action: a.importAction,
		Commands: []*cli.Command{
			versionCommand(),
			a.configCommand(),
		},
	}
	return root.Run(ctx, args)
}

// loadConfig resolves configuration from --config or the working directory
// and applies flag overrides.
func (a *app) loadConfig(cmd *cli.Command) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if p := cmd.String("config"); p != "" {
		cfg, err = config.LoadFromPath(p)
		path = p
	} else {
		cfg, path, err = config.Load(".")
	}
	if err != nil {
		return err
	}

	if cmd.IsSet("styles-dir") {
		cfg.StylesDir = cmd.String("styles-dir")
	}
	if cmd.IsSet("master") {
		cfg.MasterFile = cmd.String("master")
	}
	if cmd.Bool("no-diff") {
		cfg.Output.ShowDiff = false
	}
	if cmd.Bool("no-color") {
		cfg.Output.Color = ui.ColorNever
	}

	a.cfg = cfg
	a.cfgPath = path
	return nil
}

// configureColors sets up color output from config and flags.
func (a *app) configureColors(_ *cli.Command) {
	out, _ := a.streams.Out.(*os.File)
	ui.ConfigureColors(a.cfg.Output.Color, out)
}

// configureLogging sets up the logging level based on CLI flags.
func (a *app) configureLogging(cmd *cli.Command) {
	opts := logging.DefaultOptions()
	opts.Output = a.streams.Err

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	a.logger = logging.New(opts)
	logging.SetDefault(a.logger)

	a.logger.Debug("logging configured", slog.String("level", opts.Level.String()))
	if a.cfgPath != "" {
		a.logger.Debug("loaded config", logging.Path(a.cfgPath))
	}
}

func (a *app) importAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one argument, the source JSON file (got %d)", cmd.Args().Len())
	}

	// The logger travels in ctx from the Before hook.
	report, err := importer.Run(ctx, importer.Options{
		Paths: stylepack.Paths{
			Source:    cmd.Args().First(),
			Master:    a.cfg.MasterFile,
			StylesDir: a.cfg.StylesDir,
		},
		Config:      a.cfg,
		Prompter:    NewTerminalPrompter(a.streams.In, a.streams.Out, a.cfg.Output.ShowDiff),
		Out:         a.streams.Out,
		ProgressOut: a.streams.Err,
		DryRun:      cmd.Bool("dry-run"),
	})
	if err != nil {
		if errors.Is(err, importer.ErrAborted) {
			// The prompt line is still open.
			fmt.Fprintln(a.streams.Out)
		}
		return err
	}

	if report.DryRun {
		fmt.Fprintln(a.streams.Out, ui.StatusSkipped("Dry run, nothing written"))
		return nil
	}
	fmt.Fprintln(a.streams.Out)
	fmt.Fprint(a.streams.Out, ui.RenderReport("Import complete", report.Tallies()))
	return nil
}

func (a *app) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Action: func(_ context.Context, _ *cli.Command) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			if a.cfgPath != "" {
				fmt.Fprintf(a.streams.Out, "# %s\n", a.cfgPath)
			}
			fmt.Fprint(a.streams.Out, out)
			return nil
		},
	}
}
