// Package e2e provides testing infrastructure for end-to-end CLI tests.
// A harness owns a temporary project directory laid out the way the
// importer expects and runs the CLI inside it with scripted stdin.
package e2e

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klauern/styleimport/internal/cli"
	"github.com/klauern/styleimport/internal/importer"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Stderr contains the captured standard error, including log lines.
	Stderr string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode mirrors what main would exit with.
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Aborted reports whether the operator rejected the change summary.
func (r *Result) Aborted() bool {
	return errors.Is(r.Err, importer.ErrAborted)
}

// Harness provides a test harness for running E2E CLI tests.
type Harness struct {
	t          *testing.T
	projectDir string
}

// NewHarness creates a harness rooted in a fresh temp directory and changes
// the working directory into it for the rest of the test.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	// Keep the developer's environment out of the run.
	for _, key := range []string{
		"STYLEIMPORT_STYLES_DIR",
		"STYLEIMPORT_MASTER_FILE",
		"STYLEIMPORT_ENABLED_STYLES",
		"STYLEIMPORT_INDENT",
		"STYLEIMPORT_OUTPUT_COLOR",
		"STYLEIMPORT_SHOW_DIFF",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("NO_COLOR", "1")

	return &Harness{t: t, projectDir: dir}
}

// SetEnv sets an environment variable for CLI commands run through this harness.
// The environment will be restored after the test completes.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.t.Setenv(key, value)
}

// ProjectDir returns the working directory commands run in.
func (h *Harness) ProjectDir() string {
	return h.projectDir
}

// Project returns a fixture rooted at the project directory.
func (h *Harness) Project() *Fixture {
	return NewFixture(h.t, h.projectDir)
}

// Run executes a CLI command with empty stdin.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()
	return h.RunWithStdin("", args...)
}

// RunWithStdin executes a CLI command feeding stdin line by line as the
// operator's answers.
func (h *Harness) RunWithStdin(stdin string, args ...string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "styleimport" {
		args = append([]string{"styleimport"}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmdErr := cli.Execute(context.Background(), args, cli.Streams{
		In:  strings.NewReader(stdin),
		Out: &stdout,
		Err: &stderr,
	})

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}

// Answers joins operator answers into stdin input, one per line.
func Answers(answers ...string) string {
	if len(answers) == 0 {
		return ""
	}
	return strings.Join(answers, "\n") + "\n"
}
