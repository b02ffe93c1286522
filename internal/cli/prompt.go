package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauern/styleimport/internal/reconcile"
	"github.com/klauern/styleimport/internal/ui"
)

// ErrNoInput is returned when stdin closes before an answer is given.
var ErrNoInput = errors.New("no answer: input closed")

const (
	separatorWidth = 20
	// maxPreviewLines limits the diff shown before a change prompt.
	maxPreviewLines = 20
)

// TerminalPrompter asks yes/no questions on a line-based terminal.
type TerminalPrompter struct {
	reader   *bufio.Reader
	out      io.Writer
	showDiff bool
}

// NewTerminalPrompter creates a prompter reading answers from in.
func NewTerminalPrompter(in io.Reader, out io.Writer, showDiff bool) *TerminalPrompter {
	return &TerminalPrompter{
		reader:   bufio.NewReader(in),
		out:      out,
		showDiff: showDiff,
	}
}

// Confirm prints the separator, an optional diff preview and the question
// line, then reads one answer.
func (p *TerminalPrompter) Confirm(ctx context.Context, pr reconcile.Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintln(p.out, strings.Repeat("-", separatorWidth))
	if p.showDiff && len(pr.Hunks) > 0 {
		p.showDiffPreview(pr.Hunks)
	}
	fmt.Fprintf(p.out, "%s %s - %s (y/n)", pr.Pretext, ui.Highlight(pr.Name), ui.Question(pr.Question))
	return p.readYes()
}

// ConfirmChanges prints the change summary and asks for final approval.
func (p *TerminalPrompter) ConfirmChanges(ctx context.Context, summary string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s%s (y/n)", summary, ui.Question("Look good?"))
	return p.readYes()
}

// readYes reads one line; only "y" in any case, surrounded by any whitespace,
// is a yes.
func (p *TerminalPrompter) readYes() (bool, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			return false, ErrNoInput
		}
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y", nil
}

func (p *TerminalPrompter) showDiffPreview(hunks []reconcile.Hunk) {
	added, removed := reconcile.DiffStats(hunks)
	fmt.Fprintf(p.out, "%s %s\n", ui.Added(fmt.Sprintf("+%d", added)), ui.Removed(fmt.Sprintf("-%d", removed)))

	shown := 0
	for _, h := range hunks {
		if shown >= maxPreviewLines {
			fmt.Fprintln(p.out, ui.Dim("... (truncated)"))
			return
		}
		fmt.Fprintln(p.out, ui.Dim(h.Header()))
		for _, l := range h.Lines {
			if shown >= maxPreviewLines {
				fmt.Fprintln(p.out, ui.Dim("... (truncated)"))
				return
			}
			switch l.Op {
			case reconcile.LineAdded:
				fmt.Fprintln(p.out, ui.Added(l.String()))
			case reconcile.LineRemoved:
				fmt.Fprintln(p.out, ui.Removed(l.String()))
			default:
				fmt.Fprintln(p.out, l.String())
			}
			shown++
		}
	}
}
