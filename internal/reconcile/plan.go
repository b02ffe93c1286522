package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/klauern/styleimport/internal/logging"
	"github.com/klauern/styleimport/internal/model"
)

// Prompt is a yes/no question about one entry.
type Prompt struct {
	Kind     Kind
	Pretext  string
	Name     string
	Question string
	// Hunks previews the CSS change for KindChange prompts.
	Hunks []Hunk
}

// Confirmer answers prompts. Implementations return true only for an
// explicit yes.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// NewPrompt returns the question asked for an entry of the given kind.
func NewPrompt(kind Kind, name string) Prompt {
	p := Prompt{Kind: kind, Name: name}
	switch kind {
	case KindAdd:
		p.Pretext, p.Question = "Found a new style:", "Import it to the master list?"
	case KindRemove:
		p.Pretext, p.Question = "Missing style from source list:", "Delete also from the master list?"
	case KindChange:
		p.Pretext, p.Question = "Found change in style:", "Replace the master style with these?"
	}
	return p
}

// Decision records the outcome for one entry.
type Decision struct {
	Entry    Entry
	Kind     Kind
	Accepted bool
}

// Retained returns the record this decision keeps in the master list, or nil
// when the entry is dropped.
func (d Decision) Retained() *model.Style {
	switch d.Kind {
	case KindAdd:
		if d.Accepted {
			return d.Entry.Source
		}
		return nil
	case KindChange:
		if d.Accepted {
			return d.Entry.Source
		}
		return d.Entry.Target
	case KindRemove:
		if d.Accepted {
			return nil
		}
		return d.Entry.Target
	default:
		return d.Entry.Target
	}
}

// Plan classifies every entry and asks c about each one that differs, in
// order. No-op entries are decided without prompting. A nil logger falls
// back to the one carried by ctx.
func Plan(ctx context.Context, entries []Entry, c Confirmer, logger *slog.Logger) ([]Decision, error) {
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	decisions := make([]Decision, 0, len(entries))
	for _, e := range entries {
		kind := e.Kind()
		d := Decision{Entry: e, Kind: kind}
		if kind == KindNoop {
			decisions = append(decisions, d)
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := NewPrompt(kind, e.Name)
		if kind == KindChange {
			p.Hunks = Diff(e.Target.Code(), e.Source.Code())
		}

		ok, err := c.Confirm(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("confirm %s of %q: %w", kind, e.Name, err)
		}
		d.Accepted = ok
		logDecision(ctx, logger, d)
		decisions = append(decisions, d)
	}
	return decisions, nil
}

func logDecision(ctx context.Context, logger *slog.Logger, d Decision) {
	var msg string
	switch {
	case d.Kind == KindAdd && d.Accepted:
		msg = "Added new style"
	case d.Kind == KindAdd:
		msg = "Skipped new style"
	case d.Kind == KindChange && d.Accepted:
		msg = "Replaced master style"
	case d.Kind == KindChange:
		msg = "Kept master style"
	case d.Kind == KindRemove && d.Accepted:
		msg = "Removed style from master list"
	default:
		msg = "Kept style missing from source"
	}
	logger.DebugContext(ctx, msg, logging.Style(d.Entry.Name), logging.Kind(string(d.Kind)))
}

// ChangeLog lists the accepted names per change kind.
type ChangeLog struct {
	Add    []string
	Change []string
	Remove []string
}

// Empty reports whether nothing was accepted.
func (c ChangeLog) Empty() bool {
	return len(c.Add) == 0 && len(c.Change) == 0 && len(c.Remove) == 0
}

// Result is the outcome of applying a plan.
type Result struct {
	// Master is the new master list in merged order.
	Master []*model.Style
	// Changes are the accepted changes.
	Changes ChangeLog
	// Skipped counts declined prompts.
	Skipped int
}

// Apply builds the master list and change log from decisions. A declined
// addition is dropped while a declined removal keeps the master record.
func Apply(decisions []Decision) Result {
	var r Result
	r.Master = make([]*model.Style, 0, len(decisions))
	for _, d := range decisions {
		if s := d.Retained(); s != nil {
			r.Master = append(r.Master, s)
		}
		if d.Kind == KindNoop {
			continue
		}
		if !d.Accepted {
			r.Skipped++
			continue
		}
		switch d.Kind {
		case KindAdd:
			r.Changes.Add = append(r.Changes.Add, d.Entry.Name)
		case KindChange:
			r.Changes.Change = append(r.Changes.Change, d.Entry.Name)
		case KindRemove:
			r.Changes.Remove = append(r.Changes.Remove, d.Entry.Name)
		}
	}
	return r
}
