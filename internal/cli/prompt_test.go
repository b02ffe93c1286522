package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klauern/styleimport/internal/reconcile"
	"github.com/klauern/styleimport/internal/util"
)

func TestTerminalPrompterConfirm(t *testing.T) {
	tests := map[string]struct {
		input string
		want  bool
	}{
		"lower y":          {input: "y\n", want: true},
		"upper Y":          {input: "Y\n", want: true},
		"padded":           {input: "  y \t\n", want: true},
		"no trailing line": {input: "y", want: true},
		"yes is not y":     {input: "yes\n", want: false},
		"n":                {input: "n\n", want: false},
		"empty line":       {input: "\n", want: false},
		"windows newline":  {input: "y\r\n", want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewTerminalPrompter(strings.NewReader(tt.input), &out, false)

			got, err := p.Confirm(context.Background(), reconcile.NewPrompt(reconcile.KindAdd, "Solar Flare"))
			util.AssertNoError(t, err)
			util.AssertEqual(t, got, tt.want)
		})
	}
}

func TestTerminalPrompterFormat(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPrompter(strings.NewReader("n\n"), &out, false)

	_, err := p.Confirm(context.Background(), reconcile.NewPrompt(reconcile.KindRemove, "Old Theme"))
	util.AssertNoError(t, err)

	want := "--------------------\n" +
		"Missing style from source list: Old Theme - Delete also from the master list? (y/n)"
	util.AssertEqual(t, out.String(), want)
}

func TestTerminalPrompterDiffPreview(t *testing.T) {
	pr := reconcile.NewPrompt(reconcile.KindChange, "B")
	pr.Hunks = reconcile.Diff("a\nb\nc", "a\nB\nc")

	tests := map[string]struct {
		showDiff bool
		want     []string
		notWant  []string
	}{
		"diff enabled": {
			showDiff: true,
			want:     []string{"+1 -1", "@@ -2,1 +2,1 @@", "-b", "+B"},
		},
		"diff disabled": {
			showDiff: false,
			notWant:  []string{"@@"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewTerminalPrompter(strings.NewReader("y\n"), &out, tt.showDiff)

			ok, err := p.Confirm(context.Background(), pr)
			util.AssertNoError(t, err)
			if !ok {
				t.Fatal("expected yes")
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("output should not contain %q:\n%s", w, out.String())
				}
			}
			if !strings.HasSuffix(out.String(), "Replace the master style with these? (y/n)") {
				t.Errorf("question should come last:\n%s", out.String())
			}
		})
	}
}

func TestTerminalPrompterClosedInput(t *testing.T) {
	p := NewTerminalPrompter(strings.NewReader(""), &bytes.Buffer{}, false)

	_, err := p.Confirm(context.Background(), reconcile.NewPrompt(reconcile.KindAdd, "A"))
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("Confirm() error = %v, want ErrNoInput", err)
	}
}

func TestTerminalPrompterConfirmChanges(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPrompter(strings.NewReader("Y\n"), &out, false)

	ok, err := p.ConfirmChanges(context.Background(), "Confirm the style changes:\nadd: \n")
	util.AssertNoError(t, err)
	if !ok {
		t.Error("expected approval")
	}
	util.AssertEqual(t, out.String(), "Confirm the style changes:\nadd: \nLook good? (y/n)")
}

func TestTerminalPrompterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	p := NewTerminalPrompter(strings.NewReader("y\n"), &out, false)

	if _, err := p.Confirm(ctx, reconcile.NewPrompt(reconcile.KindAdd, "A")); !errors.Is(err, context.Canceled) {
		t.Fatalf("Confirm() error = %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Error("nothing should be printed after cancellation")
	}
}
