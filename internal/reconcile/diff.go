package reconcile

import (
	"fmt"
	"strings"
)

// maxDiffCells bounds the LCS table; larger inputs collapse into one hunk.
const maxDiffCells = 4_000_000

// LineOp indicates the type of a diff line.
type LineOp string

const (
	// LineContext is an unchanged line.
	LineContext LineOp = " "
	// LineAdded is a line only present in the incoming style.
	LineAdded LineOp = "+"
	// LineRemoved is a line only present in the master style.
	LineRemoved LineOp = "-"
)

// Line is a single line of a diff.
type Line struct {
	Op   LineOp
	Text string
}

// String returns the line with its diff prefix.
func (l Line) String() string {
	return string(l.Op) + l.Text
}

// Hunk is a contiguous block of changes.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Header returns the unified-diff style range header.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// DiffStats counts added and removed lines across hunks.
func DiffStats(hunks []Hunk) (added, removed int) {
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Op {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return added, removed
}

// Diff computes line hunks turning from into to. Common leading and trailing
// lines are skipped before the LCS pass.
func Diff(from, to string) []Hunk {
	if from == to {
		return nil
	}
	a := strings.Split(from, "\n")
	b := strings.Split(to, "\n")

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	a = a[prefix : len(a)-suffix]
	b = b[prefix : len(b)-suffix]

	if len(a)*len(b) > maxDiffCells {
		return []Hunk{wholeHunk(a, b, prefix)}
	}

	hunks := lcsHunks(a, b)
	for i := range hunks {
		hunks[i].OldStart += prefix
		hunks[i].NewStart += prefix
	}
	return hunks
}

func wholeHunk(a, b []string, offset int) Hunk {
	h := Hunk{
		OldStart: offset + 1, OldCount: len(a),
		NewStart: offset + 1, NewCount: len(b),
	}
	for _, l := range a {
		h.Lines = append(h.Lines, Line{Op: LineRemoved, Text: l})
	}
	for _, l := range b {
		h.Lines = append(h.Lines, Line{Op: LineAdded, Text: l})
	}
	return h
}

// lcsHunks walks both sides along their longest common subsequence, opening a
// hunk at the first differing line and closing it with one context line.
func lcsHunks(a, b []string) []Hunk {
	lcs := longestCommonSubsequence(a, b)

	var hunks []Hunk
	var cur *Hunk
	i, j, k := 0, 0, 0

	for i < len(a) || j < len(b) {
		common := k < len(lcs) && i < len(a) && j < len(b) &&
			a[i] == lcs[k] && b[j] == lcs[k]

		if common {
			if cur != nil {
				cur.Lines = append(cur.Lines, Line{Op: LineContext, Text: a[i]})
				hunks = append(hunks, *cur)
				cur = nil
			}
			i++
			j++
			k++
			continue
		}

		if cur == nil {
			cur = &Hunk{OldStart: i + 1, NewStart: j + 1}
		}
		if i < len(a) && (k >= len(lcs) || a[i] != lcs[k]) {
			cur.Lines = append(cur.Lines, Line{Op: LineRemoved, Text: a[i]})
			cur.OldCount++
			i++
		}
		if j < len(b) && (k >= len(lcs) || b[j] != lcs[k]) {
			cur.Lines = append(cur.Lines, Line{Op: LineAdded, Text: b[j]})
			cur.NewCount++
			j++
		}
	}

	if cur != nil {
		hunks = append(hunks, *cur)
	}
	return hunks
}

func longestCommonSubsequence(a, b []string) []string {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return nil
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	lcs := make([]string, dp[m][n])
	i, j, idx := m, n, dp[m][n]-1
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			lcs[idx] = a[i-1]
			i--
			j--
			idx--
		case dp[i-1][j] > dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	return lcs
}
