package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// Title renders a section heading, plain when colors are disabled.
func Title(s string) string {
	if !IsColorEnabled() {
		return s
	}
	return titleStyle.Render(s)
}

// Group is a labelled list of style names.
type Group struct {
	Label string
	Names []string
}

// RenderChangeList renders the summary shown before the final confirmation.
// Each group is printed as "label: " followed by one "\t- name" line per entry.
func RenderChangeList(heading string, groups []Group) string {
	var sb strings.Builder
	sb.WriteString(Title(heading))
	sb.WriteString("\n")
	for _, g := range groups {
		sb.WriteString(Highlight(g.Label))
		sb.WriteString(": \n")
		for _, name := range g.Names {
			sb.WriteString("\t- ")
			sb.WriteString(name)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Tally is a labelled count shown in the final report.
type Tally struct {
	Label string
	Count int
}

// RenderReport renders aligned, title-cased counts under heading.
func RenderReport(heading string, tallies []Tally) string {
	caser := cases.Title(language.English)

	width := 0
	labels := make([]string, len(tallies))
	for i, t := range tallies {
		labels[i] = caser.String(t.Label) + ":"
		width = max(width, len(labels[i]))
	}

	var sb strings.Builder
	sb.WriteString(StatusSuccess(heading))
	sb.WriteString("\n")
	for i, t := range tallies {
		fmt.Fprintf(&sb, "  %-*s %d\n", width, labels[i], t.Count)
	}
	return sb.String()
}
