// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/overflow-checker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxViolationsToShow is the default number of violations to display per slide in verbose mode
	maxViolationsToShow = 5
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSummary outputs the final console summary of a collection run: either
// the all-clear message or per-slide violation listings with resolved files.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(summary *types.OverflowSummary) {
	if summary == nil {
		return
	}

	if summary.TotalViolations == 0 {
		fmt.Fprintln(p.out, "✅ No overflow issues detected! All slides fit within bounds.")
		return
	}

	fmt.Fprintln(p.out, "📋 Summary:")
	fmt.Fprintf(p.out, "   Total slides: %d\n", summary.TotalSlides)
	fmt.Fprintf(p.out, "   Slides with issues: %d\n", summary.SlidesWithIssues)
	fmt.Fprintf(p.out, "   Total violations: %d\n", summary.TotalViolations)

	for _, r := range summary.Reports {
		if len(r.Violations) == 0 {
			continue
		}
		// Slide numbers are 1-based for the operator.
		fmt.Fprintf(p.out, "\n🚨 Slide %d: %s\n", r.SlideIndex+1, r.SlideTitle)
		for _, v := range r.Violations {
			fmt.Fprintf(p.out, "   - [%s] %s\n", v.Type, v.Message)
		}
		if r.SlideFile != "" {
			fmt.Fprintf(p.out, "   File: %s\n", r.SlideFile)
		}
	}
}

// PrintSlideDetail outputs a boxed breakdown of one slide's violations and
// fix suggestions. Used in verbose mode.
func (p *Printer) PrintSlideDetail(r *types.SlideReport) {
	if r == nil || len(r.Violations) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Violations: %d\n", len(r.Violations)))
	if r.AIEditorNotes != nil {
		sb.WriteString(fmt.Sprintf("Priority:   %s\n", r.AIEditorNotes.HighestPriority))
	}
	sb.WriteString("\n")

	count := min(len(r.Violations), maxViolationsToShow)
	for i := 0; i < count; i++ {
		v := r.Violations[i]
		msg := v.Message
		if len(msg) > 45 {
			msg = msg[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", v.Type))
		sb.WriteString(fmt.Sprintf("  %s\n", msg))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(r.Violations) > maxViolationsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more violations", len(r.Violations)-maxViolationsToShow))
	}

	if r.AIEditorNotes != nil && r.AIEditorNotes.RecommendedAction != "" {
		action := r.AIEditorNotes.RecommendedAction
		if len(action) > 45 {
			action = action[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("\n\nRecommended: %s", action))
	}

	p.printBox(fmt.Sprintf("SLIDE %d: %s", r.SlideIndex+1, r.SlideTitle), sb.String())
}
