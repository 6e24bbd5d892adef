// Package enhance transforms raw overflow summaries into remediation-ready reports.
package enhance

import (
	"github.com/jonathan/overflow-checker/internal/resolver"
	"github.com/jonathan/overflow-checker/internal/suggest"
	"github.com/jonathan/overflow-checker/internal/types"
)

// UnknownSlideFile marks a slide whose source file could not be resolved.
const UnknownSlideFile = "Unknown - check src/pages/slides/"

// maxAffectedElements caps the element list carried per violation group.
const maxAffectedElements = 3

// Enhance enriches a raw summary with slide file paths, fix suggestions and
// editor notes. A nil summary or one lacking a reports sequence passes
// through unchanged; a present-but-empty reports sequence still gets the
// editor instructions attached. A zero-report summary that already carries
// an informational message is final (synthesized when the page exposed no
// summary at all) and also passes through. Slide-level enrichment is
// idempotent: enhancing an already enhanced summary recomputes the same
// fields.
func Enhance(raw *types.OverflowSummary, projectDir string) *types.OverflowSummary {
	if raw == nil || raw.Reports == nil {
		return raw
	}
	if len(raw.Reports) == 0 && raw.AIEditorInstructions != nil && raw.AIEditorInstructions.Message != "" {
		return raw
	}

	out := *raw
	out.Reports = make([]types.SlideReport, len(raw.Reports))
	for i, report := range raw.Reports {
		out.Reports[i] = enhanceSlide(report, projectDir)
	}
	out.AIEditorInstructions = editorInstructions()
	return &out
}

// enhanceSlide computes the enrichment fields for one slide report.
func enhanceSlide(report types.SlideReport, projectDir string) types.SlideReport {
	groups := groupByType(report.Violations)

	fixes := make(types.FixSuggestions, 0, len(groups))
	for _, group := range groups {
		// Strategies and numeric detail come from the group's first violation
		// only; the rest of the group shares the bundle.
		s := suggest.Suggest(group[0])

		var affected []string
		limit := group
		if len(limit) > maxAffectedElements {
			limit = limit[:maxAffectedElements]
		}
		for _, v := range limit {
			if label := v.ElementLabel(); label != "" {
				affected = append(affected, label)
			}
		}

		fixes = append(fixes, types.FixSuggestionEntry{
			Type: group[0].Type,
			Group: types.FixSuggestionGroup{
				Count:            len(group),
				Priority:         s.Priority,
				Strategies:       s.Strategies,
				AffectedElements: affected,
			},
		})
	}

	highest := types.PriorityMedium
	for i, entry := range fixes {
		if i == 0 || entry.Group.Priority.Rank() < highest.Rank() {
			highest = entry.Group.Priority
		}
	}

	action := "Review manually"
	if len(fixes) > 0 && len(fixes[0].Group.Strategies) > 0 {
		action = fixes[0].Group.Strategies[0].Strategy
	}

	slideFile, ok := resolver.Resolve(report.SlideTitle, projectDir)
	if !ok {
		slideFile = UnknownSlideFile
	}

	report.SlideFile = slideFile
	report.FixSuggestions = fixes
	report.AIEditorNotes = &types.AIEditorNotes{
		TotalIssues:       len(report.Violations),
		HighestPriority:   highest,
		RecommendedAction: action,
	}
	return report
}

// groupByType buckets violations by type, preserving first-seen type order.
func groupByType(violations []types.Violation) [][]types.Violation {
	index := map[types.ViolationType]int{}
	var groups [][]types.Violation
	for _, v := range violations {
		i, ok := index[v.Type]
		if !ok {
			i = len(groups)
			index[v.Type] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], v)
	}
	return groups
}

// editorInstructions is the standing remediation policy attached to every
// enhanced summary.
func editorInstructions() *types.EditorInstructions {
	return &types.EditorInstructions{
		Workflow: []string{
			"1. Read this file to understand all overflow issues",
			"2. For each slide report, check the slideFile path",
			"3. Read the slide file",
			"4. Review fixSuggestions for each violation type",
			"5. Apply the lowest-risk fix strategy first",
			"6. Re-run: pnpm run check-overflow to verify",
			"7. Iterate until totalViolations === 0",
		},
		PriorityOrder: "CRITICAL → HIGH → MEDIUM → LOW",
		MaxIterations: 3,
		CriticalNote:  "ALWAYS fix CRITICAL and HIGH priority issues. Use card removal first (saves most space).",
	}
}
