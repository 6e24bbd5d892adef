// Package suggest generates prioritized remediation strategies for overflow violations.
package suggest

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/overflow-checker/internal/types"
)

// blockHeightPx is the approximate height reclaimed by removing one card block.
const blockHeightPx = 170

// spacingSavingsPx is the approximate saving of one spacing reduction, used to
// estimate how many changes a body overflow needs.
const spacingSavingsPx = 12

// Suggestion is the remediation bundle for one violation.
type Suggestion struct {
	Priority   types.Priority
	Strategies []types.FixStrategy
}

// Suggest returns the fix strategies for a violation. The dispatch is a
// closed set over the known violation types; anything else gets the generic
// manual-review strategy. Pure and deterministic: the same violation always
// yields the same suggestion.
func Suggest(v types.Violation) Suggestion {
	switch v.Type {
	case types.ViolationContainerOverflow:
		return containerOverflow(v)
	case types.ViolationVerticalOverflow:
		return verticalOverflow(v)
	case types.ViolationBodyOverflow:
		return bodyOverflow(v)
	default:
		return manualReview(v)
	}
}

func containerOverflow(v types.Violation) Suggestion {
	overflow := px(v.OverflowAmount)
	return Suggestion{
		Priority: types.PriorityHigh,
		Strategies: []types.FixStrategy{
			{
				Strategy:        "Remove overflow:hidden",
				Description:     "Change parent container from overflow:hidden to allow content to show",
				CodePattern:     "overflow-hidden",
				SuggestedChange: "Remove overflow-hidden class OR change to overflow-auto",
				Risk:            types.RiskLow,
				EstimatedFix:    fmt.Sprintf("Will reveal %dpx of hidden content", overflow),
			},
			{
				Strategy:        "Reduce content",
				Description:     fmt.Sprintf("Remove ~%dpx worth of content", overflow),
				SuggestedChange: "Remove 1-2 cards, reduce padding/gaps, or shorten text",
				Risk:            types.RiskMedium,
				EstimatedFix:    fmt.Sprintf("Need to save %dpx", overflow),
			},
		},
	}
}

func verticalOverflow(v types.Violation) Suggestion {
	// Messages mentioning compression indicate the layout is already squeezing
	// content, which is more urgent than plain overflow.
	priority := types.PriorityMedium
	if strings.Contains(v.Message, "compressed") || strings.Contains(v.Message, "squeezed") {
		priority = types.PriorityHigh
	}

	return Suggestion{
		Priority: priority,
		Strategies: []types.FixStrategy{
			{
				Strategy:        "Optimize content density",
				Description:     "Adjust content to fill available space without compression",
				SuggestedChange: fmt.Sprintf("Card needs %dpx but only gets %dpx", px(v.Actual), px(v.Expected)),
				Risk:            types.RiskLow,
				EstimatedFix:    fmt.Sprintf("Need to save %dpx or expand container", px(v.OverflowAmount)),
			},
		},
	}
}

func bodyOverflow(v types.Violation) Suggestion {
	overflow := px(v.OverflowAmount)
	changes := int(math.Ceil(v.OverflowAmount / spacingSavingsPx))
	return Suggestion{
		Priority: types.PriorityCritical,
		Strategies: []types.FixStrategy{
			{
				Strategy:        "Remove content blocks",
				Description:     "Primary solution: delete entire cards/sections",
				SuggestedChange: fmt.Sprintf("Remove 1-2 card blocks (saves ~%dpx each)", blockHeightPx),
				Risk:            types.RiskMedium,
				EstimatedFix:    fmt.Sprintf("Need to save %dpx total", overflow),
			},
			{
				Strategy:        "Reduce spacing",
				Description:     "Compact the layout",
				SuggestedChange: "Reduce: gap-8→gap-4, p-8→p-6, space-y-8→space-y-4",
				Risk:            types.RiskMedium,
				EstimatedFix:    fmt.Sprintf("Save 8-16px per change (need %d changes)", changes),
			},
		},
	}
}

func manualReview(v types.Violation) Suggestion {
	return Suggestion{
		Priority: types.PriorityMedium,
		Strategies: []types.FixStrategy{
			{
				Strategy:        "Manual review",
				Description:     v.Message,
				SuggestedChange: "Review the violation and adjust accordingly",
				Risk:            types.RiskUnknown,
			},
		},
	}
}

// px rounds a measured pixel value for display.
func px(amount float64) int {
	return int(math.Round(amount))
}
