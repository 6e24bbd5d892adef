// Package types provides type definitions for structured data used throughout the overflow-checker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Priority classifies how urgently a violation group should be fixed.
type Priority string

// Priorities, most urgent first.
const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Rank returns the sort position of a priority: CRITICAL < HIGH < MEDIUM < LOW.
// Unknown values sort after all known ones.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ViolationType tags a detected overflow with the kind of bound it exceeded.
type ViolationType string

// Known violation types reported by the in-page instrumentation. Any other
// value is treated as an unknown type and routed to the generic fix strategy.
const (
	ViolationContainerOverflow ViolationType = "CONTAINER_OVERFLOW"
	ViolationVerticalOverflow  ViolationType = "VERTICAL_OVERFLOW"
	ViolationBodyOverflow      ViolationType = "BODY_OVERFLOW"
)

// Risk levels attached to fix strategies.
const (
	RiskLow     = "LOW"
	RiskMedium  = "MEDIUM"
	RiskUnknown = "UNKNOWN"
)

// Violation is a single detected instance of content exceeding its container's
// available space. Violations are produced by the in-page instrumentation and
// consumed read-only here.
type Violation struct {
	Type           ViolationType `json:"type"`
	Message        string        `json:"message"`
	OverflowAmount float64       `json:"overflowAmount,omitempty"`
	Actual         float64       `json:"actual,omitempty"`
	Expected       float64       `json:"expected,omitempty"`
	ElementInfo    string        `json:"elementInfo,omitempty"`
	Element        string        `json:"element,omitempty"`
}

// ElementLabel returns the best available identifier for the violating
// element: elementInfo when present, otherwise element. Empty when the
// instrumentation reported neither.
func (v Violation) ElementLabel() string {
	if v.ElementInfo != "" {
		return v.ElementInfo
	}
	return v.Element
}

// FixStrategy is one remediation option for a violation group, generated
// deterministically from the group's representative violation.
type FixStrategy struct {
	Strategy        string `json:"strategy"`
	Description     string `json:"description"`
	CodePattern     string `json:"codePattern,omitempty"`
	SuggestedChange string `json:"suggestedChange"`
	Risk            string `json:"risk"`
	EstimatedFix    string `json:"estimatedFix,omitempty"`
}

// FixSuggestionGroup aggregates all violations of one type on a slide.
// Strategies and numeric detail are derived from the group's first violation
// only; remaining violations share the bundle. The affected-element list is
// capped at three entries.
type FixSuggestionGroup struct {
	Count            int           `json:"count"`
	Priority         Priority      `json:"priority"`
	Strategies       []FixStrategy `json:"strategies"`
	AffectedElements []string      `json:"affectedElements"`
}

// FixSuggestionEntry pairs a violation type with its suggestion group.
type FixSuggestionEntry struct {
	Type  ViolationType
	Group FixSuggestionGroup
}

// FixSuggestions is an ordered mapping from violation type to suggestion
// group. Order is first-seen detection order, which a plain map cannot
// preserve, so it marshals to a JSON object manually.
type FixSuggestions []FixSuggestionEntry

// Get returns the group for a violation type, if present.
func (fs FixSuggestions) Get(t ViolationType) (FixSuggestionGroup, bool) {
	for _, e := range fs {
		if e.Type == t {
			return e.Group, true
		}
	}
	return FixSuggestionGroup{}, false
}

// MarshalJSON emits a JSON object whose keys appear in entry order.
func (fs FixSuggestions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(e.Type))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		group, err := json.Marshal(e.Group)
		if err != nil {
			return nil, err
		}
		buf.Write(group)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (fs *FixSuggestions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fixSuggestions: expected JSON object, got %v", tok)
	}

	out := FixSuggestions{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fixSuggestions: expected string key, got %v", keyTok)
		}
		var group FixSuggestionGroup
		if err := dec.Decode(&group); err != nil {
			return err
		}
		out = append(out, FixSuggestionEntry{Type: ViolationType(key), Group: group})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*fs = out
	return nil
}

// AIEditorNotes summarizes a slide's violations for the downstream editor.
type AIEditorNotes struct {
	TotalIssues       int      `json:"totalIssues"`
	HighestPriority   Priority `json:"highestPriority"`
	RecommendedAction string   `json:"recommendedAction"`
}

// SlideReport holds the violations detected on one slide, in detection order.
// The SlideFile, FixSuggestions and AIEditorNotes fields are filled in by the
// report enhancer; they are empty on raw reports from the page.
type SlideReport struct {
	SlideIndex int         `json:"slideIndex"`
	SlideTitle string      `json:"slideTitle"`
	Violations []Violation `json:"violations"`

	SlideFile      string         `json:"slideFile,omitempty"`
	FixSuggestions FixSuggestions `json:"fixSuggestions,omitempty"`
	AIEditorNotes  *AIEditorNotes `json:"aiEditorNotes,omitempty"`
}

// EditorInstructions is the standing policy object attached to an enhanced
// summary. A zero-violation run carries only the informational Message.
type EditorInstructions struct {
	Message       string   `json:"message,omitempty"`
	Workflow      []string `json:"workflow,omitempty"`
	PriorityOrder string   `json:"priorityOrder,omitempty"`
	MaxIterations int      `json:"maxIterations,omitempty"`
	CriticalNote  string   `json:"criticalNote,omitempty"`
}

// OverflowSummary is the top-level report for one collection run.
type OverflowSummary struct {
	GeneratedAt          string              `json:"generatedAt"`
	TotalSlides          int                 `json:"totalSlides"`
	SlidesWithIssues     int                 `json:"slidesWithIssues"`
	TotalViolations      int                 `json:"totalViolations"`
	Reports              []SlideReport       `json:"reports"`
	AIEditorInstructions *EditorInstructions `json:"aiEditorInstructions,omitempty"`
}
