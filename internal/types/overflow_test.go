package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityRank_TotalOrder(t *testing.T) {
	assert.Less(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Less(t, PriorityLow.Rank(), Priority("BOGUS").Rank())
}

func TestElementLabel_PrefersElementInfo(t *testing.T) {
	v := Violation{ElementInfo: "div.card-grid", Element: "div"}
	assert.Equal(t, "div.card-grid", v.ElementLabel())

	v = Violation{Element: "section"}
	assert.Equal(t, "section", v.ElementLabel())

	assert.Empty(t, Violation{}.ElementLabel())
}

func TestFixSuggestions_MarshalPreservesOrder(t *testing.T) {
	fs := FixSuggestions{
		{Type: ViolationBodyOverflow, Group: FixSuggestionGroup{Count: 2, Priority: PriorityCritical}},
		{Type: ViolationContainerOverflow, Group: FixSuggestionGroup{Count: 1, Priority: PriorityHigh}},
	}

	data, err := json.Marshal(fs)
	require.NoError(t, err)

	body := strings.Index(string(data), "BODY_OVERFLOW")
	container := strings.Index(string(data), "CONTAINER_OVERFLOW")
	require.GreaterOrEqual(t, body, 0)
	require.GreaterOrEqual(t, container, 0)
	assert.Less(t, body, container, "first-seen type must marshal first")
}

func TestFixSuggestions_RoundTrip(t *testing.T) {
	fs := FixSuggestions{
		{Type: ViolationVerticalOverflow, Group: FixSuggestionGroup{
			Count:            3,
			Priority:         PriorityMedium,
			Strategies:       []FixStrategy{{Strategy: "Optimize content density", Risk: RiskLow}},
			AffectedElements: []string{"div.chart"},
		}},
		{Type: "CUSTOM_TYPE", Group: FixSuggestionGroup{Count: 1, Priority: PriorityMedium}},
	}

	data, err := json.Marshal(fs)
	require.NoError(t, err)

	var decoded FixSuggestions
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, fs, decoded)

	group, ok := decoded.Get(ViolationVerticalOverflow)
	require.True(t, ok)
	assert.Equal(t, 3, group.Count)

	_, ok = decoded.Get(ViolationBodyOverflow)
	assert.False(t, ok)
}

func TestFixSuggestions_UnmarshalRejectsNonObject(t *testing.T) {
	var fs FixSuggestions
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &fs))
}

func TestSlideReport_RawOmitsEnrichmentFields(t *testing.T) {
	report := SlideReport{
		SlideIndex: 1,
		SlideTitle: "Architecture",
		Violations: []Violation{{Type: ViolationBodyOverflow, Message: "content exceeds body"}},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "fixSuggestions")
	assert.NotContains(t, string(data), "slideFile")
	assert.NotContains(t, string(data), "aiEditorNotes")
}
