package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scrypster/cos/pkg/types"
)

func TestCategoryScorer_Planning(t *testing.T) {
	entities := []types.ExtractedEntity{
		types.NewEntity(types.EntityPerson, "Sarah"),
		types.NewEntity(types.EntityDate, "tomorrow"),
		types.NewEntity(types.EntityTopic, "meeting"),
	}

	intent := NewCategoryScorer().Score("schedule meeting with Sarah tomorrow", entities)

	assert.Equal(t, types.CategoryPlanning, intent.Category)
	assert.InDelta(t, 1.0, intent.Confidence, 1e-9)
	assert.Equal(t, "Schedule meeting with Sarah on tomorrow", intent.Suggestion)
	assert.Equal(t, "calendar", intent.Icon)
}

func TestCategoryScorer_Communication(t *testing.T) {
	entities := []types.ExtractedEntity{types.NewEntity(types.EntityPerson, "Sarah")}

	intent := NewCategoryScorer().Score("call Sarah", entities)

	assert.Equal(t, types.CategoryCommunication, intent.Category)
	assert.InDelta(t, 0.5, intent.Confidence, 1e-9)
	assert.Equal(t, "Draft message to Sarah", intent.Suggestion)
}

func TestCategoryScorer_NoEvidenceFallsToFirstRule(t *testing.T) {
	intent := NewCategoryScorer().Score("zzz", nil)
	assert.Equal(t, types.CategoryPlanning, intent.Category)
	assert.Equal(t, 0.0, intent.Confidence)
	assert.Equal(t, "Create intelligent calendar event", intent.Suggestion)
}

func TestCategorySuggestions(t *testing.T) {
	topic := types.NewEntity(types.EntityTopic, "react")
	file := types.NewEntity(types.EntityFile, ".js")
	person := types.NewEntity(types.EntityPerson, "Ann")
	date := types.NewEntity(types.EntityDate, "friday")
	place := types.NewEntity(types.EntityPlace, "Cafe")

	tests := []struct {
		name string
		fn   func([]types.ExtractedEntity) string
		in   []types.ExtractedEntity
		want string
	}{
		{"planning full", planningSuggestion, []types.ExtractedEntity{person, date, place}, "Schedule Ann meeting on friday at Cafe"},
		{"planning person", planningSuggestion, []types.ExtractedEntity{person}, "Create event with Ann (suggest optimal time)"},
		{"planning date", planningSuggestion, []types.ExtractedEntity{date}, "Set smart reminder for friday"},
		{"coding both", codingSuggestion, []types.ExtractedEntity{topic, file}, "Setup react project with .js boilerplate"},
		{"coding topic", codingSuggestion, []types.ExtractedEntity{topic}, "Initialize react project (auto-detect framework)"},
		{"coding file", codingSuggestion, []types.ExtractedEntity{file}, "Create .js workspace with dependencies"},
		{"coding none", codingSuggestion, nil, "Setup intelligent development environment"},
		{"research topic", researchSuggestion, []types.ExtractedEntity{topic}, "Research react"},
		{"research none", researchSuggestion, nil, "Start a new research session"},
		{"communication none", communicationSuggestion, nil, "Compose new message"},
		{"creative topic", creativeSuggestion, []types.ExtractedEntity{topic}, "Create react concept"},
		{"creative none", creativeSuggestion, nil, "Start creative session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestQuickCategory(t *testing.T) {
	tests := map[string]string{
		"study for the exam": types.CategoryResearch,
		"learn to code":      types.CategoryResearch,
		"set up a meeting":   types.CategoryPlanning,
		"write some code":    types.CategoryCoding,
		"send an email":      types.CategoryCommunication,
		"design a poster":    types.CategoryCreative,
		"buy groceries":      types.CategoryGeneral,
		"Plan The Week":      types.CategoryPlanning,
	}
	for in, want := range tests {
		assert.Equal(t, want, QuickCategory(in), in)
	}
}
