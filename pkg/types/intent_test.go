package types_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scrypster/cos/pkg/types"
)

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.3, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, types.ClampConfidence(tt.in), "ClampConfidence(%v)", tt.in)
	}
}

func TestIntent_Validate(t *testing.T) {
	valid := types.Intent{Category: "schedule", Confidence: 0.8, Domain: types.DomainBusiness}
	assert.NoError(t, valid.Validate())

	assert.Error(t, types.Intent{Confidence: 0.5}.Validate(), "empty category")
	assert.Error(t, types.Intent{Category: "x", Confidence: 1.2}.Validate(), "confidence above 1")
	assert.Error(t, types.Intent{Category: "x", Confidence: math.NaN()}.Validate(), "NaN confidence")
	assert.Error(t, types.Intent{Category: "x", Confidence: 0.5, Domain: "astrology"}.Validate(), "unknown domain")
}

func TestIntent_MergeIsNonDestructive(t *testing.T) {
	original := types.Intent{
		Category:   "learn",
		Confidence: 0.6,
		Suggestion: "Start learning session",
		Entities:   []types.ExtractedEntity{types.NewEntity(types.EntityTopic, "react")},
	}

	suggestion := "Start learning session (building on your react knowledge)"
	merged := original.Merge(types.IntentPatch{Suggestion: &suggestion})

	assert.Equal(t, "Start learning session", original.Suggestion)
	assert.Equal(t, suggestion, merged.Suggestion)
	assert.Equal(t, original.Category, merged.Category)

	merged.Entities[0].Value = "mutated"
	assert.Equal(t, "react", original.Entities[0].Value, "merged intent must not share the entity slice")
}

func TestIntent_MergeClampsConfidence(t *testing.T) {
	c := 3.0
	merged := types.Intent{Category: "create"}.Merge(types.IntentPatch{Confidence: &c})
	assert.Equal(t, 1.0, merged.Confidence)
}

func TestIntentPatch_IsEmpty(t *testing.T) {
	assert.True(t, types.IntentPatch{}.IsEmpty())
	s := "x"
	assert.False(t, types.IntentPatch{Icon: &s}.IsEmpty())
}

func TestFilterEntities(t *testing.T) {
	entities := []types.ExtractedEntity{
		types.NewEntity(types.EntityPerson, "Sarah"),
		types.NewEntity(types.EntityDate, "tomorrow"),
		types.NewEntity(types.EntityPerson, "Tom"),
	}
	people := types.FilterEntities(entities, types.EntityPerson)
	assert.Len(t, people, 2)
	assert.Equal(t, "sarah", people[0].Normalized)

	_, ok := types.FirstEntity(entities, types.EntityFile)
	assert.False(t, ok)
}
