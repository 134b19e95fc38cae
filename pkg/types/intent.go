package types

import (
	"errors"
	"fmt"
	"math"
)

// Intent is the classifier's structured output: an action category, its
// confidence and the suggested next step. Intents are values; enrichment
// produces a new Intent through Merge rather than mutating the original.
type Intent struct {
	// Category is the action or category label (e.g. "schedule", "research").
	Category string `json:"category"`

	// Confidence is always within [0, 1].
	Confidence float64 `json:"confidence"`

	// Suggestion is the human-readable next action.
	Suggestion string `json:"suggestion"`

	// Action is the status message shown once the intent is recognised.
	Action string `json:"action"`

	// Icon is a symbolic tag the renderer maps to a glyph.
	Icon string `json:"icon"`

	Entities []ExtractedEntity `json:"entities,omitempty"`
	Domain   Domain            `json:"domain,omitempty"`
}

// IntentPatch holds the fields an enrichment step wants to change.
// Nil fields are left untouched by Merge.
type IntentPatch struct {
	Suggestion *string  `json:"suggestion,omitempty"`
	Action     *string  `json:"action,omitempty"`
	Icon       *string  `json:"icon,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p IntentPatch) IsEmpty() bool {
	return p.Suggestion == nil && p.Action == nil && p.Icon == nil && p.Confidence == nil
}

// Merge returns a copy of the intent with the patch applied.
func (i Intent) Merge(p IntentPatch) Intent {
	out := i
	if i.Entities != nil {
		out.Entities = make([]ExtractedEntity, len(i.Entities))
		copy(out.Entities, i.Entities)
	}
	if p.Suggestion != nil {
		out.Suggestion = *p.Suggestion
	}
	if p.Action != nil {
		out.Action = *p.Action
	}
	if p.Icon != nil {
		out.Icon = *p.Icon
	}
	if p.Confidence != nil {
		out.Confidence = ClampConfidence(*p.Confidence)
	}
	return out
}

// Validate checks the intent invariants.
func (i Intent) Validate() error {
	if i.Category == "" {
		return errors.New("intent: category is required")
	}
	if math.IsNaN(i.Confidence) || i.Confidence < 0 || i.Confidence > 1 {
		return fmt.Errorf("intent: confidence %v out of range [0,1]", i.Confidence)
	}
	if i.Domain != "" && !i.Domain.IsValid() {
		return fmt.Errorf("intent: unknown domain %q", i.Domain)
	}
	return nil
}

// ClampConfidence bounds c to [0, 1]. NaN maps to 0.
func ClampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
