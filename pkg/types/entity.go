package types

import "strings"

// ExtractedEntity is a structured fragment pulled out of free text.
// Entities are created fresh for every input and never mutated.
type ExtractedEntity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Normalized string     `json:"normalized,omitempty"`
}

// NewEntity creates an entity whose normalized form is the lowercase value.
func NewEntity(t EntityType, value string) ExtractedEntity {
	return ExtractedEntity{
		Type:       t,
		Value:      value,
		Normalized: strings.ToLower(value),
	}
}

// Key returns the normalized value, falling back to the lowercase raw value
// for entities decoded from saves that predate normalization.
func (e ExtractedEntity) Key() string {
	if e.Normalized != "" {
		return e.Normalized
	}
	return strings.ToLower(e.Value)
}

// FilterEntities returns the entities of the given type in input order.
func FilterEntities(entities []ExtractedEntity, t EntityType) []ExtractedEntity {
	var out []ExtractedEntity
	for _, e := range entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// FirstEntity returns the first entity of the given type.
func FirstEntity(entities []ExtractedEntity, t EntityType) (ExtractedEntity, bool) {
	for _, e := range entities {
		if e.Type == t {
			return e, true
		}
	}
	return ExtractedEntity{}, false
}
