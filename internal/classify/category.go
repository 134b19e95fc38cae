package classify

import (
	"fmt"
	"strings"

	"github.com/scrypster/cos/pkg/types"
)

const (
	categoryEntityBonus = 0.5
	categoryScoreScale  = 3.0
)

type categoryRule struct {
	name       string
	keywords   []string
	entityBias []types.EntityType
	suggest    func([]types.ExtractedEntity) string
	action     string
	icon       string
}

// categoryRules are evaluated in order; the first rule with the top score wins.
var categoryRules = []categoryRule{
	{
		name:       types.CategoryPlanning,
		keywords:   []string{"plan", "schedule", "meeting", "calendar", "appointment", "event", "remind", "deadline"},
		entityBias: []types.EntityType{types.EntityPerson, types.EntityDate, types.EntityTime},
		suggest:    planningSuggestion,
		action:     "COS: Smart calendar integration activated. Optimal scheduling suggestions prepared locally.",
		icon:       "calendar",
	},
	{
		name:       types.CategoryCoding,
		keywords:   []string{"code", "project", "github", "programming", "develop", "build", "debug", "deploy"},
		entityBias: []types.EntityType{types.EntityFile, types.EntityTopic},
		suggest:    codingSuggestion,
		action:     "COS: Intelligent dev environment ready. Dependencies and boilerplate auto-configured.",
		icon:       "laptop",
	},
	{
		name:       types.CategoryResearch,
		keywords:   []string{"research", "paper", "notes", "study", "learn", "document", "analyze", "investigate"},
		entityBias: []types.EntityType{types.EntityTopic, types.EntityFile},
		suggest:    researchSuggestion,
		action:     "COS: Research ecosystem activated. Knowledge graph and note synthesis ready.",
		icon:       "books",
	},
	{
		name: types.CategoryCommunication,
		keywords: []string{
			"email", "message", "call", "contact", "reach", "follow", "discuss", "send",
			"notify", "inform", "update", "team", "client", "manager",
		},
		entityBias: []types.EntityType{types.EntityPerson},
		suggest:    communicationSuggestion,
		action:     "COS: Communication assistant engaged. Context-aware messaging prepared.",
		icon:       "speech",
	},
	{
		name:       types.CategoryCreative,
		keywords:   []string{"design", "create", "write", "draft", "brainstorm", "ideate", "sketch"},
		entityBias: []types.EntityType{types.EntityTopic},
		suggest:    creativeSuggestion,
		action:     "COS: Creative intelligence activated. Inspiration synthesis and ideation tools ready.",
		icon:       "palette",
	},
}

// CategoryScorer is the rule-based five-label classifier. Each label scores
// one point per keyword present and half a point per entity of a type the
// label cares about.
type CategoryScorer struct{}

// NewCategoryScorer creates a category scorer.
func NewCategoryScorer() *CategoryScorer {
	return &CategoryScorer{}
}

// Score classifies text into planning, coding, research, communication or
// creative. Confidence is the winning score divided by three, capped at 1.
func (s *CategoryScorer) Score(text string, entities []types.ExtractedEntity) types.Intent {
	lower := strings.ToLower(text)

	best, bestScore := 0, -1.0
	for i, rule := range categoryRules {
		score := float64(countMatches(lower, rule.keywords))
		for _, e := range entities {
			if hasEntityType(rule.entityBias, e.Type) {
				score += categoryEntityBonus
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	rule := categoryRules[best]
	return types.Intent{
		Category:   rule.name,
		Confidence: types.ClampConfidence(bestScore / categoryScoreScale),
		Suggestion: rule.suggest(entities),
		Action:     rule.action,
		Icon:       rule.icon,
		Entities:   entities,
	}
}

func hasEntityType(list []types.EntityType, t types.EntityType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func planningSuggestion(entities []types.ExtractedEntity) string {
	person, hasPerson := types.FirstEntity(entities, types.EntityPerson)
	date, hasDate := types.FirstEntity(entities, types.EntityDate)
	place, hasPlace := types.FirstEntity(entities, types.EntityPlace)

	switch {
	case hasPerson && hasDate && hasPlace:
		return fmt.Sprintf("Schedule %s meeting on %s at %s", person.Value, date.Value, place.Value)
	case hasPerson && hasDate:
		return fmt.Sprintf("Schedule meeting with %s on %s", person.Value, date.Value)
	case hasPerson:
		return fmt.Sprintf("Create event with %s (suggest optimal time)", person.Value)
	case hasDate:
		return fmt.Sprintf("Set smart reminder for %s", date.Value)
	}
	return "Create intelligent calendar event"
}

func codingSuggestion(entities []types.ExtractedEntity) string {
	topic, hasTopic := types.FirstEntity(entities, types.EntityTopic)
	file, hasFile := types.FirstEntity(entities, types.EntityFile)

	switch {
	case hasTopic && hasFile:
		return fmt.Sprintf("Setup %s project with %s boilerplate", topic.Value, file.Value)
	case hasTopic:
		return fmt.Sprintf("Initialize %s project (auto-detect framework)", topic.Value)
	case hasFile:
		return fmt.Sprintf("Create %s workspace with dependencies", file.Value)
	}
	return "Setup intelligent development environment"
}

func researchSuggestion(entities []types.ExtractedEntity) string {
	if topic, ok := types.FirstEntity(entities, types.EntityTopic); ok {
		return "Research " + topic.Value
	}
	return "Start a new research session"
}

func communicationSuggestion(entities []types.ExtractedEntity) string {
	if person, ok := types.FirstEntity(entities, types.EntityPerson); ok {
		return "Draft message to " + person.Value
	}
	return "Compose new message"
}

func creativeSuggestion(entities []types.ExtractedEntity) string {
	if topic, ok := types.FirstEntity(entities, types.EntityTopic); ok {
		return fmt.Sprintf("Create %s concept", topic.Value)
	}
	return "Start creative session"
}
