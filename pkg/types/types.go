// Package types defines the core data structures for the COS intent pipeline.
// These types represent extracted entities, classified intents, the persisted
// user preferences and the rolling context summary that enriches new intents.
package types

import "fmt"

// EntityType names the kind of fragment pulled out of free text.
type EntityType string

// ActionType describes what kind of action the user wants to take.
type ActionType string

// Domain is the subject-matter bucket an input belongs to.
type Domain string

// Feedback is the user's verdict on a suggested intent.
type Feedback string

// Entity type constants
const (
	EntityPerson EntityType = "person"
	EntityDate   EntityType = "date"
	EntityTime   EntityType = "time"
	EntityPlace  EntityType = "place"
	EntityTopic  EntityType = "topic"
	EntityFile   EntityType = "file"
)

// ValidEntityTypes lists every entity type the extractor may emit.
var ValidEntityTypes = []EntityType{
	EntityPerson,
	EntityDate,
	EntityTime,
	EntityPlace,
	EntityTopic,
	EntityFile,
}

// Action type constants. Declaration order is significant: when two action
// types score the same, the one declared first wins.
const (
	ActionCreate      ActionType = "create"
	ActionSchedule    ActionType = "schedule"
	ActionLearn       ActionType = "learn"
	ActionCommunicate ActionType = "communicate"
	ActionAnalyze     ActionType = "analyze"
	ActionOrganize    ActionType = "organize"
)

// ActionTypes lists all action types in declaration order.
var ActionTypes = []ActionType{
	ActionCreate,
	ActionSchedule,
	ActionLearn,
	ActionCommunicate,
	ActionAnalyze,
	ActionOrganize,
}

// Domain constants, grouped the same way as the keyword table.
const (
	DomainGeneral Domain = "general"

	// Academic
	DomainChemistry   Domain = "chemistry"
	DomainPhysics     Domain = "physics"
	DomainMathematics Domain = "mathematics"
	DomainBiology     Domain = "biology"
	DomainHistory     Domain = "history"
	DomainLiterature  Domain = "literature"

	// Professional
	DomainProgramming Domain = "programming"
	DomainMarketing   Domain = "marketing"
	DomainFinance     Domain = "finance"
	DomainDesign      Domain = "design"
	DomainBusiness    Domain = "business"

	// Personal
	DomainFitness     Domain = "fitness"
	DomainCooking     Domain = "cooking"
	DomainTravel      Domain = "travel"
	DomainMusic       Domain = "music"
	DomainSports      Domain = "sports"
	DomainPhotography Domain = "photography"
	DomainGardening   Domain = "gardening"
	DomainArt         Domain = "art"

	// Technology
	DomainAI            Domain = "ai"
	DomainBlockchain    Domain = "blockchain"
	DomainCybersecurity Domain = "cybersecurity"
	DomainDataScience   Domain = "data science"

	// Health
	DomainMedicine   Domain = "medicine"
	DomainPsychology Domain = "psychology"
	DomainNutrition  Domain = "nutrition"

	// Creative
	DomainWriting Domain = "writing"
	DomainVideo   Domain = "video"
	DomainGaming  Domain = "gaming"
)

// Domains lists every non-general domain in table order. Entity-driven
// domain detection returns the first domain in this order that matches.
var Domains = []Domain{
	DomainChemistry, DomainPhysics, DomainMathematics, DomainBiology, DomainHistory, DomainLiterature,
	DomainProgramming, DomainMarketing, DomainFinance, DomainDesign, DomainBusiness,
	DomainFitness, DomainCooking, DomainTravel, DomainMusic, DomainSports, DomainPhotography, DomainGardening, DomainArt,
	DomainAI, DomainBlockchain, DomainCybersecurity, DomainDataScience,
	DomainMedicine, DomainPsychology, DomainNutrition,
	DomainWriting, DomainVideo, DomainGaming,
}

// Feedback constants
const (
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// Category labels produced by the rule-based category path and the quick
// context heuristic. Universal classification uses ActionType values instead.
const (
	CategoryGeneral       = "general"
	CategoryPlanning      = "planning"
	CategoryCoding        = "coding"
	CategoryResearch      = "research"
	CategoryCommunication = "communication"
	CategoryCreative      = "creative"
)

// Capacity limits for the bounded collections.
const (
	MaxHistoryEntries  = 50
	MaxLearningEntries = 500
	MaxRecentInputs    = 10
	MaxCommonTopics    = 20
)

// IsValid reports whether t is a known entity type.
func (t EntityType) IsValid() bool {
	for _, v := range ValidEntityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValid reports whether a is a known action type.
func (a ActionType) IsValid() bool {
	for _, v := range ActionTypes {
		if v == a {
			return true
		}
	}
	return false
}

// ParseActionType converts a raw label into an ActionType.
func ParseActionType(s string) (ActionType, error) {
	a := ActionType(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown action type %q", s)
	}
	return a, nil
}

// IsValid reports whether d is general or one of the table domains.
func (d Domain) IsValid() bool {
	if d == DomainGeneral {
		return true
	}
	for _, v := range Domains {
		if v == d {
			return true
		}
	}
	return false
}

// ParseDomain converts a raw label into a Domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.IsValid() {
		return "", fmt.Errorf("unknown domain %q", s)
	}
	return d, nil
}

// IsValid reports whether f is positive or negative.
func (f Feedback) IsValid() bool {
	return f == FeedbackPositive || f == FeedbackNegative
}

// ParseFeedback converts a raw label into a Feedback value.
func ParseFeedback(s string) (Feedback, error) {
	f := Feedback(s)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown feedback %q (want positive or negative)", s)
	}
	return f, nil
}

// appendBounded appends v and drops the oldest elements so that at most max remain.
func appendBounded[T any](s []T, v T, max int) []T {
	s = append(s, v)
	if len(s) > max {
		trimmed := make([]T, max)
		copy(trimmed, s[len(s)-max:])
		s = trimmed
	}
	return s
}
