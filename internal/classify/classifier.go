// Package classify maps free text plus extracted entities to an action type
// and a subject domain, scores the result and picks a suggestion, status
// message and icon for it.
//
// Two universal paths are provided: Classify scores every action family and
// every domain, while ClassifyFast stops at the first action family that
// matches. CategoryScorer implements the older five-label rule scorer, and
// QuickCategory is the cheap bucketing used for session summaries.
package classify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/pkg/types"
)

// Scoring constants for the universal paths.
const (
	slowBaseConfidence  = 0.5
	actionMatchWeight   = 0.1
	domainMatchWeight   = 0.15
	slowMaxConfidence   = 1.0
	fastBaseConfidence  = 0.7
	fastDomainBonus     = 0.2
	fastLengthBonus     = 0.1
	fastLengthThreshold = 10
	fastMaxConfidence   = 0.95
)

// Result is the outcome of universal classification.
type Result struct {
	ActionType types.ActionType
	Domain     types.Domain
	Confidence float64
	Suggestion string
	Action     string
	Icon       string
}

// Intent converts the result into an Intent carrying the given entities.
// The action type becomes the category label.
func (r Result) Intent(entities []types.ExtractedEntity) types.Intent {
	return types.Intent{
		Category:   string(r.ActionType),
		Confidence: types.ClampConfidence(r.Confidence),
		Suggestion: r.Suggestion,
		Action:     r.Action,
		Icon:       r.Icon,
		Entities:   entities,
		Domain:     r.Domain,
	}
}

// Classifier performs keyword-weighted action and domain classification.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier creates a classifier. A nil logger disables logging.
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{logger: logging.OrNop(logger).Named("classify")}
}

// Classify scores every action family and domain and returns the best pair.
func (c *Classifier) Classify(text string, entities []types.ExtractedEntity) Result {
	lower := strings.ToLower(text)

	action, actionMatches := detectActionType(lower)
	domain := detectDomain(lower, entities)

	confidence := slowBaseConfidence + float64(actionMatches)*actionMatchWeight
	if domain != types.DomainGeneral {
		confidence += float64(countMatches(lower, domainKeywords[domain])) * domainMatchWeight
	}
	confidence = min(confidence, slowMaxConfidence)

	r := build(action, domain, confidence)
	c.logger.Debug("classified",
		zap.String("action", string(r.ActionType)),
		zap.String("domain", string(r.Domain)),
		zap.Float64("confidence", r.Confidence))
	return r
}

// ClassifyFast returns the first action family, in priority order, with any
// keyword present in the text. Domain detection is the same as Classify;
// confidence uses flat bonuses instead of per-match weights.
func (c *Classifier) ClassifyFast(text string, entities []types.ExtractedEntity) Result {
	lower := strings.ToLower(text)

	action := types.ActionCreate
	for _, a := range fastPathOrder {
		if containsAny(lower, actionKeywords[a]) {
			action = a
			break
		}
	}
	domain := detectDomain(lower, entities)

	confidence := fastBaseConfidence
	if domain != types.DomainGeneral {
		confidence += fastDomainBonus
	}
	if len(text) > fastLengthThreshold {
		confidence += fastLengthBonus
	}
	confidence = min(confidence, fastMaxConfidence)

	return build(action, domain, confidence)
}

func build(action types.ActionType, domain types.Domain, confidence float64) Result {
	return Result{
		ActionType: action,
		Domain:     domain,
		Confidence: confidence,
		Suggestion: Suggestion(action, domain),
		Action:     StatusMessage(action, domain),
		Icon:       Icon(action, domain),
	}
}

// detectActionType returns the action with the most keyword hits and the hit
// count. On a tie the action declared first keeps the lead; with no hits the
// result is create.
func detectActionType(lower string) (types.ActionType, int) {
	best, bestScore := types.ActionCreate, 0
	for _, a := range types.ActionTypes {
		if score := countMatches(lower, actionKeywords[a]); score > bestScore {
			best, bestScore = a, score
		}
	}
	return best, bestScore
}

// detectDomain checks the first topic entity against the domain table before
// falling back to scoring the whole text.
func detectDomain(lower string, entities []types.ExtractedEntity) types.Domain {
	if topic, ok := types.FirstEntity(entities, types.EntityTopic); ok {
		key := topic.Key()
		for _, d := range types.Domains {
			if containsAny(key, domainKeywords[d]) {
				return d
			}
		}
	}

	best, bestScore := types.DomainGeneral, 0
	for _, d := range types.Domains {
		if score := countMatches(lower, domainKeywords[d]); score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

// Suggestion looks up the (action, domain) template, then (action, general),
// then falls back to a generic phrase.
func Suggestion(action types.ActionType, domain types.Domain) string {
	if byDomain, ok := suggestionTemplates[action]; ok {
		if s, ok := byDomain[domain]; ok {
			return s
		}
		if s, ok := byDomain[types.DomainGeneral]; ok {
			return s
		}
	}
	return fmt.Sprintf("%s %s content", action, domain)
}

// StatusMessage is the action text shown once an intent is recognised.
func StatusMessage(action types.ActionType, domain types.Domain) string {
	return fmt.Sprintf("COS: Universal %s system activated for %s. Intelligent assistance ready.", action, domain)
}

// Icon prefers a domain icon over an action icon.
func Icon(action types.ActionType, domain types.Domain) string {
	if icon, ok := domainIcons[domain]; ok {
		return icon
	}
	if icon, ok := actionIcons[action]; ok {
		return icon
	}
	return IconDefault
}

func countMatches(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
