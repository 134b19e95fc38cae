// Package extract pulls structured mentions (people, dates, times, topics and
// file references) out of free text with a fixed, ordered set of pattern
// matchers.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/pkg/types"
)

// Matcher finds entities of one pattern class. Matchers run independently;
// none of them sees what the others found.
type Matcher struct {
	Name  string
	Match func(text string) []types.ExtractedEntity
}

var (
	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:tomorrow|today|yesterday)\b`),
		regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b`),
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	}

	// Deliberately permissive: bare small integers match too.
	timePattern = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?(?:\s*(?:am|pm))?\b`)

	filePattern = regexp.MustCompile(`(?i)\.(?:js|ts|py|html|css|md|txt|pdf|doc|xlsx?|json|xml|sql|sh|ya?ml)\b`)
)

// nonNames are capitalised tokens that look like names but are not.
var nonNames = map[string]bool{
	"React":      true,
	"JavaScript": true,
	"TypeScript": true,
	"Python":     true,
	"API":        true,
	"HTML":       true,
	"CSS":        true,
}

// topicWords are matched by substring containment, not word boundaries.
var topicWords = []string{
	"react", "typescript", "javascript", "python", "project", "api", "database",
	"frontend", "backend", "design", "logo", "startup", "meeting", "research",
	"algorithm", "machine", "learning", "ai",
}

// DefaultMatchers returns the standard matcher order: people, dates, times,
// topics, files.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Name: "person", Match: matchPeople},
		{Name: "date", Match: matchDates},
		{Name: "time", Match: matchTimes},
		{Name: "topic", Match: matchTopics},
		{Name: "file", Match: matchFiles},
	}
}

// Extractor runs the matchers over an input.
type Extractor struct {
	matchers []Matcher
	logger   *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMatchers replaces the matcher set.
func WithMatchers(m ...Matcher) Option {
	return func(e *Extractor) { e.matchers = m }
}

// WithLogger sets the logger used to report matcher failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an extractor with the default matchers.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{matchers: DefaultMatchers()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrNop(e.logger).Named("extract")
	return e
}

// ExtractEntities returns every entity found in text. It never panics: if a
// matcher fails, the failure is logged and the entities found so far are
// returned. No deduplication is performed.
func (e *Extractor) ExtractEntities(text string) (entities []types.ExtractedEntity) {
	entities = []types.ExtractedEntity{}
	if text == "" {
		return entities
	}

	current := ""
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("entity extraction failed, returning partial result",
				zap.String("matcher", current),
				zap.Int("found", len(entities)),
				zap.String("panic", fmt.Sprint(r)))
		}
	}()

	for _, m := range e.matchers {
		current = m.Name
		entities = append(entities, m.Match(text)...)
	}
	return entities
}

func matchPeople(text string) []types.ExtractedEntity {
	var out []types.ExtractedEntity
	for _, name := range namePattern.FindAllString(text, -1) {
		if isLikelyName(name) {
			out = append(out, types.NewEntity(types.EntityPerson, name))
		}
	}
	return out
}

func isLikelyName(word string) bool {
	return !nonNames[word] && len(word) > 2
}

func matchDates(text string) []types.ExtractedEntity {
	var out []types.ExtractedEntity
	for _, p := range datePatterns {
		for _, d := range p.FindAllString(text, -1) {
			out = append(out, types.NewEntity(types.EntityDate, d))
		}
	}
	return out
}

func matchTimes(text string) []types.ExtractedEntity {
	var out []types.ExtractedEntity
	for _, t := range timePattern.FindAllString(text, -1) {
		out = append(out, types.NewEntity(types.EntityTime, t))
	}
	return out
}

func matchTopics(text string) []types.ExtractedEntity {
	lower := strings.ToLower(text)
	var out []types.ExtractedEntity
	for _, topic := range topicWords {
		if strings.Contains(lower, topic) {
			out = append(out, types.NewEntity(types.EntityTopic, topic))
		}
	}
	return out
}

func matchFiles(text string) []types.ExtractedEntity {
	var out []types.ExtractedEntity
	for _, f := range filePattern.FindAllString(text, -1) {
		out = append(out, types.NewEntity(types.EntityFile, f))
	}
	return out
}
