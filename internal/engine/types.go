// Package engine provides the cognitive engine: the facade that runs entity
// extraction, classification and context enrichment for one input, and
// records accepted intents and feedback in the user's preferences.
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/classify"
	"github.com/scrypster/cos/internal/contextengine"
	"github.com/scrypster/cos/internal/storage"
	"github.com/scrypster/cos/pkg/types"
)

// Mode selects the classification path.
type Mode string

// Classification modes
const (
	// ModeUniversal scores every action family and domain.
	ModeUniversal Mode = "universal"

	// ModeFast takes the first action family with any keyword present.
	ModeFast Mode = "fast"

	// ModeCategory uses the five-label rule scorer.
	ModeCategory Mode = "category"
)

// ParseMode converts a config value into a Mode. Empty means universal.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeUniversal, nil
	case ModeUniversal, ModeFast, ModeCategory:
		return m, nil
	default:
		return "", fmt.Errorf("unknown classifier mode %q", s)
	}
}

// EntityExtractor pulls entities out of free text.
type EntityExtractor interface {
	ExtractEntities(text string) []types.ExtractedEntity
}

// Config holds configuration for the cognitive engine.
type Config struct {
	// Mode is the classification path (default: universal).
	Mode Mode

	// AutomationThreshold is the number of positive feedback tuples for one
	// category after which an automation candidate is logged (default: 3).
	AutomationThreshold int
}

// DefaultConfig returns a Config with the defaults.
func DefaultConfig() Config {
	return Config{
		Mode:                ModeUniversal,
		AutomationThreshold: 3,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.AutomationThreshold < 1 {
		return fmt.Errorf("AutomationThreshold must be >= 1, got %d", c.AutomationThreshold)
	}
	return nil
}

// Deps are the collaborators of a CognitiveEngine. Nil fields get defaults:
// a regex extractor, empty preferences, a fresh context and no persistence.
type Deps struct {
	// Repository persists preferences and, when Context is nil, context.
	Repository *storage.Repository

	// Preferences are the loaded user preferences.
	Preferences *types.UserPreferences

	// Context is the context engine used for enrichment.
	Context *contextengine.Engine

	Extractor EntityExtractor
	Logger    *zap.Logger

	// Clock returns the current time.
	Clock func() time.Time

	// NewID generates history entry IDs.
	NewID func() string
}

// FallbackIntent is returned when extraction or classification fails.
func FallbackIntent() types.Intent {
	return types.Intent{
		Category:   types.CategoryGeneral,
		Confidence: 0.5,
		Suggestion: "Process this thought",
		Action:     "COS: Basic processing complete. Thought analyzed locally.",
		Icon:       classify.IconDefault,
		Entities:   []types.ExtractedEntity{},
	}
}
