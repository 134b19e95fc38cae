package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/config"
)

// NewTextGenerator creates the generator named by cfg.Provider. Provider
// "none" returns (nil, nil): callers treat a nil generator as local-only.
func NewTextGenerator(cfg config.LLMConfig, logger *zap.Logger) (TextGenerator, error) {
	switch cfg.Provider {
	case "none", "":
		return nil, nil
	case "ollama":
		client := NewOllamaClient(OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
			Timeout: cfg.Timeout,
			Logger:  logger,
		})
		if cfg.RateLimit <= 0 {
			return client, nil
		}
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		return NewRateLimited(client, cfg.RateLimit, burst), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}
