package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/logging"
)

// OllamaClient talks to a local Ollama server. Every completion goes
// through a circuit breaker.
type OllamaClient struct {
	baseURL        string
	client         *http.Client
	circuitBreaker *CircuitBreaker
	model          string
	timeout        time.Duration
	logger         *zap.Logger
}

// OllamaConfig holds Ollama client configuration.
type OllamaConfig struct {
	// BaseURL is the Ollama API root (default: http://localhost:11434)
	BaseURL string

	// Model is the model name (default: llama3.2:1b)
	Model string

	// Timeout is the per-request timeout (default: 5s)
	Timeout time.Duration

	// Breaker configures the circuit breaker; zero values take defaults.
	Breaker CircuitBreakerConfig

	// HTTPClient overrides the HTTP client, mainly for tests.
	HTTPClient *http.Client

	Logger *zap.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaClient creates a client, applying defaults to empty fields.
func NewOllamaClient(config OllamaConfig) *OllamaClient {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.Model == "" {
		config.Model = "llama3.2:1b"
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: config.Timeout}
	}
	if config.Breaker.Name == "" {
		config.Breaker.Name = "ollama"
	}
	logger := logging.OrNop(config.Logger).Named("ollama")

	return &OllamaClient{
		baseURL:        config.BaseURL,
		client:         config.HTTPClient,
		circuitBreaker: NewCircuitBreaker(config.Breaker, logger),
		model:          config.Model,
		timeout:        config.Timeout,
		logger:         logger,
	}
}

// Complete sends a non-streaming generate request and returns the response
// text.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := c.circuitBreaker.Execute(ctx, func() (string, error) {
		return c.complete(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			return "", fmt.Errorf("ollama circuit breaker open: %w", err)
		}
		return "", err
	}
	return text, nil
}

func (c *OllamaClient) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(b))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("completion received",
		zap.String("model", c.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(out.Response)))
	return out.Response, nil
}

// HealthCheck probes /api/version. It bypasses the circuit breaker.
func (c *OllamaClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("health check returned status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// GetModel returns the configured model name.
func (c *OllamaClient) GetModel() string {
	return c.model
}

// BreakerState exposes the circuit breaker state for diagnostics.
func (c *OllamaClient) BreakerState() string {
	return c.circuitBreaker.State()
}

var (
	_ TextGenerator = (*OllamaClient)(nil)
	_ HealthChecker = (*OllamaClient)(nil)
)
