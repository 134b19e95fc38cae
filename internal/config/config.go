// Package config provides configuration management for COS.
//
// Settings are layered: built-in defaults, then an optional YAML file (path
// from COS_CONFIG or the --config flag), then an optional .env file, then
// environment variables with the COS_ prefix. Later layers win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the COS application.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Classifier ClassifierConfig `yaml:"classifier"`
	LLM        LLMConfig        `yaml:"llm"`
	Watcher    WatcherConfig    `yaml:"watcher"`
	Log        LogConfig        `yaml:"log"`
	Learning   LearningConfig   `yaml:"learning"`
}

// StorageConfig contains key-value storage configuration.
type StorageConfig struct {
	Engine      string `yaml:"engine"`       // sqlite, memory, redis (default: sqlite)
	DataPath    string `yaml:"data_path"`    // Directory holding cos.db (default: ./data)
	RedisURL    string `yaml:"redis_url"`    // redis:// URL when Engine is redis
	RedisPrefix string `yaml:"redis_prefix"` // Key prefix for redis (default: cos:)
}

// ClassifierConfig selects the classification path.
type ClassifierConfig struct {
	// Mode is universal (keyword-weighted), fast (first-family short-circuit)
	// or category (five-label rule scorer). Default: universal.
	Mode string `yaml:"mode"`

	// DebounceWindow is the quiet period before a typed input is classified.
	DebounceWindow time.Duration `yaml:"debounce_window"`
}

// LLMConfig contains the optional text-generation provider configuration.
type LLMConfig struct {
	Provider      string        `yaml:"provider"`       // none or ollama (default: none)
	OllamaURL     string        `yaml:"ollama_url"`     // default: http://localhost:11434
	OllamaModel   string        `yaml:"ollama_model"`   // default: llama3.2:1b
	Timeout       time.Duration `yaml:"timeout"`        // Hard timeout per request (default: 5s)
	FallbackDelay time.Duration `yaml:"fallback_delay"` // How long the local fallback waits (default: 1.5s)
	RateLimit     float64       `yaml:"rate_limit"`     // Requests per second (default: 2)
	RateBurst     int           `yaml:"rate_burst"`     // Burst size (default: 4)
}

// WatcherConfig contains passive context watcher settings.
type WatcherConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"` // default: 100ms
	ContextFile  string        `yaml:"context_file"`  // JSON file the host rewrites on page changes
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: info
	Format string `yaml:"format"` // console or json (default: console)
	File   string `yaml:"file"`   // optional rotated log file
}

// LearningConfig contains feedback-loop settings.
type LearningConfig struct {
	// AutomationThreshold is the number of positive feedback tuples for one
	// category after which an automation hint is logged.
	AutomationThreshold int `yaml:"automation_threshold"`
}

var (
	validEngines   = []string{"sqlite", "memory", "redis"}
	validModes     = []string{"universal", "fast", "category"}
	validProviders = []string{"none", "ollama"}
)

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Engine:      "sqlite",
			DataPath:    "./data",
			RedisPrefix: "cos:",
		},
		Classifier: ClassifierConfig{
			Mode:           "universal",
			DebounceWindow: 400 * time.Millisecond,
		},
		LLM: LLMConfig{
			Provider:      "none",
			OllamaURL:     "http://localhost:11434",
			OllamaModel:   "llama3.2:1b",
			Timeout:       5 * time.Second,
			FallbackDelay: 1500 * time.Millisecond,
			RateLimit:     2,
			RateBurst:     4,
		},
		Watcher: WatcherConfig{
			PollInterval: 100 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Learning: LearningConfig{
			AutomationThreshold: 3,
		},
	}
}

// LoadConfig loads configuration using COS_CONFIG as the optional YAML path.
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load builds the layered configuration. An empty path falls back to
// COS_CONFIG; when neither is set no YAML file is read.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := Defaults()

	if path == "" {
		path = os.Getenv("COS_CONFIG")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DBPath returns the sqlite database path inside the data directory.
func (c *Config) DBPath() string {
	return c.Storage.DataPath + "/cos.db"
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	var errs []error
	if !oneOf(c.Storage.Engine, validEngines) {
		errs = append(errs, fmt.Errorf("storage.engine %q must be one of %v", c.Storage.Engine, validEngines))
	}
	if c.Storage.Engine == "redis" && c.Storage.RedisURL == "" {
		errs = append(errs, errors.New("storage.redis_url is required when storage.engine is redis"))
	}
	if !oneOf(c.Classifier.Mode, validModes) {
		errs = append(errs, fmt.Errorf("classifier.mode %q must be one of %v", c.Classifier.Mode, validModes))
	}
	if c.Classifier.DebounceWindow < 0 {
		errs = append(errs, errors.New("classifier.debounce_window must not be negative"))
	}
	if !oneOf(c.LLM.Provider, validProviders) {
		errs = append(errs, fmt.Errorf("llm.provider %q must be one of %v", c.LLM.Provider, validProviders))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be positive"))
	}
	if c.LLM.FallbackDelay <= 0 {
		errs = append(errs, errors.New("llm.fallback_delay must be positive"))
	}
	if c.LLM.RateLimit <= 0 || c.LLM.RateBurst <= 0 {
		errs = append(errs, errors.New("llm.rate_limit and llm.rate_burst must be positive"))
	}
	if c.Watcher.PollInterval <= 0 {
		errs = append(errs, errors.New("watcher.poll_interval must be positive"))
	}
	if c.Learning.AutomationThreshold < 1 {
		errs = append(errs, errors.New("learning.automation_threshold must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Storage.Engine = getEnv("COS_STORAGE_ENGINE", c.Storage.Engine)
	c.Storage.DataPath = getEnv("COS_DATA_PATH", c.Storage.DataPath)
	c.Storage.RedisURL = getEnv("COS_REDIS_URL", c.Storage.RedisURL)
	c.Storage.RedisPrefix = getEnv("COS_REDIS_PREFIX", c.Storage.RedisPrefix)

	c.Classifier.Mode = getEnv("COS_CLASSIFIER_MODE", c.Classifier.Mode)
	c.Classifier.DebounceWindow = getEnvDuration("COS_DEBOUNCE_WINDOW", c.Classifier.DebounceWindow)

	c.LLM.Provider = getEnv("COS_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.OllamaURL = getEnv("COS_OLLAMA_URL", c.LLM.OllamaURL)
	c.LLM.OllamaModel = getEnv("COS_OLLAMA_MODEL", c.LLM.OllamaModel)
	c.LLM.Timeout = getEnvDuration("COS_LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.FallbackDelay = getEnvDuration("COS_LLM_FALLBACK_DELAY", c.LLM.FallbackDelay)
	c.LLM.RateLimit = getEnvFloat("COS_LLM_RATE_LIMIT", c.LLM.RateLimit)
	c.LLM.RateBurst = getEnvInt("COS_LLM_RATE_BURST", c.LLM.RateBurst)

	c.Watcher.PollInterval = getEnvDuration("COS_WATCHER_POLL_INTERVAL", c.Watcher.PollInterval)
	c.Watcher.ContextFile = getEnv("COS_WATCHER_CONTEXT_FILE", c.Watcher.ContextFile)

	c.Log.Level = getEnv("COS_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("COS_LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnv("COS_LOG_FILE", c.Log.File)

	c.Learning.AutomationThreshold = getEnvInt("COS_AUTOMATION_THRESHOLD", c.Learning.AutomationThreshold)
}

// loadDotEnv reads COS_ENV_FILE, or ./.env when present. Variables already
// set in the process environment are never overridden.
func loadDotEnv() error {
	path := os.Getenv("COS_ENV_FILE")
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: failed to load %s: %w", path, err)
	}
	return nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable (e.g. "400ms")
// or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
