package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderDeepSeek   = "deepseek"
)

// placeholderAPIKey is the value shipped in .env.example; it never enables reasoning.
const placeholderAPIKey = "your_openrouter_api_key_here"

var defaultBackendURLs = map[string]string{
	ProviderOpenRouter: "https://openrouter.ai/api/v1",
	ProviderOpenAI:     "https://api.openai.com/v1",
	ProviderDeepSeek:   "https://api.deepseek.com/v1",
}

var defaultModels = map[string]string{
	ProviderOpenRouter: "anthropic/claude-sonnet-4",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderDeepSeek:   "deepseek-chat",
}

type Config struct {
	ResultsDir string `json:"results_dir" envconfig:"RESULTS_DIR"`

	LLMProvider string `json:"llm_provider" envconfig:"LLM_PROVIDER"`
	Model       string `json:"model" envconfig:"LLM_MODEL"`
	BackendURL  string `json:"backend_url" envconfig:"BACKEND_URL"`

	// AI Model API Keys
	OpenRouterAPIKey string `json:"openrouter_api_key" envconfig:"OPENROUTER_API_KEY"`
	OpenAIAPIKey     string `json:"openai_api_key" envconfig:"OPENAI_API_KEY"`
	DeepSeekAPIKey   string `json:"deepseek_api_key" envconfig:"DEEPSEEK_API_KEY"`

	Temperature      float32       `json:"temperature" envconfig:"LLM_TEMPERATURE"`
	MaxTokens        int           `json:"max_tokens" envconfig:"LLM_MAX_TOKENS"`
	ReasoningTimeout time.Duration `json:"reasoning_timeout" envconfig:"REASONING_TIMEOUT"`

	Debug     bool   `json:"debug" envconfig:"CORTEXFX_DEBUG"`
	LogLevel  string `json:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `json:"log_format" envconfig:"LOG_FORMAT"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled" envconfig:"EINO_DEBUG_ENABLED"`
	EinoDebugPort    int  `json:"eino_debug_port" envconfig:"EINO_DEBUG_PORT"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	return DefaultConfigWithRoot(currentDir)
}

// DefaultConfigWithRoot builds the defaults, then applies .env and environment overrides.
func DefaultConfigWithRoot(root string) *Config {
	cfg := &Config{
		ResultsDir: filepath.Join(root, "results"),

		LLMProvider: ProviderOpenRouter,
		Model:       defaultModels[ProviderOpenRouter],
		BackendURL:  "",

		Temperature:      0.3,
		MaxTokens:        1500,
		ReasoningTimeout: 30 * time.Second,

		Debug:     false,
		LogLevel:  "info",
		LogFormat: "text",

		// Eino Debug defaults
		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	_ = cfg.LoadFromEnv()

	return cfg
}

// LoadFromEnv overrides fields whose environment variables are set. Unset variables
// leave the current values untouched.
func (c *Config) LoadFromEnv() error {
	provider := c.LLMProvider
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("load config from env: %w", err)
	}
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	// switching provider without naming a model picks that provider's default
	if c.LLMProvider != provider && os.Getenv("LLM_MODEL") == "" {
		if m, ok := defaultModels[c.LLMProvider]; ok {
			c.Model = m
		}
	}
	return nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if _, ok := defaultBackendURLs[c.LLMProvider]; !ok {
		return fmt.Errorf("unsupported llm provider %q (supported: %s, %s, %s)",
			c.LLMProvider, ProviderOpenRouter, ProviderOpenAI, ProviderDeepSeek)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.ReasoningTimeout <= 0 {
		return fmt.Errorf("reasoning timeout must be positive, got %s", c.ReasoningTimeout)
	}
	return nil
}

// APIKey returns the credential of the selected provider, or "" when it is unset
// or still the placeholder value.
func (c *Config) APIKey() string {
	var key string
	switch c.LLMProvider {
	case ProviderOpenRouter:
		key = c.OpenRouterAPIKey
	case ProviderOpenAI:
		key = c.OpenAIAPIKey
	case ProviderDeepSeek:
		key = c.DeepSeekAPIKey
	}
	key = strings.TrimSpace(key)
	if key == placeholderAPIKey {
		return ""
	}
	return key
}

// apiKeyFields maps the environment variable of each provider key to its field.
func (c *Config) apiKeyFields() map[string]*string {
	return map[string]*string{
		"OPENROUTER_API_KEY": &c.OpenRouterAPIKey,
		"OPENAI_API_KEY":     &c.OpenAIAPIKey,
		"DEEPSEEK_API_KEY":   &c.DeepSeekAPIKey,
	}
}

// ReasoningConfigured reports whether an external reasoning capability can be built.
func (c *Config) ReasoningConfigured() bool {
	return c.APIKey() != ""
}

// ResolvedBackendURL returns BackendURL or the provider default.
func (c *Config) ResolvedBackendURL() string {
	if u := strings.TrimSpace(c.BackendURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultBackendURLs[c.LLMProvider]
}

func (c *Config) EnsureDirectories() error {
	path := strings.TrimSpace(c.ResultsDir)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}
