package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dyike/CortexFX/config"
)

// ErrNoAPIKey is returned when the selected provider has no usable credential.
var ErrNoAPIKey = errors.New("llm api key not configured")

// NewChatModel builds the chat model of the configured provider. OpenRouter speaks the
// OpenAI protocol, so it shares the openai client with a different base URL.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrNoAPIKey, cfg.LLMProvider)
	}

	switch cfg.LLMProvider {
	case config.ProviderDeepSeek:
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      apiKey,
			BaseURL:     cfg.ResolvedBackendURL(),
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.ReasoningTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create DeepSeek model: %w", err)
		}
		return chatModel, nil
	default:
		maxTokens := cfg.MaxTokens
		temperature := cfg.Temperature
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.ResolvedBackendURL(),
			APIKey:      apiKey,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     cfg.ReasoningTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s model: %w", cfg.LLMProvider, err)
		}
		return chatModel, nil
	}
}
