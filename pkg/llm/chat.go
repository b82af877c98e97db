package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

// ErrGenerationUnavailable is returned when the generation endpoint is
// unreachable or times out. Retry policy, if any, belongs to the caller.
var ErrGenerationUnavailable = errors.New("generation model unavailable")

// ChatConfig configures the Ollama generation model. Temperature stays
// pinned to zero so the same question against the same index always
// yields the same answer.
type ChatConfig struct {
	Model     string
	MaxTokens int
	BaseURL   string // Ollama server URL
}

// ChatEngine invokes a local Ollama model with an assembled prompt.
type ChatEngine struct {
	config ChatConfig
	llm    llms.Model
}

// NewWithConfig creates a ChatEngine with the given configuration,
// applying defaults for unset fields.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	if config.Model == "" {
		config.Model = "llama3.2"
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2000
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		llm:    llm,
	}, nil
}

// Generate sends the prompt to the model and returns its completion text.
func (ce *ChatEngine) Generate(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	response, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(0),
		llms.WithMaxTokens(ce.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
	}

	return response.Choices[0].Content, nil
}
