package llm

import (
	"context"
	"fmt"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openaicompat"

	"github.com/acheong08/guardian-angel/internal/config"
)

// Generator sends one prompt to a text-generation service and returns its
// answer. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// languageModelProvider is the part of a fantasy provider we rely on
type languageModelProvider interface {
	LanguageModel(ctx context.Context, modelID string) (fantasy.LanguageModel, error)
}

// Model is a Generator backed by a fantasy language model
type Model struct {
	model fantasy.LanguageModel
	name  string
}

// New creates the model handle described by cfg. It only builds clients;
// no request is sent until Generate is called.
func New(ctx context.Context, cfg config.Config) (*Model, error) {
	if cfg.APIKey == "" {
		return nil, &config.Error{Key: "GOOGLE_API_KEY", Message: "API key is required for AI analysis"}
	}

	var (
		provider languageModelProvider
		err      error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.BaseURL != "" {
			provider, err = openai.New(
				openai.WithBaseURL(cfg.BaseURL),
				openai.WithAPIKey(cfg.APIKey),
			)
		} else {
			provider, err = openai.New(openai.WithAPIKey(cfg.APIKey))
		}
	case config.ProviderOpenAICompat, "":
		provider, err = openaicompat.New(
			openaicompat.WithBaseURL(cfg.BaseURL),
			openaicompat.WithAPIKey(cfg.APIKey),
		)
	default:
		return nil, &config.Error{Key: "GUARDIAN_PROVIDER", Message: fmt.Sprintf("unknown provider %q", cfg.Provider)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.Provider, err)
	}

	model, err := provider.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create language model: %w", err)
	}

	return &Model{model: model, name: cfg.Model}, nil
}

// Name returns the model identifier
func (m *Model) Name() string { return m.name }

// Generate runs a single-turn, tool-less agent call and returns the text
// of the final response.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	agent := fantasy.NewAgent(m.model)
	result, err := agent.Generate(ctx, fantasy.AgentCall{
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("agent generation failed: %w", err)
	}
	return result.Response.Content.Text(), nil
}
