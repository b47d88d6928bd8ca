package convert

import (
	"context"
	"fmt"

	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/observability"
)

// New builds the converter selected by cfg.Backend, wrapped with rate limiting when configured
// and with call logging. The returned close func releases backend resources and is never nil.
func New(ctx context.Context, cfg config.ConverterConfig, logger *observability.Logger) (domain.PageConverter, func() error, error) {
	noop := func() error { return nil }

	var (
		conv    domain.PageConverter
		closeFn = noop
	)

	switch cfg.Backend {
	case config.BackendAnthropic:
		if cfg.Anthropic.APIKey == "" {
			return nil, noop, domain.InternalError("CLAUDE_API_KEY not set", nil)
		}
		conv = NewAnthropicClient(AnthropicOptions{
			APIKey:    cfg.Anthropic.APIKey,
			Model:     cfg.Model,
			URL:       cfg.Anthropic.BaseURL,
			Version:   cfg.Anthropic.Version,
			MaxTokens: cfg.MaxTokens,
		})

	case config.BackendOpenRouter:
		if cfg.OpenRouter.APIKey == "" {
			return nil, noop, domain.InternalError("OPENROUTER_API_KEY not set", nil)
		}
		conv = NewOpenRouterClient(cfg.OpenRouter.APIKey, cfg.Model, cfg.OpenRouter.BaseURL, cfg.MaxTokens)

	case config.BackendOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, noop, domain.InternalError("OPENAI_API_KEY not set", nil)
		}
		conv = NewOpenAIClient(cfg.OpenAI.APIKey, cfg.Model, cfg.OpenAI.BaseURL, cfg.MaxTokens)

	case config.BackendVertex:
		vc, err := NewVertexClient(ctx, cfg.Vertex.Project, cfg.Vertex.Region, cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, noop, err
		}
		conv, closeFn = vc, vc.Close

	case config.BackendTesseract:
		conv = NewTesseractClient(cfg.Tesseract.Binary, cfg.Tesseract.Language)

	default:
		return nil, noop, domain.ValidationError(fmt.Sprintf("unknown converter backend %q", cfg.Backend), nil)
	}

	if cfg.RateLimit.RequestsPerSecond > 0 {
		conv = NewRateLimited(conv, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	if logger != nil {
		conv = NewLogged(conv, cfg.Backend, logger)
	}

	return conv, closeFn, nil
}
