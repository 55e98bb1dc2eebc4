package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/cadpilot/internal/config"
	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/pkg/log"
)

// NewProvider creates the appropriate AIProvider based on configuration.
// Provider configs parse their own API keys, so a missing key fails here,
// before any transport starts.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (core.AIProvider, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		pc := config.NewAnthropicConfig(ctx)
		logProvider(ctx, cfg.LLMProvider, pc.Model)
		return NewAnthropic(pc.APIKey, pc.Model, pc.MaxTokens), nil
	case "openai":
		pc := config.NewOpenAIConfig(ctx)
		logProvider(ctx, cfg.LLMProvider, pc.Model)
		return NewOpenAI(pc.APIKey, pc.Model, pc.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}

func logProvider(ctx context.Context, provider, model string) {
	log.FromCtx(ctx).Info().
		Str("provider", provider).
		Str("model", model).
		Msg("starting llm provider")
}
