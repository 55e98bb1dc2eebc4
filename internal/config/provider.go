package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/cadpilot/pkg/log"
)

// A missing API key is a hard startup failure: env.Parse rejects the empty
// value after godotenv has had its chance to supply one from the runtime
// .env file.

type AnthropicConfig struct {
	APIKey    string `env:"ANTHROPIC_API_KEY,required,notEmpty"`
	Model     string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-7-sonnet-latest"`
	MaxTokens int    `env:"ANTHROPIC_MAX_TOKENS" envDefault:"4000"`
}

func NewAnthropicConfig(ctx context.Context) *AnthropicConfig {
	c := &AnthropicConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Anthropic config")
	}
	return c
}

type OpenAIConfig struct {
	APIKey    string `env:"OPENAI_API_KEY,required,notEmpty"`
	Model     string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	MaxTokens int    `env:"OPENAI_MAX_TOKENS" envDefault:"4000"`
}

func NewOpenAIConfig(ctx context.Context) *OpenAIConfig {
	c := &OpenAIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse OpenAI config")
	}
	return c
}
