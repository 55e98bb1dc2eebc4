package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/cadpilot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CADPILOT_RUNTIME_PATH" envDefault:".cadpilot"`
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"anthropic"`

	// Transport flags
	EnablePanel    bool `env:"ENABLE_PANEL" envDefault:"true"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"false"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableMCP      bool `env:"ENABLE_MCP" envDefault:"false"`

	// Runner policy
	ValidationEnabled bool `env:"VALIDATION_ENABLED" envDefault:"true"`

	// Prompt enrichment
	HistorySize      int    `env:"HISTORY_SIZE" envDefault:"5"`
	DocsTokenBudget  int    `env:"DOCS_TOKEN_BUDGET" envDefault:"1200"`
	DocsCacheDays    int    `env:"DOCS_CACHE_DAYS" envDefault:"14"`
	DocsBaseURL      string `env:"DOCS_BASE_URL" envDefault:"https://docs.sandevgo.dev/cadpilot"`
	TurnLogPageSize  int    `env:"TURN_LOG_PAGE_SIZE" envDefault:"10"`
	ResponseMaxChars int    `env:"RESPONSE_MAX_CHARS" envDefault:"16000"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	if filepath.IsAbs(c.RuntimePath) {
		return c.RuntimePath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, c.RuntimePath)
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.GetRuntimePath(), "cadpilot.db")
}

func (c AppConfig) GetDocsCachePath() string {
	return filepath.Join(c.GetRuntimePath(), "docs_cache.json")
}
