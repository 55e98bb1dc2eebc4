package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/cadpilot/internal/config"
	"github.com/sandevgo/cadpilot/internal/docs"
	"github.com/sandevgo/cadpilot/internal/providers/llm"
	"github.com/sandevgo/cadpilot/internal/runner"
	"github.com/sandevgo/cadpilot/internal/service/command"
	"github.com/sandevgo/cadpilot/internal/service/session"
	"github.com/sandevgo/cadpilot/internal/storage/sqlite"
	"github.com/sandevgo/cadpilot/internal/transport/cli"
	"github.com/sandevgo/cadpilot/internal/transport/mcpsrv"
	"github.com/sandevgo/cadpilot/internal/transport/panel"
	"github.com/sandevgo/cadpilot/internal/transport/telegram"
	"github.com/sandevgo/cadpilot/pkg/log"
	"github.com/sandevgo/cadpilot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Documentation retriever with on-disk cache
	retriever := initDocs(ctx, appCfg)

	// 3. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup("database", db.Close))
	turnsRepo := sqlite.NewTurnsRepo(db)

	// 4. AI Provider. Parsing the provider config verifies credentials, so a
	// missing API key stops startup before any transport binds.
	aiProvider, err := llm.NewProvider(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 5. Script runner
	scriptRunner := runner.New(retriever, appCfg.ValidationEnabled)

	// 6. Chat session
	chat := session.New(appCfg, aiProvider, scriptRunner, retriever, turnsRepo)
	chat.SetRouter(command.New(command.NewCommands(retriever, chat.History(), scriptRunner)))

	// 7. Transports
	services = append(services, initTransports(ctx, appCfg, chat, scriptRunner)...)

	return services
}

func initDocs(ctx context.Context, cfg *config.AppConfig) *docs.Retriever {
	logger := log.FromCtx(ctx)

	retriever := docs.NewRetriever(
		docs.WithTokenBudget(cfg.DocsTokenBudget),
		docs.WithSourceBase(cfg.DocsBaseURL),
	)
	cache := docs.NewCache(cfg.GetDocsCachePath(), cfg.DocsCacheDays)

	if retriever.Restore(cache) {
		logger.Debug().Msg("documentation loaded from cache")
		return retriever
	}

	if err := retriever.Refresh(ctx, cache); err != nil {
		logger.Warn().Err(err).Msg("failed to refresh documentation cache")
	}
	return retriever
}

func initTransports(
	ctx context.Context,
	cfg *config.AppConfig,
	chat *session.Session,
	scriptRunner *runner.Runner,
) []srv.Service {
	logger := log.FromCtx(ctx)
	var services []srv.Service

	if cfg.EnablePanel {
		panelCfg := config.NewPanelConfig(ctx)
		services = append(services, panel.NewServer(ctx, panelCfg, chat))
	}

	if cfg.EnableCLI {
		services = append(services, cli.NewChat(chat))
	}

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, chat)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if cfg.EnableMCP {
		services = append(services, mcpsrv.NewServer(chat, scriptRunner))
	}

	if len(services) == 0 {
		logger.Fatal().Msg("no transport enabled, set ENABLE_PANEL, ENABLE_CLI, ENABLE_TELEGRAM or ENABLE_MCP")
	}
	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
