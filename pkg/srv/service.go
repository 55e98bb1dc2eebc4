package srv

import (
	"context"
	"time"

	"github.com/sandevgo/cadpilot/pkg/log"
)

const shutdownGrace = 10 * time.Second

// Service is one long-running transport or resource of the assistant.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices launches every transport in its own goroutine; a transport
// that cannot start takes the process down.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			logger.Debug().Msgf("starting %T", service)
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
		}(service)
	}
}

// ShutdownServices blocks until the run context ends, then shuts every
// service down under a fresh grace deadline. The run context is already
// cancelled at that point and would abort an http.Server drain immediately.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()
	logger := log.FromCtx(ctx)

	graceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()

	for _, service := range services {
		if err := service.Shutdown(graceCtx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", service)
		}
	}
}
