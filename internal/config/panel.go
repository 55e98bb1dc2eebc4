package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/cadpilot/pkg/log"
)

type PanelConfig struct {
	ListenAddr string `env:"PANEL_LISTEN_ADDR" envDefault:"127.0.0.1:7430"`
}

func NewPanelConfig(ctx context.Context) *PanelConfig {
	c := &PanelConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Panel config")
	}
	return c
}
