package core

import "context"

type TurnsRepository interface {
	AddTurn(ctx context.Context, turn Turn) error
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error)
}
