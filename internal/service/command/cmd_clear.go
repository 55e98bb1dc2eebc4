package command

import (
	"context"

	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/internal/service/session"
)

type ClearCommand struct {
	history   *session.Tracker
	formatter *ResponseFormatter
}

func NewClearCommand(history *session.Tracker) core.Command {
	return &ClearCommand{
		history:   history,
		formatter: NewResponseFormatter(),
	}
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Description() string {
	return "Forget the remembered scripts for this session"
}

func (c *ClearCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	c.history.Clear(sessionID)
	return c.formatter.Success("Script history cleared"), nil
}
