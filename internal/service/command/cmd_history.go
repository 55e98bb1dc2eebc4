package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/internal/service/session"
)

type HistoryCommand struct {
	history   *session.Tracker
	formatter *ResponseFormatter
}

func NewHistoryCommand(history *session.Tracker) core.Command {
	return &HistoryCommand{
		history:   history,
		formatter: NewResponseFormatter(),
	}
}

func (c *HistoryCommand) Name() string {
	return "history"
}

func (c *HistoryCommand) Description() string {
	return "Show recent scripts, newest first"
}

func (c *HistoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	entries := c.history.All(sessionID)
	if len(entries) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Script History"),
			c.formatter.Label("Status", "empty"),
			c.formatter.Tip("Scripts appear here after the assistant generates one"),
		), nil
	}

	items := make([]string, len(entries))
	for i, entry := range entries {
		items[i] = fmt.Sprintf("**%d.** %s", i+1, entry.Label)
	}

	return c.formatter.Combine(
		c.formatter.Info("Script History"),
		c.formatter.List(items),
		c.formatter.Tip(`Say "execute the previous code" to re-run the newest one`),
	), nil
}
