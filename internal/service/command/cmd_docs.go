package command

import (
	"context"
	"strings"

	"github.com/sandevgo/cadpilot/internal/core"
)

type DocsCommand struct {
	docs      core.DocsRetriever
	formatter *ResponseFormatter
}

func NewDocsCommand(docs core.DocsRetriever) core.Command {
	return &DocsCommand{
		docs:      docs,
		formatter: NewResponseFormatter(),
	}
}

func (c *DocsCommand) Name() string {
	return "docs"
}

func (c *DocsCommand) Description() string {
	return "Look up scripting API reference by topic"
}

func (c *DocsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Documentation"),
			c.formatter.Usage("/docs <topic>"),
			c.formatter.Tip("Topics: sketch, extrude, revolve, boolean"),
		), nil
	}

	query := strings.Join(args, " ")
	digest := c.docs.Digest(query)
	if digest == "" {
		return c.formatter.Combine(
			c.formatter.Info("Documentation"),
			c.formatter.Label("No match", query),
			c.formatter.Tip("Topics: sketch, extrude, revolve, boolean"),
		), nil
	}
	return digest, nil
}
