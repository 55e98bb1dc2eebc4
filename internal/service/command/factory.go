package command

import (
	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/internal/service/session"
)

func NewCommands(
	docs core.DocsRetriever,
	history *session.Tracker,
	runner ValidationToggler,
) []core.Command {
	return []core.Command{
		NewDocsCommand(docs),
		NewHistoryCommand(history),
		NewClearCommand(history),
		NewValidateCommand(runner),
	}
}
