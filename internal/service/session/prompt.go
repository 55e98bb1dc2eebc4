package session

import (
	"strings"

	"github.com/sandevgo/cadpilot/internal/core"
)

const systemInstruction = `You are CADPilot, an assistant that writes scripts for a parametric CAD document.

Scripts are Go source interpreted inside the host. They import the document binding as "cad" and must define the entry point:

    func Run(ctx *cad.Context) (string, error)

Rules:
- Obtain the document with cad.Active(); never construct one.
- Wrap every dimension in cad.MM or cad.CM.
- Check the error returned by Extrude, Revolve and Combine.
- Check sketch.Profiles() before extruding.
- Return a short human-readable summary of what was built.

When the user asks you to build or modify geometry, reply with exactly one fenced code block tagged go containing the complete script, preceded by a one-paragraph explanation.`

// fixIntentKeywords mark a request as an attempt to repair a previous
// failure; the last failure text is then attached to the prompt.
var fixIntentKeywords = []string{
	"fix", "error", "issue", "problem", "failed", "resolve", "help", "not working",
}

var scriptIntentKeywords = []string{
	"create", "make", "build", "draw", "model", "add", "extrude", "revolve",
	"cut", "join", "sketch", "modify", "change", "script", "code",
}

// Builder assembles the message list for one model call.
type Builder struct {
	docs core.DocsRetriever
}

func NewBuilder(docs core.DocsRetriever) *Builder {
	return &Builder{docs: docs}
}

// Build produces system context plus the user turn. lastFailure is attached
// only when the text shows fix intent.
func (b *Builder) Build(in Inbound, lastFailure string) []core.Message {
	messages := []core.Message{
		{Role: core.RoleSystem, Content: systemInstruction},
	}

	if digest := b.docs.Digest(in.Text); digest != "" {
		messages = append(messages, core.Message{Role: core.RoleSystem, Content: digest})
	}

	if lastFailure != "" && HasFixIntent(in.Text) {
		messages = append(messages, core.Message{
			Role:    core.RoleSystem,
			Content: "The previous script failed with this error:\n" + lastFailure + "\nThe user is asking you to resolve it.",
		})
	}

	if in.Code != "" {
		messages = append(messages, core.Message{
			Role:    core.RoleSystem,
			Content: "Current script in the user's editor:\n```go\n" + in.Code + "\n```",
		})
	}

	messages = append(messages, core.Message{Role: core.RoleUser, Content: b.userTurn(in.Text)})
	return messages
}

// RepairTurn is the follow-up sent for the single automatic repair attempt
// after an executed script fails.
func RepairTurn(failure string) core.Message {
	return core.Message{
		Role: core.RoleUser,
		Content: "The script failed when executed:\n" + failure +
			"\nProvide a corrected complete script in one fenced go code block.",
	}
}

// userTurn frames a request that never names geometry or code as an explicit
// script request; messages that already carry an intent keyword pass through
// untouched.
func (b *Builder) userTurn(text string) string {
	if HasScriptIntent(text) {
		return text
	}
	return "Write a script to: " + text
}

func HasFixIntent(text string) bool {
	return containsAny(text, fixIntentKeywords)
}

func HasScriptIntent(text string) bool {
	return containsAny(text, scriptIntentKeywords)
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
