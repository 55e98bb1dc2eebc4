package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// ScriptRunner executes an untrusted generated script and reports the
// outcome. Implementations own the isolation mechanism; callers never see a
// raw panic or interpreter error.
type ScriptRunner interface {
	Submit(ctx context.Context, code string) Outcome
}

type DocsRetriever interface {
	Digest(query string) string
	Remedy(errText string) (string, bool)
}
