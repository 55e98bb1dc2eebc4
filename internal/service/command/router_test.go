package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/cadpilot/internal/docs"
	"github.com/sandevgo/cadpilot/internal/runner"
	"github.com/sandevgo/cadpilot/internal/service/session"
)

func newTestRouter() (*Router, *session.Tracker, *runner.Runner) {
	retriever := docs.NewRetriever()
	history := session.NewTracker(5)
	r := runner.New(retriever, true)
	return New(NewCommands(retriever, history, r)), history, r
}

func TestRouterExecute(t *testing.T) {
	router, _, _ := newTestRouter()
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		handled  bool
		contains string
	}{
		{
			name:    "non-command passes through",
			input:   "create a cube",
			handled: false,
		},
		{
			name:     "unknown command",
			input:    "/frobnicate",
			handled:  true,
			contains: "Unknown command: /frobnicate",
		},
		{
			name:     "docs lookup",
			input:    "/docs revolve",
			handled:  true,
			contains: "## revolve",
		},
		{
			name:     "docs without topic shows usage",
			input:    "/docs",
			handled:  true,
			contains: "/docs <topic>",
		},
		{
			name:     "empty history",
			input:    "/history",
			handled:  true,
			contains: "empty",
		},
		{
			name:     "validate bad argument",
			input:    "/validate maybe",
			handled:  true,
			contains: "Error:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, handled := router.Execute(ctx, "s1", tt.input)
			require.Equal(t, tt.handled, handled)
			if tt.contains != "" {
				assert.Contains(t, got, tt.contains)
			}
		})
	}
}

func TestValidateToggle(t *testing.T) {
	router, _, r := newTestRouter()
	ctx := context.Background()

	require.True(t, r.ValidationEnabled())

	got, handled := router.Execute(ctx, "s1", "/validate off")
	require.True(t, handled)
	assert.Contains(t, got, "Validation disabled")
	assert.False(t, r.ValidationEnabled())

	got, handled = router.Execute(ctx, "s1", "/validate on")
	require.True(t, handled)
	assert.Contains(t, got, "Validation enabled")
	assert.True(t, r.ValidationEnabled())
}

func TestHistoryCommandListsNewestFirst(t *testing.T) {
	router, history, _ := newTestRouter()

	history.Add("s1", "code a", "first request")
	history.Add("s1", "code b", "second request")

	got, handled := router.Execute(context.Background(), "s1", "/history")
	require.True(t, handled)
	assert.Contains(t, got, "**1.** second request")
	assert.Contains(t, got, "**2.** first request")

	router.Execute(context.Background(), "s1", "/clear")
	got, _ = router.Execute(context.Background(), "s1", "/history")
	assert.Contains(t, got, "empty")
}
