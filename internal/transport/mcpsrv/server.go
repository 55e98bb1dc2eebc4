// Package mcpsrv exposes the assistant over MCP stdio so editor-side agents
// can generate and run scripts as tools.
package mcpsrv

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/internal/service/session"
	"github.com/sandevgo/cadpilot/pkg/log"
)

const mcpSessionID = "mcp"

type Server struct {
	mcp     *server.MCPServer
	session *session.Session
	runner  core.ScriptRunner
	cancel  context.CancelFunc
}

func NewServer(chat *session.Session, runner core.ScriptRunner) *Server {
	s := &Server{
		session: chat,
		runner:  runner,
	}

	srv := server.NewMCPServer(core.AppName, core.AppVersion)

	srv.AddTool(mcp.NewTool("generate_script",
		mcp.WithDescription("Ask the assistant to generate and execute a script for the active document. Returns the reply including the execution result."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Natural-language description of the geometry to create or modify"),
		),
	), s.handleGenerate)

	srv.AddTool(mcp.NewTool("submit_script",
		mcp.WithDescription("Validate and execute a script against the active document. The script must define func Run(ctx *cad.Context) (string, error)."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Complete script source"),
		),
	), s.handleSubmit)

	s.mcp = srv
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting mcp stdio server")

	ctx, s.cancel = context.WithCancel(ctx)
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *Server) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reply := s.session.HandleMessage(ctx, mcpSessionID, session.Inbound{Text: prompt})
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleSubmit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome := s.runner.Submit(ctx, code)
	if outcome.Failed() {
		msg := outcome.Failure
		if outcome.Remedy != "" {
			msg += "\n\nSuggested fix: " + outcome.Remedy
		}
		return mcp.NewToolResultError(msg), nil
	}

	return mcp.NewToolResultText(outcome.Result), nil
}
