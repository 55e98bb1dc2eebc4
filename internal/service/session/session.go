// Package session orchestrates one chat turn: prompt assembly, the model
// call, script extraction and execution, and the reply the user sees.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sandevgo/cadpilot/internal/config"
	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/pkg/codeblock"
	"github.com/sandevgo/cadpilot/pkg/log"
	"github.com/sandevgo/cadpilot/pkg/retry"
)

const executePreviousPrefix = "execute the previous code"

// Inbound is one user turn. Code optionally carries the script currently in
// the user's editor as extra context.
type Inbound struct {
	Text string `json:"text"`
	Code string `json:"code,omitempty"`
}

type Session struct {
	cfg     *config.AppConfig
	ai      core.AIProvider
	runner  core.ScriptRunner
	docs    core.DocsRetriever
	prompt  *Builder
	history *Tracker
	turns   core.TurnsRepository
	retrier *retry.Retrier
	router  core.CmdRouter

	// turnMu makes a session single-flight: one turn, including its
	// self-repair follow-up, finishes before the next starts.
	turnMu sync.Mutex

	mu          sync.Mutex
	lastFailure map[string]string
}

func New(
	cfg *config.AppConfig,
	ai core.AIProvider,
	runner core.ScriptRunner,
	docs core.DocsRetriever,
	turns core.TurnsRepository,
) *Session {
	return &Session{
		cfg:         cfg,
		ai:          ai,
		runner:      runner,
		docs:        docs,
		prompt:      NewBuilder(docs),
		history:     NewTracker(cfg.HistorySize),
		turns:       turns,
		retrier:     retry.NewTransportRetrier(),
		lastFailure: make(map[string]string),
	}
}

// SetRouter attaches the slash-command router. Set after construction because
// commands themselves act on the session.
func (s *Session) SetRouter(router core.CmdRouter) {
	s.router = router
}

func (s *Session) History() *Tracker {
	return s.history
}

// HandleMessage processes one turn and always returns reply text; model and
// execution failures become part of the reply, never an error to the
// transport. Turns are single-flight across the whole session, so transports
// may call this from any goroutine without interleaving model calls, history
// ordering or failure attribution.
func (s *Session) HandleMessage(ctx context.Context, sessionID string, in Inbound) string {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	logger := log.FromCtx(ctx)
	text := strings.TrimSpace(in.Text)

	if strings.HasPrefix(text, "/") && s.router != nil {
		if reply, handled := s.router.Execute(ctx, sessionID, text); handled {
			return reply
		}
	}

	if strings.HasPrefix(strings.ToLower(text), executePreviousPrefix) {
		return s.executePrevious(ctx, sessionID, in.Code)
	}

	messages := s.prompt.Build(Inbound{Text: text, Code: in.Code}, s.failureFor(sessionID))

	reply, err := s.chat(ctx, messages)
	if err != nil {
		logger.Error().Err(err).Msg("model call failed")
		return fmt.Sprintf("Model call failed: %v. Please try again.", err)
	}

	response := reply

	code, found := codeblock.Extract(reply)
	if found && !declinesExecution(text) {
		outcome := s.runner.Submit(ctx, code)
		response += formatOutcome(outcome)
		s.history.Add(sessionID, code, text)
		s.recordFailure(sessionID, outcome)

		if outcome.Failed() && !outcome.Blocked() && s.knownFault(outcome.Failure) {
			response += s.selfRepair(ctx, sessionID, messages, reply, outcome)
		}
	}

	s.logTurn(ctx, sessionID, text, reply, code)
	return s.truncate(response)
}

// selfRepair makes exactly one follow-up model call after an executed script
// fails, runs the corrected script, and reports both. A second failure ends
// the turn; the user decides what happens next.
func (s *Session) selfRepair(ctx context.Context, sessionID string, messages []core.Message, reply string, failed core.Outcome) string {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("attempting script self-repair")

	followUp := append(messages,
		core.Message{Role: core.RoleAssistant, Content: reply},
		RepairTurn(failed.Failure),
	)

	repairReply, err := s.chat(ctx, followUp)
	if err != nil {
		logger.Error().Err(err).Msg("self-repair model call failed")
		return ""
	}

	code, found := codeblock.Extract(repairReply)
	if !found {
		return "\n\n**Improved Solution:**\n" + repairReply
	}

	outcome := s.runner.Submit(ctx, code)
	s.history.Add(sessionID, code, "self-repair")
	s.recordFailure(sessionID, outcome)

	return "\n\n**Improved Solution:**\n" + repairReply + formatOutcome(outcome)
}

// executePrevious skips the model call; supplied code wins over the most
// recently generated script.
func (s *Session) executePrevious(ctx context.Context, sessionID, suppliedCode string) string {
	code := suppliedCode
	label := "supplied code"
	if code == "" {
		entry, ok := s.history.Latest(sessionID)
		if !ok {
			return "No previous script to execute."
		}
		code = entry.Code
		label = entry.Label
	}

	outcome := s.runner.Submit(ctx, code)
	s.recordFailure(sessionID, outcome)
	return fmt.Sprintf("Re-executing the previous script (%s).%s", label, formatOutcome(outcome))
}

// knownFault gates the automatic repair pass: only failures the remedy table
// recognizes get a second model call.
func (s *Session) knownFault(failure string) bool {
	_, ok := s.docs.Remedy(failure)
	return ok
}

// chat wraps the provider call in the transport retrier. Only the last error
// surfaces; intermediate failures are retried silently.
func (s *Session) chat(ctx context.Context, messages []core.Message) (string, error) {
	var reply core.Message
	err := s.retrier.Do(ctx, func() error {
		var chatErr error
		reply, chatErr = s.ai.Chat(ctx, messages)
		return chatErr
	})
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

func (s *Session) recordFailure(sessionID string, outcome core.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outcome.Failed() {
		s.lastFailure[sessionID] = outcome.Failure
		s.history.AddError(sessionID, outcome.Failure)
		return
	}
	delete(s.lastFailure, sessionID)
}

// failureFor prefers the failure of the immediately preceding run; when the
// last run succeeded it falls back to the bounded error history, so "fix
// that error" still has context a few turns later.
func (s *Session) failureFor(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if failure, ok := s.lastFailure[sessionID]; ok {
		return failure
	}
	if recent, ok := s.history.LatestError(sessionID); ok {
		return recent
	}
	return ""
}

func (s *Session) logTurn(ctx context.Context, sessionID, userText, reply, code string) {
	if s.turns == nil {
		return
	}

	turn := core.Turn{
		SessionID: sessionID,
		UserText:  userText,
		ReplyText: reply,
		Code:      code,
	}
	s.mu.Lock()
	if failure, ok := s.lastFailure[sessionID]; ok {
		turn.RunFailed = true
		turn.RunResult = failure
	}
	s.mu.Unlock()
	if err := s.turns.AddTurn(ctx, turn); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to log turn")
	}
}

func (s *Session) truncate(response string) string {
	max := s.cfg.ResponseMaxChars
	if max <= 0 || len(response) <= max {
		return response
	}
	// back off to a rune boundary so the cut never emits invalid UTF-8
	for max > 0 && !utf8.RuneStart(response[max]) {
		max--
	}
	return response[:max] + "\n... (truncated)"
}

func formatOutcome(outcome core.Outcome) string {
	var sb strings.Builder
	sb.WriteString("\n\n**Execution Result:**\n")

	if outcome.Failed() {
		sb.WriteString("Failed: " + outcome.Failure)
		if outcome.Remedy != "" {
			sb.WriteString("\n\nSuggested fix: " + outcome.Remedy)
		}
	} else {
		sb.WriteString(outcome.Result)
	}

	if notes := advisoryNotes(outcome); notes != "" {
		sb.WriteString(notes)
	}
	return sb.String()
}

func advisoryNotes(outcome core.Outcome) string {
	var notes []string
	for _, issue := range outcome.Issues {
		if issue.Severity == core.SeverityAdvisory {
			notes = append(notes, "- "+issue.Message)
		}
	}
	if len(notes) == 0 {
		return ""
	}
	return "\n\nNotes:\n" + strings.Join(notes, "\n")
}

// declinesExecution detects an explicit opt-out in the user's request.
func declinesExecution(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "don't execute") ||
		strings.Contains(lower, "do not execute") ||
		strings.Contains(lower, "don't run") ||
		strings.Contains(lower, "do not run")
}
