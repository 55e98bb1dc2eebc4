package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/pkg/log"
)

const executeTimeout = 30 * time.Second

// Remedier maps a failure text to a canned hint for known geometry faults.
type Remedier interface {
	Remedy(errText string) (string, bool)
}

// Runner drives one submission through validating and executing to a terminal
// succeeded or failed state. Submissions are serialized; the document binding
// is a shared session resource.
type Runner struct {
	mu       sync.Mutex
	sandbox  *Sandbox
	remedier Remedier
	validate bool
}

func New(remedier Remedier, validationEnabled bool) *Runner {
	return &Runner{
		sandbox:  NewSandbox(),
		remedier: remedier,
		validate: validationEnabled,
	}
}

// SetValidation toggles pre-execution validation at runtime.
func (r *Runner) SetValidation(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validate = enabled
}

func (r *Runner) ValidationEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.validate
}

// Submit runs one script to completion and reports the outcome. A blocking
// validation issue fails the submission without executing; otherwise the
// script runs in the sandbox with a bounded deadline.
func (r *Runner) Submit(ctx context.Context, code string) core.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := log.FromCtx(ctx)
	outcome := core.Outcome{State: core.StateIdle}

	if code == "" {
		outcome.State = core.StateFailed
		outcome.Failure = "no script to execute"
		return outcome
	}

	if r.validate {
		outcome.State = core.StateValidating
		outcome.Issues = Validate(code)
		if outcome.Blocked() {
			outcome.State = core.StateFailed
			outcome.Failure = blockedFailure(outcome.Issues)
			logger.Warn().Int("issues", len(outcome.Issues)).Msg("script blocked by validation")
			return outcome
		}
	}

	outcome.State = core.StateExecuting
	logger.Debug().Int("script_bytes", len(code)).Msg("executing script")

	execCtx, cancel := context.WithTimeout(ctx, executeTimeout)
	defer cancel()

	result, err := r.sandbox.Execute(execCtx, code)
	if err != nil {
		outcome.State = core.StateFailed
		outcome.Failure = err.Error()
		if r.remedier != nil {
			if remedy, ok := r.remedier.Remedy(err.Error()); ok {
				outcome.Remedy = remedy
			}
		}
		logger.Warn().Err(err).Msg("script execution failed")
		return outcome
	}

	outcome.State = core.StateSucceeded
	outcome.Result = "executed successfully"
	if result != "" {
		outcome.Result += "\n" + result
	}
	logger.Info().Msg("script execution succeeded")
	return outcome
}

func blockedFailure(issues []core.Issue) string {
	msg := "validation blocked execution:"
	for _, issue := range issues {
		if issue.Severity == core.SeverityBlocking {
			msg += fmt.Sprintf("\n- %s", issue.Message)
		}
	}
	return msg
}
