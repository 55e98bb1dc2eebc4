package core

import "time"

const (
	AppName       = "CADPilot"
	AppUserAgent  = "CADPilot/0.2"
	RepositoryURL = "https://github.com/sandevgo/cadpilot"
	AppVersion    = "0.2.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is one chat interaction: what the user asked, what the model said,
// and what happened when the extracted script ran.
type Turn struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	UserText  string    `json:"user_text"`
	ReplyText string    `json:"reply_text"`
	Code      string    `json:"code,omitempty"`
	RunResult string    `json:"run_result,omitempty"`
	RunFailed bool      `json:"run_failed"`
	CreatedAt time.Time `json:"created_at"`
}

type RunState string

const (
	StateIdle       RunState = "idle"
	StateValidating RunState = "validating"
	StateExecuting  RunState = "executing"
	StateSucceeded  RunState = "succeeded"
	StateFailed     RunState = "failed"
)

type IssueSeverity string

const (
	SeverityBlocking IssueSeverity = "blocking"
	SeverityAdvisory IssueSeverity = "advisory"
)

type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// Outcome is the terminal report of one script submission.
type Outcome struct {
	State  RunState `json:"state"`
	Issues []Issue  `json:"issues,omitempty"`

	// Result holds the success text, Failure the fault text with trace.
	Result  string `json:"result,omitempty"`
	Failure string `json:"failure,omitempty"`

	// Remedy is a canned hint attached when the failure matches a known
	// geometry-operation signature.
	Remedy string `json:"remedy,omitempty"`
}

func (o Outcome) Failed() bool {
	return o.State == StateFailed
}

func (o Outcome) Blocked() bool {
	for _, issue := range o.Issues {
		if issue.Severity == SeverityBlocking {
			return true
		}
	}
	return false
}
