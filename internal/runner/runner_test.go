package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/cadpilot/internal/cad"
	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/internal/docs"
)

const cubeScript = `import (
	"errors"

	"cad"
)

func Run(ctx *cad.Context) (string, error) {
	doc := cad.Active()
	sketch := doc.NewSketch(cad.PlaneXY)
	sketch.Rect(0, 0, cad.MM(10), cad.MM(10))
	if sketch.Profiles() == 0 {
		return "", errors.New("no profile")
	}
	body, err := doc.Extrude(sketch, cad.MM(10))
	if err != nil {
		return "", err
	}
	return "created " + body.Name, nil
}`

const tangentRevolveScript = `import "cad"

func Run(ctx *cad.Context) (string, error) {
	doc := cad.Active()
	sketch := doc.NewSketch(cad.PlaneXZ)
	sketch.Circle(1, 0, cad.CM(1))
	// axis check: vertical axis through x=0 touches the circle boundary
	body, err := doc.Revolve(sketch, cad.Axis{X1: 0, Y1: -1, X2: 0, Y2: 1}, 360)
	if err != nil {
		return "", err
	}
	return body.Name, nil
}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantBlocking int
		wantAdvisory int
	}{
		{
			name:         "well formed script passes",
			code:         cubeScript,
			wantBlocking: 0,
			wantAdvisory: 0,
		},
		{
			name:         "missing entry point blocks",
			code:         `doc := cad.Active()`,
			wantBlocking: 1,
			wantAdvisory: 0,
		},
		{
			name: "unchecked geometry error blocks",
			code: `func Run(ctx *cad.Context) (string, error) {
	doc := cad.Active()
	sketch := doc.NewSketch(cad.PlaneXY)
	sketch.Circle(0, 0, cad.MM(5))
	body, _ := doc.Extrude(sketch, cad.MM(10))
	return body.Name, nil
}`,
			wantBlocking: 1,
			wantAdvisory: 1, // extrude without Profiles check
		},
		{
			name: "missing active document blocks",
			code: `func Run(ctx *cad.Context) (string, error) {
	return "nothing", nil
}`,
			wantBlocking: 1,
			wantAdvisory: 0,
		},
		{
			name: "revolve without axis check advises",
			code: `func Run(ctx *cad.Context) (string, error) {
	doc := cad.Active()
	sketch := doc.NewSketch(cad.PlaneXZ)
	sketch.Circle(5, 0, cad.CM(1))
	body, err := doc.Revolve(sketch, cad.Axis{X1: 0, Y1: -1, X2: 0, Y2: 1}, 360)
	if err != nil {
		return "", err
	}
	return body.Name, nil
}`,
			wantBlocking: 0,
			wantAdvisory: 1,
		},
		{
			name: "bare dimensions advise",
			code: `func Run(ctx *cad.Context) (string, error) {
	doc := cad.Active()
	sketch := doc.NewSketch(cad.PlaneXY)
	sketch.Circle(0, 0, 5)
	if sketch.Profiles() == 0 {
		return "", nil
	}
	body, err := doc.Extrude(sketch, 10)
	if err != nil {
		return "", err
	}
	return body.Name, nil
}`,
			wantBlocking: 0,
			wantAdvisory: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate(tt.code)

			blocking, advisory := 0, 0
			for _, issue := range issues {
				switch issue.Severity {
				case core.SeverityBlocking:
					blocking++
				case core.SeverityAdvisory:
					advisory++
				}
			}
			assert.Equal(t, tt.wantBlocking, blocking, "blocking issues: %v", issues)
			assert.Equal(t, tt.wantAdvisory, advisory, "advisory issues: %v", issues)
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	cad.Reset()
	t.Cleanup(cad.Reset)

	r := New(docs.NewRetriever(), true)
	outcome := r.Submit(context.Background(), cubeScript)

	require.Equal(t, core.StateSucceeded, outcome.State)
	assert.Contains(t, outcome.Result, "executed successfully")
	assert.Contains(t, outcome.Result, "Body1")
	assert.Len(t, cad.Active().Bodies(), 1)
}

func TestSubmitBlockedByValidation(t *testing.T) {
	cad.Reset()
	t.Cleanup(cad.Reset)

	r := New(docs.NewRetriever(), true)
	outcome := r.Submit(context.Background(), `doc := cad.Active()`)

	require.Equal(t, core.StateFailed, outcome.State)
	assert.True(t, outcome.Blocked())
	assert.Contains(t, outcome.Failure, "validation blocked execution")
	// nothing ran
	assert.Empty(t, cad.Active().Bodies())
}

func TestSubmitTangentRevolveGetsRemedy(t *testing.T) {
	cad.Reset()
	t.Cleanup(cad.Reset)

	r := New(docs.NewRetriever(), true)
	outcome := r.Submit(context.Background(), tangentRevolveScript)

	require.Equal(t, core.StateFailed, outcome.State)
	assert.Contains(t, outcome.Failure, "ASM_PATH_TANGENT")
	assert.Contains(t, outcome.Remedy, "not tangent")
}

func TestSubmitValidationDisabled(t *testing.T) {
	cad.Reset()
	t.Cleanup(cad.Reset)

	r := New(docs.NewRetriever(), false)
	// missing error checks would block with validation on
	outcome := r.Submit(context.Background(), `import "cad"

func Run(ctx *cad.Context) (string, error) {
	doc := cad.Active()
	sketch := doc.NewSketch(cad.PlaneXY)
	sketch.Rect(0, 0, cad.CM(2), cad.CM(2))
	body, _ := doc.Extrude(sketch, cad.CM(2))
	return body.Name, nil
}`)

	require.Equal(t, core.StateSucceeded, outcome.State)
	assert.Empty(t, outcome.Issues)
}

func TestSubmitEmptyScript(t *testing.T) {
	r := New(nil, true)
	outcome := r.Submit(context.Background(), "")

	require.Equal(t, core.StateFailed, outcome.State)
	assert.Equal(t, "no script to execute", outcome.Failure)
}

func TestSandboxRejectsForbiddenImports(t *testing.T) {
	s := NewSandbox()
	_, err := s.Execute(context.Background(), `import "os"

func Run(ctx *cad.Context) (string, error) {
	return os.Getwd()
}`)

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "forbidden imports"))
}

func TestSandboxRemovesScriptUnit(t *testing.T) {
	cad.Reset()
	t.Cleanup(cad.Reset)

	s := NewSandbox()
	_, err := s.Execute(context.Background(), cubeScript)
	require.NoError(t, err)

	leftovers, err := filepath.Glob(filepath.Join(os.TempDir(), "cadpilot_script_*.go"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
