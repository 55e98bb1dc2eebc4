package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/sandevgo/cadpilot/internal/cad"
)

const scriptImportPath = "cad"

// allowedImports is the whitelist a script may reach. The document binding
// plus a few pure stdlib packages; no filesystem, network or exec access.
var allowedImports = map[string]bool{
	scriptImportPath: true,
	"fmt":            true,
	"math":           true,
	"strings":        true,
	"strconv":        true,
	"errors":         true,
	"sort":           true,
}

var packageClauseRe = regexp.MustCompile(`(?m)^package\s+(\w+)`)

// Sandbox interprets scripts against the document binding. Each Execute call
// gets a fresh interpreter so one script cannot leak state into the next.
type Sandbox struct{}

func NewSandbox() *Sandbox {
	return &Sandbox{}
}

// Execute runs a script and returns its result text. The script unit is
// materialized to a temp file for the interpreter and always removed, even on
// failure. Scripts with a Run entry point are invoked with a nil context;
// plain snippets are evaluated directly.
func (s *Sandbox) Execute(ctx context.Context, code string) (string, error) {
	if err := validateImports(code); err != nil {
		return "", err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(exports()); err != nil {
		return "", fmt.Errorf("load document binding: %w", err)
	}
	if err := i.Use(safeStdlib()); err != nil {
		return "", fmt.Errorf("load stdlib: %w", err)
	}

	if !entryPointRe.MatchString(code) {
		// Plain snippet: evaluate statement by statement, REPL style.
		if _, err := i.Eval(code); err != nil {
			return "", fmt.Errorf("script evaluation failed: %w", err)
		}
		return "script evaluated", nil
	}

	unit, pkg := normalizeUnit(code)

	path, err := materializeUnit(unit)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	if _, err := i.EvalPath(path); err != nil {
		return "", fmt.Errorf("script evaluation failed: %w", err)
	}

	entry, err := i.Eval(pkg + ".Run")
	if err != nil {
		return "", fmt.Errorf("Run entry point not found: %w", err)
	}

	run, ok := entry.Interface().(func(*cad.Context) (string, error))
	if !ok {
		return "", fmt.Errorf("Run has wrong signature, expected func(*cad.Context) (string, error)")
	}

	return await(ctx, run)
}

// await invokes the entry point off the caller goroutine so a runaway script
// cannot outlive the submission deadline.
func await(ctx context.Context, run func(*cad.Context) (string, error)) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("script panicked: %v", r)}
			}
		}()
		text, err := run(nil)
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("script execution timed out: %w", ctx.Err())
	}
}

func validateImports(code string) error {
	var forbidden []string
	for _, pkg := range collectImports(code) {
		if !allowedImports[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %s", strings.Join(forbidden, ", "))
	}
	return nil
}

func collectImports(code string) []string {
	var imports []string
	inBlock := false
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
		case inBlock:
			if pkg := strings.Trim(trimmed, `"`); pkg != "" {
				imports = append(imports, pkg)
			}
		case strings.HasPrefix(trimmed, "import "):
			pkg := strings.TrimPrefix(trimmed, "import ")
			imports = append(imports, strings.Trim(pkg, `"`))
		}
	}
	return imports
}

// normalizeUnit ensures the script is a complete compilation unit and returns
// the unit plus its package name for entry-point lookup.
func normalizeUnit(code string) (string, string) {
	if m := packageClauseRe.FindStringSubmatch(code); m != nil {
		return code, m[1]
	}
	return "package script\n\n" + code, "script"
}

func materializeUnit(unit string) (string, error) {
	f, err := os.CreateTemp("", "cadpilot_script_*.go")
	if err != nil {
		return "", fmt.Errorf("create script unit: %w", err)
	}
	if _, err := f.WriteString(unit); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write script unit: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close script unit: %w", err)
	}
	return filepath.Clean(f.Name()), nil
}

// safeStdlib filters the interpreter's stdlib symbols down to the whitelist,
// so os, net and exec never resolve even if the import scan misses them.
func safeStdlib() interp.Exports {
	safe := make(interp.Exports)
	for key, symbols := range stdlib.Symbols {
		path := strings.TrimSuffix(key, "/"+filepath.Base(key))
		if allowedImports[path] {
			safe[key] = symbols
		}
	}
	return safe
}

// exports publishes the document binding under the import path scripts use.
func exports() interp.Exports {
	return interp.Exports{
		scriptImportPath + "/" + scriptImportPath: {
			"Active":      reflect.ValueOf(cad.Active),
			"Reset":       reflect.ValueOf(cad.Reset),
			"MM":          reflect.ValueOf(cad.MM),
			"CM":          reflect.ValueOf(cad.CM),
			"PlaneXY":     reflect.ValueOf(cad.PlaneXY),
			"PlaneXZ":     reflect.ValueOf(cad.PlaneXZ),
			"PlaneYZ":     reflect.ValueOf(cad.PlaneYZ),
			"OpJoin":      reflect.ValueOf(cad.OpJoin),
			"OpCut":       reflect.ValueOf(cad.OpCut),
			"OpIntersect": reflect.ValueOf(cad.OpIntersect),
			"Context":     reflect.ValueOf((*cad.Context)(nil)),
			"Document":    reflect.ValueOf((*cad.Document)(nil)),
			"Sketch":      reflect.ValueOf((*cad.Sketch)(nil)),
			"Axis":        reflect.ValueOf((*cad.Axis)(nil)),
			"Body":        reflect.ValueOf((*cad.Body)(nil)),
			"Plane":       reflect.ValueOf((*cad.Plane)(nil)),
			"BoolOp":      reflect.ValueOf((*cad.BoolOp)(nil)),
		},
	}
}
