// Package runner takes a generated script through validation and sandboxed
// execution and reports a single terminal outcome per submission.
package runner

import (
	"regexp"
	"strings"

	"github.com/sandevgo/cadpilot/internal/core"
)

var (
	entryPointRe = regexp.MustCompile(`func\s+Run\s*\(`)
	bareNumberRe = regexp.MustCompile(`\(\s*-?\d+(\.\d+)?\s*[,)]`)
)

// fallibleCalls are document operations that return an error a script must
// check before using the result.
var fallibleCalls = []string{".Extrude(", ".Revolve(", ".Combine("}

// Validate inspects a script before execution. Blocking issues stop the run;
// advisory issues are reported but the script still executes.
func Validate(code string) []core.Issue {
	var issues []core.Issue

	if !entryPointRe.MatchString(code) {
		issues = append(issues, core.Issue{
			Severity: core.SeverityBlocking,
			Message:  "script has no Run entry point: define func Run(ctx *cad.Context) (string, error)",
		})
	}

	if hasFallibleCall(code) && !strings.Contains(code, "if err != nil") {
		issues = append(issues, core.Issue{
			Severity: core.SeverityBlocking,
			Message:  "geometry operations return errors that are never checked: add if err != nil after each Extrude, Revolve or Combine call",
		})
	}

	if !strings.Contains(code, "cad.Active()") {
		issues = append(issues, core.Issue{
			Severity: core.SeverityBlocking,
			Message:  "script never obtains the active document: call cad.Active()",
		})
	}

	if strings.Contains(code, ".Revolve(") && !mentionsAxisCheck(code) {
		issues = append(issues, core.Issue{
			Severity: core.SeverityAdvisory,
			Message:  "revolve without an axis position check: a tangent or crossing axis fails with ASM_PATH_TANGENT",
		})
	}

	if strings.Contains(code, ".Extrude(") && !strings.Contains(code, ".Profiles()") {
		issues = append(issues, core.Issue{
			Severity: core.SeverityAdvisory,
			Message:  "extrude without checking sketch.Profiles(): an open sketch has no closed profile to extrude",
		})
	}

	if usesBareDimensions(code) {
		issues = append(issues, core.Issue{
			Severity: core.SeverityAdvisory,
			Message:  "bare numeric dimensions: wrap lengths in cad.MM or cad.CM to make units explicit",
		})
	}

	return issues
}

func hasFallibleCall(code string) bool {
	for _, call := range fallibleCalls {
		if strings.Contains(code, call) {
			return true
		}
	}
	return false
}

func mentionsAxisCheck(code string) bool {
	lower := strings.ToLower(code)
	return strings.Contains(lower, "tangent") || strings.Contains(lower, "axis check") ||
		strings.Contains(code, "pointLineDistance")
}

// usesBareDimensions reports geometry calls fed raw numeric literals without a
// unit helper anywhere in the script.
func usesBareDimensions(code string) bool {
	if strings.Contains(code, "cad.MM(") || strings.Contains(code, "cad.CM(") {
		return false
	}
	for _, call := range []string{".Circle(", ".Rect(", ".Extrude(", ".Line("} {
		idx := strings.Index(code, call)
		if idx < 0 {
			continue
		}
		tail := code[idx+len(call)-1:]
		if bareNumberRe.MatchString(tail) {
			return true
		}
	}
	return false
}
