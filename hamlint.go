// Package hamlint runs linters over HAML templates.
//
// Linters are registered in a Registry and executed by a Runner,
// which turns every finding into a Lint and collects them into a Report.
package hamlint

import (
	"fmt"
	"strings"
)

// SyntaxLinter is the name attached to lints produced by parse failures.
const SyntaxLinter = "Syntax"

// LinterInfo holds linter metadata and structured documentation.
type LinterInfo struct {
	// Name is the linter name used in configs and on the command line.
	Name string

	// Tags is a list of labels that can be used to enable or disable linter.
	Tags []string

	// Params declares linter parameters along with their default values.
	Params LinterParams

	// Summary is a short one sentence description.
	// Should not end with a period.
	Summary string

	// Details extends summary with additional info. Optional.
	Details string

	// Before is a template snippet that violates the rule.
	Before string

	// After is a template snippet that complies to the rule.
	After string

	// Note is an optional caution message or advice.
	Note string
}

// LinterParams maps a parameter name to its declaration.
type LinterParams map[string]*LinterParam

// LinterParam describes a linter parameter.
type LinterParam struct {
	// Value is the default value.
	Value interface{}

	// Usage gives a parameter description.
	Usage string
}

// Severity classifies a lint.
type Severity int

// Severities in increasing order.
const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ParseSeverity parses a severity name.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "warning", "w":
		return Warning, nil
	case "error", "e":
		return Error, nil
	default:
		return Warning, fmt.Errorf("unknown severity %q", s)
	}
}

// Lint is a single issue found by a linter.
type Lint struct {
	// Linter is the name of the reporting linter.
	// Empty when the issue is not attributable to a linter.
	Linter string

	Filename string

	// Line is the 1-based template line, 0 when unknown.
	Line int

	// Message is the issue text without location info.
	Message string

	Severity Severity

	// Corrected is set when the issue was fixed in place.
	Corrected bool
}
