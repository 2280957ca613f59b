package reporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-hamlint/hamlint"
	"github.com/logrusorgru/aurora"
)

// Default prints one lint per line:
//
//	file:line [W] Linter: message
type Default struct {
	Colored bool

	// Summary enables the closing "N files inspected" line.
	Summary bool
}

// Report implements Reporter.
func (r *Default) Report(w io.Writer, report *hamlint.Report) error {
	for _, lint := range report.Lints {
		if err := r.printLint(w, lint); err != nil {
			return err
		}
	}
	if !r.Summary {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%s\n", summary(report))
	return err
}

func (r *Default) printLint(w io.Writer, lint hamlint.Lint) error {
	loc := lint.Filename
	if lint.Line != 0 {
		loc += ":" + strconv.Itoa(lint.Line)
	}
	code := "[W]"
	if lint.Severity == hamlint.Error {
		code = "[E]"
	}
	message := lint.Message
	if lint.Corrected {
		message = "[Corrected] " + message
	}

	if !r.Colored {
		if lint.Linter != "" {
			message = lint.Linter + ": " + message
		}
		_, err := fmt.Fprintf(w, "%s %s %s\n", loc, code, message)
		return err
	}

	var severity interface{} = aurora.Brown(code)
	if lint.Severity == hamlint.Error {
		severity = aurora.Red(code)
	}
	if lint.Linter != "" {
		_, err := fmt.Fprintf(w, "%v %v %v: %s\n",
			aurora.Magenta(aurora.Bold(loc)), severity, aurora.Green(lint.Linter), message)
		return err
	}
	_, err := fmt.Fprintf(w, "%v %v %s\n", aurora.Magenta(aurora.Bold(loc)), severity, message)
	return err
}
