package reporter

import (
	"fmt"
	"io"

	"github.com/go-hamlint/hamlint"
)

// GitHub prints lints as GitHub Actions workflow commands.
type GitHub struct {
	// Summary enables the closing "N files inspected" line.
	Summary bool
}

// Report implements Reporter.
func (r *GitHub) Report(w io.Writer, report *hamlint.Report) error {
	for _, lint := range report.Lints {
		params := "file=" + lint.Filename
		if lint.Line != 0 {
			params += fmt.Sprintf(",line=%d", lint.Line)
		}
		message := lint.Message
		if lint.Linter != "" {
			message = lint.Linter + ": " + message
		}
		if _, err := fmt.Fprintf(w, "::%s %s::%s\n", lint.Severity, params, message); err != nil {
			return err
		}
	}
	if !r.Summary {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%s\n", summary(report))
	return err
}
