package hamlint

import (
	"context"
	"fmt"

	"github.com/go-hamlint/hamlint/haml"
	"github.com/go-hamlint/hamlint/script"
	"github.com/rs/zerolog"
)

// Context is the per-file state shared by all linters.
type Context struct {
	// Ctx bounds blocking operations such as script analysis.
	Ctx context.Context

	// Document is the template being checked.
	Document *haml.Document

	// Analyzer inspects extracted script. Nil when none is configured.
	Analyzer script.Analyzer

	Logger zerolog.Logger

	extraction *script.Extraction
}

// NewContext returns a context for checking doc.
func NewContext(ctx context.Context, doc *haml.Document, analyzer script.Analyzer, logger zerolog.Logger) *Context {
	return &Context{
		Ctx:      ctx,
		Document: doc,
		Analyzer: analyzer,
		Logger:   logger,
	}
}

// ExtractedScript returns the script embedded into doc.
// Extraction runs once; later calls return the cached result.
func (c *Context) ExtractedScript(doc *haml.Document) *script.Extraction {
	if c.extraction == nil || doc != c.Document {
		c.extraction = script.Extract(doc)
	}
	return c.extraction
}

// LinterContext is a linter-local context.
type LinterContext struct {
	*Context

	// Info is the info of the running linter.
	Info *LinterInfo

	// Params holds the resolved linter parameters.
	Params Parameters

	severity Severity
	lints    []Lint
}

// Warn reports an issue located at n.
func (c *LinterContext) Warn(n *haml.Node, format string, args ...interface{}) {
	c.WarnLine(n.Line, format, args...)
}

// WarnLine reports an issue located at line.
func (c *LinterContext) WarnLine(line int, format string, args ...interface{}) {
	c.report(line, c.severity, format, args...)
}

// Fail reports a failure of the linter itself.
// Failures have error severity and no line.
func (c *LinterContext) Fail(format string, args ...interface{}) {
	c.report(0, Error, format, args...)
}

func (c *LinterContext) report(line int, severity Severity, format string, args ...interface{}) {
	c.lints = append(c.lints, Lint{
		Linter:   c.Info.Name,
		Filename: c.Document.File,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
	})
}
