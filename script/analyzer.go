package script

import "context"

// Offense is one finding of an external analyzer, located by
// synthetic body line.
type Offense struct {
	Line     int
	Message  string
	Category string
}

// Analyzer inspects a synthetic Ruby body.
//
// filename is the template the body came from; implementations may use
// it to pick configuration but must not read the template itself.
type Analyzer interface {
	Analyze(ctx context.Context, filename, body string) ([]Offense, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, filename, body string) ([]Offense, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, filename, body string) ([]Offense, error) {
	return f(ctx, filename, body)
}
