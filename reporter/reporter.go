// Package reporter renders lint reports.
package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-hamlint/hamlint"
)

// Reporter writes a report to w.
type Reporter interface {
	Report(w io.Writer, report *hamlint.Report) error
}

// Options configure reporters created by New.
type Options struct {
	// Colored enables terminal colors where supported.
	Colored bool

	// Version is printed into generated files.
	Version string
}

var constructors = map[string]func(Options) Reporter{
	"default": func(o Options) Reporter {
		return &Default{Colored: o.Colored, Summary: true}
	},
	"github": func(o Options) Reporter {
		return &GitHub{Summary: true}
	},
	"checkstyle": func(o Options) Reporter {
		return &Checkstyle{}
	},
	"disabled-config": func(o Options) Reporter {
		return &DisabledConfig{Colored: o.Colored, Version: o.Version}
	},
}

// New returns the reporter registered under name.
func New(name string, opts Options) (Reporter, error) {
	newReporter, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown reporter %q (available: %v)", name, Names())
	}
	return newReporter(opts), nil
}

// Names returns sorted reporter names.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// summary formats the closing line shared by text reporters.
func summary(report *hamlint.Report) string {
	s := fmt.Sprintf("%s inspected, %s detected",
		plural(len(report.Files), "file"),
		plural(len(report.Lints), "lint"))
	if n := report.Corrected(); n != 0 {
		s += ", " + plural(n, "lint") + " corrected"
	}
	return s
}
