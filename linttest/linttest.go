// Package linttest runs golden-file tests for hamlint linters.
//
// Tests for a linter live in testdata/<LinterName>/*.haml. A template
// line is expected to trigger the lints announced by the directive
// comments right above it:
//
//	-# /// Avoid using instance variables in partials views
//	%p= @greeting
package linttest

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/go-hamlint/hamlint"
)

var warningDirectiveRE = regexp.MustCompile(`^\s*-# /// (.*)`)

// TestLinters runs end2end tests over all linters of reg using default options.
func TestLinters(t *testing.T, reg *hamlint.Registry) {
	TestLintersWith(t, reg, hamlint.Options{})
}

// TestLintersWith is like TestLinters, but every run is configured by opts.
// Registry and IncludedLinters are overwritten.
func TestLintersWith(t *testing.T, reg *hamlint.Registry, opts hamlint.Options) {
	for _, l := range reg.Linters() {
		name := l.Info.Name
		t.Run(name, func(t *testing.T) {
			if testing.CoverMode() == "" {
				t.Parallel()
			}
			files, err := filepath.Glob(filepath.Join("testdata", name, "*.haml"))
			if err != nil {
				t.Fatalf("list test files: %v", err)
			}
			if len(files) == 0 {
				t.Fatalf("no test files in testdata/%s", name)
			}

			runOpts := opts
			runOpts.Registry = reg
			runOpts.IncludedLinters = []string{name}
			runner := hamlint.NewRunner(runOpts)

			for _, filename := range files {
				checkFile(t, runner, filename)
			}
		})
	}
}

func checkFile(t *testing.T, runner *hamlint.Runner, filename string) {
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("can't find linter tests: %v", err)
	}
	goldenWarns := newGoldenFile(data)

	report, err := runner.RunSource(context.Background(), filename, data)
	if err != nil {
		t.Fatalf("%s: run: %v", filename, err)
	}

	for _, lint := range report.Lints {
		if w := goldenWarns.find(lint.Line, lint.Message); w != nil {
			w.matched = true
		} else {
			t.Errorf("%s:%d: unexpected lint: %s", filename, lint.Line, lint.Message)
		}
	}

	goldenWarns.checkUnmatched(t, filename)
}
