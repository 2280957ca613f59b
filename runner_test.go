package hamlint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-hamlint/hamlint/config"
	"github.com/go-hamlint/hamlint/haml"
	"github.com/go-hamlint/hamlint/script"
	"github.com/go-hamlint/hamlint/treewalk"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type plainTextLinter struct {
	treewalk.WalkHandler
	ctx *LinterContext
}

func (c *plainTextLinter) VisitNode(n *haml.Node) {
	if n.Kind == haml.PlainText {
		c.ctx.Warn(n, "%s: %s", c.ctx.Params.String("prefix", "?"), n.Text)
	}
}

type panicLinter struct {
	ctx *LinterContext
}

func (c *panicLinter) VisitDocument(doc *haml.Document) {
	panic("boom")
}

type scriptLinter struct {
	ctx *LinterContext
}

func (c *scriptLinter) VisitExtractedScript(doc *haml.Document, ex *script.Extraction) {
	offenses, err := c.ctx.Analyzer.Analyze(c.ctx.Ctx, doc.File, ex.Body)
	if err != nil {
		c.ctx.Fail("ScriptLinter failed: %v", err)
		return
	}
	for _, o := range offenses {
		c.ctx.WarnLine(ex.Map.Translate(o.Line), "%s", o.Message)
	}
}

func newTestRegistry() *Registry {
	reg := NewRegistry()
	reg.AddLinter(&LinterInfo{
		Name:    "PlainText",
		Summary: "Reports plain text",
		Params: LinterParams{
			"prefix": {Value: "text", Usage: "message prefix"},
		},
	}, func(ctx *LinterContext) interface{} {
		return &plainTextLinter{ctx: ctx}
	})
	reg.AddLinter(&LinterInfo{
		Name:    "Script",
		Summary: "Analyzes extracted script",
	}, func(ctx *LinterContext) interface{} {
		return &scriptLinter{ctx: ctx}
	})
	return reg
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestRunnerErrors(t *testing.T) {
	ctx := context.Background()
	dir := writeFiles(t, map[string]string{"a.haml": "%p\n"})
	file := filepath.Join(dir, "a.haml")

	_, err := NewRunner(Options{Registry: newTestRegistry()}).Run(ctx, nil)
	require.ErrorIs(t, err, ErrNoFiles)

	var noSuch *NoSuchLinterError
	_, err = NewRunner(Options{
		Registry:        newTestRegistry(),
		IncludedLinters: []string{"Nope"},
	}).Run(ctx, []string{file})
	require.True(t, errors.As(err, &noSuch))
	require.Equal(t, "Nope", noSuch.Name)

	_, err = NewRunner(Options{
		Registry:        newTestRegistry(),
		ExcludedLinters: []string{"Missing"},
	}).Run(ctx, []string{file})
	require.EqualError(t, err, "no such linter: Missing")

	_, err = NewRunner(Options{Registry: newTestRegistry()}).
		Run(ctx, []string{filepath.Join(dir, "missing.haml")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunnerLints(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.haml":   "%p\n  second\nfirst\n",
		"a.haml":   "%div\n  %p\n    hello\n",
		"bad.haml": "%p\n  %a\n      %b\n",
	})
	paths := []string{
		filepath.Join(dir, "b.haml"),
		filepath.Join(dir, "bad.haml"),
		filepath.Join(dir, "a.haml"),
	}

	report, err := NewRunner(Options{
		Registry:        newTestRegistry(),
		ExcludedLinters: []string{"Script"},
		Workers:         2,
	}).Run(context.Background(), paths)
	require.NoError(t, err)

	want := []Lint{
		{Linter: "PlainText", Filename: paths[2], Line: 3, Message: "text: hello"},
		{Linter: "PlainText", Filename: paths[0], Line: 2, Message: "text: second"},
		{Linter: "PlainText", Filename: paths[0], Line: 3, Message: "text: first"},
		{
			Linter:   SyntaxLinter,
			Filename: paths[1],
			Line:     3,
			Message:  "The line was indented 2 levels deeper than the previous line.",
			Severity: Error,
		},
	}
	if diff := cmp.Diff(want, report.Lints); diff != "" {
		t.Errorf("lints (-want +have):\n%s", diff)
	}
	require.Equal(t, paths, report.Files)
	require.True(t, report.Failed())
}

func TestRunnerDeterminism(t *testing.T) {
	files := map[string]string{}
	var paths []string
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		name := filepath.Join(dir, string(rune('a'+i))+".haml")
		files[name] = strings.Repeat("%p\n  text\n", i+1)
		require.NoError(t, os.WriteFile(name, []byte(files[name]), 0o644))
		paths = append(paths, name)
	}

	run := func() *Report {
		report, err := NewRunner(Options{
			Registry:        newTestRegistry(),
			IncludedLinters: []string{"PlainText"},
			Workers:         4,
		}).Run(context.Background(), paths)
		require.NoError(t, err)
		return report
	}
	first := run()
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, run()); diff != "" {
			t.Fatalf("reports differ (-first +next):\n%s", diff)
		}
	}
}

func TestRunnerConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
fail_level: error
exclude: ["skipped.haml"]
linters:
  PlainText:
    severity: error
    prefix: custom
    exclude: ["quiet.haml"]
`))
	require.NoError(t, err)

	dir := writeFiles(t, map[string]string{
		"view.haml":    "plain\n",
		"quiet.haml":   "plain\n",
		"skipped.haml": "plain\n",
	})
	report, err := NewRunner(Options{
		Registry:        newTestRegistry(),
		Config:          cfg,
		IncludedLinters: []string{"PlainText"},
	}).Run(context.Background(), []string{
		filepath.Join(dir, "view.haml"),
		filepath.Join(dir, "quiet.haml"),
		filepath.Join(dir, "skipped.haml"),
	})
	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	require.Equal(t, []Lint{{
		Linter:   "PlainText",
		Filename: filepath.Join(dir, "view.haml"),
		Line:     1,
		Message:  "custom: plain",
		Severity: Error,
	}}, report.Lints)
	require.Equal(t, Error, report.FailLevel)
	require.True(t, report.Failed())

	disabled, err := config.Parse([]byte("linters:\n  PlainText:\n    enabled: false\n"))
	require.NoError(t, err)
	report, err = NewRunner(Options{
		Registry:        newTestRegistry(),
		Config:          disabled,
		IncludedLinters: []string{"PlainText"},
	}).RunSource(context.Background(), "", []byte("plain\n"))
	require.NoError(t, err)
	require.Empty(t, report.Lints)
	require.Equal(t, []string{haml.StringSource}, report.Files)
}

func TestRunnerBadSeverity(t *testing.T) {
	cfg, err := config.Parse([]byte("linters:\n  PlainText:\n    severity: fatal\n"))
	require.NoError(t, err)
	_, err = NewRunner(Options{Registry: newTestRegistry(), Config: cfg}).
		RunSource(context.Background(), "", []byte("x\n"))
	require.EqualError(t, err, `PlainText: unknown severity "fatal"`)
}

func TestRunnerPanic(t *testing.T) {
	reg := newTestRegistry()
	reg.AddLinter(&LinterInfo{Name: "Panic", Summary: "Always panics"},
		func(ctx *LinterContext) interface{} {
			return &panicLinter{ctx: ctx}
		})

	report, err := NewRunner(Options{
		Registry:        reg,
		ExcludedLinters: []string{"Script"},
	}).RunSource(context.Background(), "view.haml", []byte("hello\n"))
	require.NoError(t, err)
	require.Equal(t, []Lint{
		{Linter: "Panic", Filename: "view.haml", Message: "Panic raised unexpected error: boom", Severity: Error},
		{Linter: "PlainText", Filename: "view.haml", Line: 1, Message: "text: hello"},
	}, report.Lints)
}

func TestRunnerExtractedScript(t *testing.T) {
	var calls int32
	analyzer := script.AnalyzerFunc(func(ctx context.Context, filename, body string) ([]script.Offense, error) {
		atomic.AddInt32(&calls, 1)
		if strings.Contains(body, "fail") {
			return nil, errors.New("analyzer crashed")
		}
		return []script.Offense{{Line: 3, Message: "offense", Category: "Lint/X"}}, nil
	})
	runner := NewRunner(Options{
		Registry:        newTestRegistry(),
		IncludedLinters: []string{"Script"},
		Analyzer:        analyzer,
	})
	ctx := context.Background()

	report, err := runner.RunSource(ctx, "", []byte("- a = 1\n%p\n  = a\n"))
	require.NoError(t, err)
	require.Equal(t, []Lint{{Linter: "Script", Filename: haml.StringSource, Line: 3, Message: "offense"}}, report.Lints)

	report, err = runner.RunSource(ctx, "", []byte("%p no code\n"))
	require.NoError(t, err)
	require.Empty(t, report.Lints)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "empty script is not analyzed")

	report, err = runner.RunSource(ctx, "", []byte("= fail\n"))
	require.NoError(t, err)
	require.Equal(t, []Lint{{
		Linter:   "Script",
		Filename: haml.StringSource,
		Message:  "ScriptLinter failed: analyzer crashed",
		Severity: Error,
	}}, report.Lints)
}

func TestRunnerDecodeError(t *testing.T) {
	report, err := NewRunner(Options{Registry: newTestRegistry()}).
		RunSource(context.Background(), "bin.haml", []byte{'%', 'p', ' ', 0xff, '\n'})
	require.NoError(t, err)
	require.Len(t, report.Lints, 1)
	lint := report.Lints[0]
	require.Empty(t, lint.Linter)
	require.Zero(t, lint.Line)
	require.Equal(t, Error, lint.Severity)
	require.Contains(t, lint.Message, "invalid UTF-8")
}

func TestReport(t *testing.T) {
	r := &Report{FailLevel: Error, Lints: []Lint{{Severity: Warning}, {Severity: Warning, Corrected: true}}}
	require.False(t, r.Failed())
	require.Equal(t, 1, r.Corrected())

	r.Lints = append(r.Lints, Lint{Severity: Error})
	require.True(t, r.Failed())
	require.False(t, (&Report{}).Failed())
}
