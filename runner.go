package hamlint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/go-hamlint/hamlint/config"
	"github.com/go-hamlint/hamlint/haml"
	"github.com/go-hamlint/hamlint/script"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options configure a Runner.
type Options struct {
	// Registry holds the linters to run.
	Registry *Registry

	// Config is the run configuration. Nil means config.Default().
	Config *config.Config

	// IncludedLinters restricts the run to these linters when not empty.
	IncludedLinters []string

	// ExcludedLinters are never run.
	ExcludedLinters []string

	// Analyzer is handed to linters that inspect extracted script.
	Analyzer script.Analyzer

	// Workers bounds the number of files checked at once.
	// Zero or less means GOMAXPROCS.
	Workers int

	// Logger receives run events. Nil means no logging.
	Logger *zerolog.Logger
}

// Runner lints a set of files.
type Runner struct {
	opts   Options
	cfg    *config.Config
	logger zerolog.Logger
}

// activeLinter is a linter resolved for a run.
type activeLinter struct {
	*Linter
	cfg      config.LinterConfig
	severity Severity
}

// NewRunner returns a runner configured by opts.
func NewRunner(opts Options) *Runner {
	r := &Runner{opts: opts, cfg: opts.Config, logger: zerolog.Nop()}
	if r.cfg == nil {
		r.cfg = config.Default()
	}
	if opts.Logger != nil {
		r.logger = *opts.Logger
	}
	if r.opts.Registry == nil {
		r.opts.Registry = NewRegistry()
	}
	return r
}

// Run lints the files at paths.
//
// Per-file problems (unparsable templates, failing linters) are reported
// as lints. Errors are returned only when the run itself cannot proceed:
// no files, unknown linter names, bad config values or unreadable files.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	var files []string
	for _, path := range paths {
		if r.cfg.ExcludesFile(path) {
			r.logger.Debug().Str("file", path).Msg("excluded")
			continue
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	linters, failLevel, err := r.prepare()
	if err != nil {
		return nil, err
	}

	results := make([][]Lint, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			results[i] = r.checkFile(gctx, linters, path, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return newReport(results, files, failLevel), nil
}

// RunSource lints a single in-memory template.
// An empty filename stands for haml.StringSource.
func (r *Runner) RunSource(ctx context.Context, filename string, src []byte) (*Report, error) {
	if filename == "" {
		filename = haml.StringSource
	}
	linters, failLevel, err := r.prepare()
	if err != nil {
		return nil, err
	}
	lints := r.checkFile(ctx, linters, filename, src)
	return newReport([][]Lint{lints}, []string{filename}, failLevel), nil
}

func (r *Runner) workers() int {
	if r.opts.Workers > 0 {
		return r.opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Runner) prepare() ([]activeLinter, Severity, error) {
	linters, err := r.resolveLinters()
	if err != nil {
		return nil, Warning, err
	}
	failLevel := Warning
	if r.cfg.FailLevel != "" {
		failLevel, err = ParseSeverity(r.cfg.FailLevel)
		if err != nil {
			return nil, Warning, fmt.Errorf("fail_level: %w", err)
		}
	}
	return linters, failLevel, nil
}

// resolveLinters selects the linters to run, in registration order.
func (r *Runner) resolveLinters() ([]activeLinter, error) {
	reg := r.opts.Registry
	included := make(map[string]bool)
	excluded := make(map[string]bool)
	for _, name := range r.opts.IncludedLinters {
		if _, err := reg.Lookup(name); err != nil {
			return nil, err
		}
		included[name] = true
	}
	for _, name := range r.opts.ExcludedLinters {
		if _, err := reg.Lookup(name); err != nil {
			return nil, err
		}
		excluded[name] = true
	}

	var linters []activeLinter
	for _, l := range reg.Linters() {
		name := l.Info.Name
		if excluded[name] || (len(included) != 0 && !included[name]) {
			continue
		}
		cfg := r.cfg.Linter(name)
		if !cfg.IsEnabled() {
			continue
		}
		severity := Warning
		if cfg.Severity != "" {
			s, err := ParseSeverity(cfg.Severity)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			severity = s
		}
		linters = append(linters, activeLinter{Linter: l, cfg: cfg, severity: severity})
	}
	return linters, nil
}

func (r *Runner) checkFile(ctx context.Context, linters []activeLinter, path string, data []byte) []Lint {
	doc, err := haml.NewDocument(data, haml.DocumentOptions{
		File:            path,
		SkipFrontmatter: r.cfg.SkipFrontmatter,
		TabWidth:        r.cfg.TabWidth,
	})
	if err != nil {
		r.logger.Debug().Str("file", path).Err(err).Msg("cannot parse template")
		return []Lint{documentFailure(path, err)}
	}

	fctx := NewContext(ctx, doc, r.opts.Analyzer, r.logger)
	var lints []Lint
	ran := 0
	for _, l := range linters {
		if !l.cfg.AppliesTo(path) {
			continue
		}
		ran++
		lints = append(lints, r.runLinter(fctx, l)...)
	}
	r.logger.Debug().
		Str("file", path).
		Int("linters", ran).
		Int("lints", len(lints)).
		Msg("checked")
	return lints
}

func (r *Runner) runLinter(ctx *Context, l activeLinter) (lints []Lint) {
	defer func() {
		if rv := recover(); rv != nil {
			r.logger.Warn().
				Str("file", ctx.Document.File).
				Str("linter", l.Info.Name).
				Msgf("linter panic: %v", rv)
			lints = []Lint{{
				Linter:   l.Info.Name,
				Filename: ctx.Document.File,
				Message:  fmt.Sprintf("%s raised unexpected error: %v", l.Info.Name, rv),
				Severity: Error,
			}}
		}
	}()
	return l.Check(ctx, l.cfg.Params, l.severity)
}

func documentFailure(path string, err error) Lint {
	var parseErr *haml.ParseError
	if errors.As(err, &parseErr) {
		return Lint{
			Linter:   SyntaxLinter,
			Filename: path,
			Line:     parseErr.Line,
			Message:  parseErr.Message,
			Severity: Error,
		}
	}
	return Lint{
		Filename: path,
		Message:  err.Error(),
		Severity: Error,
	}
}

func newReport(results [][]Lint, files []string, failLevel Severity) *Report {
	var lints []Lint
	for _, r := range results {
		lints = append(lints, r...)
	}
	sort.SliceStable(lints, func(i, j int) bool {
		if lints[i].Filename != lints[j].Filename {
			return lints[i].Filename < lints[j].Filename
		}
		return lints[i].Line < lints[j].Line
	})
	return &Report{Lints: lints, Files: files, FailLevel: failLevel}
}
