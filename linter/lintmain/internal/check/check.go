package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-hamlint/hamlint"
	"github.com/go-hamlint/hamlint/config"
	"github.com/go-hamlint/hamlint/reporter"
	"github.com/go-hamlint/hamlint/script"
	"github.com/rs/zerolog"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitLints = 1
	ExitError = -1
)

// Options are the check sub-command flags.
type Options struct {
	ConfigFile      string
	ExcludedFiles   []string
	IncludedLinters []string
	ExcludedLinters []string
	Reporter        string
	FailLevel       string
	Workers         int
	NoColor         bool

	// Version is printed into generated config files.
	Version string
}

// Main implements sub-command entry point.
// It returns the process exit code.
func Main(ctx context.Context, opts *Options, reg *hamlint.Registry, args []string, stdout, stderr io.Writer, logger zerolog.Logger) int {
	l := linter{
		opts:   opts,
		reg:    reg,
		args:   args,
		stdout: stdout,
		logger: logger,
	}

	steps := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"load config", l.loadConfig},
		{"find files", l.findFiles},
		{"run linters", l.runLinters},
		{"report lints", l.reportLints},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			l.logger.Debug().Err(err).Str("step", step.name).Msg("failed")
			fmt.Fprintf(stderr, "%s: %v\n", step.name, err)
			return ExitError
		}
	}
	if l.report.Failed() {
		return ExitLints
	}
	return ExitOK
}

type linter struct {
	opts   *Options
	reg    *hamlint.Registry
	args   []string
	stdout io.Writer
	logger zerolog.Logger

	cfg    *config.Config
	files  []string
	report *hamlint.Report
}

func (l *linter) loadConfig(ctx context.Context) error {
	path := l.opts.ConfigFile
	if path == "" {
		if _, err := os.Stat(config.FileName); err != nil {
			l.cfg = config.Default()
			return nil
		}
		path = config.FileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	l.logger.Debug().Str("config", path).Msg("loaded")
	l.cfg = cfg
	return nil
}

// findFiles expands directories into the templates they contain.
func (l *linter) findFiles(ctx context.Context) error {
	l.cfg.Exclude = append(l.cfg.Exclude, l.opts.ExcludedFiles...)
	if l.opts.FailLevel != "" {
		l.cfg.FailLevel = l.opts.FailLevel
	}

	for _, arg := range l.args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing files are reported by the runner.
			l.files = append(l.files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".haml") {
				l.files = append(l.files, path)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *linter) runLinters(ctx context.Context) error {
	runner := hamlint.NewRunner(hamlint.Options{
		Registry:        l.reg,
		Config:          l.cfg,
		IncludedLinters: l.opts.IncludedLinters,
		ExcludedLinters: l.opts.ExcludedLinters,
		Analyzer:        &script.CommandAnalyzer{},
		Workers:         l.opts.Workers,
		Logger:          &l.logger,
	})
	report, err := runner.Run(ctx, l.files)
	if err != nil {
		var noSuchLinter *hamlint.NoSuchLinterError
		if errors.As(err, &noSuchLinter) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(l.reg.Names(), ", "))
		}
		return err
	}
	l.report = report
	return nil
}

func (l *linter) reportLints(ctx context.Context) error {
	name := l.opts.Reporter
	if name == "" {
		name = "default"
	}
	r, err := reporter.New(name, reporter.Options{
		Colored: !l.opts.NoColor,
		Version: l.opts.Version,
	})
	if err != nil {
		return err
	}
	return r.Report(l.stdout, l.report)
}
