package lintmain

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-hamlint/hamlint"
	"github.com/go-hamlint/hamlint/linter/lintmain/internal/check"
	"github.com/go-hamlint/hamlint/linter/lintmain/internal/hotload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Config is used to parametrize the linter.
type Config struct {
	// Name is the program name shown in help messages.
	Name string

	Version string

	// Register adds the bundled linters to the registry.
	Register func(*hamlint.Registry)
}

// Run executes the linter with os.Args and exits.
// Does not return.
func Run(cfg Config) {
	os.Exit(Main(cfg, os.Args[1:], os.Stdout, os.Stderr))
}

// Main executes the linter with args and returns the exit code.
func Main(cfg Config, args []string, stdout, stderr io.Writer) int {
	if cfg.Name == "" {
		cfg.Name = "hamlint"
	}
	reg := hamlint.NewRegistry()
	if cfg.Register != nil {
		cfg.Register(reg)
	}

	m := &mainCommand{cfg: cfg, reg: reg, stdout: stdout, stderr: stderr}
	root := m.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		return check.ExitError
	}
	return m.exitCode
}

type mainCommand struct {
	cfg    Config
	reg    *hamlint.Registry
	stdout io.Writer
	stderr io.Writer

	opts         check.Options
	debug        bool
	showLinters  bool
	printVersion bool
	plugins      []string

	exitCode int
}

func (m *mainCommand) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          m.cfg.Name + " [flags] [haml-files]",
		Short:        "Lint HAML templates",
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return m.loadPlugins()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case m.printVersion:
				return m.version(cmd, nil)
			case m.showLinters:
				return m.listLinters()
			}
			return m.check(cmd, args)
		},
	}

	m.bindCheckFlags(root)
	root.Flags().BoolVar(&m.showLinters, "show-linters", false,
		"show available linters")
	root.Flags().BoolVarP(&m.printVersion, "version", "v", false,
		"show version")
	root.PersistentFlags().BoolVar(&m.debug, "debug", false,
		"enable debug logging")
	root.PersistentFlags().StringSliceVar(&m.plugins, "plugin", nil,
		"load linters from a Go plugin exporting Register(*hamlint.Registry)")

	for _, sub := range m.subCommands() {
		root.AddCommand(sub)
	}
	return root
}

func (m *mainCommand) check(cmd *cobra.Command, args []string) error {
	m.opts.Version = m.cfg.Version
	m.exitCode = check.Main(cmd.Context(), &m.opts, m.reg, args, m.stdout, m.stderr, m.logger())
	return nil
}

func (m *mainCommand) bindCheckFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&m.opts.ConfigFile, "config", "c", "",
		"path to a configuration file (default .haml-lint.yml when present)")
	flags.StringSliceVarP(&m.opts.ExcludedFiles, "exclude", "e", nil,
		"list of file names or globs to exclude")
	flags.StringSliceVarP(&m.opts.IncludedLinters, "include-linter", "i", nil,
		"specify which linters you want to run")
	flags.StringSliceVarP(&m.opts.ExcludedLinters, "exclude-linter", "x", nil,
		"specify which linters you don't want to run")
	flags.StringVarP(&m.opts.Reporter, "reporter", "r", "default",
		"output format: default, github, checkstyle or disabled-config")
	flags.StringVar(&m.opts.FailLevel, "fail-level", "",
		"minimum severity (warning or error) that fails the run")
	flags.IntVarP(&m.opts.Workers, "workers", "j", 0,
		"number of files checked in parallel (default GOMAXPROCS)")
	flags.BoolVar(&m.opts.NoColor, "no-color", false,
		"disable colored output")
}

func (m *mainCommand) loadPlugins() error {
	for _, path := range m.plugins {
		if err := hotload.LintersFromDylib(m.reg, path); err != nil {
			return fmt.Errorf("load plugin %s: %w", path, err)
		}
	}
	return nil
}

func (m *mainCommand) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if m.debug {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{
		Out:          m.stderr,
		NoColor:      m.opts.NoColor,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func (m *mainCommand) listLinters() error {
	fmt.Fprintln(m.stdout, "Installed linters:")
	for _, name := range m.reg.Names() {
		fmt.Fprintf(m.stdout, " - %s\n", name)
	}
	return nil
}
