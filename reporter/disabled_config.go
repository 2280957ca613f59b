package reporter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-hamlint/hamlint"
	"gopkg.in/yaml.v3"
)

// DefaultTodoFile is where DisabledConfig writes the generated config.
const DefaultTodoFile = ".haml-lint_todo.yml"

// DefaultExcludeLimit is the number of files a linter may be excluded
// from before it gets disabled instead.
const DefaultExcludeLimit = 15

// DisabledConfig prints the default report and writes a config file
// that silences every reported lint.
//
// A linter with lints in more than Limit files is disabled,
// otherwise the affected files are excluded.
type DisabledConfig struct {
	Colored bool

	// Version is mentioned in the file heading.
	Version string

	// Limit defaults to DefaultExcludeLimit.
	Limit int

	// Path defaults to DefaultTodoFile.
	Path string
}

// Report implements Reporter.
func (r *DisabledConfig) Report(w io.Writer, report *hamlint.Report) error {
	def := &Default{Colored: r.Colored, Summary: true}
	if err := def.Report(w, report); err != nil {
		return err
	}

	data, err := r.Generate(report)
	if err != nil {
		return err
	}
	path := r.Path
	if path == "" {
		path = DefaultTodoFile
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, err = fmt.Fprintf(w, "Created %s.\nRun `hamlint --config %s`, or merge it into a %s file.\n",
		path, path, ".haml-lint.yml")
	return err
}

// Generate returns the YAML config silencing the lints of report.
func (r *DisabledConfig) Generate(report *hamlint.Report) ([]byte, error) {
	limit := r.Limit
	if limit <= 0 {
		limit = DefaultExcludeLimit
	}

	var order []string
	files := make(map[string][]string)
	counts := make(map[string]int)
	for _, lint := range report.Lints {
		name := lint.Linter
		if name == "" || name == hamlint.SyntaxLinter {
			continue
		}
		if _, ok := files[name]; !ok {
			order = append(order, name)
			files[name] = nil
		}
		counts[name]++
		if !containsString(files[name], lint.Filename) {
			files[name] = append(files[name], lint.Filename)
		}
	}

	heading := r.heading()
	if len(order) == 0 {
		return []byte(heading + "\n"), nil
	}

	linters := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range order {
		section := &yaml.Node{Kind: yaml.MappingNode}
		if len(files[name]) > limit {
			section.Content = append(section.Content,
				scalar("enabled"),
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"})
		} else {
			list := &yaml.Node{Kind: yaml.SequenceNode}
			for _, f := range files[name] {
				file := scalar(f)
				file.Style = yaml.DoubleQuotedStyle
				list.Content = append(list.Content, file)
			}
			section.Content = append(section.Content, scalar("exclude"), list)
		}
		key := scalar(name)
		key.HeadComment = fmt.Sprintf("# Offense count: %d", counts[name])
		linters.Content = append(linters.Content, key, section)
	}

	linterKey := scalar("linters")
	linterKey.HeadComment = heading
	root := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{linterKey, linters},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *DisabledConfig) heading() string {
	version := r.Version
	if version == "" {
		version = "unknown"
	}
	return strings.Join([]string{
		"# This configuration was generated by",
		"# `hamlint --reporter disabled-config`",
		"# using hamlint version " + version + ".",
		"# The point is for the user to remove these configuration records",
		"# one by one as the lints are removed from the code base.",
		"# Note that changes in the inspected code, or installation of new",
		"# versions of hamlint, may require this file to be generated again.",
	}, "\n")
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
