package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-hamlint/hamlint/haml"
)

// CommandAnalyzer runs RuboCop as an external process.
//
// The body is written to a temporary file placed next to the template,
// so RuboCop picks up the project configuration. The file is removed
// before Analyze returns.
type CommandAnalyzer struct {
	// Command is the executable to run. Empty means "rubocop".
	Command string

	// Args are passed before the generated arguments.
	Args []string
}

// Analyze implements Analyzer.
func (a *CommandAnalyzer) Analyze(ctx context.Context, filename, body string) ([]Offense, error) {
	path, err := writeTempFile(filename, body)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	command := a.Command
	if command == "" {
		command = "rubocop"
	}
	args := append(append([]string{}, a.Args...), "--format", "json", path)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()

	// RuboCop exits with 1 when offenses were found.
	var exitErr *exec.ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.ExitCode() == 1) {
		return nil, fmt.Errorf("%s: %v: %s", command, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return parseRubocopJSON(stdout.Bytes())
}

func writeTempFile(filename, body string) (string, error) {
	dir := ""
	if filename != haml.StringSource && filename != "" {
		dir = filepath.Dir(filename)
	}
	f, err := os.CreateTemp(dir, filepath.Base(filename)+".*.haml_lint.tmp")
	if err != nil {
		return "", fmt.Errorf("create tmp file: %v", err)
	}
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write tmp file: %v", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close tmp file: %v", err)
	}
	return f.Name(), nil
}

type rubocopReport struct {
	Files []struct {
		Offenses []struct {
			Message  string `json:"message"`
			CopName  string `json:"cop_name"`
			Location struct {
				Line int `json:"line"`
			} `json:"location"`
		} `json:"offenses"`
	} `json:"files"`
}

func parseRubocopJSON(data []byte) ([]Offense, error) {
	var report rubocopReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode rubocop output: %v", err)
	}
	var offenses []Offense
	for _, f := range report.Files {
		for _, o := range f.Offenses {
			offenses = append(offenses, Offense{
				Line:     o.Location.Line,
				Message:  o.Message,
				Category: o.CopName,
			})
		}
	}
	return offenses, nil
}
