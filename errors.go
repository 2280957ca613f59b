package hamlint

import (
	"errors"
	"fmt"
)

// ErrNoFiles is returned when a run has nothing to lint.
var ErrNoFiles = errors.New("no HAML files specified")

// NoSuchLinterError is returned for an unknown linter name.
type NoSuchLinterError struct {
	Name string
}

func (e *NoSuchLinterError) Error() string {
	return fmt.Sprintf("no such linter: %s", e.Name)
}
