// Package linters implements the built-in hamlint rules.
package linters

import (
	"github.com/go-hamlint/hamlint"
)

// Register adds all built-in linters to reg.
func Register(reg *hamlint.Registry) {
	addInstanceVariables(reg)
	addMultilineScript(reg)
	addRubyScript(reg)
}
