package main

import (
	"github.com/go-hamlint/hamlint/linter/lintmain"
	"github.com/go-hamlint/hamlint/linters"
)

var version = "v0.1.0"

func main() {
	lintmain.Run(lintmain.Config{
		Name:     "hamlint",
		Version:  version,
		Register: linters.Register,
	})
}
