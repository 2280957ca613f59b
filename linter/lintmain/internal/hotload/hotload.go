package hotload

import (
	"fmt"
	"plugin"

	"github.com/go-hamlint/hamlint"
)

// LintersFromDylib loads linters provided by a dynamic library found under path.
//
// The library must export
//
//	func Register(*hamlint.Registry)
//
// which is called with reg.
func LintersFromDylib(reg *hamlint.Registry, path string) error {
	if path == "" {
		return nil // Nothing to do
	}
	p, err := plugin.Open(path)
	if err != nil {
		return err
	}
	sym, err := p.Lookup("Register")
	if err != nil {
		return err
	}
	register, ok := sym.(func(*hamlint.Registry))
	if !ok {
		return fmt.Errorf("%s: Register has type %T, want func(*hamlint.Registry)", path, sym)
	}

	lintersBefore := len(reg.Linters())
	register(reg)
	if len(reg.Linters()) == lintersBefore {
		return fmt.Errorf("loaded plugin doesn't provide any hamlint-compatible linters")
	}
	return nil
}
