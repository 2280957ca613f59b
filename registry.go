package hamlint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Registry is a set of linters.
// Registration should be done with AddLinter.
type Registry struct {
	linters []*Linter
	byName  map[string]*Linter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Linter)}
}

var linterNameRE = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// AddLinter registers a new linter.
//
// constructor is called for every checked file and must return a value
// implementing one of the treewalk visitor interfaces.
// Invalid or duplicated names cause a panic.
func (r *Registry) AddLinter(info *LinterInfo, constructor func(*LinterContext) interface{}) {
	trimDocumentation := func(info *LinterInfo) {
		fields := []*string{
			&info.Summary,
			&info.Details,
			&info.Before,
			&info.After,
			&info.Note,
		}
		for _, f := range fields {
			*f = strings.TrimSpace(*f)
		}
	}

	if !linterNameRE.MatchString(info.Name) {
		panic(fmt.Sprintf("bad linter name: %q", info.Name))
	}
	if info.Name == SyntaxLinter {
		panic(fmt.Sprintf("linter name %q is reserved", info.Name))
	}
	if _, ok := r.byName[info.Name]; ok {
		panic(fmt.Sprintf("linter %q is already registered", info.Name))
	}
	if constructor == nil {
		panic(fmt.Sprintf("linter %q: nil constructor", info.Name))
	}
	trimDocumentation(info)

	l := &Linter{Info: info, constructor: constructor}
	r.linters = append(r.linters, l)
	r.byName[info.Name] = l
}

// Linters returns registered linters in registration order.
func (r *Registry) Linters() []*Linter {
	return append([]*Linter(nil), r.linters...)
}

// Names returns sorted linter names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.linters))
	for _, l := range r.linters {
		names = append(names, l.Info.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a linter by name.
func (r *Registry) Lookup(name string) (*Linter, error) {
	if l, ok := r.byName[name]; ok {
		return l, nil
	}
	return nil, &NoSuchLinterError{Name: name}
}
