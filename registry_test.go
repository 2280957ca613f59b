package hamlint

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	noop := func(ctx *LinterContext) interface{} { return &panicLinter{ctx: ctx} }
	reg.AddLinter(&LinterInfo{Name: "Zeta", Summary: "  padded summary \n"}, noop)
	reg.AddLinter(&LinterInfo{Name: "Alpha", Summary: "alpha"}, noop)

	var order []string
	for _, l := range reg.Linters() {
		order = append(order, l.Info.Name)
	}
	require.Equal(t, []string{"Zeta", "Alpha"}, order)
	require.Equal(t, []string{"Alpha", "Zeta"}, reg.Names())

	l, err := reg.Lookup("Zeta")
	require.NoError(t, err)
	require.Equal(t, "padded summary", l.Info.Summary)

	_, err = reg.Lookup("Beta")
	require.Equal(t, &NoSuchLinterError{Name: "Beta"}, err)
}

func TestRegistryPanics(t *testing.T) {
	noop := func(ctx *LinterContext) interface{} { return &panicLinter{ctx: ctx} }
	tests := []struct {
		name string
		info *LinterInfo
		fn   func(*LinterContext) interface{}
	}{
		{"duplicate", &LinterInfo{Name: "Alpha"}, noop},
		{"lowercase", &LinterInfo{Name: "alpha"}, noop},
		{"punctuation", &LinterInfo{Name: "Lint/Void"}, noop},
		{"reserved", &LinterInfo{Name: SyntaxLinter}, noop},
		{"nil constructor", &LinterInfo{Name: "Beta"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.AddLinter(&LinterInfo{Name: "Alpha"}, noop)
			require.Panics(t, func() { reg.AddLinter(tt.info, tt.fn) })
		})
	}
}

func TestSeverity(t *testing.T) {
	for _, s := range []string{"warning", "W", "Warning"} {
		have, err := ParseSeverity(s)
		require.NoError(t, err)
		require.Equal(t, Warning, have)
	}
	have, err := ParseSeverity("error")
	require.NoError(t, err)
	require.Equal(t, Error, have)
	require.Equal(t, "error", have.String())

	_, err = ParseSeverity("fatal")
	require.Error(t, err)
	require.True(t, Warning < Error)
}

func TestParameters(t *testing.T) {
	info := &LinterInfo{
		Name: "Params",
		Params: LinterParams{
			"limit":  {Value: 15},
			"name":   {Value: "default"},
			"strict": {Value: false},
		},
	}
	p := newParameters(info, map[string]interface{}{
		"name":     "custom",
		"strict":   "yes",
		"cops":     []interface{}{"Lint/Void", "Style/Next"},
		"matchers": map[string]interface{}{"all": ".*"},
		"broken":   []interface{}{1, 2},
	}, zerolog.Nop())

	require.Equal(t, 15, p.Int("limit", 0))
	require.Equal(t, "custom", p.String("name", ""))
	require.Equal(t, true, p.Bool("strict", true), "mismatched type falls back to default")
	require.Equal(t, 7, p.Int("unknown", 7))
	require.Equal(t, []string{"Lint/Void", "Style/Next"}, p.Strings("cops", nil))
	require.Equal(t, []string{"x"}, p.Strings("broken", []string{"x"}))
	require.Equal(t, map[string]string{"all": ".*"}, p.StringMap("matchers", nil))
	require.Nil(t, p.StringMap("missing", nil))
}
