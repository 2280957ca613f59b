package linters

import (
	"path/filepath"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/go-hamlint/hamlint"
	"github.com/go-hamlint/hamlint/haml"
	"github.com/go-hamlint/hamlint/treewalk"
)

// instanceVariableRE matches @ivar but not @@cvar.
var instanceVariableRE = regexp2.MustCompile(`(?<![@\w])@[A-Za-z_]\w*`, regexp2.None)

func addInstanceVariables(reg *hamlint.Registry) {
	var info hamlint.LinterInfo
	info.Name = "InstanceVariables"
	info.Tags = []string{"style", "rails"}
	info.Params = hamlint.LinterParams{
		"file_types": {
			Value: "partials",
			Usage: "name of the matcher selecting the checked files",
		},
		"matchers": {
			Value: map[string]string{
				"all":      `.*`,
				"partials": `\A_.*\.haml\z`,
			},
			Usage: "named file name patterns (Ruby regular expression syntax)",
		},
	}
	info.Summary = "Detects instance variables used in partials"
	info.Details = `
Partials that read instance variables depend on whatever the rendering
controller happened to set. Pass the values as locals instead.`
	info.Before = `%p= @greeting`
	info.After = `%p= greeting`
	info.Note = "Only file names matching the selected matcher are checked."

	reg.AddLinter(&info, func(ctx *hamlint.LinterContext) interface{} {
		c := &instanceVariablesLinter{ctx: ctx}
		c.enabled = c.matchesFile(ctx.Document.File)
		return c
	})
}

type instanceVariablesLinter struct {
	treewalk.WalkHandler
	ctx     *hamlint.LinterContext
	enabled bool
}

func (c *instanceVariablesLinter) matchesFile(filename string) bool {
	fileTypes := c.ctx.Params.String("file_types", "partials")
	matchers := c.ctx.Params.StringMap("matchers", nil)
	pattern, ok := matchers[fileTypes]
	if !ok {
		c.ctx.Logger.Warn().
			Str("linter", c.ctx.Info.Name).
			Msgf("no matcher named %q", fileTypes)
		return false
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		c.ctx.Logger.Warn().
			Str("linter", c.ctx.Info.Name).
			Err(err).
			Msgf("bad matcher %q", fileTypes)
		return false
	}
	ok, err = re.MatchString(filepath.Base(filename))
	return ok && err == nil
}

func (c *instanceVariablesLinter) EnterNode(n *haml.Node) bool {
	return c.enabled && c.WalkHandler.EnterNode(n)
}

func (c *instanceVariablesLinter) VisitNode(n *haml.Node) {
	switch {
	case n.Kind == haml.ElementNode:
		el := n.Element
		c.checkCode(el.Attributes, el.AttributesLine)
		if el.Script {
			c.checkCode(el.Value, el.ValueLine)
		}
	case n.IsScript():
		c.checkCode(n.Text, n.Line)
	}
}

func (c *instanceVariablesLinter) checkCode(code string, line int) {
	if code == "" {
		return
	}
	m, _ := instanceVariableRE.FindStringMatch(code)
	for m != nil {
		offset := strings.Count(code[:byteIndex(code, m.Index)], "\n")
		c.ctx.WarnLine(line+offset, "Avoid using instance variables in partials views")
		m, _ = instanceVariableRE.FindNextMatch(m)
	}
}

// byteIndex converts a rune index reported by regexp2 into a byte index.
func byteIndex(s string, runeIndex int) int {
	i := 0
	for pos := range s {
		if i == runeIndex {
			return pos
		}
		i++
	}
	return len(s)
}
