package linters

import (
	"strings"

	"github.com/go-hamlint/hamlint"
	"github.com/go-hamlint/hamlint/haml"
	"github.com/go-hamlint/hamlint/treewalk"
)

// splitOperators are binary operators that leave an expression
// unfinished when they end a script line.
var splitOperators = map[string]bool{
	"||": true, "or": true, "&&": true, "and": true,
	"||=": true, "&&=": true,
	"^": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "**=": true, "%=": true,
	"<<": true, ">>": true, "<<=": true, ">>=": true,
	"|": true, "|=": true, "&": true, "&=": true,
	"+": true, "-": true, "*": true, "/": true, "**": true, "%": true,
	"<": true, "<=": true, "<=>": true, "==": true, "===": true, "!=": true,
	"=~": true, "!~": true, ">=": true, ">": true,
}

func addMultilineScript(reg *hamlint.Registry) {
	var info hamlint.LinterInfo
	info.Name = "MultilineScript"
	info.Tags = []string{"diagnostic"}
	info.Summary = "Detects script lines that end with a binary operator"
	info.Details = `
Each script line is evaluated on its own, so an expression split after
an operator does not continue on the next script line.`
	info.Before = `
- if condition ||
- other_condition`
	info.After = `- if condition || other_condition`

	reg.AddLinter(&info, func(ctx *hamlint.LinterContext) interface{} {
		return &multilineScriptLinter{ctx: ctx}
	})
}

type multilineScriptLinter struct {
	treewalk.WalkHandler
	ctx *hamlint.LinterContext
}

func (c *multilineScriptLinter) VisitScriptNode(n *haml.Node) {
	tokens := strings.Fields(n.Text)
	if len(tokens) < 2 {
		return
	}
	op := tokens[len(tokens)-1]
	if !splitOperators[op] {
		return
	}
	c.ctx.Warn(n, "Script with trailing operator `%s` should be merged with the script on the following line", op)
}
