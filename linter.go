package hamlint

import (
	"fmt"

	"github.com/go-hamlint/hamlint/treewalk"
)

// Linter is a registered rule.
type Linter struct {
	Info *LinterInfo

	constructor func(*LinterContext) interface{}
}

// Check runs the linter over the document held by ctx.
// params override declared parameter defaults.
func (l *Linter) Check(ctx *Context, params map[string]interface{}, severity Severity) []Lint {
	lctx := &LinterContext{
		Context:  ctx,
		Info:     l.Info,
		Params:   newParameters(l.Info, params, ctx.Logger),
		severity: severity,
	}
	newWalker(l.constructor(lctx), lctx).WalkDocument(ctx.Document)
	return lctx.lints
}

// newWalker infers proper template traversing wrapper (walker)
// from the visitor interface v implements.
func newWalker(v interface{}, ctx *LinterContext) treewalk.DocumentWalker {
	switch v := v.(type) {
	case treewalk.DocumentWalker:
		return v
	case treewalk.ExtractedScriptVisitor:
		return treewalk.WalkerForExtractedScript(v, ctx.ExtractedScript)
	case treewalk.ScriptNodeVisitor:
		return treewalk.WalkerForScriptNode(v)
	case treewalk.NodeVisitor:
		return treewalk.WalkerForNode(v)
	case treewalk.DocumentVisitor:
		return treewalk.WalkerForDocument(v)
	default:
		panic(fmt.Sprintf("%T does not implement known visitor interface", v))
	}
}
