package linters

import (
	"github.com/go-hamlint/hamlint"
	"github.com/go-hamlint/hamlint/haml"
	"github.com/go-hamlint/hamlint/script"
)

// defaultIgnoredCops are cops that misfire on code stitched together
// from separate template lines.
var defaultIgnoredCops = []string{
	"Lint/BlockAlignment",
	"Lint/EndAlignment",
	"Lint/Void",
	"Layout/BlockAlignment",
	"Layout/EndAlignment",
	"Layout/IndentationWidth",
	"Layout/LineLength",
	"Layout/TrailingWhitespace",
	"Layout/TrailingEmptyLines",
	"Naming/FileName",
	"Style/BlockNesting",
	"Style/FileName",
	"Style/FrozenStringLiteralComment",
	"Style/IfUnlessModifier",
	"Style/IndentationWidth",
	"Style/LineLength",
	"Style/Next",
	"Style/TrailingWhitespace",
	"Style/WhileUntilModifier",
}

func addRubyScript(reg *hamlint.Registry) {
	var info hamlint.LinterInfo
	info.Name = "RubyScript"
	info.Tags = []string{"diagnostic", "external"}
	info.Params = hamlint.LinterParams{
		"ignored_cops": {
			Value: defaultIgnoredCops,
			Usage: "analyzer offense categories that are never reported",
		},
	}
	info.Summary = "Runs RuboCop over the Ruby code embedded into the template"
	info.Details = `
Every script fragment is collected into a single Ruby source which is
handed to the analyzer. Offense lines are mapped back to the template.`
	info.Before = `- x = 1`
	info.After = `- x = compute`
	info.Note = "Requires the rubocop executable."

	reg.AddLinter(&info, func(ctx *hamlint.LinterContext) interface{} {
		c := &rubyScriptLinter{ctx: ctx, ignored: make(map[string]bool)}
		for _, cop := range ctx.Params.Strings("ignored_cops", defaultIgnoredCops) {
			c.ignored[cop] = true
		}
		return c
	})
}

type rubyScriptLinter struct {
	ctx     *hamlint.LinterContext
	ignored map[string]bool
}

func (c *rubyScriptLinter) VisitExtractedScript(doc *haml.Document, ex *script.Extraction) {
	if c.ctx.Analyzer == nil {
		c.ctx.Logger.Debug().Str("file", doc.File).Msg("no script analyzer configured")
		return
	}
	offenses, err := c.ctx.Analyzer.Analyze(c.ctx.Ctx, doc.File, ex.Body)
	if err != nil {
		c.ctx.Fail("RubyScript failed: %v", err)
		return
	}
	for _, o := range offenses {
		if c.ignored[o.Category] {
			continue
		}
		c.ctx.WarnLine(ex.Map.Translate(o.Line), "%s: %s", o.Category, o.Message)
	}
}
