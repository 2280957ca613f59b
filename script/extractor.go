// Package script extracts the Ruby code embedded in a template into a
// single synthetic body and maps its lines back to the template.
package script

import (
	"strings"

	"github.com/go-hamlint/hamlint/haml"
)

// SourceMap translates synthetic body lines into template lines.
type SourceMap struct {
	lines []int
}

// Len returns the number of mapped synthetic lines.
func (m *SourceMap) Len() int {
	return len(m.lines)
}

// Lookup returns the template line of the 1-based synthetic line.
func (m *SourceMap) Lookup(line int) (int, bool) {
	if line < 1 || line > len(m.lines) {
		return 0, false
	}
	return m.lines[line-1], true
}

// Translate is like Lookup, but clamps out of range lines
// to the first or last mapped line. It returns 0 for an empty map.
func (m *SourceMap) Translate(line int) int {
	switch {
	case len(m.lines) == 0:
		return 0
	case line < 1:
		return m.lines[0]
	case line > len(m.lines):
		return m.lines[len(m.lines)-1]
	}
	return m.lines[line-1]
}

func (m *SourceMap) add(line int) {
	m.lines = append(m.lines, line)
}

// Extraction is the result of Extract.
type Extraction struct {
	// Body is the synthetic Ruby source.
	// It is empty or ends with exactly one newline.
	Body string

	Map *SourceMap
}

// Empty reports whether the template had no embedded code.
func (e *Extraction) Empty() bool {
	return e.Body == ""
}

// Fragment is one piece of embedded code.
type Fragment struct {
	// Line is the template line of the first code line.
	Line int

	Code string
}

// Fragments returns the code fragments of tree in document order.
func Fragments(tree *haml.Node) []Fragment {
	var out []Fragment
	tree.Walk(func(n *haml.Node) bool {
		switch n.Kind {
		case haml.Script, haml.SilentScript:
			out = append(out, Fragment{Line: n.Line, Code: n.Text})
		case haml.ElementNode:
			el := n.Element
			if el.Attributes != "" {
				out = append(out, Fragment{Line: el.AttributesLine, Code: el.Attributes})
			}
			if el.Script {
				out = append(out, Fragment{Line: el.ValueLine, Code: el.Value})
			}
		}
		return true
	})
	return out
}

// Extract joins the code fragments of doc into one body.
//
// Fragments are separated by a blank line that maps to the last
// line of the preceding fragment.
func Extract(doc *haml.Document) *Extraction {
	var body strings.Builder
	m := &SourceMap{}

	last := 0
	for i, frag := range Fragments(doc.Tree) {
		if i > 0 {
			body.WriteByte('\n')
			m.add(last)
		}
		for j, line := range strings.Split(frag.Code, "\n") {
			body.WriteString(line)
			body.WriteByte('\n')
			last = frag.Line + j
			m.add(last)
		}
	}

	return &Extraction{Body: body.String(), Map: m}
}
