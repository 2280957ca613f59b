package haml

import "strings"

// Kind identifies the syntactic role of a Node.
type Kind int

// Node kinds.
const (
	Root Kind = iota
	ElementNode
	PlainText
	Script
	SilentScript
	Comment
	ScriptComment
	Filter
	Doctype
)

var kindNames = [...]string{
	Root:          "root",
	ElementNode:   "element",
	PlainText:     "plain",
	Script:        "script",
	SilentScript:  "silent_script",
	Comment:       "comment",
	ScriptComment: "script_comment",
	Filter:        "filter",
	Doctype:       "doctype",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is a single element of a parsed template.
//
// The tree is owned by its Document and is never modified after
// parsing completes.
type Node struct {
	Kind Kind

	// Line is the 1-based line of the node in the original file,
	// frontmatter included.
	Line int

	// Text is the literal payload of the node.
	// Nodes that span several physical lines keep "\n" separators.
	Text string

	// Element is set for ElementNode only.
	Element *Element

	// FilterName is set for Filter only.
	FilterName string

	Children []*Node
}

// Element holds the parts of a tag line.
type Element struct {
	Tag string

	// Attributes is the raw Ruby hash attribute source, braces included.
	Attributes     string
	AttributesLine int

	// HTMLAttributes is the raw "(...)" attribute source.
	HTMLAttributes string

	// ObjectRef is the raw "[...]" object reference source.
	ObjectRef string

	SelfClosing bool

	// Value is the inline content after the tag.
	Value     string
	ValueLine int

	// Script reports whether Value is Ruby code (=, !=, &=, ~).
	Script bool
}

// IsScript reports whether n holds Ruby code directly.
func (n *Node) IsScript() bool {
	return n.Kind == Script || n.Kind == SilentScript
}

// LineCount returns the number of physical lines the node's own text spans.
func (n *Node) LineCount() int {
	return strings.Count(n.Text, "\n") + 1
}

// Walk calls fn for n and every descendant in document order.
// Children of a node are skipped when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns all nodes of the given kind under n (n included).
func (n *Node) Find(kind Kind) []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.Kind == kind {
			out = append(out, x)
		}
		return true
	})
	return out
}
