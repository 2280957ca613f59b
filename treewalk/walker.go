// Package treewalk implements template traversal for linters.
//
// A linter implements one of the visitor interfaces and wraps itself
// with the matching WalkerFor function; the walker decides what parts
// of the document reach the visitor.
package treewalk

import (
	"github.com/go-hamlint/hamlint/haml"
	"github.com/go-hamlint/hamlint/script"
)

// DocumentWalker runs a visitor over a document.
type DocumentWalker interface {
	WalkDocument(*haml.Document)
}

// WalkHandler is a type to be embedded into every node visitor.
type WalkHandler struct{}

// EnterNode enters every node except script comments,
// whose text is never code or markup.
func (WalkHandler) EnterNode(n *haml.Node) bool {
	return n.Kind != haml.ScriptComment
}

// WalkerForDocument returns a walker for v.
func WalkerForDocument(v DocumentVisitor) DocumentWalker {
	return &documentWalker{visitor: v}
}

// WalkerForNode returns a walker for v.
func WalkerForNode(v NodeVisitor) DocumentWalker {
	return &nodeWalker{visitor: v}
}

// WalkerForScriptNode returns a walker for v.
func WalkerForScriptNode(v ScriptNodeVisitor) DocumentWalker {
	return &scriptNodeWalker{visitor: v}
}

// WalkerForExtractedScript returns a walker for v.
// extract is called at most once per walked document.
func WalkerForExtractedScript(v ExtractedScriptVisitor, extract func(*haml.Document) *script.Extraction) DocumentWalker {
	return &extractedScriptWalker{visitor: v, extract: extract}
}

type documentWalker struct {
	visitor DocumentVisitor
}

func (w *documentWalker) WalkDocument(doc *haml.Document) {
	w.visitor.VisitDocument(doc)
}

type nodeWalker struct {
	visitor NodeVisitor
}

func (w *nodeWalker) WalkDocument(doc *haml.Document) {
	walkChildren(doc.Tree, w.visitor, w.visitor.VisitNode)
}

type scriptNodeWalker struct {
	visitor ScriptNodeVisitor
}

func (w *scriptNodeWalker) WalkDocument(doc *haml.Document) {
	walkChildren(doc.Tree, w.visitor, func(n *haml.Node) {
		if n.IsScript() {
			w.visitor.VisitScriptNode(n)
		}
	})
}

type extractedScriptWalker struct {
	visitor ExtractedScriptVisitor
	extract func(*haml.Document) *script.Extraction
}

func (w *extractedScriptWalker) WalkDocument(doc *haml.Document) {
	ex := w.extract(doc)
	if ex.Empty() {
		return
	}
	w.visitor.VisitExtractedScript(doc, ex)
}

func walkChildren(n *haml.Node, events walkerEvents, visit func(*haml.Node)) {
	for _, child := range n.Children {
		if !events.EnterNode(child) {
			continue
		}
		visit(child)
		walkChildren(child, events, visit)
	}
}
