package treewalk

import (
	"github.com/go-hamlint/hamlint/haml"
	"github.com/go-hamlint/hamlint/script"
)

// Visitor interfaces.
type (
	// DocumentVisitor visits every document once.
	DocumentVisitor interface {
		VisitDocument(*haml.Document)
	}

	// NodeVisitor visits every tree node except the root.
	NodeVisitor interface {
		walkerEvents
		VisitNode(*haml.Node)
	}

	// ScriptNodeVisitor visits every Script and SilentScript node.
	// Script embedded into element lines is not visited.
	ScriptNodeVisitor interface {
		walkerEvents
		VisitScriptNode(*haml.Node)
	}

	// ExtractedScriptVisitor visits the Ruby code extracted from
	// the document. Documents without embedded code are skipped,
	// so the visitor never sees an empty body.
	ExtractedScriptVisitor interface {
		VisitExtractedScript(*haml.Document, *script.Extraction)
	}
)

// walkerEvents describes common hooks available for node visitors.
type walkerEvents interface {
	// EnterNode is called for every node that is about to be traversed.
	// If false is returned, neither the node nor its children are visited.
	EnterNode(*haml.Node) bool
}
