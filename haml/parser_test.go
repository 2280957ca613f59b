package haml

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// dump renders a tree as "kind@line: text" lines, indented by depth.
func dump(root *Node) []string {
	var out []string
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for _, c := range n.Children {
			out = append(out, fmt.Sprintf("%s%s@%d: %s",
				strings.Repeat("  ", depth), c.Kind, c.Line, strings.ReplaceAll(c.Text, "\n", `\n`)))
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return out
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "nested elements",
			src:  "%head\n  %title My title\n%body\n  %p My paragraph\n",
			want: []string{
				"element@1: %head",
				"  element@2: %title My title",
				"element@3: %body",
				"  element@4: %p My paragraph",
			},
		},
		{
			name: "node kinds",
			src: strings.Join([]string{
				"!!! 5",
				"-# comment",
				"/ html comment",
				"- x = 1",
				"= x",
				`\= escaped`,
				"plain",
				".foo bar",
				"#{x} interp",
				"!= raw",
				":css",
			}, "\n"),
			want: []string{
				"doctype@1: 5",
				"script_comment@2: comment",
				"comment@3: html comment",
				"silent_script@4: x = 1",
				"script@5: x",
				"plain@6: = escaped",
				"plain@7: plain",
				"element@8: .foo bar",
				"plain@9: #{x} interp",
				"script@10: raw",
				"filter@11: ",
			},
		},
		{
			name: "blank lines are skipped",
			src:  "%div\n\n  %p\n\n\n  %p\n",
			want: []string{
				"element@1: %div",
				"  element@3: %p",
				"  element@6: %p",
			},
		},
		{
			name: "dedent to an open level",
			src:  "%a\n  %b\n    %c\n  %d\n%e",
			want: []string{
				"element@1: %a",
				"  element@2: %b",
				"    element@3: %c",
				"  element@4: %d",
				"element@5: %e",
			},
		},
		{
			name: "tabs advance to the tab width",
			src:  "%a\n\t%b\n\t\t%c\n  %d",
			want: []string{
				"element@1: %a",
				"  element@2: %b",
				"    element@3: %c",
				"  element@4: %d",
			},
		},
		{
			name: "filter body is verbatim",
			src:  ":javascript\n  var a = 1;\n\n    if (a) {}\n%p",
			want: []string{
				`filter@1: var a = 1;\n\n  if (a) {}`,
				"element@5: %p",
			},
		},
		{
			name: "script comment swallows nested lines",
			src:  "-# first\n  %p= @hidden\n      deeper\n%p",
			want: []string{
				`script_comment@1: first\n%p= @hidden\n    deeper`,
				"element@4: %p",
			},
		},
		{
			name: "comma continuation",
			src:  "= link_to 'a',\n  path\n%p",
			want: []string{
				`script@1: link_to 'a',\npath`,
				"element@3: %p",
			},
		},
		{
			name: "multiline pipes",
			src:  "= [1, |\n   2] |\n%p",
			want: []string{
				`script@1: [1,\n2]`,
				"element@3: %p",
			},
		},
		{
			name: "block arguments are not multiline",
			src:  "- items.each do | x |\n  = x",
			want: []string{
				"silent_script@1: items.each do | x |",
				"  script@2: x",
			},
		},
		{
			name: "attributes spanning lines",
			src:  "%p{ a: 1,\n     b: @x }= foo\n%br",
			want: []string{
				`element@1: %p{ a: 1,\nb: @x }= foo`,
				"element@3: %br",
			},
		},
		{
			name: "block under element script",
			src:  "%div= form_for @user do |f|\n  = f.text_field :name\n%p= link_to root_path do\n  Home\n%b~ capture do\n  %i\n",
			want: []string{
				"element@1: %div= form_for @user do |f|",
				"  script@2: f.text_field :name",
				"element@3: %p= link_to root_path do",
				"  plain@4: Home",
				"element@5: %b~ capture do",
				"  element@6: %i",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.src, ParseOptions{})
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, dump(root)); diff != "" {
				t.Errorf("tree mismatch (-want +have):\n%s", diff)
			}
		})
	}
}

func TestParseLineOffset(t *testing.T) {
	root, err := Parse("%p\n  %b", ParseOptions{LineOffset: 3})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"element@4: %p", "  element@5: %b"}
	if diff := cmp.Diff(want, dump(root)); diff != "" {
		t.Errorf("tree mismatch (-want +have):\n%s", diff)
	}

	_, err = Parse("%p\n    %b\n  %c", ParseOptions{LineOffset: 3})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Line != 6 {
		t.Errorf("error line: have %d, want 6", perr.Line)
	}
}

func TestParseElement(t *testing.T) {
	root, err := Parse("%p{ a: 1,\n     b: @x }(c='d')[@obj]= foo\n%img.pic#main/\n%span<> text", ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var have []Element
	for _, n := range root.Children {
		have = append(have, *n.Element)
	}
	want := []Element{
		{
			Tag:            "p",
			Attributes:     "{ a: 1,\nb: @x }",
			AttributesLine: 1,
			HTMLAttributes: "(c='d')",
			ObjectRef:      "[@obj]",
			Value:          "foo",
			ValueLine:      2,
			Script:         true,
		},
		{Tag: "img", SelfClosing: true, ValueLine: 3},
		{Tag: "span", Value: "text", ValueLine: 4},
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("elements mismatch (-want +have):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		message string
	}{
		{
			name:    "too deep",
			src:     "%body\n  %div\n      %p\n%footer\n%footer",
			line:    3,
			message: "The line was indented 2 levels deeper than the previous line.",
		},
		{
			name:    "indented first line",
			src:     "  %p",
			line:    1,
			message: "Indenting at the beginning of the document is illegal.",
		},
		{
			name:    "inconsistent width",
			src:     "%a\n  %b\n   %c",
			line:    3,
			message: "Inconsistent indentation: 3 spaces used for indentation, but the rest of the document was indented using 2 spaces.",
		},
		{
			name:    "dedent between levels",
			src:     "%a\n    %b\n        %c\n      %d",
			line:    4,
			message: "Inconsistent indentation: 6 spaces used for indentation, but the rest of the document was indented using 4 spaces.",
		},
		{
			name:    "nesting under inline content",
			src:     "%p Hello\n  %span",
			line:    2,
			message: "Illegal nesting: content can't be both given on the same line as %p and nested within it.",
		},
		{
			name:    "nesting under plain text",
			src:     "%div\n  Hello\n    world",
			line:    3,
			message: "Illegal nesting: nesting within plain text is illegal.",
		},
		{
			name:    "nesting under self-closing tag",
			src:     "%br/\n  %p",
			line:    2,
			message: "Illegal nesting: nesting within a self-closing tag is illegal.",
		},
		{
			name:    "invalid filter name",
			src:     "---\n:key: value\n---",
			line:    2,
			message: `Invalid filter name ":key: value".`,
		},
		{
			name:    "empty script",
			src:     "%p\n  =",
			line:    2,
			message: "There's no Ruby code for = to evaluate.",
		},
		{
			name:    "empty element script",
			src:     "%p!=",
			line:    1,
			message: "There's no Ruby code for != to evaluate.",
		},
		{
			name:    "empty element preserved script",
			src:     "%pre~ ",
			line:    1,
			message: "There's no Ruby code for ~ to evaluate.",
		},
		{
			name:    "unbalanced attributes",
			src:     "%p{ a: 1,\n  b: 2",
			line:    1,
			message: "Unbalanced brackets.",
		},
		{
			name:    "class without name",
			src:     "%p.",
			line:    1,
			message: "Illegal element: classes and ids must have values.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, ParseOptions{})
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Line != tt.line {
				t.Errorf("line: have %d, want %d", perr.Line, tt.line)
			}
			if perr.Message != tt.message {
				t.Errorf("message:\nhave: %s\nwant: %s", perr.Message, tt.message)
			}
		})
	}
}

func TestNodeFind(t *testing.T) {
	root, err := Parse("- a\n  = b\n  %p= c\n- d", ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var lines []int
	for _, n := range root.Find(SilentScript) {
		lines = append(lines, n.Line)
	}
	if diff := cmp.Diff([]int{1, 4}, lines); diff != "" {
		t.Errorf("silent script lines (-want +have):\n%s", diff)
	}
}
