package haml

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StringSource is the file name of documents built from in-memory text.
const StringSource = "(string)"

// frontmatterDelimiter opens and closes a frontmatter block.
const frontmatterDelimiter = "---"

// DecodeError is returned for input that is not valid UTF-8.
type DecodeError struct {
	File string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid UTF-8 byte sequence", e.File)
}

// DocumentOptions controls NewDocument.
type DocumentOptions struct {
	// File names the document. Empty means StringSource.
	File string

	SkipFrontmatter bool

	// TabWidth is passed to the parser.
	TabWidth int
}

// Document is a parsed template.
type Document struct {
	File string

	// RawSource is the UTF-8, LF-normalized input.
	RawSource string

	// Source is RawSource with frontmatter removed.
	Source string

	SourceLines []string

	// LineOffset is the number of lines removed from the top of RawSource.
	// Line numbers in Tree already include it.
	LineOffset int

	Tree *Node
}

// NewDocumentFromString is like NewDocument for in-memory text.
func NewDocumentFromString(src string, opts DocumentOptions) (*Document, error) {
	return NewDocument([]byte(src), opts)
}

// NewDocument normalizes and parses src.
// Returns *DecodeError or *ParseError on failure.
func NewDocument(src []byte, opts DocumentOptions) (*Document, error) {
	doc := &Document{File: opts.File}
	if doc.File == "" {
		doc.File = StringSource
	}

	text, err := decode(src)
	if err != nil {
		return nil, &DecodeError{File: doc.File}
	}
	doc.RawSource = normalizeLineEndings(text)

	doc.Source = doc.RawSource
	if opts.SkipFrontmatter {
		doc.Source, doc.LineOffset = stripFrontmatter(doc.RawSource)
	}
	doc.SourceLines = splitLines(doc.Source)

	tree, err := Parse(doc.Source, ParseOptions{
		TabWidth:   opts.TabWidth,
		LineOffset: doc.LineOffset,
	})
	if err != nil {
		return nil, err
	}
	doc.Tree = tree
	return doc, nil
}

// decode reads src as UTF-8 regardless of any declared encoding.
// A leading byte order mark is dropped.
func decode(src []byte) (string, error) {
	if !utf8.Valid(src) {
		return "", fmt.Errorf("invalid UTF-8")
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), src)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var lineEndingReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeLineEndings(s string) string {
	return lineEndingReplacer.Replace(s)
}

// stripFrontmatter removes a leading "---" delimited block.
// The closing delimiter is the first one after the opening line.
func stripFrontmatter(src string) (string, int) {
	lines := strings.SplitAfter(src, "\n")
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return src, 0
	}
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			return strings.Join(lines[i+1:], ""), i + 1
		}
	}
	return src, 0
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\n") == frontmatterDelimiter
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
