package haml

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTabWidth is the indentation width a tab advances to.
const DefaultTabWidth = 2

// ParseError describes malformed template structure.
type ParseError struct {
	// Line is the 1-based line in the original file.
	Line int

	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ParseOptions controls Parse.
type ParseOptions struct {
	// TabWidth sets how far a tab advances the indentation:
	// to the next multiple of TabWidth. Zero means DefaultTabWidth.
	TabWidth int

	// LineOffset is added to every reported line number.
	LineOffset int
}

var (
	filterNameRE     = regexp.MustCompile(`^[\w-]+$`)
	blockWithSpaceRE = regexp.MustCompile(`do\s*\|\s*[^|]*\s+\|$`)
)

// Parse builds a tree from LF-normalized template text.
func Parse(src string, opts ParseOptions) (*Node, error) {
	p := &parser{
		lines:    strings.Split(src, "\n"),
		tabWidth: opts.TabWidth,
		offset:   opts.LineOffset,
	}
	if p.tabWidth <= 0 {
		p.tabWidth = DefaultTabWidth
	}
	return p.parse()
}

// frame is an open node on the ancestor stack.
type frame struct {
	node  *Node
	level int

	// nesting is non-empty when the node can't have children;
	// it holds the reason reported on violation.
	nesting string
}

type parser struct {
	lines    []string
	pos      int
	tabWidth int
	offset   int

	// unit is the indentation width of one level, fixed by
	// the first indented line.
	unit int

	stack []frame
}

func (p *parser) lineNo(idx int) int {
	return idx + 1 + p.offset
}

func (p *parser) errorf(idx int, format string, args ...interface{}) error {
	return &ParseError{Line: p.lineNo(idx), Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parse() (*Node, error) {
	root := &Node{Kind: Root}
	p.stack = []frame{{node: root, level: -1}}

	for p.pos < len(p.lines) {
		idx := p.pos
		raw := p.lines[idx]
		p.pos++
		if isBlank(raw) {
			continue
		}

		width, rest := p.indentation(raw)
		level, err := p.level(idx, width)
		if err != nil {
			return nil, err
		}

		top := p.stack[len(p.stack)-1]
		if level > top.level+1 {
			return nil, p.errorf(idx, "The line was indented %d levels deeper than the previous line.",
				level-top.level)
		}
		p.stack = p.stack[:level+1]
		parent := p.stack[level]
		if parent.nesting != "" {
			return nil, p.errorf(idx, "Illegal nesting: %s", parent.nesting)
		}

		node, nesting, err := p.parseLine(idx, width, rest)
		if err != nil {
			return nil, err
		}
		parent.node.Children = append(parent.node.Children, node)
		p.stack = append(p.stack, frame{node: node, level: level, nesting: nesting})
	}

	return root, nil
}

// indentation measures the leading whitespace of line.
func (p *parser) indentation(line string) (width int, rest string) {
	i := 0
loop:
	for ; i < len(line); i++ {
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width = (width/p.tabWidth + 1) * p.tabWidth
		default:
			break loop
		}
	}
	return width, strings.TrimRight(line[i:], " \t")
}

func (p *parser) level(idx, width int) (int, error) {
	if width == 0 {
		return 0, nil
	}
	if len(p.stack) == 1 {
		return 0, p.errorf(idx, "Indenting at the beginning of the document is illegal.")
	}
	if p.unit == 0 {
		p.unit = width
	}
	if width%p.unit != 0 {
		return 0, p.errorf(idx,
			"Inconsistent indentation: %d spaces used for indentation, but the rest of the document was indented using %d spaces.",
			width, p.unit)
	}
	return width / p.unit, nil
}

// parseLine builds the node that starts at line idx.
// Continuation lines are consumed by advancing p.pos.
func (p *parser) parseLine(idx, width int, rest string) (*Node, string, error) {
	line := p.lineNo(idx)

	switch {
	case strings.HasPrefix(rest, "-#"):
		text := strings.TrimSpace(rest[2:])
		if body := p.captureBody(width); len(body) != 0 {
			text = strings.TrimLeft(text+"\n"+strings.Join(body, "\n"), "\n")
		}
		return &Node{Kind: ScriptComment, Line: line, Text: text},
			"nesting within a comment is illegal.", nil

	case strings.HasPrefix(rest, ":"):
		name := rest[1:]
		if !filterNameRE.MatchString(name) {
			return nil, "", p.errorf(idx, "Invalid filter name \"%s\".", rest)
		}
		node := &Node{
			Kind:       Filter,
			Line:       line,
			FilterName: name,
			Text:       strings.Join(p.captureBody(width), "\n"),
		}
		return node, "nesting within a filter is illegal.", nil
	}

	rest = p.joinMultiline(rest)

	switch {
	case strings.HasPrefix(rest, "!!!"):
		return &Node{Kind: Doctype, Line: line, Text: strings.TrimSpace(rest[3:])},
			"nesting within a header command is illegal.", nil

	case rest[0] == '%', isImplicitDiv(rest):
		return p.parseElement(idx, rest)

	case rest[0] == '-':
		code := strings.TrimSpace(rest[1:])
		if code == "" {
			return nil, "", p.errorf(idx, "There's no Ruby code for - to evaluate.")
		}
		return &Node{Kind: SilentScript, Line: line, Text: p.continueComma(code)}, "", nil

	case strings.HasPrefix(rest, "=="):
		return &Node{Kind: PlainText, Line: line, Text: strings.TrimSpace(rest[2:])},
			"nesting within plain text is illegal.", nil

	case strings.HasPrefix(rest, "!="), strings.HasPrefix(rest, "&="):
		return p.parseScript(idx, rest[:2], rest[2:])

	case rest[0] == '=', rest[0] == '~':
		return p.parseScript(idx, rest[:1], rest[1:])

	case rest[0] == '/':
		text := strings.TrimSpace(rest[1:])
		nesting := ""
		if text != "" && !strings.HasPrefix(text, "[") {
			nesting = "nesting within a tag that already has content is illegal."
		}
		return &Node{Kind: Comment, Line: line, Text: text}, nesting, nil

	case rest[0] == '\\':
		return &Node{Kind: PlainText, Line: line, Text: rest[1:]},
			"nesting within plain text is illegal.", nil

	case strings.HasPrefix(rest, "& "), strings.HasPrefix(rest, "! "):
		return &Node{Kind: PlainText, Line: line, Text: strings.TrimSpace(rest[1:])},
			"nesting within plain text is illegal.", nil
	}

	return &Node{Kind: PlainText, Line: line, Text: rest},
		"nesting within plain text is illegal.", nil
}

func (p *parser) parseScript(idx int, marker, rest string) (*Node, string, error) {
	code := strings.TrimSpace(rest)
	if code == "" {
		return nil, "", p.errorf(idx, "There's no Ruby code for %s to evaluate.", marker)
	}
	return &Node{Kind: Script, Line: p.lineNo(idx), Text: p.continueComma(code)}, "", nil
}

func (p *parser) parseElement(idx int, s string) (*Node, string, error) {
	line := p.lineNo(idx)
	el := &Element{Tag: "div"}

	i := 0
	if s[0] == '%' {
		j := scanName(s, 1, isTagChar)
		if j == 1 {
			return nil, "", p.errorf(idx, "Invalid tag: \"%s\".", s)
		}
		el.Tag = s[1:j]
		i = j
	}
	for i < len(s) && (s[i] == '.' || s[i] == '#') {
		j := scanName(s, i+1, isClassChar)
		if j == i+1 {
			return nil, "", p.errorf(idx, "Illegal element: classes and ids must have values.")
		}
		i = j
	}

	for i < len(s) {
		var closer byte
		switch s[i] {
		case '{':
			closer = '}'
		case '(':
			closer = ')'
		case '[':
			closer = ']'
		}
		if closer == 0 {
			break
		}
		end := matchBracket(s, i, closer)
		for end < 0 && closer != ']' && p.pos < len(p.lines) {
			s += "\n" + strings.TrimSpace(p.lines[p.pos])
			p.pos++
			end = matchBracket(s, i, closer)
		}
		if end < 0 {
			return nil, "", p.errorf(idx, "Unbalanced brackets.")
		}
		src := s[i : end+1]
		switch closer {
		case '}':
			el.Attributes = src
			el.AttributesLine = line + strings.Count(s[:i], "\n")
		case ')':
			el.HTMLAttributes = src
		case ']':
			el.ObjectRef = src
		}
		i = end + 1
	}

	for i < len(s) && strings.IndexByte("<>/", s[i]) >= 0 {
		if s[i] == '/' {
			el.SelfClosing = true
		}
		i++
	}

	value := s[i:]
	marker := ""
	switch {
	case strings.HasPrefix(value, "!="), strings.HasPrefix(value, "&="):
		marker = value[:2]
	case strings.HasPrefix(value, "="), strings.HasPrefix(value, "~"):
		marker = value[:1]
	}
	if marker != "" {
		el.Script = true
		value = value[len(marker):]
	}
	value = strings.TrimLeft(value, " \t")
	el.ValueLine = line + strings.Count(s[:len(s)-len(value)], "\n")
	if el.Script {
		if value == "" {
			return nil, "", p.errorf(idx, "There's no Ruby code for %s to evaluate.", marker)
		}
		continued := p.continueComma(value)
		s += continued[len(value):]
		value = continued
	}
	el.Value = value

	node := &Node{Kind: ElementNode, Line: line, Text: s, Element: el}
	switch {
	case el.SelfClosing:
		return node, "nesting within a self-closing tag is illegal.", nil
	case !el.Script && value != "":
		return node, fmt.Sprintf("content can't be both given on the same line as %%%s and nested within it.", el.Tag), nil
	}
	return node, "", nil
}

// continueComma appends following lines while code ends with a comma.
func (p *parser) continueComma(code string) string {
	for strings.HasSuffix(code, ",") && p.pos < len(p.lines) && !isBlank(p.lines[p.pos]) {
		code += "\n" + strings.TrimSpace(p.lines[p.pos])
		p.pos++
	}
	return code
}

// joinMultiline collects a "|"-terminated block into one text.
func (p *parser) joinMultiline(rest string) string {
	if !isMultiline(rest) {
		return rest
	}
	parts := []string{trimPipe(rest)}
	for p.pos < len(p.lines) {
		next := strings.TrimSpace(p.lines[p.pos])
		if !isMultiline(next) {
			break
		}
		parts = append(parts, trimPipe(next))
		p.pos++
	}
	return strings.Join(parts, "\n")
}

// captureBody consumes every following line that is blank or
// indented deeper than width, stripped of the common indentation.
func (p *parser) captureBody(width int) []string {
	var body []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if !isBlank(line) {
			if w, _ := p.indentation(line); w <= width {
				break
			}
		}
		body = append(body, line)
		p.pos++
	}
	for len(body) != 0 && isBlank(body[len(body)-1]) {
		body = body[:len(body)-1]
		p.pos--
	}

	prefix := ""
	for i, line := range body {
		if isBlank(line) {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if i == 0 || len(lead) < len(prefix) {
			prefix = lead
		}
	}
	for i, line := range body {
		body[i] = strings.TrimRight(strings.TrimPrefix(line, prefix), " \t")
	}
	return body
}

func isMultiline(s string) bool {
	return len(s) > 1 && strings.HasSuffix(s, " |") && !blockWithSpaceRE.MatchString(s)
}

func trimPipe(s string) string {
	return strings.TrimRight(strings.TrimSuffix(s, "|"), " \t")
}

func isImplicitDiv(s string) bool {
	return len(s) > 1 && (s[0] == '.' || s[0] == '#') && isClassChar(s[1])
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isClassChar(c byte) bool {
	return c == '_' || c == '-' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func isTagChar(c byte) bool {
	return isClassChar(c) || c == ':'
}

func scanName(s string, i int, ok func(byte) bool) int {
	for i < len(s) && ok(s[i]) {
		i++
	}
	return i
}

// matchBracket returns the index of the bracket closing s[open],
// skipping quoted strings, or -1.
func matchBracket(s string, open int, closer byte) int {
	opener := s[open]
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
