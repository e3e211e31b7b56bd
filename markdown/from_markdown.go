package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xcms-dev/richtext/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// NewParser returns a goldmark parser for the Markdown dialect of the
// editor: CommonMark with GFM tables and strikethrough, plus the given
// extensions.
func NewParser(extenders ...goldmark.Extender) parser.Parser {
	exts := append([]goldmark.Extender{extension.Table, extension.Strikethrough}, extenders...)
	return goldmark.New(goldmark.WithExtensions(exts...)).Parser()
}

// MapperFunc converts a node of the goldmark AST. It is called when the
// walk enters the node and when it leaves it.
type MapperFunc func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error)

// NodeMapper tells how each kind of goldmark node is converted to document
// nodes. The children of a node without mapper are still visited.
type NodeMapper map[ast.NodeKind]MapperFunc

// With returns a new mapper with the entries of other added.
func (m NodeMapper) With(other NodeMapper) NodeMapper {
	merged := make(NodeMapper, len(m)+len(other))
	for kind, fn := range m {
		merged[kind] = fn
	}
	for kind, fn := range other {
		merged[kind] = fn
	}
	return merged
}

type stackEntry struct {
	typ     *model.NodeType
	attrs   map[string]interface{}
	content []*model.Node
}

// ParserState tracks the document being built while walking a goldmark AST:
// the stack of open nodes and the active marks.
type ParserState struct {
	Schema *model.Schema
	Source []byte

	stack    []*stackEntry
	marks    []*model.Mark
	inHeader bool
	html     *model.DOMParser
}

// NewParserState creates a state whose root is the top node of the schema.
func NewParserState(schema *model.Schema, source []byte) *ParserState {
	return &ParserState{
		Schema: schema,
		Source: source,
		stack:  []*stackEntry{{typ: schema.TopNodeType}},
	}
}

func (s *ParserState) top() *stackEntry {
	return s.stack[len(s.stack)-1]
}

func (s *ParserState) push(node *model.Node) {
	top := s.top()
	if n := len(top.content); n > 0 && node.IsText() {
		last := top.content[n-1]
		if last.IsText() && model.SameMarkSet(last.Marks, node.Marks) {
			top.content[n-1] = last.WithText(*last.Text + *node.Text)
			return
		}
	}
	top.content = append(top.content, node)
}

// AddText adds text with the active marks to the current node.
func (s *ParserState) AddText(text string) {
	if text == "" {
		return
	}
	s.push(s.Schema.Text(text, s.marks...))
}

// OpenMark makes the mark active for the text added next.
func (s *ParserState) OpenMark(mark *model.Mark) {
	s.marks = mark.AddToSet(s.marks)
}

// CloseMark removes the marks of the given type from the active ones.
func (s *ParserState) CloseMark(typ *model.MarkType) {
	s.marks = typ.RemoveFromSet(s.marks)
}

// NodeType returns the node type with the given name.
func (s *ParserState) NodeType(name string) (*model.NodeType, error) {
	return s.Schema.NodeType(name)
}

// AddNode creates a node and adds it to the current node.
func (s *ParserState) AddNode(name string, attrs map[string]interface{}, content ...*model.Node) (*model.Node, error) {
	typ, err := s.NodeType(name)
	if err != nil {
		return nil, err
	}
	var marks []*model.Mark
	if typ.IsInline() {
		marks = s.marks
	}
	node, err := typ.Create(attrs, model.NewFragment(content), marks)
	if err != nil {
		return nil, err
	}
	s.push(node)
	return node, nil
}

// OpenNode starts a node; the content added until the matching CloseNode
// goes inside it.
func (s *ParserState) OpenNode(name string, attrs map[string]interface{}) error {
	typ, err := s.NodeType(name)
	if err != nil {
		return err
	}
	s.stack = append(s.stack, &stackEntry{typ: typ, attrs: attrs})
	return nil
}

// CloseNode closes the current node and adds it to its parent.
func (s *ParserState) CloseNode() (*model.Node, error) {
	if len(s.stack) < 2 {
		return nil, fmt.Errorf("no open node to close")
	}
	entry := s.top()
	s.stack = s.stack[:len(s.stack)-1]
	if entry.typ.IsTextblock() {
		s.marks = nil
	}
	node, err := entry.typ.Create(entry.attrs, model.NewFragment(entry.content), nil)
	if err != nil {
		return nil, err
	}
	s.push(node)
	return node, nil
}

// AddHTML parses a block of HTML with the DOM parser of the schema, and adds
// the resulting blocks to the current node.
func (s *ParserState) AddHTML(src string) error {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	if s.html == nil {
		parser, err := model.DOMParserFromSchema(s.Schema)
		if err != nil {
			return err
		}
		s.html = parser
	}
	doc, err := s.html.ParseHTML(src)
	if err != nil {
		return err
	}
	if doc.ChildCount() == 1 && doc.FirstChild().IsTextblock() && doc.FirstChild().Content.Size == 0 {
		return nil
	}
	doc.ForEach(func(child *model.Node, _, _ int) {
		s.push(child)
	})
	return nil
}

func (s *ParserState) finish() (*model.Node, error) {
	for len(s.stack) > 1 {
		if _, err := s.CloseNode(); err != nil {
			return nil, err
		}
	}
	root := s.stack[0]
	if len(root.content) == 0 {
		return root.typ.CreateAndFill()
	}
	return root.typ.Create(nil, model.NewFragment(root.content), nil)
}

// ParseMarkdown parses the Markdown source with the goldmark parser, and
// converts the resulting AST to a document of the schema with the mapper.
func ParseMarkdown(p parser.Parser, mapper NodeMapper, source []byte, schema *model.Schema) (*model.Node, error) {
	root := p.Parse(text.NewReader(source))
	state := NewParserState(schema, source)
	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if node.Kind() == ast.KindDocument {
			return ast.WalkContinue, nil
		}
		fn, ok := mapper[node.Kind()]
		if !ok {
			return ast.WalkContinue, nil
		}
		return fn(state, node, entering)
	})
	if err != nil {
		return nil, fmt.Errorf("cannot convert markdown: %w", err)
	}
	return state.finish()
}

// Block maps a goldmark node to a document node with children. attrs may be
// nil.
func Block(name string, attrs func(node ast.Node, source []byte) map[string]interface{}) MapperFunc {
	return func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			_, err := state.CloseNode()
			return ast.WalkContinue, err
		}
		var a map[string]interface{}
		if attrs != nil {
			a = attrs(node, state.Source)
		}
		return ast.WalkContinue, state.OpenNode(name, a)
	}
}

// Leaf maps a goldmark node to a document node without content.
func Leaf(name string) MapperFunc {
	return func(state *ParserState, _ ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		_, err := state.AddNode(name, nil)
		return ast.WalkSkipChildren, err
	}
}

// Mark maps a goldmark node to a mark applied to the text of its children.
func Mark(name string, attrs func(node ast.Node, source []byte) map[string]interface{}) MapperFunc {
	return func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		typ, err := state.Schema.MarkType(name)
		if err != nil {
			return ast.WalkStop, err
		}
		if !entering {
			state.CloseMark(typ)
			return ast.WalkContinue, nil
		}
		var a map[string]interface{}
		if attrs != nil {
			a = attrs(node, state.Source)
		}
		state.OpenMark(typ.Create(a))
		return ast.WalkContinue, nil
	}
}

// textValue returns the text of a text node, with backslash escapes and
// entities resolved unless the text is raw.
func textValue(t *ast.Text, source []byte) string {
	value := t.Segment.Value(source)
	if !t.IsRaw() {
		value = util.UnescapePunctuations(value)
		value = util.ResolveNumericReferences(value)
		value = util.ResolveEntityNames(value)
	}
	return string(value)
}

// rawText concatenates the text of the children of a node, as is.
func rawText(node ast.Node, source []byte) string {
	var sb strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		}
	}
	return sb.String()
}

func linesText(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	return sb.String()
}

func mapText(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	t := node.(*ast.Text)
	state.AddText(textValue(t, state.Source))
	if t.HardLineBreak() {
		if _, err := state.AddNode("hardBreak", nil); err != nil {
			return ast.WalkStop, err
		}
	} else if t.SoftLineBreak() {
		state.AddText("\n")
	}
	return ast.WalkContinue, nil
}

func mapString(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		state.AddText(string(node.(*ast.String).Value))
	}
	return ast.WalkContinue, nil
}

func mapCodeBlock(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var attrs map[string]interface{}
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		if lang := fenced.Language(state.Source); len(lang) > 0 {
			attrs = map[string]interface{}{"language": string(lang)}
		}
	}
	content := strings.TrimSuffix(linesText(node, state.Source), "\n")
	var children []*model.Node
	if content != "" {
		children = append(children, state.Schema.Text(content))
	}
	_, err := state.AddNode("codeBlock", attrs, children...)
	return ast.WalkSkipChildren, err
}

func mapCodeSpan(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	typ, err := state.Schema.MarkType("code")
	if err != nil {
		return ast.WalkStop, err
	}
	code := typ.Create(nil)
	marks := code.AddToSet(state.marks)
	if value := rawText(node, state.Source); value != "" {
		state.push(state.Schema.Text(value, marks...))
	}
	return ast.WalkSkipChildren, nil
}

func mapEmphasis(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	name := "italic"
	if node.(*ast.Emphasis).Level == 2 {
		name = "bold"
	}
	return Mark(name, nil)(state, node, entering)
}

func mapAutoLink(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	link := node.(*ast.AutoLink)
	typ, err := state.Schema.MarkType("link")
	if err != nil {
		return ast.WalkStop, err
	}
	href := string(link.URL(state.Source))
	if link.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
		href = "mailto:" + href
	}
	mark := typ.Create(map[string]interface{}{"href": href})
	state.push(state.Schema.Text(string(link.Label(state.Source)), mark.AddToSet(state.marks)...))
	return ast.WalkSkipChildren, nil
}

func linkAttrs(node ast.Node, _ []byte) map[string]interface{} {
	link := node.(*ast.Link)
	attrs := map[string]interface{}{"href": string(link.Destination)}
	if len(link.Title) > 0 {
		attrs["title"] = string(link.Title)
	}
	return attrs
}

// htmlMarks are the inline HTML elements read back as marks, the way the
// serializer writes the marks without Markdown syntax.
var htmlMarks = map[string]string{
	"u":    "underline",
	"sup":  "superscript",
	"sub":  "subscript",
	"mark": "highlight",
	"s":    "strike",
}

var htmlTagRegexp = regexp.MustCompile(`^<(/?)([a-z]+)\s*>$`)

func mapRawHTML(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	raw := node.(*ast.RawHTML)
	var sb strings.Builder
	for i := 0; i < raw.Segments.Len(); i++ {
		segment := raw.Segments.At(i)
		sb.Write(segment.Value(state.Source))
	}
	m := htmlTagRegexp.FindStringSubmatch(strings.ToLower(sb.String()))
	if m == nil {
		return ast.WalkSkipChildren, nil
	}
	name, ok := htmlMarks[m[2]]
	if !ok {
		return ast.WalkSkipChildren, nil
	}
	typ, err := state.Schema.MarkType(name)
	if err != nil {
		return ast.WalkSkipChildren, nil
	}
	if m[1] == "/" {
		state.CloseMark(typ)
	} else {
		state.OpenMark(typ.Create(nil))
	}
	return ast.WalkSkipChildren, nil
}

func mapHTMLBlock(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := node.(*ast.HTMLBlock)
	src := linesText(block, state.Source)
	if block.HasClosure() {
		src += string(block.ClosureLine.Value(state.Source))
	}
	return ast.WalkSkipChildren, state.AddHTML(src)
}

func mapTableRow(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		state.inHeader = false
		_, err := state.CloseNode()
		return ast.WalkContinue, err
	}
	state.inHeader = node.Kind() == extast.KindTableHeader
	return ast.WalkContinue, state.OpenNode("tableRow", nil)
}

func mapTableCell(state *ParserState, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		if _, err := state.CloseNode(); err != nil {
			return ast.WalkStop, err
		}
		_, err := state.CloseNode()
		return ast.WalkContinue, err
	}
	name := "tableCell"
	if state.inHeader {
		name = "tableHeader"
	}
	if err := state.OpenNode(name, nil); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkContinue, state.OpenNode("paragraph", nil)
}

// DefaultNodeMapper converts the CommonMark and GFM nodes to the nodes and
// marks of the base document schema.
var DefaultNodeMapper = NodeMapper{
	ast.KindParagraph: Block("paragraph", nil),
	ast.KindTextBlock: Block("paragraph", nil),
	ast.KindHeading: Block("heading", func(node ast.Node, _ []byte) map[string]interface{} {
		return map[string]interface{}{"level": node.(*ast.Heading).Level}
	}),
	ast.KindBlockquote: Block("blockquote", nil),
	ast.KindList: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		list := node.(*ast.List)
		if !list.IsOrdered() {
			return Block("bulletList", nil)(state, node, entering)
		}
		return Block("orderedList", func(ast.Node, []byte) map[string]interface{} {
			return map[string]interface{}{"start": list.Start}
		})(state, node, entering)
	},
	ast.KindListItem:         Block("listItem", nil),
	ast.KindThematicBreak:    Leaf("horizontalRule"),
	ast.KindCodeBlock:        mapCodeBlock,
	ast.KindFencedCodeBlock:  mapCodeBlock,
	ast.KindHTMLBlock:        mapHTMLBlock,
	ast.KindText:             mapText,
	ast.KindString:           mapString,
	ast.KindCodeSpan:         mapCodeSpan,
	ast.KindEmphasis:         mapEmphasis,
	ast.KindLink:             Mark("link", linkAttrs),
	ast.KindAutoLink:         mapAutoLink,
	ast.KindRawHTML:          mapRawHTML,
	extast.KindStrikethrough: Mark("strike", nil),
	extast.KindTable:         Block("table", nil),
	extast.KindTableHeader:   mapTableRow,
	extast.KindTableRow:      mapTableRow,
	extast.KindTableCell:     mapTableCell,
}
