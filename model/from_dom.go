package model

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultParsePriority is the priority of parse rules that don't set one.
const DefaultParsePriority = 50

type parseRule struct {
	*ParseRule
	selector cascadia.Selector
	node     *NodeType
	mark     *MarkType
}

func (r *parseRule) priority() int {
	if r.Priority == 0 {
		return DefaultParsePriority
	}
	return r.Priority
}

// DOMParser is a parser that parses HTML into documents, using the ParseDOM
// rules of the schema's node and mark specs.
type DOMParser struct {
	Schema *Schema
	rules  []*parseRule
}

// DOMParserFromSchema builds a parser from the parse rules of a schema. Rules
// are tried by descending priority; at equal priority node rules come first,
// in schema order.
func DOMParserFromSchema(schema *Schema) (*DOMParser, error) {
	p := &DOMParser{Schema: schema}
	add := func(rule *ParseRule, node *NodeType, mark *MarkType) error {
		sel, err := cascadia.Compile(rule.Tag)
		if err != nil {
			return fmt.Errorf("invalid parse rule %q: %w", rule.Tag, err)
		}
		p.rules = append(p.rules, &parseRule{
			ParseRule: rule,
			selector:  sel,
			node:      node,
			mark:      mark,
		})
		return nil
	}
	for _, nt := range schema.Nodes {
		for _, rule := range nt.Spec.ParseDOM {
			if err := add(rule, nt, nil); err != nil {
				return nil, err
			}
		}
	}
	for _, mt := range schema.Marks {
		for _, rule := range mt.Spec.ParseDOM {
			if err := add(rule, nil, mt); err != nil {
				return nil, err
			}
		}
	}
	sort.SliceStable(p.rules, func(i, j int) bool {
		return p.rules[i].priority() > p.rules[j].priority()
	})
	return p, nil
}

// ParseHTML parses an HTML string into a document node of the schema's top
// node type.
func (p *DOMParser) ParseHTML(src string) (*Node, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("cannot parse HTML: %w", err)
	}
	body := findElement(root, atom.Body)
	if body == nil {
		body = root
	}
	return p.Parse(body)
}

// Parse parses the children of a DOM node into a document.
func (p *DOMParser) Parse(dom *html.Node) (*Node, error) {
	top := newNodeContext(p.Schema.TopNodeType, nil)
	p.addAll(dom, top, nil)
	content := top.finish()
	if len(content) == 0 {
		return p.Schema.TopNodeType.CreateAndFill()
	}
	return p.Schema.TopNodeType.Create(nil, NewFragment(content), nil)
}

// ParseFragment parses the children of a DOM node into a fragment of block
// nodes.
func (p *DOMParser) ParseFragment(dom *html.Node) *Fragment {
	top := newNodeContext(p.Schema.TopNodeType, nil)
	p.addAll(dom, top, nil)
	return NewFragment(top.finish())
}

func (p *DOMParser) addAll(parent *html.Node, ctx *nodeContext, marks []*Mark) {
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			p.addText(child.Data, ctx, marks)
		case html.ElementNode:
			p.addElement(child, ctx, marks)
		}
	}
}

var whitespaceRun = regexp.MustCompile(`[ \t\r\n\f]+`)

func (p *DOMParser) addText(text string, ctx *nodeContext, marks []*Mark) {
	inline := ctx.inlineTarget()
	if inline.ctx == nil && strings.TrimSpace(text) == "" {
		return
	}
	if !inline.code {
		text = whitespaceRun.ReplaceAllString(text, " ")
		if strings.HasPrefix(text, " ") && inline.endsWithSpace() {
			text = text[1:]
		}
	}
	if text == "" {
		return
	}
	inline = ctx.openInline()
	inline.push(p.Schema.Text(text, inline.allowedMarks(marks)...))
}

var ignoredTags = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Template: true,
	atom.Noscript: true, atom.Title: true, atom.Meta: true, atom.Link: true,
}

func (p *DOMParser) addElement(el *html.Node, ctx *nodeContext, marks []*Mark) {
	if ignoredTags[el.DataAtom] {
		return
	}
	rule, attrs := p.match(el)
	switch {
	case rule == nil:
		p.addAll(el, ctx, marks)
	case rule.mark != nil:
		if ctx.code() {
			p.addAll(el, ctx, marks)
			return
		}
		p.addAll(el, ctx, rule.mark.Create(attrs).AddToSet(marks))
	case rule.node.IsInline():
		if ctx.code() {
			return
		}
		inline := ctx.openInline()
		node, err := rule.node.Create(attrs, nil, inline.allowedMarks(marks))
		if err != nil {
			return
		}
		if !node.IsLeaf() {
			inner := newNodeContext(rule.node, nil)
			p.addAll(el, inner, marks)
			node = node.Copy(NewFragment(inner.finish()))
		}
		inline.push(node)
	default:
		inner := newNodeContext(rule.node, attrs)
		if !rule.node.IsAtom() {
			p.addAll(el, inner, nil)
		}
		ctx.pushBlock(inner.finishAsNode()...)
	}
}

// match finds the first rule matching the element, and the attributes it
// produces.
func (p *DOMParser) match(el *html.Node) (*parseRule, map[string]interface{}) {
	for _, rule := range p.rules {
		if !rule.selector.Match(el) {
			continue
		}
		var specs map[string]*AttributeSpec
		if rule.node != nil {
			specs = rule.node.Spec.Attrs
		} else {
			specs = rule.mark.Spec.Attrs
		}
		attrs := ParseAttrs(specs, el)
		if rule.GetAttrs != nil && !rule.GetAttrs(el, attrs) {
			continue
		}
		return rule, attrs
	}
	return nil, nil
}

// ParseAttrs reads attribute values from a DOM element, using each
// attribute's ParseHTML hook, or the DOM attribute of the same name when
// there is no hook. Attributes that yield nil are left out, so that they get
// their default value.
func ParseAttrs(specs map[string]*AttributeSpec, el *html.Node) map[string]interface{} {
	attrs := map[string]interface{}{}
	for name, spec := range specs {
		if spec.Hidden {
			continue
		}
		var value interface{}
		if spec.ParseHTML != nil {
			value = spec.ParseHTML(el)
		} else if v, ok := GetAttribute(el, name); ok {
			value = fromString(v)
		}
		if value != nil {
			attrs[name] = value
		}
	}
	return attrs
}

// GetAttribute returns the value of an attribute of a DOM element.
func GetAttribute(el *html.Node, key string) (string, bool) {
	for _, a := range el.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttributeOrNil returns the value of an attribute of a DOM element, or nil
// when it is absent.
func AttributeOrNil(el *html.Node, key string) interface{} {
	if v, ok := GetAttribute(el, key); ok {
		return v
	}
	return nil
}

// InnerHTML renders the children of a DOM element.
func InnerHTML(el *html.Node) string {
	var sb strings.Builder
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&sb, child); err != nil {
			return ""
		}
	}
	return sb.String()
}

func fromString(value string) interface{} {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil && strconv.FormatFloat(n, 'f', -1, 64) == value {
		return n
	}
	return value
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, a); found != nil {
			return found
		}
	}
	return nil
}

// nodeContext collects the content of a node being parsed. Inline content
// found in a node that only takes blocks is wrapped in an implicit
// textblock; block content found in a textblock splits it.
type nodeContext struct {
	typ     *NodeType
	attrs   map[string]interface{}
	content []*Node
	// The implicit textblock that currently receives inline content.
	implicit *nodeContext
	// Runs of inline content of a textblock, each followed by the blocks
	// lifted out of it at that point.
	segments [][]*Node
	lifted   [][]*Node
}

func newNodeContext(typ *NodeType, attrs map[string]interface{}) *nodeContext {
	return &nodeContext{typ: typ, attrs: attrs}
}

func (c *nodeContext) code() bool {
	return c.typ.Spec.Code
}

// inlineTarget returns the context inline content would currently go to,
// without opening an implicit textblock.
func (c *nodeContext) inlineTarget() *inlineContext {
	if c.typ.InlineContent() {
		return &inlineContext{ctx: c, code: c.code()}
	}
	if c.implicit != nil {
		return &inlineContext{ctx: c.implicit, code: c.implicit.code()}
	}
	return &inlineContext{code: false}
}

func (c *nodeContext) openInline() *inlineContext {
	if c.typ.InlineContent() {
		return &inlineContext{ctx: c, code: c.code()}
	}
	if c.implicit == nil {
		wrapper := c.textblockType()
		if wrapper == nil {
			return &inlineContext{}
		}
		c.implicit = newNodeContext(wrapper, nil)
	}
	return &inlineContext{ctx: c.implicit, code: c.implicit.code()}
}

func (c *nodeContext) textblockType() *NodeType {
	for _, nt := range c.typ.content.allowedTypes() {
		if nt.IsTextblock() {
			return nt
		}
	}
	return nil
}

func (c *nodeContext) closeImplicit() {
	if c.implicit == nil {
		return
	}
	c.content = append(c.content, c.implicit.finishAsNode()...)
	c.implicit = nil
}

func (c *nodeContext) pushBlock(nodes ...*Node) {
	if c.typ.InlineContent() {
		c.segments = append(c.segments, c.content)
		c.lifted = append(c.lifted, nodes)
		c.content = nil
		return
	}
	c.closeImplicit()
	c.content = append(c.content, nodes...)
}

func (c *nodeContext) finish() []*Node {
	c.closeImplicit()
	if c.typ.InlineContent() && !c.code() {
		c.content = trimTrailingSpace(c.content)
	}
	return c.content
}

// finishAsNode creates the node for this context. A textblock that had blocks
// lifted out of it becomes several nodes.
func (c *nodeContext) finishAsNode() []*Node {
	if len(c.lifted) == 0 {
		return c.create(c.finish())
	}
	var result []*Node
	segments := append(c.segments, c.content)
	for i, seg := range segments {
		if !c.code() {
			seg = trimTrailingSpace(seg)
		}
		if len(seg) > 0 {
			result = append(result, c.create(seg)...)
		}
		if i < len(c.lifted) {
			result = append(result, c.lifted[i]...)
		}
	}
	return result
}

func (c *nodeContext) create(content []*Node) []*Node {
	node, err := c.typ.Create(c.attrs, NewFragment(content), nil)
	if err != nil {
		return nil
	}
	return []*Node{node}
}

type inlineContext struct {
	ctx  *nodeContext
	code bool
}

func (ic *inlineContext) push(node *Node) {
	if ic.ctx == nil {
		return
	}
	ic.ctx.content = append(ic.ctx.content, node)
}

func (ic *inlineContext) endsWithSpace() bool {
	if ic.ctx == nil || len(ic.ctx.content) == 0 {
		return true
	}
	last := ic.ctx.content[len(ic.ctx.content)-1]
	if !last.IsText() {
		return last.IsLeaf()
	}
	return strings.HasSuffix(*last.Text, " ")
}

func (ic *inlineContext) allowedMarks(marks []*Mark) []*Mark {
	if ic.ctx == nil || len(marks) == 0 {
		return marks
	}
	var allowed []*Mark
	for _, m := range marks {
		if ic.ctx.typ.AllowsMarkType(m.Type) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

func trimTrailingSpace(content []*Node) []*Node {
	if len(content) == 0 {
		return content
	}
	last := content[len(content)-1]
	if !last.IsText() || !strings.HasSuffix(*last.Text, " ") {
		return content
	}
	text := strings.TrimRight(*last.Text, " ")
	if text == "" {
		return content[:len(content)-1]
	}
	cpy := append([]*Node{}, content[:len(content)-1]...)
	return append(cpy, last.WithText(text))
}
