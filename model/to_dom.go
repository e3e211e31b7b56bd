package model

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToDOM renders a node or a mark to a DOM element. attrs holds the HTML
// attributes computed by the RenderHTML hooks of the type's attributes. The
// content of a mark, or of a node that is not an atom, is appended to the
// deepest first child element of the returned node.
type ToDOM = func(n NodeOrMark, attrs []html.Attribute) *html.Node

// NodeOrMark is the value handed to a ToDOM function.
type NodeOrMark interface {
	TypeName() string
	Attr(name string) interface{}
}

// TypeName returns the name of the node type.
func (n *Node) TypeName() string { return n.Type.Name }

// Attr returns the value of the attribute with the given name.
func (n *Node) Attr(name string) interface{} { return n.Attrs[name] }

// TypeName returns the name of the mark type.
func (m *Mark) TypeName() string { return m.Type.Name }

// Attr returns the value of the attribute with the given name.
func (m *Mark) Attr(name string) interface{} { return m.Attrs[name] }

// Elem builds an element node with the given attributes and children.
func Elem(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
	for _, child := range children {
		el.AppendChild(child)
	}
	return el
}

// DOMText builds a DOM text node.
func DOMText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Tag returns a ToDOM function that renders a single element with the
// computed attributes, like <p> or <strong>.
func Tag(tag string, extra ...html.Attribute) ToDOM {
	return func(_ NodeOrMark, attrs []html.Attribute) *html.Node {
		return Elem(tag, MergeAttributes(extra, attrs))
	}
}

// AttrString converts an attribute value to its HTML form. It returns false
// for nil, which means the attribute must not be rendered.
func AttrString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return fmt.Sprint(value), true
}

// HTMLAttrs builds an attribute list from key/value pairs. Pairs whose value
// is nil are left out.
func HTMLAttrs(pairs ...interface{}) []html.Attribute {
	attrs := make([]html.Attribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		if val, ok := AttrString(pairs[i+1]); ok {
			attrs = append(attrs, html.Attribute{Key: key, Val: val})
		}
	}
	return attrs
}

// MergeAttributes merges attribute lists from left to right. Class values are
// joined (without duplicates), style declarations are joined with a
// semicolon, and any other attribute is overwritten by the later list. An
// empty existing value is always replaced. The order of first appearance is
// kept.
func MergeAttributes(lists ...[]html.Attribute) []html.Attribute {
	var merged []html.Attribute
	index := map[string]int{}
	for _, list := range lists {
		for _, attr := range list {
			i, exists := index[attr.Key]
			if !exists {
				index[attr.Key] = len(merged)
				merged = append(merged, attr)
				continue
			}
			existing := merged[i].Val
			switch {
			case existing == "":
				merged[i].Val = attr.Val
			case attr.Key == "class":
				merged[i].Val = joinClasses(existing, attr.Val)
			case attr.Key == "style":
				merged[i].Val = joinStyles(existing, attr.Val)
			default:
				merged[i].Val = attr.Val
			}
		}
	}
	return merged
}

func joinClasses(existing, added string) string {
	classes := strings.Fields(existing)
	for _, c := range strings.Fields(added) {
		found := false
		for _, e := range classes {
			if e == c {
				found = true
				break
			}
		}
		if !found {
			classes = append(classes, c)
		}
	}
	return strings.Join(classes, " ")
}

func joinStyles(existing, added string) string {
	var parts []string
	for _, s := range strings.Split(existing+";"+added, ";") {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}

// RenderAttrs computes the HTML attributes of a node or mark from its
// attribute values. Attributes are visited in name order; each one is
// rendered by its RenderHTML hook, or as the attribute of the same name when
// there is no hook. Nil values and hidden attributes are not rendered.
func RenderAttrs(specs map[string]*AttributeSpec, values map[string]interface{}) []html.Attribute {
	var lists [][]html.Attribute
	for _, name := range AttrNames(specs) {
		spec := specs[name]
		if spec.Hidden {
			continue
		}
		value := values[name]
		if spec.RenderHTML != nil {
			lists = append(lists, spec.RenderHTML(value))
			continue
		}
		lists = append(lists, HTMLAttrs(name, value))
	}
	return MergeAttributes(lists...)
}

// DOMSerializer knows how to convert nodes and marks of various types to DOM
// nodes.
type DOMSerializer struct {
	// The node serialization functions.
	Nodes map[string]ToDOM
	// The mark serialization functions. A mark without a function is not
	// rendered, but its content is.
	Marks map[string]ToDOM
}

// DOMSerializerFromSchema builds a serializer using the properties in a
// schema's node and mark specs.
func DOMSerializerFromSchema(schema *Schema) *DOMSerializer {
	return &DOMSerializer{
		Nodes: nodesFromSchema(schema),
		Marks: marksFromSchema(schema),
	}
}

// WithNodes returns a copy of the serializer where the given node renderers
// replace the ones of the same name.
func (d *DOMSerializer) WithNodes(overrides map[string]ToDOM) *DOMSerializer {
	nodes := make(map[string]ToDOM, len(d.Nodes))
	for name, fn := range d.Nodes {
		nodes[name] = fn
	}
	for name, fn := range overrides {
		nodes[name] = fn
	}
	return &DOMSerializer{Nodes: nodes, Marks: d.Marks}
}

type activeMark struct {
	mark *Mark
	top  *html.Node
}

// SerializeFragment serializes the content of this fragment to a DOM
// fragment. When target is nil, a document node is created to hold it.
func (d *DOMSerializer) SerializeFragment(fragment *Fragment, target *html.Node) *html.Node {
	if target == nil {
		target = &html.Node{Type: html.DocumentNode}
	}
	var active []activeMark
	top := target
	fragment.ForEach(func(node *Node, _, _ int) {
		if len(active) > 0 || len(node.Marks) > 0 {
			keep, rendered := 0, 0
			for keep < len(active) && rendered < len(node.Marks) {
				next := node.Marks[rendered]
				if d.Marks[next.Type.Name] == nil {
					rendered++
					continue
				}
				if !next.Eq(active[keep].mark) || (next.Type.Spec.Spanning != nil && !*next.Type.Spec.Spanning) {
					break
				}
				keep++
				rendered++
			}
			for keep < len(active) {
				n := len(active)
				top, active = active[n-1].top, active[:n-1]
			}
			for rendered < len(node.Marks) {
				add := node.Marks[rendered]
				rendered++
				if markDOM := d.serializeMark(add); markDOM != nil {
					active = append(active, activeMark{mark: add, top: top})
					top.AppendChild(markDOM)
					top = contentHole(markDOM)
				}
			}
		}
		if child := d.SerializeNode(node); child != nil {
			top.AppendChild(child)
		}
	})
	return target
}

func (d *DOMSerializer) serializeMark(mark *Mark) *html.Node {
	toDOM := d.Marks[mark.Type.Name]
	if toDOM == nil {
		return nil
	}
	return toDOM(mark, RenderAttrs(mark.Type.Spec.Attrs, mark.Attrs))
}

// SerializeNode serializes this node to a DOM node. This can be useful when
// you need to serialize a part of a document, as opposed to the whole
// document. To serialize a whole document, use SerializeFragment on its
// content.
func (d *DOMSerializer) SerializeNode(node *Node) *html.Node {
	toDOM := d.Nodes[node.Type.Name]
	if toDOM == nil {
		return nil
	}
	dom := toDOM(node, RenderAttrs(node.Type.Spec.Attrs, node.Attrs))
	if dom == nil || node.IsAtom() || node.IsText() {
		return dom
	}
	d.SerializeFragment(node.Content, contentHole(dom))
	return dom
}

// RenderFragment serializes a fragment and renders it as an HTML string.
func (d *DOMSerializer) RenderFragment(fragment *Fragment) (string, error) {
	root := d.SerializeFragment(fragment, nil)
	var buf bytes.Buffer
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return "", fmt.Errorf("cannot render HTML: %w", err)
		}
	}
	return buf.String(), nil
}

func contentHole(dom *html.Node) *html.Node {
	hole := dom
	for hole.FirstChild != nil && hole.FirstChild.Type == html.ElementNode {
		hole = hole.FirstChild
	}
	return hole
}

func nodesFromSchema(schema *Schema) map[string]ToDOM {
	result := make(map[string]ToDOM)
	for _, n := range schema.Nodes {
		if n.Spec.ToDOM != nil {
			result[n.Name] = n.Spec.ToDOM
		}
	}
	if _, ok := result["text"]; !ok {
		result["text"] = func(n NodeOrMark, _ []html.Attribute) *html.Node {
			node, _ := n.(*Node)
			return DOMText(*node.Text)
		}
	}
	return result
}

func marksFromSchema(schema *Schema) map[string]ToDOM {
	result := make(map[string]ToDOM)
	for _, m := range schema.Marks {
		if m.Spec.ToDOM != nil {
			result[m.Name] = m.Spec.ToDOM
		}
	}
	return result
}
