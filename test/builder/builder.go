// Package builder provides helpers to build documents in tests. Text given to
// a builder may contain tags like "<a>", which are removed from the text and
// recorded with their position in the resulting node's Tag map.
package builder

import (
	"regexp"
	"unicode/utf8"

	"github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/schema/basic"
	"github.com/xcms-dev/richtext/schema/list"
	"github.com/xcms-dev/richtext/schema/table"
)

// Spec describes a named builder: the node or mark type it creates, and the
// attributes it applies.
type Spec map[string]interface{}

// NodeWithTag is a node with the positions of the tags found in its content.
type NodeWithTag struct {
	*model.Node
	Tag map[string]int
}

// Flat is a run of inline nodes returned by a mark builder.
type Flat struct {
	Nodes []*model.Node
	Tag   map[string]int
}

// NodeBuilder creates a node from attributes (map[string]interface{}),
// strings, nodes and flat runs.
type NodeBuilder func(args ...interface{}) NodeWithTag

// MarkBuilder marks the inline nodes given as arguments.
type MarkBuilder func(args ...interface{}) Flat

var tagRegexp = regexp.MustCompile(`<(\w+)>`)

func takeAttrs(attrs map[string]interface{}, args []interface{}) map[string]interface{} {
	if len(args) == 0 {
		return attrs
	}
	given, ok := args[0].(map[string]interface{})
	if !ok {
		return attrs
	}
	result := map[string]interface{}{}
	for k, v := range attrs {
		result[k] = v
	}
	for k, v := range given {
		result[k] = v
	}
	return result
}

func flatten(schema *model.Schema, children []interface{}, f func(*model.Node) *model.Node) ([]*model.Node, map[string]int) {
	var result []*model.Node
	tags := map[string]int{}
	pos := 0
	for _, child := range children {
		if leaf, ok := child.(NodeBuilder); ok {
			child = leaf()
		}
		switch c := child.(type) {
		case string:
			at := 0
			out := ""
			for _, m := range tagRegexp.FindAllStringSubmatchIndex(c, -1) {
				out += c[at:m[0]]
				tags[c[m[2]:m[3]]] = pos + utf8.RuneCountInString(out)
				at = m[1]
			}
			out += c[at:]
			if out == "" {
				continue
			}
			result = append(result, f(schema.Text(out)))
			pos += utf8.RuneCountInString(out)
		case NodeWithTag:
			offset := 1
			if c.IsText() {
				offset = 0
			}
			for id, p := range c.Tag {
				tags[id] = p + pos + offset
			}
			node := f(c.Node)
			result = append(result, node)
			pos += node.NodeSize()
		case Flat:
			for id, p := range c.Tag {
				tags[id] = p + pos
			}
			for _, n := range c.Nodes {
				node := f(n)
				result = append(result, node)
				pos += node.NodeSize()
			}
		}
	}
	return result, tags
}

func block(typ *model.NodeType, attrs map[string]interface{}) NodeBuilder {
	return func(args ...interface{}) NodeWithTag {
		nodes, tags := flatten(typ.Schema, args, func(n *model.Node) *model.Node { return n })
		node, err := typ.Create(takeAttrs(attrs, args), model.NewFragment(nodes), nil)
		if err != nil {
			panic(err)
		}
		if typ.IsLeaf() {
			tags = map[string]int{}
		}
		return NodeWithTag{Node: node, Tag: tags}
	}
}

// Create a builder function for marks.
func mark(typ *model.MarkType, attrs map[string]interface{}) MarkBuilder {
	return func(args ...interface{}) Flat {
		m := typ.Create(takeAttrs(attrs, args))
		nodes, tags := flatten(typ.Schema, args, func(n *model.Node) *model.Node {
			if typ.IsInSet(n.Marks) != nil {
				return n
			}
			return n.Mark(m.AddToSet(n.Marks))
		})
		return Flat{Nodes: nodes, Tag: tags}
	}
}

// Builders creates a builder for every node and mark type of the schema, by
// type name, plus the named builders, which are keyed by their name.
func Builders(schema *model.Schema, names map[string]Spec) map[string]interface{} {
	result := map[string]interface{}{"schema": schema}
	for _, typ := range schema.Nodes {
		result[typ.Name] = block(typ, nil)
	}
	for _, typ := range schema.Marks {
		result[typ.Name] = mark(typ, nil)
	}
	for name, spec := range names {
		attrs := map[string]interface{}{}
		for k, v := range spec {
			if k != "nodeType" && k != "markType" {
				attrs[k] = v
			}
		}
		if typeName, ok := spec["nodeType"].(string); ok {
			typ, err := schema.NodeType(typeName)
			if err != nil {
				panic(err)
			}
			result[name] = block(typ, attrs)
		}
		if typeName, ok := spec["markType"].(string); ok {
			typ, err := schema.MarkType(typeName)
			if err != nil {
				panic(err)
			}
			result[name] = mark(typ, attrs)
		}
	}
	return result
}

func newTestSchema() *model.Schema {
	nodes := list.AddListNodes(basic.Nodes(), "paragraph block*", "block")
	nodes = table.AddTableNodes(nodes, "block")
	schema, err := model.NewSchema(&model.SchemaSpec{Nodes: nodes, Marks: basic.Marks()})
	if err != nil {
		panic(err)
	}
	return schema
}

var out = Builders(newTestSchema(), map[string]Spec{
	"p":   {"nodeType": "paragraph"},
	"pre": {"nodeType": "codeBlock"},
	"h1":  {"nodeType": "heading", "level": 1},
	"h2":  {"nodeType": "heading", "level": 2},
	"h3":  {"nodeType": "heading", "level": 3},
	"li":  {"nodeType": "listItem"},
	"ul":  {"nodeType": "bulletList"},
	"ol":  {"nodeType": "orderedList"},
	"br":  {"nodeType": "hardBreak"},
	"hr":  {"nodeType": "horizontalRule"},
	"tr":  {"nodeType": "tableRow"},
	"td":  {"nodeType": "tableCell"},
	"th":  {"nodeType": "tableHeader"},
	"a":   {"markType": "link", "href": "https://example.com"},
	"em":  {"markType": "italic"},
	"b":   {"markType": "bold"},
})

// The builders of the test schema.
var (
	Schema     = out["schema"].(*model.Schema)
	Doc        = out["doc"].(NodeBuilder)
	P          = out["p"].(NodeBuilder)
	Blockquote = out["blockquote"].(NodeBuilder)
	Pre        = out["pre"].(NodeBuilder)
	H1         = out["h1"].(NodeBuilder)
	H2         = out["h2"].(NodeBuilder)
	H3         = out["h3"].(NodeBuilder)
	Li         = out["li"].(NodeBuilder)
	Ul         = out["ul"].(NodeBuilder)
	Ol         = out["ol"].(NodeBuilder)
	Br         = out["br"].(NodeBuilder)
	Hr         = out["hr"].(NodeBuilder)
	Table      = out["table"].(NodeBuilder)
	Tr         = out["tr"].(NodeBuilder)
	Td         = out["td"].(NodeBuilder)
	Th         = out["th"].(NodeBuilder)
	A          = out["a"].(MarkBuilder)
	Em         = out["em"].(MarkBuilder)
	Strong     = out["b"].(MarkBuilder)
	Code       = out["code"].(MarkBuilder)
	Strike     = out["strike"].(MarkBuilder)
)
