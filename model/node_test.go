package model_test

import (
	"testing"

	. "github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/test/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeString(t *testing.T) {
	// nests
	assert.Equal(t,
		`doc(bulletList(listItem(paragraph("hey"), paragraph), listItem(paragraph("foo"))))`,
		doc(ul(li(p("hey"), p()), li(p("foo")))).String(),
	)

	// shows inline children
	assert.Equal(t,
		`doc(paragraph("foo", hardBreak, "bar"))`,
		doc(p("foo", br, "bar")).String(),
	)

	// shows marks
	assert.Equal(t,
		`doc(paragraph("foo", italic("bar"), bold(italic("quux")), code("baz")))`,
		doc(p("foo", em("bar"), strong(em("quux")), code("baz"))).String(),
	)
}

func TestNodeSize(t *testing.T) {
	// text size counts code points
	assert.Equal(t, 4, schema.Text("テキスト").NodeSize())
	assert.Equal(t, 6, doc(p("テキスト")).Content.Size)

	// leaves count as one
	assert.Equal(t, 1, hr().NodeSize())
}

func TestNodeCut(t *testing.T) {
	cut := func(doc, c builder.NodeWithTag) {
		expected := c.Node
		var actual *Node
		if b, ok := doc.Tag["b"]; ok {
			actual = doc.Cut(doc.Tag["a"], b)
		} else {
			actual = doc.Cut(doc.Tag["a"])
		}
		assert.True(t, actual.Eq(expected), "%s != %s\n", actual.String(), expected.String())
	}

	// extracts a full block
	cut(doc(p("foo"), "<a>", p("bar"), "<b>", p("baz")),
		doc(p("bar")))

	// cuts text
	cut(doc(p("0"), p("foo<a>bar<b>baz"), p("2")),
		doc(p("bar")))

	// cuts deeply
	cut(doc(blockquote(ul(li(p("a"), p("b<a>c")), li(p("d")), "<b>", li(p("e"))), p("3"))),
		doc(blockquote(ul(li(p("c")), li(p("d"))))))

	// works from the left
	cut(doc(blockquote(p("foo<b>bar"))),
		doc(blockquote(p("foo"))))

	// works to the right
	cut(doc(blockquote(p("foo<a>bar"))),
		doc(blockquote(p("bar"))))

	// preserves marks
	cut(doc(p("foo", em("ba<a>r", br, strong("baz")), "qu<b>ux", code("xyz"))),
		doc(p(em("r", br, strong("baz")), "qu")))

	// cuts multi-byte text by code point
	cut(doc(p("テキ<a>ス<b>ト")),
		doc(p("ス")))
}

func TestNodesBetween(t *testing.T) {
	between := func(doc builder.NodeWithTag, nodes ...string) {
		i := 0
		doc.NodesBetween(doc.Tag["a"], doc.Tag["b"], func(node *Node, pos int, _ *Node, _ int) bool {
			if !assert.NotEqual(t, i, len(nodes), "More nodes iterated than listed ("+node.Type.Name+")") {
				return false
			}
			compare := node.Type.Name
			if node.IsText() {
				compare = *node.Text
			}
			assert.Equal(t, nodes[i], compare)
			i++
			if !node.IsText() {
				assert.Equal(t, doc.NodeAt(pos), node)
			}
			return true
		})
		assert.Equal(t, len(nodes), i)
	}

	// iterates over text
	between(doc(p("foo<a>bar<b>baz")),
		"paragraph", "foobarbaz")

	// descends multiple levels
	between(doc(blockquote(ul(li(p("f<a>oo")), p("b"), "<b>"), p("c"))),
		"blockquote", "bulletList", "listItem", "paragraph", "foo", "paragraph", "b")

	// iterates over inline nodes
	between(doc(p(em("x"), "f<a>oo", em("bar", br, strong("baz")), "quux", code("xy<b>z"))),
		"paragraph", "foo", "bar", "hardBreak", "baz", "quux", "xyz")
}

func TestNodeTextContent(t *testing.T) {
	// works on a whole doc
	assert.Equal(t, "foo", doc(p("foo")).TextContent())

	// works on a text node
	assert.Equal(t, "foo", schema.Text("foo").TextContent())

	// works on a nested element
	assert.Equal(t, "hiab", doc(ul(li(p("hi")), li(p(em("a"), "b")))).TextContent())
}

func TestNodeTextBetween(t *testing.T) {
	d := doc(p("foo"), p("bar", br, "baz"))
	assert.Equal(t, "foo\n\nbar\nbaz", d.TextBetween(0, d.Content.Size, "\n\n", "\n"))
	assert.Equal(t, "foobarbaz", d.TextBetween(0, d.Content.Size, ""))
}

func TestNodeEq(t *testing.T) {
	assert.True(t, doc(p("foo")).Eq(doc(p("foo")).Node))
	assert.False(t, doc(p("foo")).Eq(doc(p("bar")).Node))
	assert.False(t, doc(p("foo")).Eq(doc(p(em("foo"))).Node))
	assert.False(t, doc(h1("foo")).Eq(doc(h2("foo")).Node))
}

func TestFragmentJoinsText(t *testing.T) {
	frag := NewFragment([]*Node{schema.Text("foo"), schema.Text("bar"), schema.Text("baz", em2)})
	require.Equal(t, 2, frag.ChildCount())
	assert.Equal(t, "foobar", *frag.Content[0].Text)
	assert.Equal(t, 9, frag.Size)
}

func TestNodeRangeHasMark(t *testing.T) {
	d := doc(p("foo<a>", em("bar"), "<b>baz"))
	typ, err := schema.MarkType("italic")
	require.NoError(t, err)
	assert.True(t, d.RangeHasMark(d.Tag["a"], d.Tag["b"], typ))
	assert.False(t, d.RangeHasMark(0, d.Tag["a"], typ))
}

func TestNodeTypeCreateAndFill(t *testing.T) {
	node, err := schema.TopNodeType.CreateAndFill()
	require.NoError(t, err)
	assert.Equal(t, "doc(paragraph)", node.String())

	typ, err := schema.NodeType("listItem")
	require.NoError(t, err)
	item, err := typ.CreateAndFill()
	require.NoError(t, err)
	assert.Equal(t, "listItem(paragraph)", item.String())
}

func TestNodeTypeCreateChecked(t *testing.T) {
	typ, err := schema.NodeType("paragraph")
	require.NoError(t, err)

	_, err = typ.CreateChecked(nil, NewFragment([]*Node{schema.Text("ok")}), nil)
	assert.NoError(t, err)

	_, err = typ.CreateChecked(nil, NewFragment([]*Node{p("nested").Node}), nil)
	var replaceErr *ReplaceError
	assert.ErrorAs(t, err, &replaceErr)

	codeBlock, err := schema.NodeType("codeBlock")
	require.NoError(t, err)
	_, err = codeBlock.CreateChecked(nil, NewFragment([]*Node{schema.Text("x", em2)}), nil)
	assert.Error(t, err)
}
