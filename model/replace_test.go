package model_test

import (
	"testing"

	. "github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/test/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeReplace(t *testing.T) {
	rpl := func(doc builder.NodeWithTag, insert *Fragment, expected builder.NodeWithTag) {
		b, ok := doc.Tag["b"]
		if !ok {
			b = doc.Tag["a"]
		}
		result, err := doc.Replace(doc.Tag["a"], b, insert)
		require.NoError(t, err)
		assert.True(t, result.Eq(expected.Node), "%s != %s", result, expected)
	}
	frag := func(nodes ...builder.NodeWithTag) *Fragment {
		list := make([]*Node, len(nodes))
		for i, n := range nodes {
			list[i] = n.Node
		}
		return NewFragment(list)
	}

	// deletes text
	rpl(doc(p("he<a>llo<b> world")), nil,
		doc(p("he world")))

	// inserts text
	rpl(doc(p("he<a>llo")), NewFragment([]*Node{schema.Text("XX")}),
		doc(p("heXXllo")))

	// joins inserted text with its marks
	rpl(doc(p(em("a<a>b"))), NewFragment([]*Node{schema.Text("x", em2)}),
		doc(p(em("axb"))))

	// replaces whole blocks
	rpl(doc(p("one"), "<a>", p("two"), "<b>", p("three")), frag(h1("new")),
		doc(p("one"), h1("new"), p("three")))

	// inserts a block between blocks
	rpl(doc(p("one"), "<a>", p("two")), frag(hr()),
		doc(p("one"), hr(), p("two")))

	// replaces deep inside a node
	rpl(doc(blockquote(ul(li(p("a<a>bc<b>d"))))), NewFragment([]*Node{schema.Text("X")}),
		doc(blockquote(ul(li(p("aXd"))))))

	// works with multi-byte text
	rpl(doc(p("テ<a>キス<b>ト")), NewFragment([]*Node{schema.Text("x")}),
		doc(p("テxト")))
}

func TestNodeReplaceErrors(t *testing.T) {
	bad := func(doc builder.NodeWithTag, insert *Fragment) {
		_, err := doc.Replace(doc.Tag["a"], doc.Tag["b"], insert)
		var replaceErr *ReplaceError
		assert.ErrorAs(t, err, &replaceErr)
	}

	// crosses a node boundary
	bad(doc(p("a<a>b"), p("c<b>d")), nil)

	// puts a block into a textblock
	bad(doc(p("a<a>b<b>c")), NewFragment([]*Node{p("x").Node}))

	// puts text into the document
	bad(doc("<a>", p("a"), "<b>"), NewFragment([]*Node{schema.Text("x")}))

	// puts marks where they are not allowed
	bad(doc(pre("a<a>b<b>c")), NewFragment([]*Node{schema.Text("x", em2)}))

	_, err := doc(p("a")).Replace(0, 10, nil)
	assert.Error(t, err)
}
