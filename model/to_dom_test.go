package model_test

import (
	"testing"

	. "github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/test/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func test(t *testing.T, doc builder.NodeWithTag, expected string, serializer *DOMSerializer, msg string) {
	t.Helper()
	out, err := serializer.RenderFragment(doc.Content)
	require.NoError(t, err)
	assert.Equal(t, expected, out, msg)
}

func TestDOMSerializer(t *testing.T) {
	serializer := DOMSerializerFromSchema(schema)

	test(t,
		doc(p("hello")),
		"<p>hello</p>",
		serializer,
		"Should represent simple node")

	test(t,
		doc(p("hi", br, "there")),
		"<p>hi<br/>there</p>",
		serializer,
		"Should represent a line break")

	test(t,
		doc(p(em("emphasis"))),
		"<p><em>emphasis</em></p>",
		serializer,
		"Should represent simple marks")

	test(t,
		doc(p("one", strong("two", em("three")), em("four"), "five")),
		"<p>one<strong>two<em>three</em></strong><em>four</em>five</p>",
		serializer,
		"Should join styles")

	test(t,
		doc(p("a ", a("link"), " b")),
		`<p>a <a href="https://example.com" rel="noopener noreferrer nofollow" target="_blank">link</a> b</p>`,
		serializer,
		"Can represent links")

	test(t,
		doc(ul(li(p("one")), li(p("two")), li(p("three", strong("!")))), p("after")),
		"<ul><li><p>one</p></li><li><p>two</p></li><li><p>three<strong>!</strong></p></li></ul><p>after</p>",
		serializer,
		"Should represent an unordered list")

	test(t,
		doc(builder.Ol(li(p("one")), li(p("two"))), p("after")),
		"<ol><li><p>one</p></li><li><p>two</p></li></ol><p>after</p>",
		serializer,
		"Should represent an ordered list")

	test(t,
		doc(builder.Ol(map[string]interface{}{"start": 3}, li(p("three")))),
		`<ol start="3"><li><p>three</p></li></ol>`,
		serializer,
		"Should render the start of an ordered list")

	test(t,
		doc(blockquote(blockquote(blockquote(p("he said"))), p("i said"))),
		"<blockquote><blockquote><blockquote><p>he said</p></blockquote></blockquote><p>i said</p></blockquote>",
		serializer,
		"Should represent a nested blockquote")

	test(t,
		doc(h1("one"), h2("two"), p("text")),
		"<h1>one</h1><h2>two</h2><p>text</p>",
		serializer,
		"Should represent headings")

	test(t,
		doc(p(map[string]interface{}{"textAlign": "center"}, "mid")),
		`<p style="text-align: center">mid</p>`,
		serializer,
		"Should render the text alignment")

	test(t,
		doc(p("text and ", code("code that is ", em("emphasized"), "..."))),
		"<p>text and <code>code that is emphasized...</code></p>",
		serializer,
		"Code excludes other marks")

	test(t,
		doc(blockquote(pre("some code")), p("and")),
		"<blockquote><pre><code>some code</code></pre></blockquote><p>and</p>",
		serializer,
		"Should represent a code block")

	test(t,
		doc(pre(map[string]interface{}{"language": "go"}, "x := 1")),
		`<pre><code class="language-go">x := 1</code></pre>`,
		serializer,
		"Should represent the language of a code block")

	test(t,
		doc(p(em("hi", br, "x"))),
		"<p><em>hi<br/>x</em></p>",
		serializer,
		"Supports leaf nodes in marks")

	test(t,
		doc(p("\u00a0 \u00a0hello\u00a0")),
		"<p>\u00a0 \u00a0hello\u00a0</p>",
		serializer,
		"Should not collapse non-breaking spaces")

	test(t,
		doc(builder.Table(builder.Tr(builder.Th(p("h")), builder.Td(map[string]interface{}{"colspan": 2}, p("c"))))),
		`<table><tbody><tr><th><p>h</p></th><td colspan="2"><p>c</p></td></tr></tbody></table>`,
		serializer,
		"Should represent tables")
}

func TestDOMSerializerWithNodes(t *testing.T) {
	serializer := DOMSerializerFromSchema(schema).WithNodes(map[string]ToDOM{
		"horizontalRule": func(NodeOrMark, []html.Attribute) *html.Node {
			return Elem("div", HTMLAttrs("class", "rule"))
		},
	})
	test(t, doc(p("a"), hr(), p("b")), `<p>a</p><div class="rule"></div><p>b</p>`, serializer, "Should use overridden node views")
}

func TestMergeAttributes(t *testing.T) {
	merged := MergeAttributes(
		HTMLAttrs("class", "a b", "style", "color: red", "id", "x"),
		HTMLAttrs("class", "b c", "style", "font-weight: bold;", "id", "y"),
	)
	assert.Equal(t, HTMLAttrs("class", "a b c", "style", "color: red; font-weight: bold", "id", "y"), merged)

	// empty existing values are replaced
	assert.Equal(t, HTMLAttrs("src", "x.png"), MergeAttributes(HTMLAttrs("src", ""), HTMLAttrs("src", "x.png")))

	// insertion order is kept
	assert.Equal(t,
		HTMLAttrs("data-custom-class", "true", "data-custom", "true", "class", "my-class"),
		MergeAttributes(HTMLAttrs("data-custom-class", "true"), HTMLAttrs("data-custom", "true"), HTMLAttrs("class", "my-class")),
	)
}

func TestHTMLAttrs(t *testing.T) {
	assert.Equal(t,
		[]html.Attribute{{Key: "width", Val: "1200"}, {Key: "flag", Val: "true"}, {Key: "ratio", Val: "1.5"}},
		HTMLAttrs("width", 1200, "alt", nil, "flag", true, "ratio", 1.5),
	)
	assert.Empty(t, HTMLAttrs("alt", nil))
}

func TestRenderAttrs(t *testing.T) {
	specs := map[string]*AttributeSpec{
		"b":      {},
		"a":      {},
		"hidden": {Hidden: true},
		"custom": {RenderHTML: func(v interface{}) []html.Attribute { return HTMLAttrs("data-custom", v) }},
	}
	attrs := RenderAttrs(specs, map[string]interface{}{"a": "1", "b": nil, "hidden": "x", "custom": "y"})
	assert.Equal(t, HTMLAttrs("a", "1", "data-custom", "y"), attrs)
}
