package model_test

import (
	"strings"
	"testing"

	. "github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/schema/basic"
	"github.com/xcms-dev/richtext/test/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestDOMParser(t *testing.T) {
	parser, err := DOMParserFromSchema(schema)
	require.NoError(t, err)

	parse := func(src string, expected builder.NodeWithTag, msg string) {
		t.Helper()
		actual, err := parser.ParseHTML(src)
		require.NoError(t, err)
		assert.True(t, actual.Eq(expected.Node), "%s: %s != %s", msg, actual, expected)
	}

	parse("<p>hello</p>",
		doc(p("hello")),
		"simple paragraph")

	parse("<p>one <strong>two <em>three</em></strong></p>",
		doc(p("one ", strong("two ", em("three")))),
		"nested marks")

	parse("<p><b>bold</b> and <i>italic</i></p>",
		doc(p(strong("bold"), " and ", em("italic"))),
		"alternative mark tags")

	parse("hello <em>world</em>",
		doc(p("hello ", em("world"))),
		"wraps inline content in a paragraph")

	parse("<h1>a<hr>b</h1>",
		doc(h1("a"), hr(), h1("b")),
		"lifts blocks out of textblocks")

	parse("<p>  a \n\t  b  </p>",
		doc(p("a b")),
		"collapses whitespace")

	parse("<p>a<br>b</p>",
		doc(p("a", br, "b")),
		"line breaks")

	parse("<h2>title</h2><h3>sub</h3>",
		doc(h2("title"), builder.H3("sub")),
		"heading levels")

	parse(`<pre><code class="language-go">x  := 1
  y</code></pre>`,
		doc(pre(map[string]interface{}{"language": "go"}, "x  := 1\n  y")),
		"keeps the whitespace of code blocks")

	parse("<p><code>a</code> <em>b</em></p>",
		doc(p(code("a"), " ", em("b"))),
		"keeps spaces between inline elements")

	parse("<ul><li>one</li><li><p>two</p><ol start=\"3\"><li>three</li></ol></li></ul>",
		doc(ul(li(p("one")), li(p("two"), builder.Ol(map[string]interface{}{"start": 3}, li(p("three")))))),
		"lists")

	parse("<table><tr><th>h</th><td colspan=\"2\">c</td></tr></table>",
		doc(builder.Table(builder.Tr(builder.Th(p("h")), builder.Td(map[string]interface{}{"colspan": 2}, p("c"))))),
		"tables")

	parse("<blockquote><p>quote</p></blockquote>",
		doc(blockquote(p("quote"))),
		"blockquotes")

	parse(`<p><a href="https://example.com">link</a></p>`,
		doc(p(a("link"))),
		"links")

	parse("<div><span>text</span></div><script>alert(1)</script>",
		doc(p("text")),
		"ignores unknown and script elements")

	parse(`<p style="text-align: right">r</p>`,
		doc(p(map[string]interface{}{"textAlign": "right"}, "r")),
		"text alignment")

	parse("",
		doc(p()),
		"fills an empty document")

	parse("<p>テキスト</p>",
		doc(p("テキスト")),
		"multi-byte text")
}

func TestDOMParserParseFragment(t *testing.T) {
	parser, err := DOMParserFromSchema(schema)
	require.NoError(t, err)
	frag := parser.ParseFragment(findBody(t, "<p>a</p><hr>b"))
	require.Equal(t, 3, frag.ChildCount())
	assert.Equal(t, "horizontalRule", frag.MaybeChild(1).Type.Name)
	assert.Equal(t, "b", frag.MaybeChild(2).TextContent())
}

func findBody(t *testing.T, src string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	body := root.FirstChild.LastChild
	require.Equal(t, "body", body.Data)
	return body
}

func TestDOMParserLinkValidation(t *testing.T) {
	onlyHTTPS := func(href string) bool { return strings.HasPrefix(href, "https://") }
	s, err := NewSchema(&SchemaSpec{
		Nodes: basic.Nodes(),
		Marks: []*MarkSpec{basic.Link(onlyHTTPS), basic.Bold()},
	})
	require.NoError(t, err)
	parser, err := DOMParserFromSchema(s)
	require.NoError(t, err)

	node, err := parser.ParseHTML(`<p><a href="javascript:alert(1)">bad</a> <a href="https://ok.example">good</a></p>`)
	require.NoError(t, err)
	text := node.MaybeChild(0)
	require.Equal(t, 2, text.ChildCount())
	assert.Empty(t, text.MaybeChild(0).Marks)
	require.Len(t, text.MaybeChild(1).Marks, 1)
	assert.Equal(t, "https://ok.example", text.MaybeChild(1).Marks[0].Attrs["href"])
}

func TestDOMParserInvalidRule(t *testing.T) {
	spec := basic.Paragraph()
	spec.ParseDOM = []*ParseRule{{Tag: "p["}}
	s, err := NewSchema(&SchemaSpec{Nodes: []*NodeSpec{basic.Doc(), spec, basic.Text()}})
	require.NoError(t, err)
	_, err = DOMParserFromSchema(s)
	assert.Error(t, err)
}

func TestParseAttrs(t *testing.T) {
	el := findBody(t, `<div data-width="800" data-flag="true" data-name="x"></div>`).FirstChild
	attrs := ParseAttrs(map[string]*AttributeSpec{
		"data-width": {},
		"data-flag":  {},
		"data-name":  {},
		"missing":    {Default: "d"},
		"hidden":     {Hidden: true},
	}, el)
	assert.Equal(t, map[string]interface{}{"data-width": 800.0, "data-flag": true, "data-name": "x"}, attrs)
}
