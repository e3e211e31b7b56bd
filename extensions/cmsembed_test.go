package extensions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcms-dev/richtext/model"
	"golang.org/x/net/html"
)

const iframe = `<iframe src="https://example.com"></iframe>`

func embedDoc(attrs map[string]interface{}) map[string]interface{} {
	return docOf(map[string]interface{}{"type": "embed", "attrs": attrs})
}

func TestCmsEmbedAttributes(t *testing.T) {
	schema := newSchema(t, GenerateCmsEmbed(CmsEmbedConfig{}))

	embed := fromJSON(t, schema, embedDoc(map[string]interface{}{})).FirstChild()
	assert.Equal(t, "embed", embed.Attrs["type"])
	assert.Equal(t, "", embed.Attrs["url"])
	assert.Equal(t, "", embed.Attrs["embedHtml"])

	embed = fromJSON(t, schema, embedDoc(map[string]interface{}{
		"url":       "https://youtube.com/watch?v=abc123",
		"embedHtml": iframe,
	})).FirstChild()
	assert.Equal(t, "https://youtube.com/watch?v=abc123", embed.Attrs["url"])
	assert.Equal(t, iframe, embed.Attrs["embedHtml"])
}

func TestCmsEmbedRender(t *testing.T) {
	schema := newSchema(t, GenerateCmsEmbed(CmsEmbedConfig{}))

	out := renderHTML(t, schema, fromJSON(t, schema, embedDoc(map[string]interface{}{
		"type": "embed", "url": "https://example.com", "embedHtml": iframe,
	})))
	assert.Contains(t, out, `data-type="embed"`)
	assert.Contains(t, out, `data-embed-html`)
	assert.NotContains(t, out, "embed-placeholder")

	out = renderHTML(t, schema, fromJSON(t, schema, embedDoc(map[string]interface{}{
		"type": "embed", "url": "https://example.com", "embedHtml": "",
	})))
	assert.Equal(t,
		`<div data-type="embed" data-url="https://example.com" class="embed-placeholder">`+
			`<div class="embed-content">Embed Content Placeholder</div></div>`,
		out)
}

func TestCmsEmbedParseHTML(t *testing.T) {
	schema := newSchema(t, GenerateCmsEmbed(CmsEmbedConfig{}))

	doc := parseHTML(t, schema, `<div data-type="embed" data-url="https://example.com">`+iframe+`</div>`)
	embed := doc.FirstChild()
	require.Equal(t, "embed", embed.Type.Name)
	assert.Equal(t, "https://example.com", embed.Attrs["url"])
	assert.Equal(t, iframe, embed.Attrs["embedHtml"])

	// What the editor renders parses back to the same node.
	original := fromJSON(t, schema, embedDoc(map[string]interface{}{"url": "https://example.com", "embedHtml": iframe}))
	again := parseHTML(t, schema, renderHTML(t, schema, original))
	assert.True(t, original.Eq(again), again.String())

	placeholder := fromJSON(t, schema, embedDoc(map[string]interface{}{"url": "https://example.com"}))
	again = parseHTML(t, schema, renderHTML(t, schema, placeholder))
	assert.Equal(t, "", again.FirstChild().Attrs["embedHtml"])

	doc = parseHTML(t, schema, `<div data-type="other">text</div>`)
	assert.Equal(t, "paragraph", doc.FirstChild().Type.Name)
}

func TestCmsEmbedCommands(t *testing.T) {
	exts := []*Extension{GenerateCmsEmbed(CmsEmbedConfig{})}
	rec := &recorder{result: true}

	assert.True(t, run(t, exts, rec, "setEmbed", map[string]interface{}{
		"url":  "https://youtube.com/watch?v=abc123",
		"html": `<iframe src="https://youtube.com/embed/abc123"></iframe>`,
	}))
	assert.True(t, run(t, exts, rec, "removeEmbed", nil))
	assert.Equal(t, []call{
		{"InsertContent", map[string]interface{}{
			"type": "embed",
			"attrs": map[string]interface{}{
				"type":      "embed",
				"url":       "https://youtube.com/watch?v=abc123",
				"embedHtml": `<iframe src="https://youtube.com/embed/abc123"></iframe>`,
			},
		}},
		{"DeleteNode:embed", nil},
	}, rec.calls)
}

func TestCmsEmbedRenderer(t *testing.T) {
	renderer := func(model.NodeOrMark, []html.Attribute) *html.Node { return nil }
	assert.NotNil(t, GenerateCmsEmbed(CmsEmbedConfig{Renderer: renderer}).NodeView)
	assert.Nil(t, GenerateCmsEmbed(CmsEmbedConfig{}).NodeView)
}

func TestCmsEmbedMarkdownRoundTrip(t *testing.T) {
	exts := append(BaseExtensions(), GenerateCmsEmbed(CmsEmbedConfig{}))
	schema, err := NewSchema(exts)
	require.NoError(t, err)
	codec := NewMarkdownCodec(schema, exts)

	doc := fromJSON(t, schema, docOf(
		map[string]interface{}{"type": "paragraph", "content": []interface{}{
			map[string]interface{}{"type": "text", "text": "Watch:"},
		}},
		map[string]interface{}{"type": "embed", "attrs": map[string]interface{}{
			"url": "https://example.com", "embedHtml": "<iframe\n\nsrc=\"https://example.com\"></iframe>",
		}},
	))
	md := codec.Serialize(doc)
	assert.Contains(t, md, "Watch:\n\n<div ")
	assert.NotContains(t, md, "\n\n<iframe")

	again, err := codec.ParseMarkdown(md)
	require.NoError(t, err)
	assert.True(t, doc.Eq(again), again.String())
}
