package extensions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcms-dev/richtext/assets"
	"github.com/xcms-dev/richtext/model"
	"golang.org/x/net/html"
)

func imageDoc(id interface{}) map[string]interface{} {
	return docOf(map[string]interface{}{"type": "cmsImage", "attrs": map[string]interface{}{"id": id}})
}

func resolvedAsset(id string) *assets.AssetData {
	width, height := 1200, 800
	return &assets.AssetData{
		ID:          id,
		Title:       "Test image",
		Description: "Test description",
		AltText:     "Resolved alt text",
		TagIDs:      []string{},
		File: assets.File{
			Name:     "resolved.jpg",
			MimeType: "image/jpeg",
			Src:      "https://cdn.example.com/resolved.jpg",
			Size:     102400,
			Width:    &width,
			Height:   &height,
		},
	}
}

func TestCmsImageParseHTML(t *testing.T) {
	schema := newSchema(t, GenerateCmsImage(CmsImageConfig{}))

	doc := parseHTML(t, schema, `<img data-asset-id="asset123" src="https://example.com/image.jpg" alt="Test image" width="800" height="600" />`)
	image := doc.FirstChild()
	require.Equal(t, "cmsImage", image.Type.Name)
	assert.Equal(t, "asset123", image.Attrs["id"])
	assert.Equal(t, "https://example.com/image.jpg", image.Attrs["src"])
	assert.Equal(t, "Test image", image.Attrs["alt"])
	assert.Equal(t, "800", image.Attrs["width"])
	assert.Equal(t, "600", image.Attrs["height"])

	doc = parseHTML(t, schema, `<p><img src="https://example.com/plain.jpg"></p>`)
	assert.Equal(t, "paragraph", doc.FirstChild().Type.Name)
}

func TestCmsImageRenderWithResolver(t *testing.T) {
	ext := GenerateCmsImage(CmsImageConfig{ResolveAsset: resolvedAsset})
	schema := newSchema(t, ext)

	out := renderHTML(t, schema, fromJSON(t, schema, imageDoc("asset123")))
	assert.Contains(t, out, `src="https://cdn.example.com/resolved.jpg"`)
	assert.Contains(t, out, `alt="Resolved alt text"`)
	assert.Contains(t, out, `width="1200"`)
	assert.Contains(t, out, `height="800"`)
	assert.Contains(t, out, `data-asset-id="asset123"`)
}

func TestCmsImageRenderMissingAsset(t *testing.T) {
	ext := GenerateCmsImage(CmsImageConfig{ResolveAsset: func(string) *assets.AssetData { return nil }})
	schema := newSchema(t, ext)

	out := renderHTML(t, schema, fromJSON(t, schema, imageDoc("asset123")))
	assert.Contains(t, out, "<img")
	assert.Contains(t, out, `src=""`)

	called := false
	ext = GenerateCmsImage(CmsImageConfig{ResolveAsset: func(string) *assets.AssetData {
		called = true
		return nil
	}})
	schema = newSchema(t, ext)
	out = renderHTML(t, schema, fromJSON(t, schema, imageDoc(nil)))
	assert.Equal(t, `<img src=""/>`, out)
	assert.False(t, called)
}

func TestCmsImageRenderWithoutResolver(t *testing.T) {
	schema := newSchema(t, GenerateCmsImage(CmsImageConfig{}))
	doc := fromJSON(t, schema, docOf(map[string]interface{}{
		"type":  "cmsImage",
		"attrs": map[string]interface{}{"id": "asset123", "src": "https://example.com/a.jpg", "alt": "A"},
	}))
	out := renderHTML(t, schema, doc)
	assert.Contains(t, out, `data-asset-id="asset123"`)
	assert.Contains(t, out, `src=""`)
	assert.Contains(t, out, `alt="A"`)
	assert.NotContains(t, out, "example.com")
}

func TestCmsImageRenderKeepsSourceWithRenderer(t *testing.T) {
	renderer := func(model.NodeOrMark, []html.Attribute) *html.Node { return nil }
	schema := newSchema(t, GenerateCmsImage(CmsImageConfig{ImageRenderer: renderer}))
	doc := fromJSON(t, schema, docOf(map[string]interface{}{
		"type":  "cmsImage",
		"attrs": map[string]interface{}{"id": "asset123", "src": "https://example.com/a.jpg"},
	}))
	assert.Contains(t, renderHTML(t, schema, doc), `src="https://example.com/a.jpg"`)
}

func TestCmsImageNodeView(t *testing.T) {
	renderer := func(model.NodeOrMark, []html.Attribute) *html.Node { return nil }
	assert.NotNil(t, GenerateCmsImage(CmsImageConfig{ImageRenderer: renderer}).NodeView)
	assert.Nil(t, GenerateCmsImage(CmsImageConfig{}).NodeView)
}

func TestCmsImageRenderMarkdown(t *testing.T) {
	schema := newSchema(t, GenerateCmsImage(CmsImageConfig{}))

	doc := fromJSON(t, schema, imageDoc("asset123"))
	assert.Equal(t, "![image](asset123)\n\n", RenderMarkdown(doc.FirstChild()))

	doc = fromJSON(t, schema, imageDoc(nil))
	assert.Equal(t, "", RenderMarkdown(doc.FirstChild()))
}

func TestTokenizeImage(t *testing.T) {
	assert.Equal(t, &ImageToken{Type: "cmsImage", Raw: "![image](abc123)", ID: "abc123"}, TokenizeImage("![image](abc123)"))
	assert.Equal(t, &ImageToken{Type: "cmsImage", Raw: "![image](abc123)", ID: "abc123"}, TokenizeImage("![image](abc123) and more"))
	assert.Nil(t, TokenizeImage("Just some text"))
	assert.Nil(t, TokenizeImage("see ![image](abc123)"))
	assert.Nil(t, TokenizeImage("![image](ABC)"))

	assert.Equal(t, 10, ImageTokenStart("Some text ![image](abc123) more text"))
	assert.Equal(t, -1, ImageTokenStart("Some text"))
}

func TestCmsImageRules(t *testing.T) {
	ext := GenerateCmsImage(CmsImageConfig{})
	require.Len(t, ext.InputRules, 1)
	require.Len(t, ext.PasteRules, 1)

	input := ext.InputRules[0]
	m := input.Find.FindStringSubmatch("look ![image](abc123)")
	require.NotNil(t, m)
	assert.Equal(t, " ![image](abc123)", m[0])
	assert.Equal(t, map[string]interface{}{"id": "abc123"}, input.Attributes(m))
	assert.NotNil(t, input.Find.FindStringSubmatch("![image](abc123)"))
	assert.Nil(t, input.Find.FindStringSubmatch("x![image](abc123)"))
	assert.Nil(t, input.Find.FindStringSubmatch("![image](abc123) "))

	paste := ext.PasteRules[0]
	all := paste.Find.FindAllStringSubmatch("a ![image](one) b ![image](two2)", -1)
	require.Len(t, all, 2)
	assert.Equal(t, map[string]interface{}{"id": "one"}, paste.Attributes(all[0]))
	assert.Equal(t, map[string]interface{}{"id": "two2"}, paste.Attributes(all[1]))
}

func TestCmsImageMarkdownRoundTrip(t *testing.T) {
	exts := append(BaseExtensions(), GenerateCmsImage(CmsImageConfig{}))
	schema, err := NewSchema(exts)
	require.NoError(t, err)
	codec := NewMarkdownCodec(schema, exts)

	doc, err := codec.ParseMarkdown("![image](abc123)")
	require.NoError(t, err)
	require.Equal(t, 1, doc.ChildCount())
	assert.Equal(t, "cmsImage", doc.FirstChild().Type.Name)
	assert.Equal(t, "abc123", doc.FirstChild().Attrs["id"])
	assert.Equal(t, "![image](abc123)", codec.Serialize(doc))

	doc, err = codec.ParseMarkdown("Intro\n![image](a1)\n\n- item")
	require.NoError(t, err)
	require.Equal(t, 3, doc.ChildCount())
	assert.Equal(t, "paragraph", doc.FirstChild().Type.Name)
	assert.Equal(t, "Intro\n\n![image](a1)\n\n- item", codec.Serialize(doc))

	doc, err = codec.ParseMarkdown("see ![image](a1) here")
	require.NoError(t, err)
	assert.Equal(t, "paragraph", doc.FirstChild().Type.Name)

	// the image token must cover the whole line
	doc, err = codec.ParseMarkdown("![image](a1) here")
	require.NoError(t, err)
	require.Equal(t, 1, doc.ChildCount())
	assert.Equal(t, "paragraph", doc.FirstChild().Type.Name)

	doc, err = codec.ParseMarkdown("![image](a1)   \n\n![image](b2)")
	require.NoError(t, err)
	require.Equal(t, 2, doc.ChildCount())
	assert.Equal(t, "b2", doc.MaybeChild(1).Attrs["id"])
}
