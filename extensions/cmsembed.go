package extensions

import (
	"strings"

	"github.com/xcms-dev/richtext/markdown"
	"github.com/xcms-dev/richtext/model"
	"golang.org/x/net/html"
)

// CmsEmbedConfig configures the embed node.
type CmsEmbedConfig struct {
	// Renderer renders embeds on the editing surface.
	Renderer model.ToDOM
}

// EmbedPlaceholderText is shown in place of an embed whose HTML is unknown.
const EmbedPlaceholderText = "Embed Content Placeholder"

// The embed HTML (an oEmbed iframe, say) cannot be rendered as the content
// of the node, so it travels in the data-embed-html attribute and is swapped
// in by the page renderer.
func parseEmbedHTML(el *html.Node) interface{} {
	if v, ok := model.GetAttribute(el, "data-embed-html"); ok {
		return v
	}
	class, _ := model.GetAttribute(el, "class")
	for _, c := range strings.Fields(class) {
		if c == "embed-placeholder" {
			return nil
		}
	}
	return model.InnerHTML(el)
}

// GenerateCmsEmbed creates the embed node, an atom block holding third-party
// embed HTML and the URL it was made from.
func GenerateCmsEmbed(cfg CmsEmbedConfig) *Extension {
	spec := &model.NodeSpec{
		Key:   "embed",
		Group: "block",
		Atom:  true,
		Attrs: map[string]*model.AttributeSpec{
			"type": {
				Default:    "embed",
				ParseHTML:  func(el *html.Node) interface{} { return model.AttributeOrNil(el, "data-type") },
				RenderHTML: func(v interface{}) []html.Attribute { return model.HTMLAttrs("data-type", v) },
			},
			"url": {
				Default:    "",
				ParseHTML:  func(el *html.Node) interface{} { return model.AttributeOrNil(el, "data-url") },
				RenderHTML: func(v interface{}) []html.Attribute { return model.HTMLAttrs("data-url", v) },
			},
			"embedHtml": {
				Default:   "",
				ParseHTML: parseEmbedHTML,
				RenderHTML: func(v interface{}) []html.Attribute {
					if s, _ := v.(string); s != "" {
						return model.HTMLAttrs("data-embed-html", s)
					}
					return nil
				},
			},
		},
		ParseDOM: []*model.ParseRule{{Tag: `div[data-type="embed"]`}},
		ToDOM:    embedToDOM,
	}
	return &Extension{
		Name:     "embed",
		Kind:     KindNode,
		Priority: DefaultPriority,
		Node:     spec,
		NodeView: cfg.Renderer,
		Commands: map[string]CommandFactory{
			"setEmbed": func(args map[string]interface{}) Command {
				node := map[string]interface{}{
					"type": "embed",
					"attrs": map[string]interface{}{
						"type":      "embed",
						"url":       stringArg(args, "url"),
						"embedHtml": stringArg(args, "html"),
					},
				}
				return func(c Commands) bool { return c.InsertContent(node) }
			},
			"removeEmbed": func(map[string]interface{}) Command {
				return func(c Commands) bool { return c.DeleteNode("embed") }
			},
		},
		Markdown: &MarkdownSpec{Node: serializeEmbed},
	}
}

func embedToDOM(n model.NodeOrMark, attrs []html.Attribute) *html.Node {
	marker := model.HTMLAttrs("data-type", "embed")
	if s, _ := n.Attr("embedHtml").(string); s != "" {
		return model.Elem("div", model.MergeAttributes(attrs, marker))
	}
	// Without its HTML the embed still needs an element; the editing surface
	// draws it through its node view instead.
	return model.Elem("div",
		model.MergeAttributes(attrs, marker, model.HTMLAttrs("class", "embed-placeholder")),
		model.Elem("div", model.HTMLAttrs("class", "embed-content"), model.DOMText(EmbedPlaceholderText)),
	)
}

// Markdown has no embed syntax: embeds are written as an HTML block, which
// the Markdown parser hands back to the DOM parser.
func serializeEmbed(state *markdown.SerializerState, node, _ *model.Node, _ int) {
	attrs := model.RenderAttrs(node.Type.Spec.Attrs, node.Attrs)
	div := model.Elem("div", model.MergeAttributes(attrs, model.HTMLAttrs("data-type", "embed")))
	var sb strings.Builder
	if err := html.Render(&sb, div); err != nil {
		return
	}
	// A blank line would end the HTML block.
	state.Write(strings.ReplaceAll(sb.String(), "\n", "&#10;"))
	state.CloseBlock(node)
}
