package extensions

import (
	"regexp"
	"strings"

	"github.com/xcms-dev/richtext/assets"
	"github.com/xcms-dev/richtext/markdown"
	"github.com/xcms-dev/richtext/model"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// ResolveAssetFunc finds the asset an image refers to. It returns nil when
// the asset does not exist.
type ResolveAssetFunc func(id string) *assets.AssetData

// CmsImageConfig configures the image node.
type CmsImageConfig struct {
	// ResolveAsset, when set, fills the rendered image from the asset
	// library instead of the stored attributes.
	ResolveAsset ResolveAssetFunc
	// ImageRenderer renders images on the editing surface.
	ImageRenderer model.ToDOM
}

// Image Markdown is ![image](<asset id>): images are referenced by the id of
// their asset, never by URL.
var (
	imageInputRegexp    = regexp.MustCompile(`(?:^|\s)(!\[image\]\(([a-z0-9]+)\))$`)
	imagePasteRegexp    = regexp.MustCompile(`!\[image\]\(([a-z0-9]+)\)`)
	imageTokenRegexp    = regexp.MustCompile(`^!\[image\]\(([a-z0-9]+)\)`)
	imageMarkdownPrefix = "![image]("
)

// GenerateCmsImage creates the cmsImage node: a block image pointing to an
// asset of the media library.
func GenerateCmsImage(cfg CmsImageConfig) *Extension {
	attr := func(name string) *model.AttributeSpec {
		return &model.AttributeSpec{
			ParseHTML: func(el *html.Node) interface{} { return model.AttributeOrNil(el, name) },
		}
	}
	spec := &model.NodeSpec{
		Key:       "cmsImage",
		Group:     "block",
		Atom:      true,
		Draggable: true,
		Attrs: map[string]*model.AttributeSpec{
			"id": {
				ParseHTML: func(el *html.Node) interface{} { return model.AttributeOrNil(el, "data-asset-id") },
				RenderHTML: func(value interface{}) []html.Attribute {
					return model.HTMLAttrs("data-asset-id", value)
				},
			},
			"src":    attr("src"),
			"alt":    attr("alt"),
			"width":  attr("width"),
			"height": attr("height"),
		},
		ParseDOM: []*model.ParseRule{{Tag: "img[data-asset-id]"}},
		ToDOM:    cmsImageToDOM(cfg),
	}
	attrs := func(group int) func(match []string) map[string]interface{} {
		return func(match []string) map[string]interface{} {
			return map[string]interface{}{"id": match[group]}
		}
	}
	return &Extension{
		Name:       "cmsImage",
		Kind:       KindNode,
		Priority:   DefaultPriority,
		Node:       spec,
		NodeView:   cfg.ImageRenderer,
		InputRules: []*InputRule{NodeInputRule(imageInputRegexp, "cmsImage", attrs(2))},
		PasteRules: []*PasteRule{NodePasteRule(imagePasteRegexp, "cmsImage", attrs(1))},
		Markdown: &MarkdownSpec{
			Node:      serializeCmsImage,
			Extenders: []goldmark.Extender{cmsImageMarkdown{}},
			Mapper:    markdown.NodeMapper{KindCmsImage: mapCmsImage},
		},
	}
}

func cmsImageToDOM(cfg CmsImageConfig) model.ToDOM {
	return func(n model.NodeOrMark, attrs []html.Attribute) *html.Node {
		if cfg.ResolveAsset == nil {
			// The editing surface loads the stored source itself; elsewhere
			// nothing must be fetched.
			var src interface{} = ""
			if cfg.ImageRenderer != nil {
				src = n.Attr("src")
			}
			return model.Elem("img", model.MergeAttributes(attrs, model.HTMLAttrs(
				"src", src,
				"alt", n.Attr("alt"),
				"width", n.Attr("width"),
				"height", n.Attr("height"),
				"data-asset-id", n.Attr("id"),
			)))
		}
		var asset *assets.AssetData
		if id, ok := n.Attr("id").(string); ok && id != "" {
			asset = cfg.ResolveAsset(id)
		}
		if asset == nil {
			return model.Elem("img", model.MergeAttributes(attrs, model.HTMLAttrs("src", "")))
		}
		return model.Elem("img", model.MergeAttributes(attrs, model.HTMLAttrs(
			"src", asset.File.Src,
			"alt", asset.AltText,
			"width", intOrNil(asset.File.Width),
			"height", intOrNil(asset.File.Height),
			"data-asset-id", asset.ID,
		)))
	}
}

func intOrNil(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// RenderMarkdown returns the Markdown of an image node, followed by a blank
// line, or "" when the node has no asset id.
func RenderMarkdown(node *model.Node) string {
	id, ok := node.Attrs["id"].(string)
	if !ok {
		return ""
	}
	return imageMarkdownPrefix + id + ")\n\n"
}

func serializeCmsImage(state *markdown.SerializerState, node, _ *model.Node, _ int) {
	md := RenderMarkdown(node)
	if md == "" {
		return
	}
	state.Write(strings.TrimSuffix(md, "\n\n"))
	state.CloseBlock(node)
}

// ImageToken is the image Markdown found at the start of a text.
type ImageToken struct {
	Type string
	Raw  string
	ID   string
}

// ImageTokenStart returns the index of the first image Markdown in src, or
// -1.
func ImageTokenStart(src string) int {
	return strings.Index(src, imageMarkdownPrefix)
}

// TokenizeImage reads the image Markdown at the very start of src. It
// returns nil when src does not start with one.
func TokenizeImage(src string) *ImageToken {
	m := imageTokenRegexp.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	return &ImageToken{Type: "cmsImage", Raw: m[0], ID: m[1]}
}
