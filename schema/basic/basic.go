// Package basic defines the basic document schema of the editor: the
// document, paragraphs, headings, quotes, code blocks, rules, line breaks,
// and the inline text styles. Its elements are reused by the extensions.
package basic

import (
	"strconv"
	"strings"

	"github.com/xcms-dev/richtext/model"
	"golang.org/x/net/html"
)

var (
	empty      = ""
	underscore = "_"
	falsy      = false
)

// Alignments are the values accepted by the textAlign attribute.
var Alignments = []string{"left", "center", "right", "justify"}

// TextAlignAttr is the textAlign attribute shared by paragraphs and
// headings. It is read from and written to the text-align style.
func TextAlignAttr() *model.AttributeSpec {
	return &model.AttributeSpec{
		Default: nil,
		ParseHTML: func(el *html.Node) interface{} {
			style, _ := model.GetAttribute(el, "style")
			for _, decl := range strings.Split(style, ";") {
				prop, value, ok := strings.Cut(decl, ":")
				if !ok || strings.TrimSpace(prop) != "text-align" {
					continue
				}
				value = strings.TrimSpace(value)
				for _, a := range Alignments {
					if a == value {
						return value
					}
				}
			}
			return nil
		},
		RenderHTML: func(value interface{}) []html.Attribute {
			align, _ := value.(string)
			if align == "" || align == "left" {
				return nil
			}
			return []html.Attribute{{Key: "style", Val: "text-align: " + align}}
		},
	}
}

// HeadingLevels are the heading levels the schema supports.
var HeadingLevels = []int{1, 2, 3, 4, 5, 6}

// Level returns the level of a heading node, 1 when it is not set.
func Level(n model.NodeOrMark) int {
	switch v := n.Attr("level").(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 1
}

func headingRules() []*model.ParseRule {
	rules := make([]*model.ParseRule, len(HeadingLevels))
	for i, level := range HeadingLevels {
		level := level
		rules[i] = &model.ParseRule{
			Tag: "h" + strconv.Itoa(level),
			GetAttrs: func(_ *html.Node, attrs map[string]interface{}) bool {
				attrs["level"] = level
				return true
			},
		}
	}
	return rules
}

func codeLanguage(el *html.Node) interface{} {
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "code" {
			continue
		}
		class, _ := model.GetAttribute(child, "class")
		for _, c := range strings.Fields(class) {
			if lang, ok := strings.CutPrefix(c, "language-"); ok && lang != "" {
				return lang
			}
		}
	}
	return nil
}

// Doc is the top level document node.
func Doc() *model.NodeSpec {
	return &model.NodeSpec{Key: "doc", Content: "block+"}
}

// Paragraph is a plain paragraph textblock, represented in the DOM as a <p>
// element.
func Paragraph() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "paragraph",
		Content:  "inline*",
		Group:    "block",
		Attrs:    map[string]*model.AttributeSpec{"textAlign": TextAlignAttr()},
		ParseDOM: []*model.ParseRule{{Tag: "p"}},
		ToDOM:    model.Tag("p"),
	}
}

// Text is the text node.
func Text() *model.NodeSpec {
	return &model.NodeSpec{Key: "text", Group: "inline"}
}

// Heading is a textblock with a level attribute that should hold the number
// 1 to 6. Parsed and serialized as <h1> to <h6> elements.
func Heading() *model.NodeSpec {
	return &model.NodeSpec{
		Key:     "heading",
		Content: "inline*",
		Group:   "block",
		Attrs: map[string]*model.AttributeSpec{
			"level":     {Default: 1, Hidden: true},
			"textAlign": TextAlignAttr(),
		},
		ParseDOM: headingRules(),
		ToDOM: func(n model.NodeOrMark, attrs []html.Attribute) *html.Node {
			return model.Elem("h"+strconv.Itoa(Level(n)), attrs)
		},
	}
}

// Blockquote wraps one or more blocks in a <blockquote>.
func Blockquote() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "blockquote",
		Content:  "block+",
		Group:    "block",
		ParseDOM: []*model.ParseRule{{Tag: "blockquote"}},
		ToDOM:    model.Tag("blockquote"),
	}
}

// CodeBlock is a code listing. Disallows marks or non-text inline nodes.
// Represented as a <pre> element with a <code> element inside of it, the
// language being the language-* class of the latter.
func CodeBlock() *model.NodeSpec {
	return &model.NodeSpec{
		Key:     "codeBlock",
		Content: "text*",
		Marks:   &empty,
		Group:   "block",
		Code:    true,
		Attrs: map[string]*model.AttributeSpec{
			"language": {
				ParseHTML:  codeLanguage,
				RenderHTML: func(interface{}) []html.Attribute { return nil },
			},
		},
		ParseDOM: []*model.ParseRule{{Tag: "pre"}},
		ToDOM: func(n model.NodeOrMark, attrs []html.Attribute) *html.Node {
			var codeAttrs []html.Attribute
			if lang, ok := n.Attr("language").(string); ok && lang != "" {
				codeAttrs = model.HTMLAttrs("class", "language-"+lang)
			}
			return model.Elem("pre", attrs, model.Elem("code", codeAttrs))
		},
	}
}

// HorizontalRule is a thematic break (<hr>).
func HorizontalRule() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "horizontalRule",
		Group:    "block",
		ParseDOM: []*model.ParseRule{{Tag: "hr"}},
		ToDOM:    model.Tag("hr"),
	}
}

// HardBreak is a hard line break, represented in the DOM as <br>.
func HardBreak() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "hardBreak",
		Inline:   true,
		Group:    "inline",
		ParseDOM: []*model.ParseRule{{Tag: "br"}},
		ToDOM:    model.Tag("br"),
	}
}

func simpleMark(name, tag string, parse ...string) *model.MarkSpec {
	rules := make([]*model.ParseRule, 0, len(parse)+1)
	rules = append(rules, &model.ParseRule{Tag: tag})
	for _, p := range parse {
		rules = append(rules, &model.ParseRule{Tag: p})
	}
	return &model.MarkSpec{Key: name, ParseDOM: rules, ToDOM: model.Tag(tag)}
}

// Bold is rendered as <strong>; <b> is parsed too.
func Bold() *model.MarkSpec { return simpleMark("bold", "strong", "b") }

// Italic is rendered as <em>; <i> is parsed too.
func Italic() *model.MarkSpec { return simpleMark("italic", "em", "i") }

// Strike is rendered as <s>.
func Strike() *model.MarkSpec { return simpleMark("strike", "s", "del", "strike") }

// Underline is rendered as <u>.
func Underline() *model.MarkSpec { return simpleMark("underline", "u") }

// Superscript is rendered as <sup>.
func Superscript() *model.MarkSpec {
	spec := simpleMark("superscript", "sup")
	excl := "superscript subscript"
	spec.Excludes = &excl
	return spec
}

// Subscript is rendered as <sub>.
func Subscript() *model.MarkSpec {
	spec := simpleMark("subscript", "sub")
	excl := "superscript subscript"
	spec.Excludes = &excl
	return spec
}

// Highlight is rendered as <mark>.
func Highlight() *model.MarkSpec { return simpleMark("highlight", "mark") }

// Code font mark, represented as a <code> element. It excludes every other
// mark.
func Code() *model.MarkSpec {
	spec := simpleMark("code", "code")
	spec.Excludes = &underscore
	return spec
}

// Link is a link with href, target and rel attributes, rendered and parsed
// as an <a> element. isAllowed validates hrefs: links whose href it rejects
// are not parsed, and their href is not rendered.
func Link(isAllowed func(href string) bool) *model.MarkSpec {
	if isAllowed == nil {
		isAllowed = func(string) bool { return true }
	}
	return &model.MarkSpec{
		Key: "link",
		Attrs: map[string]*model.AttributeSpec{
			"href": {
				ParseHTML: func(el *html.Node) interface{} { return model.AttributeOrNil(el, "href") },
				RenderHTML: func(value interface{}) []html.Attribute {
					href, _ := value.(string)
					if !isAllowed(href) {
						return nil
					}
					return model.HTMLAttrs("href", href)
				},
			},
			"target": {Default: "_blank"},
			"rel":    {Default: "noopener noreferrer nofollow"},
			"class":  {},
		},
		Inclusive: &falsy,
		ParseDOM: []*model.ParseRule{{
			Tag: "a[href]",
			GetAttrs: func(el *html.Node, _ map[string]interface{}) bool {
				href, _ := model.GetAttribute(el, "href")
				return isAllowed(href)
			},
		}},
		ToDOM: model.Tag("a"),
	}
}

// Nodes are the specs for the nodes defined in this schema.
func Nodes() []*model.NodeSpec {
	return []*model.NodeSpec{
		Doc(), Paragraph(), Text(), Heading(), Blockquote(), CodeBlock(),
		HorizontalRule(), HardBreak(),
	}
}

// Marks are the specs for the marks in the schema. A link accepts every
// href.
func Marks() []*model.MarkSpec {
	return []*model.MarkSpec{
		Link(nil), Bold(), Italic(), Strike(), Code(), Underline(),
		Superscript(), Subscript(), Highlight(),
	}
}

// Schema roughly corresponds to the document schema used by CommonMark,
// minus the list elements, which are defined in the list package.
var Schema, _ = model.NewSchema(&model.SchemaSpec{
	Nodes: Nodes(),
	Marks: Marks(),
})
