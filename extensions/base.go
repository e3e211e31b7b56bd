package extensions

import (
	"net/url"
	"strings"

	"github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/schema/basic"
	"github.com/xcms-dev/richtext/schema/list"
	"github.com/xcms-dev/richtext/schema/table"
)

// LinkPriority puts links first in mark sets, so that they wrap the other
// marks.
const LinkPriority = 1000

// LinkProtocols are the schemes a link may use.
var LinkProtocols = []string{"http", "https"}

// DefaultLinkProtocol is the scheme assumed for hrefs without one.
const DefaultLinkProtocol = "https"

// IsAllowedURI reports whether href may be used by a link. Hrefs without a
// scheme get the default one; the resulting URL needs a host, or an opaque
// part, and a scheme from LinkProtocols.
func IsAllowedURI(href string) bool {
	if !strings.Contains(href, ":") {
		href = DefaultLinkProtocol + "://" + href
	}
	u, err := url.Parse(href)
	if err != nil || (u.Host == "" && u.Opaque == "") {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	for _, p := range LinkProtocols {
		if p == scheme {
			return true
		}
	}
	return false
}

func nodeExtension(spec *model.NodeSpec) *Extension {
	return &Extension{
		Name:     spec.Key,
		Kind:     KindNode,
		Priority: DefaultPriority,
		Node:     spec,
		Markdown: defaultNodeMarkdown(spec.Key),
	}
}

// markExtension registers the set<Command> and unset<Command> commands of a
// mark.
func markExtension(spec *model.MarkSpec, command string) *Extension {
	name := spec.Key
	return &Extension{
		Name:     name,
		Kind:     KindMark,
		Priority: DefaultPriority,
		Mark:     spec,
		Markdown: defaultMarkMarkdown(name),
		Commands: map[string]CommandFactory{
			"set" + command: func(args map[string]interface{}) Command {
				return func(c Commands) bool { return c.SetMark(name, args) }
			},
			"unset" + command: func(map[string]interface{}) Command {
				return func(c Commands) bool { return c.UnsetMark(name) }
			},
		},
	}
}

// Document is the top node.
func Document() *Extension { return nodeExtension(basic.Doc()) }

// Paragraph is the default block.
func Paragraph() *Extension { return nodeExtension(basic.Paragraph()) }

// Text is the text node.
func Text() *Extension { return nodeExtension(basic.Text()) }

// Heading adds headings of level 1 to 6.
func Heading() *Extension { return nodeExtension(basic.Heading()) }

// Blockquote adds block quotes.
func Blockquote() *Extension { return nodeExtension(basic.Blockquote()) }

// CodeBlock adds code blocks with an optional language.
func CodeBlock() *Extension { return nodeExtension(basic.CodeBlock()) }

// HorizontalRule adds thematic breaks.
func HorizontalRule() *Extension { return nodeExtension(basic.HorizontalRule()) }

// HardBreak adds line breaks.
func HardBreak() *Extension { return nodeExtension(basic.HardBreak()) }

// Lists returns the bullet list, ordered list and list item extensions.
func Lists() []*Extension {
	var exts []*Extension
	for _, spec := range list.AddListNodes(nil, "paragraph block*", "block") {
		exts = append(exts, nodeExtension(spec))
	}
	return exts
}

// TableKit returns the table, row, and cell extensions.
func TableKit() []*Extension {
	var exts []*Extension
	for _, spec := range table.AddTableNodes(nil, "block") {
		exts = append(exts, nodeExtension(spec))
	}
	return exts
}

// Bold is the bold mark.
func Bold() *Extension { return markExtension(basic.Bold(), "Bold") }

// Italic is the italic mark.
func Italic() *Extension { return markExtension(basic.Italic(), "Italic") }

// Strike is the strikethrough mark.
func Strike() *Extension { return markExtension(basic.Strike(), "Strike") }

// Code is the inline code mark.
func Code() *Extension { return markExtension(basic.Code(), "Code") }

// Underline is the underline mark.
func Underline() *Extension { return markExtension(basic.Underline(), "Underline") }

// Superscript is the superscript mark.
func Superscript() *Extension { return markExtension(basic.Superscript(), "Superscript") }

// Subscript is the subscript mark.
func Subscript() *Extension { return markExtension(basic.Subscript(), "Subscript") }

// Highlight is the highlight mark.
func Highlight() *Extension { return markExtension(basic.Highlight(), "Highlight") }

// Link is the link mark. Hrefs rejected by IsAllowedURI are neither parsed
// nor rendered, and setLink refuses them.
func Link() *Extension {
	ext := markExtension(basic.Link(IsAllowedURI), "Link")
	ext.Priority = LinkPriority
	set := ext.Commands["setLink"]
	ext.Commands["setLink"] = func(args map[string]interface{}) Command {
		if !IsAllowedURI(stringArg(args, "href")) {
			return func(Commands) bool { return false }
		}
		return set(args)
	}
	return ext
}

// TextAlignTypes are the node types whose alignment can be set.
var TextAlignTypes = []string{"heading", "paragraph"}

// TextAlign adds the setTextAlign and unsetTextAlign commands. The textAlign
// attribute itself is part of the paragraph and heading nodes.
func TextAlign() *Extension {
	update := func(c Commands, value interface{}) bool {
		done := false
		for _, typ := range TextAlignTypes {
			if c.UpdateAttributes(typ, map[string]interface{}{"textAlign": value}) {
				done = true
			}
		}
		return done
	}
	return &Extension{
		Name:     "textAlign",
		Kind:     KindFunctional,
		Priority: DefaultPriority,
		Commands: map[string]CommandFactory{
			"setTextAlign": func(args map[string]interface{}) Command {
				alignment := stringArg(args, "alignment")
				for _, a := range basic.Alignments {
					if a == alignment {
						return func(c Commands) bool { return update(c, alignment) }
					}
				}
				return func(Commands) bool { return false }
			},
			"unsetTextAlign": func(map[string]interface{}) Command {
				return func(c Commands) bool { return update(c, nil) }
			},
		},
	}
}
