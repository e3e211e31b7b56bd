package extensions

import (
	"github.com/xcms-dev/richtext/markdown"
	"github.com/xcms-dev/richtext/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

// MarkdownSpec is the Markdown support of an extension: how its node or
// mark is written, and how the goldmark parser is extended to read it back.
type MarkdownSpec struct {
	Node      markdown.NodeSerializerFunc
	Mark      *markdown.MarkSerializerSpec
	Extenders []goldmark.Extender
	Mapper    markdown.NodeMapper
}

// MarkdownCodec converts documents of a schema to and from Markdown, using
// the Markdown support of a set of extensions.
type MarkdownCodec struct {
	Schema     *model.Schema
	Serializer *markdown.Serializer
	Parser     parser.Parser
	Mapper     markdown.NodeMapper
}

// NewMarkdownCodec collects the Markdown support of the extensions.
// Extensions without one have their content written as plain text.
func NewMarkdownCodec(schema *model.Schema, exts []*Extension) *MarkdownCodec {
	nodes := map[string]markdown.NodeSerializerFunc{}
	marks := map[string]markdown.MarkSerializerSpec{}
	mapper := markdown.DefaultNodeMapper
	var extenders []goldmark.Extender
	for _, ext := range Sorted(exts) {
		md := ext.Markdown
		if md == nil {
			continue
		}
		if md.Node != nil {
			nodes[ext.Name] = md.Node
		}
		if md.Mark != nil {
			marks[ext.Name] = *md.Mark
		}
		extenders = append(extenders, md.Extenders...)
		if md.Mapper != nil {
			mapper = mapper.With(md.Mapper)
		}
	}
	return &MarkdownCodec{
		Schema:     schema,
		Serializer: markdown.NewSerializer(nodes, marks),
		Parser:     markdown.NewParser(extenders...),
		Mapper:     mapper,
	}
}

// Serialize writes a document as Markdown.
func (c *MarkdownCodec) Serialize(doc *model.Node) string {
	return c.Serializer.Serialize(doc)
}

// ParseMarkdown parses Markdown into a document.
func (c *MarkdownCodec) ParseMarkdown(src string) (*model.Node, error) {
	return markdown.ParseMarkdown(c.Parser, c.Mapper, []byte(src), c.Schema)
}

func defaultNodeMarkdown(name string) *MarkdownSpec {
	if fn, ok := markdown.DefaultNodes[name]; ok {
		return &MarkdownSpec{Node: fn}
	}
	return nil
}

func defaultMarkMarkdown(name string) *MarkdownSpec {
	if spec, ok := markdown.DefaultMarks[name]; ok {
		return &MarkdownSpec{Mark: &spec}
	}
	return nil
}
