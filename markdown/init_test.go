package markdown

import (
	"github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/test/builder"
)

var (
	schema     = builder.Schema
	doc        = builder.Doc
	blockquote = builder.Blockquote
	h1         = builder.H1
	h2         = builder.H2
	p          = builder.P
	pre        = builder.Pre
	ul         = builder.Ul
	ol         = builder.Ol
	li         = builder.Li
	br         = builder.Br
	hr         = builder.Hr
	table      = builder.Table
	tr         = builder.Tr
	td         = builder.Td
	th         = builder.Th
	em         = builder.Em
	strong     = builder.Strong
	code       = builder.Code
	strike     = builder.Strike
)

func link(href string, args ...interface{}) builder.Flat {
	return builder.A(append([]interface{}{map[string]interface{}{"href": href}}, args...)...)
}

func marked(text string, names ...string) builder.NodeWithTag {
	marks := make([]*model.Mark, len(names))
	for i, name := range names {
		marks[i] = schema.Mark(name)
	}
	return builder.NodeWithTag{Node: schema.Text(text, marks...)}
}
