package model_test

import (
	. "github.com/xcms-dev/richtext/model"
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
	em         = builder.Em
	strong     = builder.Strong
	code       = builder.Code
	ul         = builder.Ul
	li         = builder.Li
	br         = builder.Br
	hr         = builder.Hr
	a          = builder.A

	strong2 = schema.Mark("bold")
	em2     = schema.Mark("italic")
	code2   = schema.Mark("code")
	link    = func(href string, title ...string) *Mark {
		attrs := map[string]interface{}{"href": href}
		if len(title) > 0 {
			attrs["class"] = title[0]
		}
		return schema.Mark("link", attrs)
	}
)
