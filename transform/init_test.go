package transform

import (
	"github.com/xcms-dev/richtext/test/builder"
)

var (
	schema     = builder.Schema
	doc        = builder.Doc
	blockquote = builder.Blockquote
	h1         = builder.H1
	p          = builder.P
	em         = builder.Em
	strong     = builder.Strong
	code       = builder.Code
	a          = builder.A
	hr         = builder.Hr
	br         = builder.Br
)
