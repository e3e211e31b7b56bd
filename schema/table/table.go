// Package table exports the table-related schema elements: tables made of
// rows, which hold header and data cells.
package table

import (
	"strconv"
	"strings"

	"github.com/xcms-dev/richtext/model"
	"golang.org/x/net/html"
)

func spanAttr(name string) *model.AttributeSpec {
	return &model.AttributeSpec{
		Default: 1,
		ParseHTML: func(el *html.Node) interface{} {
			v, ok := model.GetAttribute(el, name)
			if !ok {
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil
			}
			return n
		},
		RenderHTML: func(value interface{}) []html.Attribute {
			if s, ok := model.AttrString(value); !ok || s == "1" {
				return nil
			}
			return model.HTMLAttrs(name, value)
		},
	}
}

func cellAttrs() map[string]*model.AttributeSpec {
	return map[string]*model.AttributeSpec{
		"colspan": spanAttr("colspan"),
		"rowspan": spanAttr("rowspan"),
		"colwidth": {
			ParseHTML: func(el *html.Node) interface{} {
				v, ok := model.GetAttribute(el, "colwidth")
				if !ok {
					return nil
				}
				var widths []interface{}
				for _, w := range strings.Split(v, ",") {
					n, err := strconv.Atoi(strings.TrimSpace(w))
					if err != nil {
						return nil
					}
					widths = append(widths, n)
				}
				return widths
			},
			RenderHTML: func(value interface{}) []html.Attribute {
				widths, ok := value.([]interface{})
				if !ok || len(widths) == 0 {
					return nil
				}
				parts := make([]string, 0, len(widths))
				for _, w := range widths {
					s, _ := model.AttrString(w)
					parts = append(parts, s)
				}
				return model.HTMLAttrs("colwidth", strings.Join(parts, ","))
			},
		},
	}
}

// Table is a table (<table>) holding rows. Rows are rendered inside a
// <tbody>.
func Table() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "table",
		Content:  "tableRow+",
		Group:    "block",
		ParseDOM: []*model.ParseRule{{Tag: "table"}},
		ToDOM: func(_ model.NodeOrMark, attrs []html.Attribute) *html.Node {
			return model.Elem("table", attrs, model.Elem("tbody", nil))
		},
	}
}

// TableRow is a row (<tr>) of header and data cells.
func TableRow() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "tableRow",
		Content:  "(tableCell | tableHeader)*",
		ParseDOM: []*model.ParseRule{{Tag: "tr"}},
		ToDOM:    model.Tag("tr"),
	}
}

// TableCell is a data cell (<td>) holding blocks.
func TableCell() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "tableCell",
		Content:  "block+",
		Attrs:    cellAttrs(),
		ParseDOM: []*model.ParseRule{{Tag: "td"}},
		ToDOM:    model.Tag("td"),
	}
}

// TableHeader is a header cell (<th>) holding blocks.
func TableHeader() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "tableHeader",
		Content:  "block+",
		Attrs:    cellAttrs(),
		ParseDOM: []*model.ParseRule{{Tag: "th"}},
		ToDOM:    model.Tag("th"),
	}
}

// AddTableNodes appends the table node types to a list of node specs. The
// table joins tableGroup, usually "block".
func AddTableNodes(nodes []*model.NodeSpec, tableGroup string) []*model.NodeSpec {
	table := Table()
	table.Group = tableGroup
	return append(nodes, table, TableRow(), TableCell(), TableHeader())
}
