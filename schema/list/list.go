// Package list exports list-related schema elements. Lists are nestable, with
// the restriction that the first child of a list item is a plain paragraph.
package list

import (
	"github.com/xcms-dev/richtext/model"
	"golang.org/x/net/html"
)

// OrderedList is an ordered list node spec. Has a start attribute, which
// determines the number at which the list starts counting, and defaults to
// 1. Represented as an <ol> element.
func OrderedList() *model.NodeSpec {
	return &model.NodeSpec{
		Key: "orderedList",
		Attrs: map[string]*model.AttributeSpec{
			"start": {
				Default: 1,
				RenderHTML: func(value interface{}) []html.Attribute {
					if s, ok := model.AttrString(value); !ok || s == "1" {
						return nil
					}
					return model.HTMLAttrs("start", value)
				},
			},
			"type": {},
		},
		ParseDOM: []*model.ParseRule{{Tag: "ol"}},
		ToDOM:    model.Tag("ol"),
	}
}

// BulletList is a bullet list node spec, represented in the DOM as <ul>.
func BulletList() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "bulletList",
		ParseDOM: []*model.ParseRule{{Tag: "ul"}},
		ToDOM:    model.Tag("ul"),
	}
}

// ListItem is a list item (<li>) spec.
func ListItem() *model.NodeSpec {
	return &model.NodeSpec{
		Key:      "listItem",
		ParseDOM: []*model.ParseRule{{Tag: "li"}},
		ToDOM:    model.Tag("li"),
	}
}

func add(obj *model.NodeSpec, content, group string) *model.NodeSpec {
	if content != "" {
		obj.Content = content
	}
	if group != "" {
		obj.Group = group
	}
	return obj
}

// AddListNodes is a convenience function for adding list-related node types
// to a list of node specs. Adds OrderedList as "orderedList", BulletList as
// "bulletList", and ListItem as "listItem".
//
// itemContent determines the content expression for the list items, like
// "paragraph block*". listGroup can be given to assign a group name to the
// list node types, for example "block".
func AddListNodes(nodes []*model.NodeSpec, itemContent, listGroup string) []*model.NodeSpec {
	return append(
		nodes,
		add(BulletList(), "listItem+", listGroup),
		add(OrderedList(), "listItem+", listGroup),
		add(ListItem(), itemContent, ""),
	)
}
