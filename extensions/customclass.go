package extensions

import (
	"github.com/xcms-dev/richtext/classname"
	"github.com/xcms-dev/richtext/model"
	"golang.org/x/net/html"
)

// CustomClassPriority places the mark next to the basic text styles.
const CustomClassPriority = 101

// customClassParsePriority is below the priority of styled spans, so that
// only spans carrying just a class become custom class marks.
const customClassParsePriority = 51

// CustomClassOptions configures the CustomClass mark.
type CustomClassOptions struct {
	// HTMLAttributes are added to the rendered span, after the
	// data-custom-class marker.
	HTMLAttributes []html.Attribute
}

// CustomClassMarker is the attribute every custom class span carries.
var CustomClassMarker = html.Attribute{Key: "data-custom-class", Val: "true"}

// CustomClass is a mark that puts user-chosen CSS classes on a run of text,
// rendered as a span. A class value that is not a valid class list is kept
// in the document but never rendered.
func CustomClass(opts ...CustomClassOptions) *Extension {
	attrs := []html.Attribute{CustomClassMarker}
	for _, o := range opts {
		attrs = model.MergeAttributes(attrs, o.HTMLAttributes)
	}
	spec := &model.MarkSpec{
		Key: "customClass",
		Attrs: map[string]*model.AttributeSpec{
			"class": {
				ParseHTML: func(el *html.Node) interface{} {
					return model.AttributeOrNil(el, "class")
				},
				RenderHTML: func(value interface{}) []html.Attribute {
					class, _ := value.(string)
					if !classname.IsValid(class) {
						return nil
					}
					return model.HTMLAttrs("class", class)
				},
			},
		},
		ParseDOM: []*model.ParseRule{{Tag: "span[class]", Priority: customClassParsePriority}},
		ToDOM: func(_ model.NodeOrMark, rendered []html.Attribute) *html.Node {
			return model.Elem("span", model.MergeAttributes(attrs, rendered))
		},
	}
	return &Extension{
		Name:     "customClass",
		Kind:     KindMark,
		Priority: CustomClassPriority,
		Mark:     spec,
		Commands: map[string]CommandFactory{
			"setCustomClass": func(args map[string]interface{}) Command {
				return func(c Commands) bool {
					return c.SetMark("customClass", map[string]interface{}{"class": args["class"]})
				}
			},
			"unsetCustomClass": func(map[string]interface{}) Command {
				return func(c Commands) bool { return c.UnsetMark("customClass") }
			},
		},
	}
}
