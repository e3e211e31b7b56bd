package extensions

import "fmt"

// Option names a feature of the editor, as shown in its toolbar.
type Option string

// Node options.
const (
	OptionParagraph      Option = "paragraph"
	OptionH1             Option = "h1"
	OptionH2             Option = "h2"
	OptionH3             Option = "h3"
	OptionH4             Option = "h4"
	OptionH5             Option = "h5"
	OptionH6             Option = "h6"
	OptionBulletList     Option = "bullet-list"
	OptionOrderedList    Option = "ordered-list"
	OptionCodeBlock      Option = "code-block"
	OptionBlockquote     Option = "blockquote"
	OptionHorizontalRule Option = "horizontal-rule"
	OptionImage          Option = "image"
	OptionTable          Option = "table"
)

// Mark options.
const (
	OptionBold        Option = "bold"
	OptionItalic      Option = "italic"
	OptionStrike      Option = "strike"
	OptionCode        Option = "code"
	OptionUnderline   Option = "underline"
	OptionLink        Option = "link"
	OptionSuperscript Option = "superscript"
	OptionSubscript   Option = "subscript"
	OptionHighlight   Option = "highlight"
	OptionCustomClass Option = "custom-class"
)

// Functional options.
const (
	OptionTextAlign    Option = "text-align"
	OptionAIGeneration Option = "ai-generation"
	OptionEmbed        Option = "embed"
)

// System options.
const (
	OptionUndo          Option = "undo"
	OptionRedo          Option = "redo"
	OptionUnsetAllMarks Option = "unset-all-marks"
)

var allOptions = []Option{
	OptionParagraph, OptionH1, OptionH2, OptionH3, OptionH4, OptionH5, OptionH6,
	OptionBulletList, OptionOrderedList, OptionCodeBlock, OptionBlockquote,
	OptionHorizontalRule, OptionImage, OptionTable,
	OptionBold, OptionItalic, OptionStrike, OptionCode, OptionUnderline,
	OptionLink, OptionSuperscript, OptionSubscript, OptionHighlight,
	OptionCustomClass,
	OptionTextAlign, OptionAIGeneration, OptionEmbed,
	OptionUndo, OptionRedo, OptionUnsetAllMarks,
}

// AllOptions lists every option, in toolbar order.
func AllOptions() []Option {
	return append([]Option(nil), allOptions...)
}

// ParseOption returns the option with the given name.
func ParseOption(s string) (Option, error) {
	for _, o := range allOptions {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown editor option %q", s)
}

// optionExtensions maps options to the extension providing them. Options
// that are not backed by an extension of this package are left out.
var optionExtensions = map[Option]string{
	OptionParagraph:      "paragraph",
	OptionH1:             "heading",
	OptionH2:             "heading",
	OptionH3:             "heading",
	OptionH4:             "heading",
	OptionH5:             "heading",
	OptionH6:             "heading",
	OptionBulletList:     "bulletList",
	OptionOrderedList:    "orderedList",
	OptionCodeBlock:      "codeBlock",
	OptionBlockquote:     "blockquote",
	OptionHorizontalRule: "horizontalRule",
	OptionImage:          "cmsImage",
	OptionTable:          "table",
	OptionBold:           "bold",
	OptionItalic:         "italic",
	OptionStrike:         "strike",
	OptionCode:           "code",
	OptionUnderline:      "underline",
	OptionLink:           "link",
	OptionSuperscript:    "superscript",
	OptionSubscript:      "subscript",
	OptionHighlight:      "highlight",
	OptionCustomClass:    "customClass",
	OptionTextAlign:      "textAlign",
	OptionEmbed:          "embed",
}

// Extension returns the name of the extension providing the option, or ""
// when the option is handled outside of the document (like undo).
func (o Option) Extension() string {
	return optionExtensions[o]
}

// Unsupported returns the options that need an extension missing from exts.
func Unsupported(exts []*Extension, opts []Option) []Option {
	var missing []Option
	for _, o := range opts {
		if name := o.Extension(); name != "" && Find(exts, name) == nil {
			missing = append(missing, o)
		}
	}
	return missing
}
