package extensions

import (
	"log/slog"

	"github.com/xcms-dev/richtext/markdown"
)

// PasteMarkdownOptions configures PasteMarkdown.
type PasteMarkdownOptions struct {
	// TransformPastedText turns pasted plain text that looks like Markdown
	// into rich content.
	TransformPastedText bool
}

// DefaultPasteMarkdownOptions has the transformation on.
func DefaultPasteMarkdownOptions() PasteMarkdownOptions {
	return PasteMarkdownOptions{TransformPastedText: true}
}

// PasteMarkdown parses pasted plain text as Markdown when it looks like
// Markdown, and inserts the result. In every other case, including a parse
// failure, the paste is left to the default handling.
func PasteMarkdown(opts PasteMarkdownOptions) *Extension {
	return &Extension{
		Name:     "pasteMarkdown",
		Kind:     KindFunctional,
		Priority: DefaultPriority,
		HandlePaste: func(host Host, text string) bool {
			if !opts.TransformPastedText || text == "" || !markdown.LooksLikeMarkdown(text) {
				return false
			}
			md := host.Markdown()
			if md == nil {
				return false
			}
			doc, err := md.ParseMarkdown(text)
			if err != nil {
				logger := host.Logger()
				if logger == nil {
					logger = slog.Default()
				}
				logger.Error("failed to parse pasted markdown", slog.String("error", err.Error()))
				return false
			}
			return host.InsertContent(doc.Content)
		},
	}
}
