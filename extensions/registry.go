package extensions

import "github.com/xcms-dev/richtext/model"

// BaseExtensions returns the base node and mark set of the editor, with
// pasted Markdown turned into rich content.
func BaseExtensions() []*Extension {
	return baseExtensions(DefaultPasteMarkdownOptions())
}

func baseExtensions(paste PasteMarkdownOptions) []*Extension {
	exts := []*Extension{
		Document(), Paragraph(), Text(), Heading(), Blockquote(), CodeBlock(),
		HorizontalRule(), HardBreak(),
	}
	exts = append(exts, Lists()...)
	exts = append(exts, TableKit()...)
	return append(exts,
		Bold(), Italic(), Strike(), Code(), Underline(), Link(),
		Superscript(), Subscript(), Highlight(),
		TextAlign(),
		PasteMarkdown(paste),
	)
}

// BuildConfig configures the extensions built by Build.
type BuildConfig struct {
	ResolveAsset  ResolveAssetFunc
	EmbedRenderer model.ToDOM
	ImageRenderer model.ToDOM
	// PasteMarkdown defaults to DefaultPasteMarkdownOptions.
	PasteMarkdown *PasteMarkdownOptions
	CustomClass   CustomClassOptions
}

// Build returns the full extension set of the CMS editor: the base
// extensions, custom classes, asset images, and embeds.
func Build(cfg BuildConfig) []*Extension {
	paste := DefaultPasteMarkdownOptions()
	if cfg.PasteMarkdown != nil {
		paste = *cfg.PasteMarkdown
	}
	return append(baseExtensions(paste),
		CustomClass(cfg.CustomClass),
		GenerateCmsImage(CmsImageConfig{ResolveAsset: cfg.ResolveAsset, ImageRenderer: cfg.ImageRenderer}),
		GenerateCmsEmbed(CmsEmbedConfig{Renderer: cfg.EmbedRenderer}),
	)
}
