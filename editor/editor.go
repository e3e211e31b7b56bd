// Package editor hosts documents edited with a set of extensions. It builds
// the schema, the HTML and Markdown codecs from the extension records, keeps
// the current document and selection, and runs the extension commands,
// input rules, and paste handlers against them.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xcms-dev/richtext/extensions"
	"github.com/xcms-dev/richtext/model"
)

// Config configures a new editor.
type Config struct {
	// Extensions defaults to the full CMS set of extensions.Build.
	Extensions []*extensions.Extension
	// Content is the initial document. See SetContent.
	Content interface{}
	Logger  *slog.Logger
}

// Editor holds a document and the selection in it.
type Editor struct {
	extensions []*extensions.Extension
	schema     *model.Schema
	parser     *model.DOMParser
	serializer *model.DOMSerializer
	view       *model.DOMSerializer
	markdown   *extensions.MarkdownCodec
	logger     *slog.Logger

	doc       *model.Node
	selection Selection
}

var _ extensions.Host = (*Editor)(nil)

// New creates an editor.
func New(cfg Config) (*Editor, error) {
	exts := cfg.Extensions
	if exts == nil {
		exts = extensions.Build(extensions.BuildConfig{})
	}
	exts = extensions.Sorted(exts)
	schema, err := extensions.NewSchema(exts)
	if err != nil {
		return nil, err
	}
	parser, err := model.DOMParserFromSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("cannot build HTML parser: %w", err)
	}
	serializer := model.DOMSerializerFromSchema(schema)
	views := map[string]model.ToDOM{}
	for _, ext := range exts {
		if ext.Kind == extensions.KindNode && ext.NodeView != nil {
			views[ext.Name] = ext.NodeView
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Editor{
		extensions: exts,
		schema:     schema,
		parser:     parser,
		serializer: serializer,
		view:       serializer.WithNodes(views),
		markdown:   extensions.NewMarkdownCodec(schema, exts),
		logger:     logger,
	}
	if err := e.SetContent(cfg.Content); err != nil {
		return nil, err
	}
	return e, nil
}

// SetContent replaces the document and puts the cursor at its start.
// content may be nil (an empty document), a document node, a JSON object
// (as a map or as encoded bytes), or an HTML string.
func (e *Editor) SetContent(content interface{}) error {
	doc, err := e.createDocument(content)
	if err != nil {
		return fmt.Errorf("invalid content: %w", err)
	}
	if doc.ChildCount() == 0 {
		if doc, err = e.schema.TopNodeType.CreateAndFill(); err != nil {
			return err
		}
	}
	e.doc = doc
	e.selection = atStart(doc)
	return nil
}

// SetMarkdown replaces the document with parsed Markdown.
func (e *Editor) SetMarkdown(src string) error {
	doc, err := e.markdown.ParseMarkdown(src)
	if err != nil {
		return err
	}
	return e.SetContent(doc)
}

func (e *Editor) createDocument(content interface{}) (*model.Node, error) {
	switch c := content.(type) {
	case nil:
		return e.schema.TopNodeType.CreateAndFill()
	case *model.Node:
		if c.Type.Schema != e.schema {
			return nil, errors.New("document from another schema")
		}
		return c, nil
	case map[string]interface{}:
		return model.NodeFromJSON(e.schema, c)
	case []byte:
		return model.ParseNodeJSON(e.schema, c)
	case string:
		return e.parser.ParseHTML(c)
	}
	return nil, fmt.Errorf("unsupported content of type %T", content)
}

// Doc returns the current document.
func (e *Editor) Doc() *model.Node { return e.doc }

// Schema returns the schema built from the extensions.
func (e *Editor) Schema() *model.Schema { return e.schema }

// Extensions returns the extensions of the editor, by descending priority.
func (e *Editor) Extensions() []*extensions.Extension { return e.extensions }

// Selection returns the current selection.
func (e *Editor) Selection() Selection { return e.selection }

// SetTextSelection selects the range between from and to. Positions out of
// the document are clamped.
func (e *Editor) SetTextSelection(from, to int) {
	e.selection = Selection{From: from, To: to}.clamp(e.doc)
}

// GetJSON returns the document in its JSON shape.
func (e *Editor) GetJSON() map[string]interface{} {
	return e.doc.ToJSON()
}

// GetHTML renders the document as HTML.
func (e *Editor) GetHTML() (string, error) {
	return e.serializer.RenderFragment(e.doc.Content)
}

// ViewHTML renders the document as the editing surface shows it, with the
// node views of the extensions.
func (e *Editor) ViewHTML() (string, error) {
	return e.view.RenderFragment(e.doc.Content)
}

// GetText returns the text of the document, with blocks separated by blank
// lines.
func (e *Editor) GetText() string {
	return textOf(e.doc, "\n\n")
}

// GetMarkdown writes the document as Markdown.
func (e *Editor) GetMarkdown() string {
	return e.markdown.Serialize(e.doc)
}

// Markdown returns the Markdown parser of the editor.
func (e *Editor) Markdown() extensions.MarkdownParser {
	return e.markdown
}

// Logger returns the logger of the editor.
func (e *Editor) Logger() *slog.Logger {
	return e.logger
}

func textOf(doc *model.Node, separator string) string {
	var text strings.Builder
	separated := true
	doc.Descendants(func(node *model.Node, _ int, _ *model.Node, _ int) bool {
		switch {
		case node.IsText():
			text.WriteString(*node.Text)
			separated = false
		case node.Type.Name == "hardBreak":
			text.WriteString("\n")
			separated = false
		case node.IsBlock() && !separated:
			text.WriteString(separator)
			separated = true
		}
		return true
	})
	return text.String()
}
