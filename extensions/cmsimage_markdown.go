package extensions

import (
	"strings"

	"github.com/xcms-dev/richtext/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// CmsImageBlock is an image Markdown line in the goldmark AST.
type CmsImageBlock struct {
	ast.BaseBlock
	AssetID string
}

// KindCmsImage is the kind of CmsImageBlock nodes.
var KindCmsImage = ast.NewNodeKind("CmsImage")

// Kind implements ast.Node.Kind.
func (n *CmsImageBlock) Kind() ast.NodeKind {
	return KindCmsImage
}

// Dump implements ast.Node.Dump.
func (n *CmsImageBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"AssetID": n.AssetID}, nil)
}

type cmsImageParser struct{}

// Trigger implements parser.BlockParser.
func (p *cmsImageParser) Trigger() []byte {
	return []byte{'!'}
}

// Open implements parser.BlockParser. Only a line holding nothing but the
// image Markdown opens a block; anything else is left to the paragraph
// parser.
func (p *cmsImageParser) Open(_ ast.Node, reader text.Reader, _ parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	trimmed := strings.TrimSpace(string(line))
	if ImageTokenStart(trimmed) != 0 {
		return nil, parser.NoChildren
	}
	token := TokenizeImage(trimmed)
	if token == nil || token.Raw != trimmed {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return &CmsImageBlock{AssetID: token.ID}, parser.NoChildren
}

// Continue implements parser.BlockParser.
func (p *cmsImageParser) Continue(ast.Node, text.Reader, parser.Context) parser.State {
	return parser.Close
}

// Close implements parser.BlockParser.
func (p *cmsImageParser) Close(ast.Node, text.Reader, parser.Context) {}

// CanInterruptParagraph implements parser.BlockParser.
func (p *cmsImageParser) CanInterruptParagraph() bool {
	return true
}

// CanAcceptIndentedLine implements parser.BlockParser.
func (p *cmsImageParser) CanAcceptIndentedLine() bool {
	return false
}

type cmsImageMarkdown struct{}

// Extend implements goldmark.Extender.
func (cmsImageMarkdown) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&cmsImageParser{}, 500),
		),
	)
}

func mapCmsImage(state *markdown.ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	image := node.(*CmsImageBlock)
	_, err := state.AddNode("cmsImage", map[string]interface{}{"id": image.AssetID})
	return ast.WalkSkipChildren, err
}
