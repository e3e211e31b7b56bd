package extensions

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xcms-dev/richtext/model"
)

// newSchema builds the schema of the base extensions plus exts.
func newSchema(t *testing.T, exts ...*Extension) *model.Schema {
	t.Helper()
	schema, err := NewSchema(append(BaseExtensions(), exts...))
	require.NoError(t, err)
	return schema
}

func parseHTML(t *testing.T, schema *model.Schema, src string) *model.Node {
	t.Helper()
	parser, err := model.DOMParserFromSchema(schema)
	require.NoError(t, err)
	doc, err := parser.ParseHTML(src)
	require.NoError(t, err)
	return doc
}

func fromJSON(t *testing.T, schema *model.Schema, raw map[string]interface{}) *model.Node {
	t.Helper()
	doc, err := model.NodeFromJSON(schema, raw)
	require.NoError(t, err)
	return doc
}

func renderHTML(t *testing.T, schema *model.Schema, doc *model.Node) string {
	t.Helper()
	out, err := model.DOMSerializerFromSchema(schema).RenderFragment(doc.Content)
	require.NoError(t, err)
	return out
}

func docOf(nodes ...map[string]interface{}) map[string]interface{} {
	content := make([]interface{}, len(nodes))
	for i, n := range nodes {
		content[i] = n
	}
	return map[string]interface{}{"type": "doc", "content": content}
}

type call struct {
	name string
	arg  interface{}
}

// recorder records the primitive commands it gets.
type recorder struct {
	calls  []call
	result bool
	md     MarkdownParser
}

func (r *recorder) SetMark(name string, attrs map[string]interface{}) bool {
	r.calls = append(r.calls, call{"SetMark:" + name, attrs})
	return r.result
}

func (r *recorder) UnsetMark(name string) bool {
	r.calls = append(r.calls, call{"UnsetMark:" + name, nil})
	return r.result
}

func (r *recorder) InsertContent(content interface{}) bool {
	r.calls = append(r.calls, call{"InsertContent", content})
	return r.result
}

func (r *recorder) DeleteNode(name string) bool {
	r.calls = append(r.calls, call{"DeleteNode:" + name, nil})
	return r.result
}

func (r *recorder) UpdateAttributes(name string, attrs map[string]interface{}) bool {
	r.calls = append(r.calls, call{"UpdateAttributes:" + name, attrs})
	return r.result
}

func (r *recorder) Markdown() MarkdownParser {
	return r.md
}

func (r *recorder) Logger() *slog.Logger {
	return slog.Default()
}

type failingParser struct{}

func (failingParser) ParseMarkdown(string) (*model.Node, error) {
	return nil, errors.New("broken")
}

func run(t *testing.T, exts []*Extension, c Commands, name string, args map[string]interface{}) bool {
	t.Helper()
	factory, ok := FindCommand(exts, name)
	require.True(t, ok, "command %s", name)
	return factory(args)(c)
}
