package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcms-dev/richtext/model"
)

const jsonSpec = `
{
  "nodes": [
    ["doc", { "content": "block+" }],
    ["paragraph", { "content": "inline*", "group": "block" }],
    ["blockquote", { "content": "block+", "group": "block" }],
    ["horizontalRule", { "group": "block" }],
    [
      "heading",
      {
        "content": "inline*",
        "group": "block",
        "attrs": { "level": { "default": 1 } }
      }
    ],
    ["codeBlock", { "content": "text*", "marks": "", "group": "block" }],
    ["text", { "group": "inline" }],
    ["hardBreak", { "group": "inline", "inline": true }],
    [
      "orderedList",
      {
        "content": "listItem+",
        "group": "block",
        "attrs": { "start": { "default": 1 } }
      }
    ],
    ["bulletList", { "content": "listItem+", "group": "block" }],
    ["listItem", { "content": "paragraph block*" }]
  ],
  "marks": [
    ["link", { "attrs": { "href": {}, "target": { "default": "_blank" } }, "inclusive": false }],
    ["bold", {}],
    ["italic", {}],
    ["code", { "excludes": "_" }]
  ],
  "topNode": "doc"
}`

func TestJSONSchemaSpec(t *testing.T) {
	var spec model.SchemaSpec
	require.NoError(t, json.Unmarshal([]byte(jsonSpec), &spec))
	require.Len(t, spec.Nodes, 11)
	assert.Equal(t, "doc", spec.Nodes[0].Key)
	assert.Equal(t, "listItem", spec.Nodes[10].Key)
	require.NotNil(t, spec.Nodes[5].Marks)
	assert.Equal(t, "", *spec.Nodes[5].Marks)

	schema, err := model.NewSchema(&spec)
	require.NoError(t, err)
	typ, err := schema.NodeType(schema.Spec.TopNode)
	require.NoError(t, err)
	node, err := typ.CreateAndFill()
	require.NoError(t, err)
	result, err := json.Marshal(node)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doc","content":[{"type":"paragraph"}]}`, string(result))
}

func TestJSONNodeRoundTrip(t *testing.T) {
	var spec model.SchemaSpec
	require.NoError(t, json.Unmarshal([]byte(jsonSpec), &spec))
	schema, err := model.NewSchema(&spec)
	require.NoError(t, err)

	src := `{
	  "type": "doc",
	  "content": [
	    {"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Title"}]},
	    {"type": "paragraph", "content": [
	      {"type": "text", "text": "see "},
	      {"type": "text", "text": "here", "marks": [{"type": "link", "attrs": {"href": "https://example.com"}}]},
	      {"type": "hardBreak"}
	    ]}
	  ]
	}`
	node, err := model.ParseNodeJSON(schema, []byte(src))
	require.NoError(t, err)
	assert.Equal(t, `doc(heading("Title"), paragraph("see ", link("here"), hardBreak))`, node.String())

	// missing attributes get their defaults
	link := node.Content.Content[1].Content.Content[1].Marks[0]
	assert.Equal(t, "_blank", link.Attrs["target"])

	out, err := json.Marshal(node)
	require.NoError(t, err)
	again, err := model.ParseNodeJSON(schema, out)
	require.NoError(t, err)
	assert.True(t, node.Eq(again))
}

func TestJSONErrors(t *testing.T) {
	var spec model.SchemaSpec
	require.NoError(t, json.Unmarshal([]byte(jsonSpec), &spec))
	schema, err := model.NewSchema(&spec)
	require.NoError(t, err)

	_, err = model.ParseNodeJSON(schema, []byte(`{"type": "nope"}`))
	assert.Error(t, err)

	_, err = model.ParseNodeJSON(schema, []byte(`{"type": "doc", "content": [{"type": "text", "text": ""}]}`))
	assert.Error(t, err)

	_, err = model.ParseNodeJSON(schema, []byte(`{"type": "doc", "content": [{"type": "paragraph", "marks": [{"type": "nope"}]}]}`))
	assert.Error(t, err)

	_, err = model.ParseNodeJSON(schema, []byte(`not json`))
	assert.Error(t, err)
}
