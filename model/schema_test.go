package model_test

import (
	"testing"

	. "github.com/xcms-dev/richtext/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaNode(t *testing.T) {
	node, err := schema.Node("heading", map[string]interface{}{"level": 2}, []*Node{schema.Text("hi")})
	require.NoError(t, err)
	assert.True(t, node.Eq(h2("hi").Node))

	typ, err := schema.NodeType("paragraph")
	require.NoError(t, err)
	node, err = schema.Node(typ, nil, schema.Text("x"))
	require.NoError(t, err)
	assert.Equal(t, `paragraph("x")`, node.String())

	_, err = schema.Node("nope", nil, nil)
	assert.Error(t, err)

	_, err = schema.Node(42, nil, nil)
	assert.Error(t, err)
}

func TestSchemaDefaults(t *testing.T) {
	typ, err := schema.NodeType("orderedList")
	require.NoError(t, err)
	assert.Equal(t, 1, typ.DefaultAttrs["start"])

	link, err := schema.MarkType("link")
	require.NoError(t, err)
	m := link.Create(map[string]interface{}{"href": "https://example.com"})
	assert.Equal(t, "_blank", m.Attrs["target"])
	assert.Equal(t, "noopener noreferrer nofollow", m.Attrs["rel"])
	assert.Nil(t, m.Attrs["class"])
}

func TestSchemaMarkPanics(t *testing.T) {
	assert.Panics(t, func() { schema.Mark("nope") })
	assert.NotPanics(t, func() { schema.Mark("bold") })
}

func TestMarkExcludes(t *testing.T) {
	markType := func(name string) *MarkType {
		mt, err := schema.MarkType(name)
		require.NoError(t, err)
		return mt
	}
	assert.True(t, markType("bold").Excludes(markType("bold")))
	assert.False(t, markType("bold").Excludes(markType("italic")))
	assert.True(t, markType("code").Excludes(markType("link")))
	assert.True(t, markType("superscript").Excludes(markType("subscript")))
	assert.True(t, markType("subscript").Excludes(markType("superscript")))
}
