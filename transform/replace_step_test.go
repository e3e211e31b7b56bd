package transform

import (
	"testing"

	"github.com/xcms-dev/richtext/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTwice(t *testing.T) {
	yes := func(from1, to1 int, txt1, expected1 string, from2, to2 int, txt2, expected2 string) {
		t.Helper()
		testDoc := doc(p("Numéro")).Node

		step1 := mkStep(from1, to1, txt1)
		result := step1.Apply(testDoc)
		require.Empty(t, result.Failed)
		assert.Equal(t, expected1, result.Doc.TextContent())

		step2 := mkStep(from2, to2, txt2)
		result = step2.Apply(result.Doc)
		require.Empty(t, result.Failed)
		assert.Equal(t, expected2, result.Doc.TextContent())
	}

	// Double backspace
	yes(6, 7, "", "Numér", 5, 6, "", "Numé")

	// An emoji counts as a single position
	yes(2, 2, "👥", "N👥uméro", 3, 3, "🔎", "N👥🔎uméro")
}

func TestReplaceStepApply(t *testing.T) {
	apply := func(d, expected *model.Node, from, to int, nodes ...*model.Node) {
		t.Helper()
		result := NewReplaceStep(from, to, model.NewFragment(nodes)).Apply(d)
		require.Empty(t, result.Failed)
		assert.True(t, result.Doc.Eq(expected), "%s != %s", result.Doc, expected)
	}
	fail := func(d *model.Node, from, to int, nodes ...*model.Node) {
		t.Helper()
		result := NewReplaceStep(from, to, model.NewFragment(nodes)).Apply(d)
		assert.NotEmpty(t, result.Failed)
		assert.Nil(t, result.Doc)
	}

	// replaces text inside a quote
	apply(doc(blockquote(p("hello"))).Node, doc(blockquote(p("hey"))).Node, 4, 7, schema.Text("y"))

	// inserts a block
	apply(doc(p("a"), p("b")).Node, doc(p("a"), hr(), p("b")).Node, 3, 3, hr().Node)

	// keeps the marks of the inserted text
	apply(doc(p("ab")).Node, doc(p("a", strong("x"), "b")).Node, 2, 2, schema.Text("x", schema.Mark("bold")))

	// crosses a node boundary
	fail(doc(p("a"), p("b")).Node, 2, 5)

	// puts a paragraph into a paragraph
	fail(doc(p("a")).Node, 1, 1, p("x").Node)

	// outside of the document
	fail(doc(p("a")).Node, 0, 20)
}
