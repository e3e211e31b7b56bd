package extensions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func customClassDoc(class interface{}) map[string]interface{} {
	return docOf(map[string]interface{}{
		"type": "paragraph",
		"content": []interface{}{map[string]interface{}{
			"type":  "text",
			"text":  "テキスト",
			"marks": []interface{}{map[string]interface{}{"type": "customClass", "attrs": map[string]interface{}{"class": class}}},
		}},
	})
}

func TestCustomClassParse(t *testing.T) {
	schema := newSchema(t, CustomClass())

	for _, class := range []string{"custom-highlight", "custom-highlight another-class"} {
		doc := parseHTML(t, schema, `<p><span class="`+class+`">テキスト</span></p>`)
		text := doc.FirstChild().FirstChild()
		require.NotNil(t, text)
		assert.Equal(t, []interface{}{
			map[string]interface{}{"type": "customClass", "attrs": map[string]interface{}{"class": class}},
		}, text.ToJSON()["marks"])
	}

	doc := parseHTML(t, schema, `<p><span>テキスト</span></p>`)
	assert.Equal(t, map[string]interface{}{"type": "text", "text": "テキスト"}, doc.FirstChild().FirstChild().ToJSON())
}

func TestCustomClassRender(t *testing.T) {
	schema := newSchema(t, CustomClass())
	tests := []struct {
		class interface{}
		want  string
	}{
		{"custom-highlight", `<p><span data-custom-class="true" class="custom-highlight">テキスト</span></p>`},
		{"my-class another-class", `<p><span data-custom-class="true" class="my-class another-class">テキスト</span></p>`},
		{nil, `<p><span data-custom-class="true">テキスト</span></p>`},
		{"MyClass", `<p><span data-custom-class="true">テキスト</span></p>`},
		{" my-class", `<p><span data-custom-class="true">テキスト</span></p>`},
		{"my-class ", `<p><span data-custom-class="true">テキスト</span></p>`},
		{"my-class  other", `<p><span data-custom-class="true">テキスト</span></p>`},
		{"1abc", `<p><span data-custom-class="true">テキスト</span></p>`},
		{`a" onclick="x`, `<p><span data-custom-class="true">テキスト</span></p>`},
	}
	for _, tt := range tests {
		doc := fromJSON(t, schema, customClassDoc(tt.class))
		assert.Equal(t, tt.want, renderHTML(t, schema, doc), "class %v", tt.class)
	}
}

func TestCustomClassKeepsInvalidValue(t *testing.T) {
	schema := newSchema(t, CustomClass())
	doc := fromJSON(t, schema, customClassDoc("MyClass"))
	mark := doc.FirstChild().FirstChild().Marks[0]
	assert.Equal(t, "MyClass", mark.Attrs["class"])
}

func TestCustomClassOptions(t *testing.T) {
	ext := CustomClass(CustomClassOptions{
		HTMLAttributes: []html.Attribute{{Key: "data-custom", Val: "yes"}},
	})
	schema := newSchema(t, ext)
	doc := fromJSON(t, schema, customClassDoc("note"))
	assert.Equal(t,
		`<p><span data-custom-class="true" data-custom="yes" class="note">テキスト</span></p>`,
		renderHTML(t, schema, doc))
}

func TestCustomClassSpanWithOtherMarks(t *testing.T) {
	schema := newSchema(t, CustomClass())
	doc := parseHTML(t, schema, `<p><strong><span class="note">a</span></strong></p>`)
	text := doc.FirstChild().FirstChild()
	require.Len(t, text.Marks, 2)
	assert.Equal(t, "customClass", text.Marks[0].Type.Name)
	assert.Equal(t, "bold", text.Marks[1].Type.Name)
}

func TestCustomClassCommands(t *testing.T) {
	exts := []*Extension{CustomClass()}
	rec := &recorder{result: true}

	assert.True(t, run(t, exts, rec, "setCustomClass", map[string]interface{}{"class": "my-class"}))
	assert.True(t, run(t, exts, rec, "unsetCustomClass", nil))
	assert.Equal(t, []call{
		{"SetMark:customClass", map[string]interface{}{"class": "my-class"}},
		{"UnsetMark:customClass", nil},
	}, rec.calls)
}

func TestCustomClassExtension(t *testing.T) {
	ext := CustomClass()
	assert.Equal(t, "customClass", ext.Name)
	assert.Equal(t, KindMark, ext.Kind)
	assert.Equal(t, 101, ext.Priority)
	require.Len(t, ext.Mark.ParseDOM, 1)
	assert.Equal(t, "span[class]", ext.Mark.ParseDOM[0].Tag)
	assert.Equal(t, 51, ext.Mark.ParseDOM[0].Priority)
}
