package editor

import (
	"github.com/xcms-dev/richtext/extensions"
)

// GenerateHTML renders a JSON document as HTML, without an editor.
func GenerateHTML(doc map[string]interface{}, exts []*extensions.Extension) (string, error) {
	e, err := New(Config{Extensions: exts, Content: doc})
	if err != nil {
		return "", err
	}
	return e.GetHTML()
}

// GenerateJSON parses HTML into a JSON document.
func GenerateJSON(src string, exts []*extensions.Extension) (map[string]interface{}, error) {
	e, err := New(Config{Extensions: exts, Content: src})
	if err != nil {
		return nil, err
	}
	return e.GetJSON(), nil
}

// GenerateText returns the text of a JSON document.
func GenerateText(doc map[string]interface{}, exts []*extensions.Extension) (string, error) {
	e, err := New(Config{Extensions: exts, Content: doc})
	if err != nil {
		return "", err
	}
	return e.GetText(), nil
}

// GenerateMarkdown writes a JSON document as Markdown.
func GenerateMarkdown(doc map[string]interface{}, exts []*extensions.Extension) (string, error) {
	e, err := New(Config{Extensions: exts, Content: doc})
	if err != nil {
		return "", err
	}
	return e.GetMarkdown(), nil
}

// ParseMarkdown parses Markdown into a JSON document.
func ParseMarkdown(src string, exts []*extensions.Extension) (map[string]interface{}, error) {
	e, err := New(Config{Extensions: exts})
	if err != nil {
		return nil, err
	}
	if err := e.SetMarkdown(src); err != nil {
		return nil, err
	}
	return e.GetJSON(), nil
}
