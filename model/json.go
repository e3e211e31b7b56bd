package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ToJSON returns a JSON-serializeable representation of this node, in the
// editor shape {type, attrs, content, text, marks}.
func (n *Node) ToJSON() map[string]interface{} {
	obj := map[string]interface{}{"type": n.Type.Name}
	if len(n.Attrs) > 0 {
		attrs := make(map[string]interface{}, len(n.Attrs))
		for k, v := range n.Attrs {
			attrs[k] = v
		}
		obj["attrs"] = attrs
	}
	if n.Content.Size > 0 || len(n.Content.Content) > 0 {
		obj["content"] = n.Content.ToJSON()
	}
	if len(n.Marks) > 0 {
		marks := make([]interface{}, len(n.Marks))
		for i, m := range n.Marks {
			marks[i] = m.ToJSON()
		}
		obj["marks"] = marks
	}
	if n.IsText() {
		obj["text"] = *n.Text
	}
	return obj
}

// ToJSON returns a JSON-serializeable representation of this fragment.
func (f *Fragment) ToJSON() []interface{} {
	content := make([]interface{}, len(f.Content))
	for i, n := range f.Content {
		content[i] = n.ToJSON()
	}
	return content
}

// ToJSON converts this mark to a JSON-serializeable representation.
func (m *Mark) ToJSON() map[string]interface{} {
	obj := map[string]interface{}{"type": m.Type.Name}
	if len(m.Attrs) > 0 {
		obj["attrs"] = m.Attrs
	}
	return obj
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToJSON())
}

// NodeFromJSON deserializes a node from its JSON representation. Missing
// attributes are filled in with the defaults of the node type.
func NodeFromJSON(schema *Schema, raw map[string]interface{}) (*Node, error) {
	if raw == nil {
		return nil, errors.New("invalid input for Node.FromJSON")
	}
	var marks []*Mark
	if rawMarks, ok := raw["marks"]; ok && rawMarks != nil {
		list, ok := rawMarks.([]interface{})
		if !ok {
			return nil, errors.New("invalid mark data for Node.FromJSON")
		}
		for _, rm := range list {
			obj, ok := rm.(map[string]interface{})
			if !ok {
				return nil, errors.New("invalid mark data for Node.FromJSON")
			}
			mark, err := MarkFromJSON(schema, obj)
			if err != nil {
				return nil, err
			}
			marks = append(marks, mark)
		}
	}
	typeName, _ := raw["type"].(string)
	if typeName == "text" {
		text, ok := raw["text"].(string)
		if !ok {
			return nil, errors.New("invalid text node in JSON")
		}
		if text == "" {
			return nil, errors.New("empty text nodes are not allowed")
		}
		return schema.Text(text, marks...), nil
	}
	var content *Fragment
	if rawContent, ok := raw["content"]; ok && rawContent != nil {
		list, ok := rawContent.([]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid content for node %s", typeName)
		}
		var err error
		content, err = FragmentFromJSON(schema, list)
		if err != nil {
			return nil, err
		}
	}
	typ, err := schema.NodeType(typeName)
	if err != nil {
		return nil, err
	}
	attrs, _ := raw["attrs"].(map[string]interface{})
	return typ.Create(attrs, content, marks)
}

// FragmentFromJSON deserializes a fragment from its JSON representation.
func FragmentFromJSON(schema *Schema, value []interface{}) (*Fragment, error) {
	nodes := make([]*Node, 0, len(value))
	for _, v := range value {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.New("invalid input for Fragment.FromJSON")
		}
		node, err := NodeFromJSON(schema, obj)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return NewFragment(nodes), nil
}

// MarkFromJSON deserializes a mark from its JSON representation.
func MarkFromJSON(schema *Schema, raw map[string]interface{}) (*Mark, error) {
	name, _ := raw["type"].(string)
	typ, err := schema.MarkType(name)
	if err != nil {
		return nil, fmt.Errorf("there is no mark type %s in this schema", name)
	}
	attrs, _ := raw["attrs"].(map[string]interface{})
	return typ.Create(attrs), nil
}

// ParseNodeJSON decodes a JSON document and deserializes it as a node.
func ParseNodeJSON(schema *Schema, data []byte) (*Node, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid document JSON: %w", err)
	}
	return NodeFromJSON(schema, raw)
}

func attrsString(attrs map[string]interface{}) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, attrs[k])
	}
	return strings.Join(parts, " ")
}
