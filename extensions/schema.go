package extensions

import (
	"fmt"

	"github.com/xcms-dev/richtext/model"
)

// NewSchema builds the schema of the node and mark extensions. Types come in
// priority order, which decides the default block of a group and the order
// of marks in a set.
func NewSchema(exts []*Extension) (*model.Schema, error) {
	spec := &model.SchemaSpec{}
	for _, ext := range Sorted(exts) {
		switch ext.Kind {
		case KindNode:
			if ext.Node == nil {
				return nil, fmt.Errorf("node extension %s has no node spec", ext.Name)
			}
			spec.Nodes = append(spec.Nodes, ext.Node)
		case KindMark:
			if ext.Mark == nil {
				return nil, fmt.Errorf("mark extension %s has no mark spec", ext.Name)
			}
			spec.Marks = append(spec.Marks, ext.Mark)
		}
	}
	schema, err := model.NewSchema(spec)
	if err != nil {
		return nil, fmt.Errorf("cannot build schema: %w", err)
	}
	return schema, nil
}
