package transform

import (
	"errors"

	"github.com/xcms-dev/richtext/model"
)

// SetAttrsStep changes the attributes of the node at a position. Attributes
// that are not given keep their value.
type SetAttrsStep struct {
	Pos   int
	Attrs map[string]interface{}
}

// NewSetAttrsStep is a constructor for SetAttrsStep
func NewSetAttrsStep(pos int, attrs map[string]interface{}) *SetAttrsStep {
	return &SetAttrsStep{Pos: pos, Attrs: attrs}
}

// Apply is a method of the Step interface.
func (s *SetAttrsStep) Apply(doc *model.Node) StepResult {
	target := doc.NodeAt(s.Pos)
	if target == nil {
		return Fail("No node at given position")
	}
	if target.IsText() {
		return Fail("Cannot set the attributes of a text node")
	}
	attrs := map[string]interface{}{}
	for k, v := range target.Attrs {
		attrs[k] = v
	}
	for k, v := range s.Attrs {
		attrs[k] = v
	}
	updated, err := target.Type.Create(attrs, target.Content, target.Marks)
	if err != nil {
		return Fail(err.Error())
	}
	return FromReplace(doc, s.Pos, s.Pos+target.NodeSize(), model.NewFragment([]*model.Node{updated}))
}

// GetMap is a method of the Step interface.
func (s *SetAttrsStep) GetMap() *StepMap {
	return EmptyStepMap
}

// Invert is a method of the Step interface.
func (s *SetAttrsStep) Invert(doc *model.Node) Step {
	var attrs map[string]interface{}
	if target := doc.NodeAt(s.Pos); target != nil {
		attrs = target.Attrs
	}
	return NewSetAttrsStep(s.Pos, attrs)
}

// Map is a method of the Step interface.
func (s *SetAttrsStep) Map(mapping Mappable) Step {
	result := mapping.MapResult(s.Pos, 1)
	if result.Deleted {
		return nil
	}
	return NewSetAttrsStep(result.Pos, s.Attrs)
}

// Merge is a method of the Step interface.
func (s *SetAttrsStep) Merge(Step) (Step, bool) {
	return nil, false
}

// ToJSON is a method of the Step interface.
func (s *SetAttrsStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "setAttrs",
		"pos":      s.Pos,
		"attrs":    s.Attrs,
	}
}

// SetAttrsStepFromJSON builds a SetAttrsStep from a JSON representation.
func SetAttrsStepFromJSON(_ *model.Schema, obj map[string]interface{}) (Step, error) {
	attrs, ok := obj["attrs"].(map[string]interface{})
	if !ok {
		return nil, errors.New("invalid attrs in step JSON")
	}
	pos, err := intField(obj, "pos")
	if err != nil {
		return nil, err
	}
	return NewSetAttrsStep(pos, attrs), nil
}

var _ Step = &SetAttrsStep{}
