package transform

import (
	"github.com/xcms-dev/richtext/model"
)

// ReplaceStep replaces a range of the document with a fragment of new
// content. Both ends of the range must sit in the same parent node: the step
// can split text, but fails when the range crosses a node boundary.
type ReplaceStep struct {
	From    int
	To      int
	Content *model.Fragment
}

// NewReplaceStep is the constructor of ReplaceStep. A nil content deletes
// the range.
func NewReplaceStep(from, to int, content *model.Fragment) *ReplaceStep {
	if content == nil {
		content = model.EmptyFragment
	}
	return &ReplaceStep{From: from, To: to, Content: content}
}

// Apply is a method of the Step interface.
func (s *ReplaceStep) Apply(doc *model.Node) StepResult {
	return FromReplace(doc, s.From, s.To, s.Content)
}

// GetMap is a method of the Step interface.
func (s *ReplaceStep) GetMap() *StepMap {
	return NewStepMap([]int{s.From, s.To - s.From, s.Content.Size})
}

// Invert is a method of the Step interface.
func (s *ReplaceStep) Invert(doc *model.Node) Step {
	removed, err := doc.Slice(s.From, s.To)
	if err != nil {
		return nil
	}
	return NewReplaceStep(s.From, s.From+s.Content.Size, removed)
}

// Map is a method of the Step interface.
func (s *ReplaceStep) Map(mapping Mappable) Step {
	from := mapping.MapResult(s.From, 1)
	to := mapping.MapResult(s.To, -1)
	if from.Deleted && to.Deleted {
		return nil
	}
	return NewReplaceStep(from.Pos, max(from.Pos, to.Pos), s.Content)
}

// Merge is a method of the Step interface. Adjacent replacements, like
// successive typing or backspacing, merge into one.
func (s *ReplaceStep) Merge(other Step) (Step, bool) {
	o, ok := other.(*ReplaceStep)
	if !ok {
		return nil, false
	}
	if s.From+s.Content.Size == o.From {
		return NewReplaceStep(s.From, s.To+o.To-o.From, s.Content.Append(o.Content)), true
	}
	if o.To == s.From {
		return NewReplaceStep(o.From, s.To, o.Content.Append(s.Content)), true
	}
	return nil, false
}

// ToJSON is a method of the Step interface.
func (s *ReplaceStep) ToJSON() map[string]interface{} {
	obj := map[string]interface{}{
		"stepType": "replace",
		"from":     s.From,
		"to":       s.To,
	}
	if s.Content.Size > 0 {
		obj["slice"] = map[string]interface{}{"content": s.Content.ToJSON()}
	}
	return obj
}

// ReplaceStepFromJSON builds a ReplaceStep from a JSON representation.
func ReplaceStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	from, to, err := rangeFields(obj)
	if err != nil {
		return nil, err
	}
	content := model.EmptyFragment
	if slice, ok := obj["slice"].(map[string]interface{}); ok {
		raw, _ := slice["content"].([]interface{})
		if content, err = model.FragmentFromJSON(schema, raw); err != nil {
			return nil, err
		}
	}
	return NewReplaceStep(from, to, content), nil
}

var _ Step = &ReplaceStep{}
