package transform

import (
	"errors"

	"github.com/xcms-dev/richtext/model"
)

type mapFn func(node, parent *model.Node) *model.Node

// mapInline rebuilds node, applying f to the inline nodes between from and to
// (positions relative to the start of the node's content). Text nodes
// crossing the boundaries are split.
func mapInline(node *model.Node, from, to int, f mapFn) *model.Node {
	var children []*model.Node
	node.ForEach(func(child *model.Node, offset, _ int) {
		end := offset + child.NodeSize()
		switch {
		case end <= from || offset >= to || from >= to:
			children = append(children, child)
		case child.IsText():
			start, stop := max(from-offset, 0), min(to-offset, child.NodeSize())
			if start > 0 {
				children = append(children, child.Cut(0, start))
			}
			children = append(children, f(child.Cut(start, stop), node))
			if stop < child.NodeSize() {
				children = append(children, child.Cut(stop))
			}
		case child.IsInline():
			children = append(children, f(child, node))
		default:
			children = append(children, mapInline(child, from-offset-1, to-offset-1, f))
		}
	})
	return node.Copy(model.NewFragment(children))
}

func checkRange(doc *model.Node, from, to int) error {
	if from < 0 || to > doc.Content.Size || from > to {
		return model.NewReplaceError("Invalid range %d-%d", from, to)
	}
	return nil
}

// AddMarkStep adds a mark to all inline content between two positions.
type AddMarkStep struct {
	From int
	To   int
	Mark *model.Mark
}

// NewAddMarkStep is the constructor for AddMarkStep.
func NewAddMarkStep(from, to int, mark *model.Mark) *AddMarkStep {
	return &AddMarkStep{From: from, To: to, Mark: mark}
}

// Apply is a method of the Step interface.
func (s *AddMarkStep) Apply(doc *model.Node) StepResult {
	if err := checkRange(doc, s.From, s.To); err != nil {
		return Fail(err.Error())
	}
	return OK(mapInline(doc, s.From, s.To, func(node, parent *model.Node) *model.Node {
		if !parent.Type.AllowsMarkType(s.Mark.Type) {
			return node
		}
		return node.Mark(s.Mark.AddToSet(node.Marks))
	}))
}

// GetMap is a method of the Step interface.
func (s *AddMarkStep) GetMap() *StepMap {
	return EmptyStepMap
}

// Invert is a method of the Step interface.
func (s *AddMarkStep) Invert(*model.Node) Step {
	return NewRemoveMarkStep(s.From, s.To, s.Mark)
}

// Map is a method of the Step interface.
func (s *AddMarkStep) Map(mapping Mappable) Step {
	from := mapping.MapResult(s.From, 1)
	to := mapping.MapResult(s.To, -1)
	if from.Deleted && to.Deleted || from.Pos >= to.Pos {
		return nil
	}
	return NewAddMarkStep(from.Pos, to.Pos, s.Mark)
}

// Merge is a method of the Step interface.
func (s *AddMarkStep) Merge(other Step) (Step, bool) {
	o, ok := other.(*AddMarkStep)
	if !ok || !o.Mark.Eq(s.Mark) || s.From > o.To || s.To < o.From {
		return nil, false
	}
	return NewAddMarkStep(min(s.From, o.From), max(s.To, o.To), s.Mark), true
}

// ToJSON is a method of the Step interface.
func (s *AddMarkStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "addMark",
		"mark":     s.Mark.ToJSON(),
		"from":     s.From,
		"to":       s.To,
	}
}

// AddMarkStepFromJSON builds an AddMarkStep from a JSON representation.
func AddMarkStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	from, to, mark, err := markStepFields(schema, obj)
	if err != nil {
		return nil, err
	}
	return NewAddMarkStep(from, to, mark), nil
}

var _ Step = &AddMarkStep{}

// RemoveMarkStep removes a mark from all inline content between two
// positions.
type RemoveMarkStep struct {
	From int
	To   int
	Mark *model.Mark
}

// NewRemoveMarkStep is the constructor for RemoveMarkStep.
func NewRemoveMarkStep(from, to int, mark *model.Mark) *RemoveMarkStep {
	return &RemoveMarkStep{From: from, To: to, Mark: mark}
}

// Apply is a method of the Step interface.
func (s *RemoveMarkStep) Apply(doc *model.Node) StepResult {
	if err := checkRange(doc, s.From, s.To); err != nil {
		return Fail(err.Error())
	}
	return OK(mapInline(doc, s.From, s.To, func(node, _ *model.Node) *model.Node {
		return node.Mark(s.Mark.RemoveFromSet(node.Marks))
	}))
}

// GetMap is a method of the Step interface.
func (s *RemoveMarkStep) GetMap() *StepMap {
	return EmptyStepMap
}

// Invert is a method of the Step interface.
func (s *RemoveMarkStep) Invert(*model.Node) Step {
	return NewAddMarkStep(s.From, s.To, s.Mark)
}

// Map is a method of the Step interface.
func (s *RemoveMarkStep) Map(mapping Mappable) Step {
	from := mapping.MapResult(s.From, 1)
	to := mapping.MapResult(s.To, -1)
	if from.Deleted && to.Deleted || from.Pos >= to.Pos {
		return nil
	}
	return NewRemoveMarkStep(from.Pos, to.Pos, s.Mark)
}

// Merge is a method of the Step interface.
func (s *RemoveMarkStep) Merge(other Step) (Step, bool) {
	o, ok := other.(*RemoveMarkStep)
	if !ok || !o.Mark.Eq(s.Mark) || s.From > o.To || s.To < o.From {
		return nil, false
	}
	return NewRemoveMarkStep(min(s.From, o.From), max(s.To, o.To), s.Mark), true
}

// ToJSON is a method of the Step interface.
func (s *RemoveMarkStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "removeMark",
		"mark":     s.Mark.ToJSON(),
		"from":     s.From,
		"to":       s.To,
	}
}

// RemoveMarkStepFromJSON builds a RemoveMarkStep from a JSON representation.
func RemoveMarkStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	from, to, mark, err := markStepFields(schema, obj)
	if err != nil {
		return nil, err
	}
	return NewRemoveMarkStep(from, to, mark), nil
}

var _ Step = &RemoveMarkStep{}

func markStepFields(schema *model.Schema, obj map[string]interface{}) (int, int, *model.Mark, error) {
	from, to, err := rangeFields(obj)
	if err != nil {
		return 0, 0, nil, err
	}
	raw, ok := obj["mark"].(map[string]interface{})
	if !ok {
		return 0, 0, nil, errors.New("invalid mark in step JSON")
	}
	mark, err := model.MarkFromJSON(schema, raw)
	if err != nil {
		return 0, 0, nil, err
	}
	return from, to, mark, nil
}
