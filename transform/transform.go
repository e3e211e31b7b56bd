package transform

import (
	"github.com/xcms-dev/richtext/model"
)

// TransformError is returned when a step of a transform fails.
type TransformError struct {
	Message string
}

func (e *TransformError) Error() string {
	return e.Message
}

// Transform is an abstraction for building up and tracking an array of
// steps. Each step is applied to the current document, and the
// intermediate documents are kept.
type Transform struct {
	// The current document (the result of applying the steps).
	Doc *model.Node
	// The steps in this transform.
	Steps []Step
	// The documents before each of the steps.
	Docs []*model.Node
	// A mapping with the maps for each of the steps.
	Mapping *Mapping
}

// NewTransform creates a transform that starts with the given document.
func NewTransform(doc *model.Node) *Transform {
	return &Transform{Doc: doc, Mapping: &Mapping{}}
}

// Before returns the starting document.
func (tr *Transform) Before() *model.Node {
	if len(tr.Docs) > 0 {
		return tr.Docs[0]
	}
	return tr.Doc
}

// DocChanged is true when the document has been changed (when there are any
// steps).
func (tr *Transform) DocChanged() bool {
	return len(tr.Steps) > 0
}

// Step applies a new step in this transform, saving the result. It returns
// a TransformError when the step fails.
func (tr *Transform) Step(step Step) error {
	result := tr.MaybeStep(step)
	if result.Failed != "" {
		return &TransformError{Message: result.Failed}
	}
	return nil
}

// MaybeStep tries to apply a step in this transform, ignoring it if it
// fails. Returns the step result.
func (tr *Transform) MaybeStep(step Step) StepResult {
	result := step.Apply(tr.Doc)
	if result.Failed == "" {
		tr.Docs = append(tr.Docs, tr.Doc)
		tr.Steps = append(tr.Steps, step)
		tr.Mapping.AppendMap(step.GetMap())
		tr.Doc = result.Doc
	}
	return result
}

// Replace replaces the part of the document between from and to with the
// given content.
func (tr *Transform) Replace(from, to int, content *model.Fragment) error {
	if from == to && (content == nil || content.Size == 0) {
		return nil
	}
	return tr.Step(NewReplaceStep(from, to, content))
}

// Insert inserts the given nodes at the given position.
func (tr *Transform) Insert(pos int, nodes ...*model.Node) error {
	return tr.Replace(pos, pos, model.NewFragment(nodes))
}

// Delete deletes the content between the given positions.
func (tr *Transform) Delete(from, to int) error {
	return tr.Replace(from, to, nil)
}

// SetNodeAttrs changes some attributes of the node at pos.
func (tr *Transform) SetNodeAttrs(pos int, attrs map[string]interface{}) error {
	return tr.Step(NewSetAttrsStep(pos, attrs))
}

type markRange struct {
	from, to int
	mark     *model.Mark
	step     int
}

// AddMark adds the given mark to the inline content between from and to.
// Marks excluded by the new mark are removed first, in their own steps.
func (tr *Transform) AddMark(from, to int, mark *model.Mark) error {
	var removed, added []*markRange
	var removing, adding *markRange
	tr.Doc.NodesBetween(from, to, func(node *model.Node, pos int, parent *model.Node, _ int) bool {
		if !node.IsInline() {
			return true
		}
		if mark.IsInSet(node.Marks) || !parent.Type.AllowsMarkType(mark.Type) {
			return false
		}
		start, end := max(pos, from), min(pos+node.NodeSize(), to)
		if start >= end {
			return false
		}
		newSet := mark.AddToSet(node.Marks)
		for _, m := range node.Marks {
			if m.IsInSet(newSet) {
				continue
			}
			if removing != nil && removing.to == start && removing.mark.Eq(m) {
				removing.to = end
				continue
			}
			removing = &markRange{from: start, to: end, mark: m}
			removed = append(removed, removing)
		}
		if adding != nil && adding.to == start {
			adding.to = end
		} else {
			adding = &markRange{from: start, to: end, mark: mark}
			added = append(added, adding)
		}
		return false
	})
	for _, r := range removed {
		if err := tr.Step(NewRemoveMarkStep(r.from, r.to, r.mark)); err != nil {
			return err
		}
	}
	for _, a := range added {
		if err := tr.Step(NewAddMarkStep(a.from, a.to, a.mark)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveMark removes marks from the inline nodes between from and to. mark
// may be a *model.Mark, which removes that exact mark, a *model.MarkType,
// which removes every mark of that type, or nil, which removes all marks.
func (tr *Transform) RemoveMark(from, to int, mark interface{}) error {
	var matched []*markRange
	step := 0
	tr.Doc.NodesBetween(from, to, func(node *model.Node, pos int, _ *model.Node, _ int) bool {
		if !node.IsInline() {
			return true
		}
		step++
		var toRemove []*model.Mark
		switch m := mark.(type) {
		case *model.MarkType:
			set := node.Marks
			for found := m.IsInSet(set); found != nil; found = m.IsInSet(set) {
				toRemove = append(toRemove, found)
				set = found.RemoveFromSet(set)
			}
		case *model.Mark:
			if m.IsInSet(node.Marks) {
				toRemove = []*model.Mark{m}
			}
		case nil:
			toRemove = node.Marks
		}
		end := min(pos+node.NodeSize(), to)
		if max(pos, from) >= end {
			return false
		}
		for _, style := range toRemove {
			var found *markRange
			for _, m := range matched {
				if m.step == step-1 && style.Eq(m.mark) {
					found = m
				}
			}
			if found != nil {
				found.to = end
				found.step = step
				continue
			}
			matched = append(matched, &markRange{mark: style, from: max(pos, from), to: end, step: step})
		}
		return false
	})
	for _, m := range matched {
		if err := tr.Step(NewRemoveMarkStep(m.from, m.to, m.mark)); err != nil {
			return err
		}
	}
	return nil
}
