// Package transform implements document transforms: changes to a document
// expressed as steps, which can be applied, inverted, mapped and serialized.
// The editor commands of the extensions are built on it.
package transform

import (
	"errors"
	"fmt"

	"github.com/xcms-dev/richtext/model"
)

// Step is an atomic change to a document. A step only makes sense for the
// document it was created for, since the positions stored in it refer to
// that document.
type Step interface {
	// Apply applies this step to the given document. The result either holds
	// the transformed document or the reason why the step failed.
	Apply(doc *model.Node) StepResult

	// GetMap returns the step map describing how positions move from the old
	// to the new document.
	GetMap() *StepMap

	// Invert creates the step that undoes this one. It needs the document as
	// it was before the step.
	Invert(doc *model.Node) Step

	// Map returns a version of this step with its positions mapped, or nil
	// when the step was entirely deleted by the mapping.
	Map(mapping Mappable) Step

	// Merge tries to merge this step with another one applied directly
	// after it.
	Merge(other Step) (Step, bool)

	// ToJSON creates a JSON-serializable representation of this step. The
	// stepType property tells which kind of step it is.
	ToJSON() map[string]interface{}
}

// StepResult is the result of applying a step: a new document, or a
// failure message.
type StepResult struct {
	Doc    *model.Node
	Failed string
}

// OK creates a successful step result.
func OK(doc *model.Node) StepResult {
	return StepResult{Doc: doc}
}

// Fail creates a failed step result.
func Fail(message string) StepResult {
	return StepResult{Failed: message}
}

// FromReplace calls Node.Replace with the given arguments. The result fails
// when the replacement is invalid.
func FromReplace(doc *model.Node, from, to int, content *model.Fragment) StepResult {
	replaced, err := doc.Replace(from, to, content)
	if err != nil {
		return Fail(err.Error())
	}
	return OK(replaced)
}

// StepParser builds a step from its JSON representation.
type StepParser func(schema *model.Schema, obj map[string]interface{}) (Step, error)

var stepsByID = map[string]StepParser{
	"replace":    ReplaceStepFromJSON,
	"addMark":    AddMarkStepFromJSON,
	"removeMark": RemoveMarkStepFromJSON,
	"setAttrs":   SetAttrsStepFromJSON,
}

// StepFromJSON deserializes a step from its JSON representation, using the
// parser registered for its stepType.
func StepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	id, ok := obj["stepType"].(string)
	if !ok {
		return nil, errors.New("invalid input for StepFromJSON")
	}
	parser, ok := stepsByID[id]
	if !ok {
		return nil, fmt.Errorf("no step type %s defined", id)
	}
	return parser(schema, obj)
}

func intField(obj map[string]interface{}, name string) (int, error) {
	switch v := obj[name].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("invalid %s in step JSON", name)
}

func rangeFields(obj map[string]interface{}) (int, int, error) {
	from, err := intField(obj, "from")
	if err != nil {
		return 0, 0, err
	}
	to, err := intField(obj, "to")
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}
