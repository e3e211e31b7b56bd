// Package extensions defines the building blocks of the editor: each
// extension is a record naming a node, a mark or a piece of behavior, with
// the commands, input and paste rules, and Markdown support that come with
// it. The editor builds its schema and its serializers from a list of such
// records.
package extensions

import (
	"log/slog"
	"regexp"
	"sort"

	"github.com/xcms-dev/richtext/model"
)

// Kind tells what an extension contributes to the schema.
type Kind int

const (
	// KindNode extensions define a node type.
	KindNode Kind = iota
	// KindMark extensions define a mark type.
	KindMark
	// KindFunctional extensions only add behavior.
	KindFunctional
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindMark:
		return "mark"
	}
	return "functional"
}

// DefaultPriority is the priority of extensions that don't need to come
// before or after the others.
const DefaultPriority = 100

// Extension is the record describing an extension. Only the fields that
// make sense for its kind are set.
type Extension struct {
	Name     string
	Kind     Kind
	Priority int

	Node *model.NodeSpec
	Mark *model.MarkSpec

	Commands   map[string]CommandFactory
	InputRules []*InputRule
	PasteRules []*PasteRule
	Markdown   *MarkdownSpec

	// NodeView renders the node on the editing surface, in place of the
	// ToDOM of its spec.
	NodeView model.ToDOM
	// HandlePaste may take over a paste of plain text. It returns false to
	// let the next handler, then the default paste, run.
	HandlePaste func(host Host, text string) bool
}

// Commands is the set of primitive editing operations the editor exposes to
// extension commands. Each returns false when it could not be applied.
type Commands interface {
	// SetMark adds a mark over the selection.
	SetMark(name string, attrs map[string]interface{}) bool
	// UnsetMark removes the marks of a type from the selection.
	UnsetMark(name string) bool
	// InsertContent replaces the selection with content: a JSON node
	// (map[string]interface{}), a list of them, a *model.Node or a
	// *model.Fragment. Block content splits the textblock it lands in.
	InsertContent(content interface{}) bool
	// DeleteNode deletes the nearest node of the given type at the selection.
	DeleteNode(name string) bool
	// UpdateAttributes sets attributes of the nodes of a type in the
	// selection.
	UpdateAttributes(name string, attrs map[string]interface{}) bool
}

// Command is a command bound to its arguments.
type Command func(c Commands) bool

// CommandFactory builds a command from its arguments.
type CommandFactory func(args map[string]interface{}) Command

// MarkdownParser parses Markdown into a document.
type MarkdownParser interface {
	ParseMarkdown(src string) (*model.Node, error)
}

// Host is the editor as seen by paste handlers.
type Host interface {
	Commands
	// Markdown returns the Markdown parser of the editor, or nil when it has
	// none.
	Markdown() MarkdownParser
	Logger() *slog.Logger
}

// InputRule turns text typed at the end of a textblock into a node. When
// the pattern has a capture group, only the text it matched is replaced;
// otherwise the whole match is.
type InputRule struct {
	Find       *regexp.Regexp
	Type       string
	Attributes func(match []string) map[string]interface{}
}

// PasteRule turns every match of its pattern in pasted text into a node.
type PasteRule struct {
	Find       *regexp.Regexp
	Type       string
	Attributes func(match []string) map[string]interface{}
}

// NodeInputRule creates an input rule that inserts a node of type typ.
func NodeInputRule(find *regexp.Regexp, typ string, attrs func(match []string) map[string]interface{}) *InputRule {
	return &InputRule{Find: find, Type: typ, Attributes: attrs}
}

// NodePasteRule creates a paste rule that inserts a node of type typ.
func NodePasteRule(find *regexp.Regexp, typ string, attrs func(match []string) map[string]interface{}) *PasteRule {
	return &PasteRule{Find: find, Type: typ, Attributes: attrs}
}

// Sorted returns the extensions by descending priority. Extensions with the
// same priority keep their order.
func Sorted(exts []*Extension) []*Extension {
	sorted := append([]*Extension(nil), exts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return sorted
}

// Find returns the extension with the given name, or nil.
func Find(exts []*Extension, name string) *Extension {
	for _, ext := range exts {
		if ext.Name == name {
			return ext
		}
	}
	return nil
}

// FindCommand returns the command factory registered under name by one of
// the extensions, the first one in priority order winning.
func FindCommand(exts []*Extension, name string) (CommandFactory, bool) {
	for _, ext := range Sorted(exts) {
		if f, ok := ext.Commands[name]; ok {
			return f, true
		}
	}
	return nil, false
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}
