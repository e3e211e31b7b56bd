package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// AttributeSpec is used to define attributes on nodes or marks. The hooks are
// the attribute-level parse and render capabilities: ParseHTML reads the
// value from a DOM element, RenderHTML turns the value back into DOM
// attributes. A nil hook means the attribute is read from and written to the
// DOM attribute of the same name.
type AttributeSpec struct {
	Default    interface{}                              `json:"default,omitempty"`
	ParseHTML  func(el *html.Node) interface{}          `json:"-"`
	RenderHTML func(value interface{}) []html.Attribute `json:"-"`
	// Hidden attributes are kept in the document but are neither read from
	// nor written to DOM attributes.
	Hidden bool `json:"-"`
}

// ParseRule describes how a DOM element is recognized as a node or a mark.
// Tag is a CSS selector. Rules with a higher priority are tried first.
type ParseRule struct {
	Tag      string `json:"tag"`
	Priority int    `json:"priority,omitempty"`
	// GetAttrs may refine the attributes computed by the attribute hooks.
	// Returning false makes the rule not match.
	GetAttrs func(el *html.Node, attrs map[string]interface{}) bool `json:"-"`
}

// NodeSpec is an object describing a node type.
type NodeSpec struct {
	Key string `json:"-"`
	// The content expression for this node, as described in the schema guide.
	// When not given, the node does not allow any content.
	Content string `json:"content,omitempty"`
	// The marks that are allowed inside of this node. May be a space-separated
	// string referring to mark names or groups, "_" to explicitly allow all
	// marks, or "" to disallow marks. When not given, nodes with inline
	// content default to allowing all marks, other nodes default to not
	// allowing marks.
	Marks *string `json:"marks,omitempty"`
	// The group or space-separated groups to which this node belongs, which
	// can be referred to in the content expressions for the schema.
	Group string `json:"group,omitempty"`
	// Should be set to true for inline nodes.
	Inline bool `json:"inline,omitempty"`
	// Can be set to true to indicate that, though this isn't a leaf node, it
	// doesn't have directly editable content and should be treated as a single
	// unit in the view.
	Atom      bool `json:"atom,omitempty"`
	Draggable bool `json:"draggable,omitempty"`
	// The attributes that nodes of this type get.
	Attrs map[string]*AttributeSpec `json:"attrs,omitempty"`
	// Code-like nodes keep their whitespace when parsed from the DOM.
	Code bool `json:"code,omitempty"`

	ToDOM         ToDOM              `json:"-"`
	ParseDOM      []*ParseRule       `json:"-"`
	ToDebugString func(*Node) string `json:"-"`
}

// MarkSpec is an object describing a mark type.
type MarkSpec struct {
	Key string `json:"-"`
	// The attributes that marks of this type get.
	Attrs map[string]*AttributeSpec `json:"attrs,omitempty"`
	// Whether this mark should be active when the cursor is positioned at its
	// end (or at its start when that is also the start of the parent node).
	// Defaults to true.
	Inclusive *bool `json:"inclusive,omitempty"`
	// Determines which other marks this mark can coexist with. Should be a
	// space-separated strings naming other marks or groups of marks. When a
	// mark is added to a set, all marks that it excludes are removed in the
	// process. Defaults to only being exclusive with marks of the same type.
	// Use "" to allow multiple marks of the same type.
	Excludes *string `json:"excludes,omitempty"`
	// The group or space-separated groups to which this mark belongs.
	Group string `json:"group,omitempty"`
	// Determines whether marks of this type can span multiple adjacent nodes
	// when serialized to DOM. Defaults to true.
	Spanning *bool `json:"spanning,omitempty"`

	ToDOM    ToDOM        `json:"-"`
	ParseDOM []*ParseRule `json:"-"`
}

// SchemaSpec is an object describing a schema, as passed to the Schema
// constructor.
type SchemaSpec struct {
	// The node types in this schema. Maps names to NodeSpec objects that
	// describe the node type associated with that name. Their order is
	// significant: it determines which parse rules take precedence by default,
	// and which nodes come first in a given group.
	Nodes []*NodeSpec
	// The mark types that exist in this schema. The order in which they are
	// provided determines the order in which mark sets are sorted and in which
	// parse rules are tried.
	Marks []*MarkSpec
	// The name of the default top-level node for the schema. Defaults to
	// "doc".
	TopNode string
}

// UnmarshalJSON reads the [name, spec] pair-list form of a schema spec.
func (s *SchemaSpec) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes   [][2]json.RawMessage `json:"nodes"`
		Marks   [][2]json.RawMessage `json:"marks"`
		TopNode string               `json:"topNode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.TopNode = raw.TopNode
	for _, pair := range raw.Nodes {
		spec := &NodeSpec{}
		if err := json.Unmarshal(pair[0], &spec.Key); err != nil {
			return fmt.Errorf("invalid node name: %w", err)
		}
		if err := json.Unmarshal(pair[1], spec); err != nil {
			return fmt.Errorf("invalid spec for node %s: %w", spec.Key, err)
		}
		s.Nodes = append(s.Nodes, spec)
	}
	for _, pair := range raw.Marks {
		spec := &MarkSpec{}
		if err := json.Unmarshal(pair[0], &spec.Key); err != nil {
			return fmt.Errorf("invalid mark name: %w", err)
		}
		if err := json.Unmarshal(pair[1], spec); err != nil {
			return fmt.Errorf("invalid spec for mark %s: %w", spec.Key, err)
		}
		s.Marks = append(s.Marks, spec)
	}
	return nil
}

// Schema holds the node and mark types that may occur in a document, and
// provides functionality for creating and deserializing such documents.
type Schema struct {
	// The spec on which the schema is based.
	Spec *SchemaSpec
	// The node types in this schema, in spec order.
	Nodes []*NodeType
	// The mark types in this schema, in spec order.
	Marks []*MarkType
	// The type of the default top node for this schema.
	TopNodeType *NodeType

	nodesByName map[string]*NodeType
	marksByName map[string]*MarkType
}

// NewSchema constructs a schema from a schema specification.
func NewSchema(spec *SchemaSpec) (*Schema, error) {
	schema := &Schema{
		Spec:        spec,
		nodesByName: map[string]*NodeType{},
		marksByName: map[string]*MarkType{},
	}
	if spec.TopNode == "" {
		spec.TopNode = "doc"
	}
	for _, ns := range spec.Nodes {
		if _, ok := schema.nodesByName[ns.Key]; ok {
			return nil, fmt.Errorf("duplicate node type %q", ns.Key)
		}
		nt := &NodeType{
			Name:   ns.Key,
			Schema: schema,
			Spec:   ns,
			Groups: strings.Fields(ns.Group),
		}
		nt.DefaultAttrs = defaultAttrs(ns.Attrs)
		schema.Nodes = append(schema.Nodes, nt)
		schema.nodesByName[ns.Key] = nt
	}
	for i, ms := range spec.Marks {
		if _, ok := schema.marksByName[ms.Key]; ok {
			return nil, fmt.Errorf("duplicate mark type %q", ms.Key)
		}
		mt := &MarkType{
			Name:   ms.Key,
			Rank:   i,
			Schema: schema,
			Spec:   ms,
		}
		schema.Marks = append(schema.Marks, mt)
		schema.marksByName[ms.Key] = mt
	}

	top, ok := schema.nodesByName[spec.TopNode]
	if !ok {
		return nil, fmt.Errorf("schema is missing its top node type (%q)", spec.TopNode)
	}
	schema.TopNodeType = top
	if _, ok := schema.nodesByName["text"]; !ok {
		return nil, errors.New("every schema needs a 'text' type")
	}
	if len(schema.nodesByName["text"].DefaultAttrs) > 0 {
		return nil, errors.New("the text node type should not have attributes")
	}

	for _, nt := range schema.Nodes {
		content, err := parseContentExpr(nt.Spec.Content, schema.nodesByName)
		if err != nil {
			return nil, fmt.Errorf("node type %s: %w", nt.Name, err)
		}
		nt.content = content
	}
	for _, nt := range schema.Nodes {
		marks, err := nt.resolveMarkSet()
		if err != nil {
			return nil, err
		}
		nt.markSet = marks
	}
	for _, mt := range schema.Marks {
		if mt.Spec.Excludes == nil {
			mt.excluded = []*MarkType{mt}
			continue
		}
		excluded, err := schema.gatherMarks(*mt.Spec.Excludes)
		if err != nil {
			return nil, err
		}
		mt.excluded = excluded
	}
	return schema, nil
}

// NodeType returns the node type with the given name.
func (s *Schema) NodeType(name string) (*NodeType, error) {
	if nt, ok := s.nodesByName[name]; ok {
		return nt, nil
	}
	return nil, fmt.Errorf("unknown node type: %s", name)
}

// MarkType returns the mark type with the given name.
func (s *Schema) MarkType(name string) (*MarkType, error) {
	if mt, ok := s.marksByName[name]; ok {
		return mt, nil
	}
	return nil, fmt.Errorf("unknown mark type: %s", name)
}

// Node creates a node in this schema. The type may be a string or a NodeType
// instance. Attributes will be extended with defaults, content may be a
// Fragment, a node or a slice of nodes.
func (s *Schema) Node(typ interface{}, attrs map[string]interface{}, content interface{}, marks ...*Mark) (*Node, error) {
	var nt *NodeType
	switch t := typ.(type) {
	case *NodeType:
		if t.Schema != s {
			return nil, fmt.Errorf("node type from different schema used (%s)", t.Name)
		}
		nt = t
	case string:
		var err error
		if nt, err = s.NodeType(t); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid node type: %v", typ)
	}
	frag, err := FragmentFrom(content)
	if err != nil {
		return nil, err
	}
	return nt.Create(attrs, frag, marks)
}

// Text creates a text node in the schema. Empty text nodes are not allowed.
func (s *Schema) Text(text string, marks ...*Mark) *Node {
	typ := s.nodesByName["text"]
	return NewTextNode(typ, typ.DefaultAttrs, text, MarkSetFrom(marks))
}

// Mark creates a mark with the given type and attributes. It panics on an
// unknown mark name, like the typed schema accessors of the test builders.
func (s *Schema) Mark(name string, attrs ...map[string]interface{}) *Mark {
	mt, err := s.MarkType(name)
	if err != nil {
		panic(err)
	}
	var a map[string]interface{}
	if len(attrs) > 0 {
		a = attrs[0]
	}
	return mt.Create(a)
}

func (s *Schema) gatherMarks(names string) ([]*MarkType, error) {
	var found []*MarkType
	for _, name := range strings.Fields(names) {
		if mt, ok := s.marksByName[name]; ok {
			found = append(found, mt)
			continue
		}
		ok := false
		for _, mt := range s.Marks {
			if name == "_" || containsWord(mt.Spec.Group, name) {
				found = append(found, mt)
				ok = true
			}
		}
		if !ok {
			return nil, fmt.Errorf("unknown mark type: %q", name)
		}
	}
	return found, nil
}

// NodeType is the type of a node. Node types are objects allocated once per
// Schema and used to tag Node instances.
type NodeType struct {
	// The name the node type has in this schema.
	Name string
	// A link back to the Schema the node type belongs to.
	Schema *Schema
	// The spec that this type is based on.
	Spec   *NodeSpec
	Groups []string
	// The attributes of a node of this type when none are given.
	DefaultAttrs map[string]interface{}

	content *contentExpr
	// nil means all marks are allowed.
	markSet []*MarkType
}

// IsInline is true if this is an inline type.
func (nt *NodeType) IsInline() bool {
	return nt.Spec.Inline || nt.Name == "text"
}

// IsBlock is true if this is a block type.
func (nt *NodeType) IsBlock() bool {
	return !nt.IsInline() && nt.Name != "text"
}

// IsText is true if this is the text node type.
func (nt *NodeType) IsText() bool {
	return nt.Name == "text"
}

// IsTextblock is true if this is a block type with inline content.
func (nt *NodeType) IsTextblock() bool {
	return nt.IsBlock() && nt.InlineContent()
}

// IsLeaf is true for node types that allow no content.
func (nt *NodeType) IsLeaf() bool {
	return nt.content.empty()
}

// IsAtom is true when this node is an atom, i.e. when it does not have
// directly editable content.
func (nt *NodeType) IsAtom() bool {
	return nt.IsLeaf() || nt.Spec.Atom
}

// InlineContent is true if this node type has inline content.
func (nt *NodeType) InlineContent() bool {
	return nt.content.inline
}

// AllowsMarkType checks whether the given mark type is allowed in this node.
func (nt *NodeType) AllowsMarkType(mt *MarkType) bool {
	if nt.markSet == nil {
		return true
	}
	for _, m := range nt.markSet {
		if m == mt {
			return true
		}
	}
	return false
}

// AllowsType checks whether a node of the given type may appear as a direct
// child of this node. Only names and groups are checked, not ordering or
// cardinality.
func (nt *NodeType) AllowsType(child *NodeType) bool {
	return nt.content.allows(child)
}

// ValidContent returns true if the given fragment only holds node types
// referenced by this node type's content expression, with marks the node
// allows.
func (nt *NodeType) ValidContent(content *Fragment) bool {
	for _, child := range content.Content {
		if !nt.AllowsType(child.Type) {
			return false
		}
		for _, m := range child.Marks {
			if !nt.AllowsMarkType(m.Type) {
				return false
			}
		}
	}
	return true
}

// ComputeAttrs fills in the defaults of the node type for the attributes
// that are missing from attrs.
func (nt *NodeType) ComputeAttrs(attrs map[string]interface{}) map[string]interface{} {
	return computeAttrs(nt.Spec.Attrs, attrs)
}

// Create a Node of this type. The given attributes are checked and defaulted
// (you can pass nil to use the type's defaults entirely, if no required
// attributes exist). content may be nil or a Fragment; marks may be nil.
func (nt *NodeType) Create(attrs map[string]interface{}, content *Fragment, marks []*Mark) (*Node, error) {
	if nt.IsText() {
		return nil, errors.New("NodeType.Create can't construct text nodes")
	}
	if content == nil {
		content = EmptyFragment
	}
	return NewNode(nt, nt.ComputeAttrs(attrs), content, MarkSetFrom(marks)), nil
}

// CreateChecked is like Create, but checks the given content against the
// node type's content restrictions.
func (nt *NodeType) CreateChecked(attrs map[string]interface{}, content *Fragment, marks []*Mark) (*Node, error) {
	if content == nil {
		content = EmptyFragment
	}
	if !nt.ValidContent(content) {
		return nil, NewReplaceError("Invalid content for node %s", nt.Name)
	}
	return nt.Create(attrs, content, marks)
}

// CreateAndFill creates a node of this type. When the content expression
// requires content, a default child is filled in for the first required
// element.
func (nt *NodeType) CreateAndFill() (*Node, error) {
	var children []*Node
	if fill := nt.content.requiredFill(); fill != nil && !fill.IsText() {
		child, err := fill.CreateAndFill()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return nt.Create(nil, NewFragment(children), nil)
}

func (nt *NodeType) resolveMarkSet() ([]*MarkType, error) {
	if nt.Spec.Marks == nil {
		if nt.InlineContent() {
			return nil, nil
		}
		return []*MarkType{}, nil
	}
	if *nt.Spec.Marks == "_" {
		return nil, nil
	}
	if *nt.Spec.Marks == "" {
		return []*MarkType{}, nil
	}
	return nt.Schema.gatherMarks(*nt.Spec.Marks)
}

// MarkType is the type object for marks. Like nodes, marks (which are
// associated with nodes to signify things like emphasis or being part of a
// link) are tagged with type objects, which are instantiated once per Schema.
type MarkType struct {
	Name   string
	Rank   int
	Schema *Schema
	Spec   *MarkSpec

	excluded []*MarkType
}

// Create a mark of this type. attrs may be nil or an object containing only
// some of the mark's attributes. The others, if they have defaults, will be
// added.
func (mt *MarkType) Create(attrs map[string]interface{}) *Mark {
	return &Mark{Type: mt, Attrs: computeAttrs(mt.Spec.Attrs, attrs)}
}

// Excludes queries whether a given mark type is excluded by this one.
func (mt *MarkType) Excludes(other *MarkType) bool {
	for _, ex := range mt.excluded {
		if ex == other {
			return true
		}
	}
	return false
}

// IsInSet tests whether there is a mark of this type in the given set.
func (mt *MarkType) IsInSet(set []*Mark) *Mark {
	for _, m := range set {
		if m.Type == mt {
			return m
		}
	}
	return nil
}

// RemoveFromSet removes all marks of this type from the given set.
func (mt *MarkType) RemoveFromSet(set []*Mark) []*Mark {
	var result []*Mark
	for _, m := range set {
		if m.Type != mt {
			result = append(result, m)
		}
	}
	if len(result) == len(set) {
		return set
	}
	return MarkSetFrom(result)
}

// AttrNames returns the attribute names of a spec, sorted. Rendering uses
// this order so that the output is stable.
func AttrNames(attrs map[string]*AttributeSpec) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func defaultAttrs(specs map[string]*AttributeSpec) map[string]interface{} {
	if len(specs) == 0 {
		return nil
	}
	defaults := make(map[string]interface{}, len(specs))
	for name, spec := range specs {
		defaults[name] = spec.Default
	}
	return defaults
}

func computeAttrs(specs map[string]*AttributeSpec, value map[string]interface{}) map[string]interface{} {
	if len(specs) == 0 {
		return nil
	}
	built := make(map[string]interface{}, len(specs))
	for name, spec := range specs {
		if v, ok := value[name]; ok {
			built[name] = v
		} else {
			built[name] = spec.Default
		}
	}
	return built
}

func containsWord(list, word string) bool {
	for _, w := range strings.Fields(list) {
		if w == word {
			return true
		}
	}
	return false
}
