package editor

import (
	"fmt"
	"log/slog"

	"github.com/xcms-dev/richtext/extensions"
	"github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/transform"
)

// Commands runs the commands of the editor extensions by name.
type Commands struct {
	editor *Editor
}

// Commands returns the command runner of the editor.
func (e *Editor) Commands() *Commands {
	return &Commands{editor: e}
}

// Has reports whether an extension provides the named command.
func (c *Commands) Has(name string) bool {
	_, ok := extensions.FindCommand(c.editor.extensions, name)
	return ok
}

// Run runs the named command. The result is false when the command could
// not be applied to the document; the error is only set for an unknown
// command.
func (c *Commands) Run(name string, args map[string]interface{}) (bool, error) {
	factory, ok := extensions.FindCommand(c.editor.extensions, name)
	if !ok {
		return false, fmt.Errorf("unknown command %q", name)
	}
	return factory(args)(c.editor), nil
}

// apply runs fn on a new transform and keeps its result. The selection is
// mapped through the steps, unless fn returns a cursor position.
func (e *Editor) apply(command string, fn func(tr *transform.Transform) (int, error)) bool {
	tr := transform.NewTransform(e.doc)
	cursor, err := fn(tr)
	if err != nil {
		e.logger.Debug("command not applied",
			slog.String("command", command),
			slog.String("error", err.Error()))
		return false
	}
	e.doc = tr.Doc
	if cursor >= 0 {
		e.selection = Selection{From: cursor, To: cursor}.clamp(e.doc)
	} else {
		e.selection = e.selection.Map(tr.Mapping).clamp(e.doc)
	}
	return true
}

// SetMark adds a mark to the selected text.
func (e *Editor) SetMark(name string, attrs map[string]interface{}) bool {
	typ, err := e.schema.MarkType(name)
	if err != nil || e.selection.Empty() {
		return false
	}
	from, to := e.selection.From, e.selection.To
	return e.apply("setMark", func(tr *transform.Transform) (int, error) {
		return -1, tr.AddMark(from, to, typ.Create(attrs))
	})
}

// UnsetMark removes the marks of a type from the selected text.
func (e *Editor) UnsetMark(name string) bool {
	typ, err := e.schema.MarkType(name)
	if err != nil || e.selection.Empty() {
		return false
	}
	from, to := e.selection.From, e.selection.To
	return e.apply("unsetMark", func(tr *transform.Transform) (int, error) {
		return -1, tr.RemoveMark(from, to, typ)
	})
}

// UpdateAttributes sets attributes of the selected nodes of a type.
func (e *Editor) UpdateAttributes(name string, attrs map[string]interface{}) bool {
	typ, err := e.schema.NodeType(name)
	if err != nil {
		return false
	}
	var positions []int
	e.doc.NodesBetween(e.selection.From, e.selection.To, func(node *model.Node, pos int, _ *model.Node, _ int) bool {
		if node.Type == typ {
			positions = append(positions, pos)
		}
		return true
	})
	if len(positions) == 0 {
		return false
	}
	return e.apply("updateAttributes", func(tr *transform.Transform) (int, error) {
		for _, pos := range positions {
			if err := tr.SetNodeAttrs(pos, attrs); err != nil {
				return 0, err
			}
		}
		return -1, nil
	})
}

// DeleteNode deletes the selected node of a type, or the closest ancestor
// of that type around the selection. A parent left empty gets its default
// content.
func (e *Editor) DeleteNode(name string) bool {
	typ, err := e.schema.NodeType(name)
	if err != nil {
		return false
	}
	from, to := e.selection.From, e.selection.To
	path := ancestorsAt(e.doc, from)
	var target ancestor
	parent := path[len(path)-1]
	if node := e.doc.NodeAt(from); node != nil && node.Type == typ && (to == from || to == from+node.NodeSize()) {
		target = ancestor{node: node, before: from}
	} else {
		for i := len(path) - 1; i > 0; i-- {
			if path[i].node.Type == typ {
				target, parent = path[i], path[i-1]
				break
			}
		}
	}
	if target.node == nil {
		return false
	}
	return e.apply("deleteNode", func(tr *transform.Transform) (int, error) {
		var fill *model.Fragment
		if parent.node.ChildCount() == 1 {
			filled, err := parent.node.Type.CreateAndFill()
			if err != nil {
				return 0, err
			}
			fill = filled.Content
		}
		return -1, tr.Replace(target.before, target.end(), fill)
	})
}

// InsertContent replaces the selection with content: a JSON object or a
// list of them, a node, a list of nodes, a fragment, or an HTML string.
// Inline content goes into the textblock at the cursor; block content
// splits it.
func (e *Editor) InsertContent(content interface{}) bool {
	frag, err := e.contentFragment(content)
	if err != nil {
		e.logger.Debug("invalid content to insert", slog.String("error", err.Error()))
		return false
	}
	if frag.Size == 0 {
		return false
	}
	from, to := e.selection.From, e.selection.To
	return e.apply("insertContent", func(tr *transform.Transform) (int, error) {
		return e.insert(tr, from, to, frag, false)
	})
}

func (e *Editor) contentFragment(content interface{}) (*model.Fragment, error) {
	switch c := content.(type) {
	case map[string]interface{}:
		node, err := model.NodeFromJSON(e.schema, c)
		if err != nil {
			return nil, err
		}
		return model.FragmentFrom(node)
	case []map[string]interface{}:
		list := make([]interface{}, len(c))
		for i, item := range c {
			list[i] = item
		}
		return model.FragmentFromJSON(e.schema, list)
	case []interface{}:
		if len(c) > 0 {
			if _, ok := c[0].(map[string]interface{}); ok {
				return model.FragmentFromJSON(e.schema, c)
			}
		}
		return model.FragmentFrom(c)
	case string:
		doc, err := e.parser.ParseHTML(c)
		if err != nil {
			return nil, err
		}
		if doc.ChildCount() == 1 && doc.FirstChild().Type == e.defaultTextblock() {
			return doc.FirstChild().Content, nil
		}
		return doc.Content, nil
	}
	return model.FragmentFrom(content)
}

// defaultTextblock is the textblock type wrapping inline content inserted
// outside of a textblock.
func (e *Editor) defaultTextblock() *model.NodeType {
	for _, nt := range e.schema.Nodes {
		if nt.IsTextblock() && !nt.Spec.Code {
			return nt
		}
	}
	return nil
}

// insert replaces from-to with frag and returns the cursor position after
// the inserted content. With open set, inserted textblocks of the type of
// the split textblock are joined with its two halves.
func (e *Editor) insert(tr *transform.Transform, from, to int, frag *model.Fragment, open bool) (int, error) {
	if from != to {
		if err := tr.Delete(from, to); err != nil {
			return 0, err
		}
	}
	inline := true
	for _, child := range frag.Content {
		if !child.IsInline() {
			inline = false
		}
	}
	path := ancestorsAt(tr.Doc, from)
	block := path[len(path)-1]
	if inline {
		if block.node.IsTextblock() {
			return from + frag.Size, tr.Insert(from, frag.Content...)
		}
		para, err := e.defaultTextblock().Create(nil, frag, nil)
		if err != nil {
			return 0, err
		}
		return from + para.NodeSize() - 1, tr.Insert(from, para)
	}
	if !block.node.IsTextblock() {
		return from + frag.Size, tr.Insert(from, frag.Content...)
	}

	if open && frag.ChildCount() == 1 && frag.FirstChild().Type == block.node.Type {
		content := frag.FirstChild().Content
		return from + content.Size, tr.Insert(from, content.Content...)
	}

	offset := from - block.start()
	head := block.node.Cut(0, offset)
	tail := block.node.Cut(offset)
	inserted := append([]*model.Node(nil), frag.Content...)
	headJoined := open && inserted[0].Type == block.node.Type
	if headJoined {
		head = head.Copy(head.Content.Append(inserted[0].Content))
		inserted = inserted[1:]
	}
	joined := -1
	if open && len(inserted) > 0 && inserted[len(inserted)-1].Type == block.node.Type {
		last := inserted[len(inserted)-1]
		joined = last.Content.Size
		tail = tail.Copy(last.Content.Append(tail.Content))
		inserted = inserted[:len(inserted)-1]
	}

	var nodes []*model.Node
	cursor := block.before
	if headJoined || head.Content.Size > 0 {
		nodes = append(nodes, head)
		cursor += head.NodeSize()
	}
	for _, n := range inserted {
		nodes = append(nodes, n)
		cursor += n.NodeSize()
	}
	switch {
	case joined >= 0 || tail.Content.Size > 0:
		nodes = append(nodes, tail)
		cursor += 1 + max(joined, 0)
	case nodes[len(nodes)-1].IsTextblock():
		cursor--
	}
	return cursor, tr.Replace(block.before, block.end(), model.NewFragment(nodes))
}
