package model

import (
	"fmt"
)

// ReplaceError is the error type returned by Node.Replace when given an
// invalid replacement.
type ReplaceError struct {
	Message string
}

// NewReplaceError is the constructor for ReplaceError.
func NewReplaceError(message string, args ...interface{}) *ReplaceError {
	return &ReplaceError{Message: fmt.Sprintf(message, args...)}
}

// Error returns the error message.
func (e *ReplaceError) Error() string {
	return e.Message
}

// Replace replaces the part of the document between the given positions with
// the given fragment. Both positions must point into the same parent node:
// the replacement can split text nodes, but never opens or closes a non-text
// node. The resulting content must be allowed by the parent's type.
func (n *Node) Replace(from, to int, content *Fragment) (*Node, error) {
	if from > to {
		return nil, NewReplaceError("Invalid range %d-%d", from, to)
	}
	if from < 0 || to > n.Content.Size {
		return nil, NewReplaceError("Range %d-%d outside of node (%d)", from, to, n.Content.Size)
	}
	if content == nil {
		content = EmptyFragment
	}
	return replaceFlat(n, from, to, content)
}

func replaceFlat(node *Node, from, to int, content *Fragment) (*Node, error) {
	index, offset, err := node.Content.findIndex(from)
	if err != nil {
		return nil, NewReplaceError("%s", err)
	}
	if child := node.MaybeChild(index); child != nil && !child.IsText() && from > offset && to < offset+child.NodeSize() {
		inner, err := replaceFlat(child, from-offset-1, to-offset-1, content)
		if err != nil {
			return nil, err
		}
		return node.Copy(node.Content.ReplaceChild(index, inner)), nil
	}
	if err := checkBoundary(node, from); err != nil {
		return nil, err
	}
	if err := checkBoundary(node, to); err != nil {
		return nil, err
	}
	joined := node.Content.Cut(0, from).Append(content).Append(node.Content.Cut(to))
	if !node.Type.ValidContent(joined) {
		return nil, NewReplaceError("Invalid content for node %s", node.Type.Name)
	}
	return node.Copy(joined), nil
}

// A position is a valid end of a flat replacement when it sits between two
// children or inside a text node.
func checkBoundary(node *Node, pos int) error {
	index, offset, err := node.Content.findIndex(pos)
	if err != nil {
		return NewReplaceError("%s", err)
	}
	if offset == pos {
		return nil
	}
	if child := node.MaybeChild(index); child != nil && child.IsText() {
		return nil
	}
	return NewReplaceError("Replacement at %d crosses the boundary of a %s node", pos, node.Type.Name)
}

// Slice returns the content that a flat replacement of the given range would
// remove: a cut of the innermost node holding both positions.
func (n *Node) Slice(from, to int) (*Fragment, error) {
	if from > to || from < 0 || to > n.Content.Size {
		return nil, NewReplaceError("Invalid range %d-%d", from, to)
	}
	node := n
	for {
		index, offset, err := node.Content.findIndex(from)
		if err != nil {
			return nil, NewReplaceError("%s", err)
		}
		child := node.MaybeChild(index)
		if child == nil || child.IsText() || from <= offset || to >= offset+child.NodeSize() {
			return node.Content.Cut(from, to), nil
		}
		node, from, to = child, from-offset-1, to-offset-1
	}
}
