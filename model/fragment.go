package model

import (
	"fmt"
	"strings"
)

// Fragment represents a node's collection of child nodes.
//
// Like nodes, fragments are persistent data structures, and you should not
// mutate them or their content. Rather, you create new instances whenever
// needed. The API tries to make this easy.
type Fragment struct {
	Content []*Node
	// The size of the fragment, which is the total of the size of its
	// content nodes.
	Size int
}

// NewFragment builds a fragment from a list of nodes. Adjacent text nodes
// with the same marks are joined together.
func NewFragment(content []*Node) *Fragment {
	if len(content) == 0 {
		return EmptyFragment
	}
	var joined []*Node
	size := 0
	for _, node := range content {
		size += node.NodeSize()
		last := len(joined) - 1
		if last >= 0 && node.IsText() && joined[last].IsText() && node.SameMarkup(joined[last]) {
			joined[last] = joined[last].WithText(*joined[last].Text + *node.Text)
			continue
		}
		joined = append(joined, node)
	}
	return &Fragment{Content: joined, Size: size}
}

// FragmentFrom creates a fragment from something that can be interpreted as
// a set of nodes: nil, a fragment, a node, or a slice of nodes.
func FragmentFrom(nodes interface{}) (*Fragment, error) {
	switch n := nodes.(type) {
	case nil:
		return EmptyFragment, nil
	case *Fragment:
		if n == nil {
			return EmptyFragment, nil
		}
		return n, nil
	case *Node:
		if n == nil {
			return EmptyFragment, nil
		}
		return &Fragment{Content: []*Node{n}, Size: n.NodeSize()}, nil
	case []*Node:
		return NewFragment(n), nil
	case []interface{}:
		list := make([]*Node, 0, len(n))
		for _, item := range n {
			node, ok := item.(*Node)
			if !ok {
				return nil, fmt.Errorf("can not convert %v to a Fragment", item)
			}
			list = append(list, node)
		}
		return NewFragment(list), nil
	}
	return nil, fmt.Errorf("can not convert %v to a Fragment", nodes)
}

// ChildCount is the number of child nodes in this fragment.
func (f *Fragment) ChildCount() int {
	return len(f.Content)
}

// Child gets the child node at the given index. Returns an error when the
// index is out of range.
func (f *Fragment) Child(index int) (*Node, error) {
	if index < 0 || index >= len(f.Content) {
		return nil, fmt.Errorf("index %d out of range for %s", index, f)
	}
	return f.Content[index], nil
}

// MaybeChild gets the child node at the given index, if it exists.
func (f *Fragment) MaybeChild(index int) *Node {
	if index < 0 || index >= len(f.Content) {
		return nil
	}
	return f.Content[index]
}

// FirstChild returns the first child of the fragment, or nil if it is empty.
func (f *Fragment) FirstChild() *Node {
	return f.MaybeChild(0)
}

// LastChild returns the last child of the fragment, or nil if it is empty.
func (f *Fragment) LastChild() *Node {
	return f.MaybeChild(len(f.Content) - 1)
}

// ForEach calls fn for every child node, passing the node, its offset into
// this parent node, and its index.
func (f *Fragment) ForEach(fn func(node *Node, offset, index int)) {
	pos := 0
	for i, child := range f.Content {
		fn(child, pos, i)
		pos += child.NodeSize()
	}
}

// NBCallback is the callback used by NodesBetween. Returning false skips the
// children of the given node.
type NBCallback func(node *Node, pos int, parent *Node, index int) bool

// NodesBetween invokes a callback for all descendant nodes between the given
// two positions (relative to start of this fragment).
func (f *Fragment) NodesBetween(from, to int, fn NBCallback, nodeStart int, parent *Node) {
	pos := 0
	for i, child := range f.Content {
		if pos >= to {
			break
		}
		end := pos + child.NodeSize()
		if end > from && fn(child, nodeStart+pos, parent, i) && child.Content.Size > 0 {
			start := pos + 1
			childFrom := from - start
			if childFrom < 0 {
				childFrom = 0
			}
			childTo := to - start
			if childTo > child.Content.Size {
				childTo = child.Content.Size
			}
			child.NodesBetween(childFrom, childTo, fn, nodeStart+start)
		}
		pos = end
	}
}

// Descendants calls fn for every descendant node.
func (f *Fragment) Descendants(fn NBCallback) {
	f.NodesBetween(0, f.Size, fn, 0, nil)
}

// TextBetween extracts the text between from and to. When blockSeparator is
// given, it will be inserted whenever a new block node is started. leafText
// is inserted for every non-text leaf node.
func (f *Fragment) TextBetween(from, to int, args ...string) string {
	var blockSeparator, leafText string
	if len(args) > 0 {
		blockSeparator = args[0]
	}
	if len(args) > 1 {
		leafText = args[1]
	}
	var text strings.Builder
	separated := true
	f.NodesBetween(from, to, func(node *Node, pos int, _ *Node, _ int) bool {
		switch {
		case node.IsText():
			start := from - pos
			if start < 0 {
				start = 0
			}
			end := to - pos
			runes := []rune(*node.Text)
			if end > len(runes) {
				end = len(runes)
			}
			text.WriteString(string(runes[start:end]))
			separated = blockSeparator == ""
		case node.IsLeaf():
			if leafText != "" {
				text.WriteString(leafText)
			}
			separated = blockSeparator == ""
		case !separated && node.IsBlock():
			text.WriteString(blockSeparator)
			separated = true
		}
		return true
	}, 0, nil)
	return text.String()
}

// Append creates a new fragment containing the combined content of this
// fragment and the other.
func (f *Fragment) Append(other *Fragment) *Fragment {
	if other.Size == 0 {
		return f
	}
	if f.Size == 0 {
		return other
	}
	content := make([]*Node, 0, len(f.Content)+len(other.Content))
	content = append(content, f.Content...)
	content = append(content, other.Content...)
	return NewFragment(content)
}

// Cut cuts out the sub-fragment between the two given positions. Cutting
// through a text node splits it; cutting through any other node is only
// allowed by passing through its content, which produces an open node.
func (f *Fragment) Cut(from int, to ...int) *Fragment {
	t := f.Size
	if len(to) > 0 {
		t = to[0]
	}
	if from == 0 && t == f.Size {
		return f
	}
	var result []*Node
	size := 0
	if t > from {
		pos := 0
		for _, child := range f.Content {
			if pos >= t {
				break
			}
			end := pos + child.NodeSize()
			if end > from {
				if pos < from || end > t {
					if child.IsText() {
						start := from - pos
						if start < 0 {
							start = 0
						}
						stop := t - pos
						if stop > len([]rune(*child.Text)) {
							stop = len([]rune(*child.Text))
						}
						child = child.Cut(start, stop)
					} else {
						start := from - pos - 1
						if start < 0 {
							start = 0
						}
						stop := t - pos - 1
						if stop > child.Content.Size {
							stop = child.Content.Size
						}
						child = child.Cut(start, stop)
					}
				}
				result = append(result, child)
				size += child.NodeSize()
			}
			pos = end
		}
	}
	return &Fragment{Content: result, Size: size}
}

// ReplaceChild creates a new fragment in which the node at the given index is
// replaced by the given node.
func (f *Fragment) ReplaceChild(index int, node *Node) *Fragment {
	current := f.Content[index]
	if current == node {
		return f
	}
	cpy := make([]*Node, len(f.Content))
	copy(cpy, f.Content)
	cpy[index] = node
	return &Fragment{Content: cpy, Size: f.Size + node.NodeSize() - current.NodeSize()}
}

// Eq compares this fragment to another one.
func (f *Fragment) Eq(other *Fragment) bool {
	if len(f.Content) != len(other.Content) {
		return false
	}
	for i := range f.Content {
		if !f.Content[i].Eq(other.Content[i]) {
			return false
		}
	}
	return true
}

// findIndex finds the index and inner offset corresponding to a given
// relative position in this fragment.
func (f *Fragment) findIndex(pos int) (int, int, error) {
	if pos == 0 {
		return 0, pos, nil
	}
	if pos == f.Size {
		return len(f.Content), pos, nil
	}
	if pos > f.Size || pos < 0 {
		return 0, 0, fmt.Errorf("position %d outside of fragment (%s)", pos, f)
	}
	curPos := 0
	for i, cur := range f.Content {
		end := curPos + cur.NodeSize()
		if end >= pos {
			if end == pos {
				return i + 1, end, nil
			}
			return i, curPos, nil
		}
		curPos = end
	}
	return 0, 0, fmt.Errorf("position %d outside of fragment (%s)", pos, f)
}

// String returns a debugging string that describes this fragment.
func (f *Fragment) String() string {
	return "<" + f.toStringInner() + ">"
}

func (f *Fragment) toStringInner() string {
	parts := make([]string, len(f.Content))
	for i, node := range f.Content {
		parts[i] = node.String()
	}
	return strings.Join(parts, ", ")
}

// EmptyFragment is an empty fragment.
var EmptyFragment = &Fragment{}
