package editor

import (
	"github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/transform"
)

// Selection is a text selection, between two document positions. From is
// never after To; an empty selection is a cursor.
type Selection struct {
	From int
	To   int
}

// Empty is true for a cursor.
func (s Selection) Empty() bool {
	return s.From == s.To
}

// Map maps the selection through the changes of a transform.
func (s Selection) Map(m transform.Mappable) Selection {
	from, to := m.Map(s.From), m.Map(s.To)
	if from > to {
		from = to
	}
	return Selection{From: from, To: to}
}

func (s Selection) clamp(doc *model.Node) Selection {
	size := doc.Content.Size
	s.From = min(max(s.From, 0), size)
	s.To = min(max(s.To, 0), size)
	if s.From > s.To {
		s.From, s.To = s.To, s.From
	}
	return s
}

// atStart returns a cursor at the start of the first textblock of doc, or
// at 0 when there is none.
func atStart(doc *model.Node) Selection {
	found := -1
	doc.Descendants(func(node *model.Node, pos int, _ *model.Node, _ int) bool {
		if found >= 0 {
			return false
		}
		if node.IsTextblock() {
			found = pos + 1
			return false
		}
		return true
	})
	if found < 0 {
		found = 0
	}
	return Selection{From: found, To: found}
}

// ancestor is a node enclosing a position. before is the position in front
// of the node; it is -1 for the document.
type ancestor struct {
	node   *model.Node
	before int
}

func (a ancestor) start() int { return a.before + 1 }

func (a ancestor) end() int { return a.before + a.node.NodeSize() }

// ancestorsAt returns the nodes whose content holds pos, outermost first.
func ancestorsAt(doc *model.Node, pos int) []ancestor {
	path := []ancestor{{node: doc, before: -1}}
	node, start := doc, 0
	for {
		var next *model.Node
		nextBefore := 0
		node.ForEach(func(child *model.Node, offset, _ int) {
			if next != nil || child.IsText() || child.IsLeaf() {
				return
			}
			before := start + offset
			if pos > before && pos < before+child.NodeSize() {
				next, nextBefore = child, before
			}
		})
		if next == nil {
			return path
		}
		path = append(path, ancestor{node: next, before: nextBefore})
		node, start = next, nextBefore+1
	}
}

// marksAt returns the marks that text typed at pos gets: the inclusive
// marks of the text before it.
func marksAt(doc *model.Node, pos int) []*model.Mark {
	path := ancestorsAt(doc, pos)
	block := path[len(path)-1]
	if !block.node.IsTextblock() {
		return nil
	}
	offset := pos - block.start()
	var before *model.Node
	block.node.ForEach(func(child *model.Node, off, _ int) {
		if off < offset && offset <= off+child.NodeSize() {
			before = child
		}
	})
	if before == nil {
		return nil
	}
	var marks []*model.Mark
	for _, m := range before.Marks {
		if inclusive := m.Type.Spec.Inclusive; inclusive == nil || *inclusive {
			marks = append(marks, m)
		}
	}
	return marks
}
