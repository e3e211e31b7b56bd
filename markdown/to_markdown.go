// Package markdown converts documents to and from Markdown, and tells
// whether a piece of plain text is likely to be Markdown.
package markdown

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xcms-dev/richtext/model"
)

// NodeSerializerFunc is the function to serialize a node.
type NodeSerializerFunc func(state *SerializerState, node, parent *model.Node, index int)

// MarkSerializerSpec is the serializer info for a mark.
type MarkSerializerSpec struct {
	Open                     interface{} // Can be a string or a func
	Close                    interface{} // Can be a string or a func
	Mixable                  bool
	ExpelEnclosingWhitespace bool
	NoEscape                 bool
	// Order is the nesting order of the mark in the output: marks with a
	// lower order are opened first. Marks with the same order are kept in
	// schema order.
	Order int
}

// Serializer is a specification for serializing a document as Markdown
// text.
type Serializer struct {
	Nodes map[string]NodeSerializerFunc
	Marks map[string]MarkSerializerSpec
}

// NewSerializer constructs a serializer with the given configuration. The
// nodes map node names to functions that take a serializer state and such a
// node, and serialize the node.
//
// The marks hold the Open and Close strings that appear before and after a
// piece of text marked that way. Open and Close can also be functions taking
// the state, the mark, the parent node and the index of the marked node in
// it, to inspect the mark's context.
//
// Mixable marks may be opened and closed in any order relative to other
// mixable marks. (For example, you can say `**a *b***` and `*a **b***`, but
// not `` `a *b*` ``.)
//
// A NoEscape mark has its content written as is. Such a mark has to be the
// innermost one, which its Order must ensure.
//
// ExpelEnclosingWhitespace moves enclosing whitespace from inside the marks
// to outside the marks. CommonMark does not permit enclosing whitespace
// inside emphasis marks, see:
// http://spec.commonmark.org/0.26/#example-330
func NewSerializer(nodes map[string]NodeSerializerFunc, marks map[string]MarkSerializerSpec) *Serializer {
	return &Serializer{
		Nodes: nodes,
		Marks: marks,
	}
}

// Serialize the content of the given node to
// [CommonMark](http://commonmark.org/).
func (s *Serializer) Serialize(content *model.Node, options ...map[string]interface{}) string {
	var opts map[string]interface{}
	if len(options) > 0 {
		opts = options[0]
	}
	state := NewSerializerState(s.Nodes, s.Marks, opts)
	state.RenderContent(content)
	return state.Out
}

func getAttrInt(attrs map[string]interface{}, name string, defaultValue int) int {
	value := defaultValue
	switch v := attrs[name].(type) {
	case int:
		value = v
	case float64:
		value = int(v)
	case int64:
		value = int(v)
	}
	return value
}

var backticksRegexp = regexp.MustCompile("`{3,}")

// htmlMark serializes a mark as an inline HTML element, for the marks that
// have no Markdown syntax.
func htmlMark(tag string) MarkSerializerSpec {
	return MarkSerializerSpec{Open: "<" + tag + ">", Close: "</" + tag + ">", Mixable: true, Order: 5}
}

// DefaultNodes are the node serializers of the base document schema.
var DefaultNodes = map[string]NodeSerializerFunc{
	"blockquote": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.WrapBlock("> ", nil, node, func() { state.RenderContent(node) })
	},
	"codeBlock": func(state *SerializerState, node, _parent *model.Node, _index int) {
		fence := "```"
		content := node.TextContent()
		matches := backticksRegexp.FindAllString(content, -1)
		for _, backticks := range matches {
			if len(backticks) >= len(fence) {
				fence = backticks + "`"
			}
		}

		language, _ := node.Attrs["language"].(string)
		state.Write(fence + language + "\n")
		state.Text(content, false)
		// The closing fence goes on its own line, even when the content
		// ends with a newline.
		state.Write("\n")
		state.Write(fence)
		state.CloseBlock(node)
	},
	"heading": func(state *SerializerState, node, _parent *model.Node, _index int) {
		level := getAttrInt(node.Attrs, "level", 1)
		state.Write(strings.Repeat("#", level) + " ")
		state.RenderInline(node)
		state.CloseBlock(node)
	},
	"horizontalRule": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.Write("---")
		state.CloseBlock(node)
	},
	"bulletList": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.RenderList(node, "  ", func(_ int) string { return "- " })
	},
	"orderedList": func(state *SerializerState, node, _parent *model.Node, _index int) {
		start := getAttrInt(node.Attrs, "start", 1)
		maxW := len(fmt.Sprintf("%d", start+node.ChildCount()-1))
		space := strings.Repeat(" ", maxW+2)
		state.RenderList(node, space, func(i int) string {
			nStr := fmt.Sprintf("%d", start+i)
			return strings.Repeat(" ", maxW-len(nStr)) + nStr + ". "
		})
	},
	"listItem": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.RenderContent(node)
	},
	"paragraph": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.RenderInline(node)
		state.CloseBlock(node)
	},
	"table": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.RenderTable(node)
	},
	"hardBreak": func(state *SerializerState, node, parent *model.Node, index int) {
		for i := index; i < parent.ChildCount(); i++ {
			if child, err := parent.Child(i); err == nil {
				if child.Type != node.Type {
					state.Write("\\\n")
					return
				}
			}
		}
	},
	"text": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.Text(*node.Text, !state.InAutoLink)
	},
}

// DefaultMarks are the mark serializers of the base document schema.
var DefaultMarks = map[string]MarkSerializerSpec{
	"italic": {Open: "*", Close: "*", Mixable: true, ExpelEnclosingWhitespace: true, Order: 1},
	"bold":   {Open: "**", Close: "**", Mixable: true, ExpelEnclosingWhitespace: true, Order: 2},
	"strike": {Open: "~~", Close: "~~", Mixable: true, ExpelEnclosingWhitespace: true, Order: 3},
	"link": {
		Open: func(state *SerializerState, mark *model.Mark, parent *model.Node, index int) string {
			state.InAutoLink = isPlainURL(state, mark, parent, index)
			if state.InAutoLink {
				return "<"
			}
			return "["
		},
		Close: func(state *SerializerState, mark *model.Mark, parent *model.Node, index int) string {
			if state.InAutoLink {
				state.InAutoLink = false
				return ">"
			}
			href, _ := mark.Attrs["href"].(string)
			href = strings.ReplaceAll(href, "(", "\\(")
			href = strings.ReplaceAll(href, ")", "\\)")
			href = strings.ReplaceAll(href, `"`, `\"`)
			title, _ := mark.Attrs["title"].(string)
			if title != "" {
				title = ` "` + strings.ReplaceAll(title, `"`, `\"`) + `"`
			}
			return fmt.Sprintf("](%s%s)", href, title)
		},
		Mixable: true,
		Order:   4,
	},
	"code": {
		Open: func(_state *SerializerState, _mark *model.Mark, parent *model.Node, index int) string {
			child, err := parent.Child(index)
			if err != nil {
				return "`"
			}
			return backticksFor(child, -1)
		},
		Close: func(_state *SerializerState, _mark *model.Mark, parent *model.Node, index int) string {
			child, err := parent.Child(index - 1)
			if err != nil {
				return "`"
			}
			return backticksFor(child, 1)
		},
		NoEscape: true,
		Order:    10,
	},
	"underline":   htmlMark("u"),
	"superscript": htmlMark("sup"),
	"subscript":   htmlMark("sub"),
	"highlight":   htmlMark("mark"),
}

// DefaultSerializer is a serializer for the base document schema.
var DefaultSerializer = NewSerializer(DefaultNodes, DefaultMarks)

// WithNodes returns a copy of the serializer with extra node serializers,
// replacing the existing ones with the same names.
func (s *Serializer) WithNodes(nodes map[string]NodeSerializerFunc) *Serializer {
	merged := make(map[string]NodeSerializerFunc, len(s.Nodes)+len(nodes))
	for name, fn := range s.Nodes {
		merged[name] = fn
	}
	for name, fn := range nodes {
		merged[name] = fn
	}
	return NewSerializer(merged, s.Marks)
}

// WithMarks returns a copy of the serializer with extra mark serializers.
func (s *Serializer) WithMarks(marks map[string]MarkSerializerSpec) *Serializer {
	merged := make(map[string]MarkSerializerSpec, len(s.Marks)+len(marks))
	for name, spec := range s.Marks {
		merged[name] = spec
	}
	for name, spec := range marks {
		merged[name] = spec
	}
	return NewSerializer(s.Nodes, merged)
}

func backticksFor(node *model.Node, side int) string {
	length := 0
	if node.IsText() {
		ticks := strings.FieldsFunc(*node.Text, func(r rune) bool { return r != '`' })
		for _, t := range ticks {
			if l := len(t); l > length {
				length = l
			}
		}
	}
	result := "`"
	if length > 0 && side > 0 {
		result = " `"
	}
	for i := 0; i < length; i++ {
		result += "`"
	}
	if length > 0 && side < 0 {
		result += " "
	}
	return result
}

var schemeRegexp = regexp.MustCompile(`^\w+:`)

func isPlainURL(state *SerializerState, link *model.Mark, parent *model.Node, index int) bool {
	if title, _ := link.Attrs["title"].(string); title != "" {
		return false
	}
	href, _ := link.Attrs["href"].(string)
	if !schemeRegexp.MatchString(href) {
		return false
	}
	content, err := parent.Child(index)
	if err != nil || !content.IsText() || *content.Text != href {
		return false
	}
	marks := state.orderMarks(content.Marks)
	if marks[len(marks)-1] != link {
		return false
	}
	if index == parent.ChildCount()-1 {
		return true
	}
	next, err := parent.Child(index + 1)
	if err != nil {
		return true
	}
	return !link.IsInSet(next.Marks)
}

// SerializerState is an object used to track state and expose methods related
// to markdown serialization. Instances are passed to node and mark
// serialization methods (see `toMarkdown`).
type SerializerState struct {
	Nodes        map[string]NodeSerializerFunc
	Marks        map[string]MarkSerializerSpec
	Delim        string
	Out          string
	Closed       *model.Node
	InAutoLink   bool
	AtBlockStart bool
	InTightList  bool
	tightLists   bool
}

// NewSerializerState is the constructor for NewSerializerState.
//
// Options are the options passed to the serializer.
//
//	tightLists:: ?bool
//	Whether to render lists in a tight style. This can be overridden
//	on a node level by specifying a tight attribute on the node.
//	Defaults to false.
func NewSerializerState(
	nodes map[string]NodeSerializerFunc,
	marks map[string]MarkSerializerSpec,
	options map[string]interface{},
) *SerializerState {
	tight := false
	if t, ok := options["tightLists"].(bool); ok {
		tight = t
	}
	return &SerializerState{
		Nodes:       nodes,
		Marks:       marks,
		Delim:       "",
		Out:         "",
		Closed:      nil,
		InTightList: false,
		tightLists:  tight,
	}
}

func (s *SerializerState) flushClose(size ...int) {
	if s.Closed == nil {
		return
	}
	s.EnsureNewLine()
	siz := 2
	if len(size) > 0 {
		siz = size[0]
	}
	if siz > 1 {
		delimMin := strings.TrimRightFunc(s.Delim, unicode.IsSpace)
		for i := 1; i < siz; i++ {
			s.Out += delimMin + "\n"
		}
	}
	s.Closed = nil
}

// WrapBlock renders a block, prefixing each line with `delim`, and the first
// line in `firstDelim`. `node` should be the node that is closed at the end of
// the block, and `f` is a function that renders the content of the block.
func (s *SerializerState) WrapBlock(delim string, firstDelim *string, node *model.Node, f func()) {
	old := s.Delim
	d := delim
	if firstDelim != nil {
		d = *firstDelim
	}
	s.Write(d)
	s.Delim += delim
	f()
	s.Delim = old
	s.CloseBlock(node)
}

func (s *SerializerState) atBlank() bool {
	if len(s.Out) == 0 {
		return true
	}
	return s.Out[len(s.Out)-1] == '\n'
}

// EnsureNewLine ensures the current content ends with a newline.
func (s *SerializerState) EnsureNewLine() {
	if !s.atBlank() {
		s.Out += "\n"
	}
}

// Write prepares the state for writing output (closing closed paragraphs,
// adding delimiters, and so on), and then optionally add content
// (unescaped) to the output.
func (s *SerializerState) Write(content ...string) {
	s.flushClose()
	if s.Delim != "" && s.atBlank() {
		s.Out += s.Delim
	}
	if len(content) > 0 {
		s.Out += content[0]
	}
}

// CloseBlock closes the block for the given node.
func (s *SerializerState) CloseBlock(node *model.Node) {
	s.Closed = node
}

var textRegexp1 = regexp.MustCompile(`(^|[^\\])\!$`)

// Text adds the given text to the document. When escape is not `false`, it
// will be escaped.
func (s *SerializerState) Text(text string, escape ...bool) {
	lines := strings.Split(text, "\n")
	esc := true
	if len(escape) > 0 {
		esc = escape[0]
	}
	for i, line := range lines {
		s.Write()
		// Escape exclamation marks in front of links
		if !esc && strings.HasPrefix(line, "[") && textRegexp1.MatchString(s.Out) {
			s.Out = s.Out[:len(s.Out)-1] + "\\!"
		}
		if esc {
			s.Out += s.Esc(line, s.AtBlockStart)
		} else {
			s.Out += line
		}
		if i != len(lines)-1 {
			s.Out += "\n"
		}
	}
}

// Render the given node as a block.
func (s *SerializerState) Render(node, parent *model.Node, index int) {
	if fn, ok := s.Nodes[node.Type.Name]; ok {
		fn(s, node, parent, index)
	}
}

// RenderContent renders the contents of `parent` as block nodes.
func (s *SerializerState) RenderContent(parent *model.Node) {
	parent.ForEach(func(node *model.Node, _ int, i int) {
		s.Render(node, parent, i)
	})
}

// orderMarks returns the marks sorted in output nesting order. Marks the
// serializer has no spec for are left out: their text is written unmarked.
func (s *SerializerState) orderMarks(marks []*model.Mark) []*model.Mark {
	sorted := make([]*model.Mark, 0, len(marks))
	for _, m := range marks {
		if _, ok := s.Marks[m.Type.Name]; ok {
			sorted = append(sorted, m)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return s.Marks[sorted[i].Type.Name].Order < s.Marks[sorted[j].Type.Name].Order
	})
	return sorted
}

// absorbed returns the marks of the surrounding runs that the marks of node
// exclude, like bold around a code span, and that can stay open over node.
// The parser drops them again when it reads node back. A delimiter moved next
// to node must still close or open there: a mark ending with node needs a
// space or punctuation after it, and a mark starting with node needs one
// before it.
func (s *SerializerState) absorbed(node *model.Node, active []*model.Mark, next *model.Node, leading string) []*model.Mark {
	excluded := func(m *model.Mark) bool {
		if m.IsInSet(node.Marks) {
			return false
		}
		for _, own := range node.Marks {
			if own.Type != m.Type && own.Type.Excludes(m.Type) {
				return true
			}
		}
		return false
	}
	continues := func(m *model.Mark) bool {
		return next != nil && m.IsInSet(next.Marks)
	}

	var carried []*model.Mark
	allContinue := true
	for _, m := range active {
		if m.IsInSet(node.Marks) {
			continue
		}
		if !excluded(m) {
			allContinue = false
			continue
		}
		if continues(m) {
			carried = append(carried, m)
			continue
		}
		allContinue = false
		if s.boundaryAfter(next) {
			carried = append(carried, m)
		}
	}
	if next == nil || !allContinue || !s.boundaryBefore(leading) {
		return carried
	}
	for _, m := range next.Marks {
		if excluded(m) && !m.IsInSet(carried) {
			carried = append(carried, m)
		}
	}
	return carried
}

func isBoundary(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// boundaryAfter reports whether the output following the current node starts
// with a space or punctuation, or ends the block.
func (s *SerializerState) boundaryAfter(next *model.Node) bool {
	if next == nil {
		return true
	}
	if !next.IsText() || *next.Text == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(*next.Text)
	return isBoundary(r)
}

// boundaryBefore reports whether the output so far ends with a space or
// punctuation, or is at the start of the block.
func (s *SerializerState) boundaryBefore(leading string) bool {
	if leading != "" || s.AtBlockStart || s.atBlank() {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s.Out)
	return isBoundary(r)
}

func (s *SerializerState) expels(mark *model.Mark) bool {
	info, ok := s.Marks[mark.Type.Name]
	return ok && info.ExpelEnclosingWhitespace
}

// RenderInline renders the contents of `parent` as inline content.
func (s *SerializerState) RenderInline(parent *model.Node) {
	s.AtBlockStart = true
	var active []*model.Mark
	var trailing string

	progress := func(node *model.Node, index int) {
		var marks []*model.Mark
		if node != nil {
			marks = s.orderMarks(node.Marks)
		}

		// Remove marks from hard breaks that are the last node inside
		// that mark to prevent parser edge cases with new lines just
		// before closing marks.
		if node != nil && node.Type.Name == "hardBreak" {
			var filtered []*model.Mark
			for _, m := range marks {
				next := parent.MaybeChild(index + 1)
				if next == nil || !m.IsInSet(next.Marks) {
					continue
				}
				if !next.IsText() || strings.TrimSpace(*next.Text) != "" {
					filtered = append(filtered, m)
				}
			}
			marks = filtered
		}

		leading := trailing
		trailing = ""
		// If whitespace has to be expelled from the node, adjust
		// leading and trailing accordingly.
		if node != nil && node.IsText() {
			for _, mark := range marks {
				if !s.expels(mark) || mark.IsInSet(active) || !mark.IsInSet(node.Marks) {
					continue
				}
				text := *node.Text
				rest := strings.TrimLeftFunc(text, unicode.IsSpace)
				if lead := text[:len(text)-len(rest)]; lead != "" {
					leading += lead
					if rest != "" {
						node = node.WithText(rest)
					} else {
						node = nil
						marks = active
					}
				}
				break
			}
		}
		if node != nil && node.IsText() {
			for _, mark := range marks {
				if !s.expels(mark) || !mark.IsInSet(node.Marks) {
					continue
				}
				if next := parent.MaybeChild(index + 1); next != nil && mark.IsInSet(next.Marks) {
					continue
				}
				text := *node.Text
				rest := strings.TrimRightFunc(text, unicode.IsSpace)
				if trail := text[len(rest):]; trail != "" {
					trailing = trail
					if rest != "" {
						node = node.WithText(rest)
					} else {
						node = nil
						marks = active
					}
				}
				break
			}
		}

		next := parent.MaybeChild(index + 1)
		if node != nil && node.IsText() {
			if carried := s.absorbed(node, active, next, leading); len(carried) > 0 {
				marks = append(s.orderMarks(carried), s.orderMarks(node.Marks)...)
			}
		}

		var inner *model.Mark
		if len(marks) > 0 {
			inner = marks[len(marks)-1]
		}
		noEsc := inner != nil && s.Marks[inner.Type.Name].NoEscape
		length := len(marks)
		if noEsc {
			length--
		}

		// Marks that go on into the next node are opened first, so that
		// they stay open when the others close.
		if node != nil && next != nil {
			mixable := 0
			for mixable < length && s.Marks[marks[mixable].Type.Name].Mixable {
				mixable++
			}
			head := append([]*model.Mark(nil), marks[:mixable]...)
			sort.SliceStable(head, func(i, j int) bool {
				return head[i].IsInSet(next.Marks) && !head[j].IsInSet(next.Marks)
			})
			marks = append(head, marks[mixable:]...)
		}

		// Try to reorder 'mixable' marks, such as em and strong, which
		// in Markdown may be opened and closed in different order, so
		// that order of the marks for the token matches the order in
		// active.
	outer:
		for i := 0; i < length; i++ {
			mark := marks[i]
			if !s.Marks[mark.Type.Name].Mixable {
				break
			}
			for j, other := range active {
				if !s.Marks[other.Type.Name].Mixable {
					break
				}
				if !mark.Eq(other) {
					continue
				}
				mixed := make([]*model.Mark, 0, len(marks))
				if i > j {
					mixed = append(mixed, marks[:j]...)
					mixed = append(mixed, mark)
					mixed = append(mixed, marks[j:i]...)
					mixed = append(mixed, marks[i+1:]...)
					marks = mixed
				} else if j > i {
					mixed = append(mixed, marks[:i]...)
					mixed = append(mixed, marks[i+1:j]...)
					mixed = append(mixed, mark)
					mixed = append(mixed, marks[j:]...)
					marks = mixed
				}
				continue outer
			}
		}

		// Find the prefix of the mark set that didn't change
		keep := 0
		for keep < min(len(active), length) && marks[keep].Eq(active[keep]) {
			keep++
		}

		// Close the marks that need to be closed
		for keep < len(active) {
			s.Text(s.MarkString(active[len(active)-1], false, parent, index), false)
			active = active[:len(active)-1]
		}

		// Output any previously expelled trailing whitespace outside the marks
		if leading != "" {
			s.Text(leading)
		}

		// Open the marks that need to be opened
		if node != nil {
			for len(active) < length {
				add := marks[len(active)]
				active = append(active, add)
				s.Text(s.MarkString(add, true, parent, index), false)
				s.AtBlockStart = false
			}

			// Render the node. Special case code marks, since their content
			// may not be escaped.
			if noEsc && node.IsText() {
				s.Text(s.MarkString(inner, true, parent, index)+*node.Text+
					s.MarkString(inner, false, parent, index+1), false)
			} else {
				s.Render(node, parent, index)
			}
			s.AtBlockStart = false
		}
	}

	parent.ForEach(func(node *model.Node, _, index int) {
		progress(node, index)
	})
	progress(nil, parent.ChildCount())
	s.AtBlockStart = false
}

// RenderList renders a node's content as a list. `delim` should be the extra
// indentation added to all lines except the first in an item, `firstDelim` is
// a function going from an item index to a delimiter for the first line of the
// item.
func (s *SerializerState) RenderList(node *model.Node, delim string, firstDelim func(i int) string) {
	if s.Closed != nil && s.Closed.Type == node.Type {
		s.flushClose(3)
	} else if s.InTightList {
		s.flushClose(1)
	}

	isTight := s.tightLists
	if t, ok := node.Attrs["tight"].(bool); ok {
		isTight = t
	}
	prevTight := s.InTightList
	s.InTightList = isTight
	node.ForEach(func(child *model.Node, _, i int) {
		if i > 0 && isTight {
			s.flushClose(1)
		}
		first := firstDelim(i)
		s.WrapBlock(delim, &first, node, func() { s.Render(child, node, i) })
	})
	s.InTightList = prevTight
}

var (
	escRegexp1 = regexp.MustCompile("([`*\\\\~\\[\\]])")
	escRegexp2 = regexp.MustCompile(`(\b_)|(_\b)`)
	escRegexp3 = regexp.MustCompile(`^([#\-*+>])`)
	escRegexp4 = regexp.MustCompile(`(\s*\d+)\.`)
)

// Esc escapes the given string so that it can safely appear in Markdown
// content. If `startOfLine` is true, also escape characters that have special
// meaning only at the start of the line.
func (s *SerializerState) Esc(str string, startOfLine ...bool) string {
	start := false
	if len(startOfLine) > 0 {
		start = startOfLine[0]
	}
	str = escRegexp1.ReplaceAllString(str, "\\$1")
	str = escRegexp2.ReplaceAllString(str, "\\_")
	if start {
		str = escRegexp3.ReplaceAllString(str, "\\$1")
		str = escRegexp4.ReplaceAllString(str, "$1\\.")
	}
	return str
}

// Quote wraps the string as a quote.
func (s *SerializerState) Quote(str string) string {
	wrap := `()`
	if !strings.Contains(str, `"`) {
		wrap = `""`
	} else if !strings.Contains(str, "'") {
		wrap = "''"
	}
	return wrap[:1] + str + wrap[1:]
}

// MarkString gets the markdown string for a given opening or closing mark.
func (s *SerializerState) MarkString(mark *model.Mark, open bool, parent *model.Node, index int) string {
	info := s.Marks[mark.Type.Name]
	value := info.Open
	if !open {
		value = info.Close
	}
	switch value := value.(type) {
	case string:
		return value
	case func(state *SerializerState, mark *model.Mark, parent *model.Node, index int) string:
		return value(s, mark, parent, index)
	}
	return ""
}

// RenderTable renders a table as a GFM pipe table. The first row is used as
// the header row. Cells are rendered as inline content on a single line, their
// paragraphs separated by spaces.
func (s *SerializerState) RenderTable(node *model.Node) {
	var rows [][]string
	columns := 0
	node.ForEach(func(row *model.Node, _, _ int) {
		var cells []string
		row.ForEach(func(cell *model.Node, _, _ int) {
			cells = append(cells, s.renderCell(cell))
		})
		columns = max(columns, len(cells))
		rows = append(rows, cells)
	})
	if len(rows) == 0 {
		return
	}

	line := func(cells []string) string {
		for len(cells) < columns {
			cells = append(cells, "")
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}
	separator := make([]string, columns)
	for i := range separator {
		separator[i] = "---"
	}

	s.Write(line(rows[0]))
	s.EnsureNewLine()
	s.Write(line(separator))
	for _, row := range rows[1:] {
		s.EnsureNewLine()
		s.Write(line(row))
	}
	s.CloseBlock(node)
}

func (s *SerializerState) renderCell(cell *model.Node) string {
	var parts []string
	cell.ForEach(func(block *model.Node, _, _ int) {
		sub := NewSerializerState(s.Nodes, s.Marks, nil)
		if block.IsTextblock() {
			sub.RenderInline(block)
		} else {
			sub.Text(block.TextContent())
		}
		if text := strings.TrimSpace(sub.Out); text != "" {
			parts = append(parts, text)
		}
	})
	text := strings.Join(parts, " ")
	text = strings.ReplaceAll(text, "\\\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", "\\|")
}
