package editor

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xcms-dev/richtext/model"
	"github.com/xcms-dev/richtext/transform"
)

// leafText stands for non-text leaf nodes in the text input rules match.
const leafText = "\ufffc"

var newlines = regexp.MustCompile(`(?:\r\n?|\n)+`)

// InsertText types text over the selection. The typed text gets the
// inclusive marks of the text before it; then the first matching input rule
// of the extensions is applied.
func (e *Editor) InsertText(text string) bool {
	if text == "" {
		return false
	}
	from, to := e.selection.From, e.selection.To
	node := e.schema.Text(text, marksAt(e.doc, from)...)
	if !e.apply("insertText", func(tr *transform.Transform) (int, error) {
		return e.insert(tr, from, to, model.NewFragment([]*model.Node{node}), false)
	}) {
		return false
	}
	e.applyInputRules()
	return true
}

func (e *Editor) applyInputRules() {
	if !e.selection.Empty() {
		return
	}
	pos := e.selection.From
	path := ancestorsAt(e.doc, pos)
	block := path[len(path)-1]
	if !block.node.IsTextblock() || block.node.Type.Spec.Code {
		return
	}
	before := e.doc.TextBetween(block.start(), pos, "", leafText)
	for _, ext := range e.extensions {
		for _, rule := range ext.InputRules {
			match := rule.Find.FindStringSubmatch(before)
			if match == nil {
				continue
			}
			typ, err := e.schema.NodeType(rule.Type)
			if err != nil {
				e.logger.Warn("input rule for unknown node type",
					slog.String("extension", ext.Name),
					slog.String("type", rule.Type))
				continue
			}
			node, err := typ.Create(rule.Attributes(match), nil, nil)
			if err != nil {
				continue
			}
			start, end := pos-utf8.RuneCountInString(match[0]), pos
			if len(match) > 1 && match[1] != "" {
				offset := strings.LastIndex(match[0], match[1])
				start += utf8.RuneCountInString(match[0][:offset])
				end = start + utf8.RuneCountInString(match[1])
			}
			e.apply("inputRule", func(tr *transform.Transform) (int, error) {
				return e.insert(tr, start, end, model.NewFragment([]*model.Node{node}), false)
			})
			return
		}
	}
}

// Paste inserts pasted text. The paste handlers of the extensions get it
// first, by priority; when none takes it, the paste rules turn their
// matches into nodes; otherwise the text is inserted with each line as a
// paragraph.
func (e *Editor) Paste(text string) bool {
	if text == "" {
		return false
	}
	for _, ext := range e.extensions {
		if ext.HandlePaste != nil && ext.HandlePaste(e, text) {
			return true
		}
	}
	if frag := e.applyPasteRules(text); frag != nil {
		return e.InsertContent(frag)
	}
	return e.insertPlainText(text)
}

type pasteMatch struct {
	start, end int
	node       *model.Node
}

func (e *Editor) applyPasteRules(text string) *model.Fragment {
	var matches []pasteMatch
	for _, ext := range e.extensions {
		for _, rule := range ext.PasteRules {
			typ, err := e.schema.NodeType(rule.Type)
			if err != nil {
				continue
			}
			for _, loc := range rule.Find.FindAllStringSubmatchIndex(text, -1) {
				groups := make([]string, len(loc)/2)
				for i := range groups {
					if loc[2*i] >= 0 {
						groups[i] = text[loc[2*i]:loc[2*i+1]]
					}
				}
				node, err := typ.Create(rule.Attributes(groups), nil, nil)
				if err != nil {
					continue
				}
				matches = append(matches, pasteMatch{start: loc[0], end: loc[1], node: node})
			}
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	var blocks, inline []*model.Node
	flush := func() {
		if len(inline) == 0 {
			return
		}
		if para, err := e.defaultTextblock().Create(nil, model.NewFragment(inline), nil); err == nil {
			blocks = append(blocks, para)
		}
		inline = nil
	}
	addText := func(s string) {
		for i, line := range newlines.Split(s, -1) {
			if i > 0 {
				flush()
			}
			if strings.TrimSpace(line) != "" {
				inline = append(inline, e.schema.Text(line))
			}
		}
	}
	last := 0
	for _, m := range matches {
		if m.start < last {
			continue
		}
		addText(text[last:m.start])
		if m.node.IsInline() {
			inline = append(inline, m.node)
		} else {
			flush()
			blocks = append(blocks, m.node)
		}
		last = m.end
	}
	addText(text[last:])
	flush()
	return model.NewFragment(blocks)
}

// insertPlainText inserts a single line as text, and more lines as
// paragraphs joined with the textblock around the selection.
func (e *Editor) insertPlainText(text string) bool {
	lines := newlines.Split(text, -1)
	from, to := e.selection.From, e.selection.To
	if len(lines) == 1 {
		return e.InsertContent(e.schema.Text(text, marksAt(e.doc, from)...))
	}
	paras := make([]*model.Node, 0, len(lines))
	for _, line := range lines {
		var content *model.Fragment
		if line != "" {
			content = model.NewFragment([]*model.Node{e.schema.Text(line)})
		}
		para, err := e.defaultTextblock().Create(nil, content, nil)
		if err != nil {
			return false
		}
		paras = append(paras, para)
	}
	return e.apply("paste", func(tr *transform.Transform) (int, error) {
		return e.insert(tr, from, to, model.NewFragment(paras), true)
	})
}
