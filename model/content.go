package model

import (
	"fmt"
	"regexp"
	"strings"
)

// contentExpr is the resolved form of a node type's content expression. It
// keeps the set of node types the expression refers to, which is what the
// extensions need to decide where content may go. Ordering and repetition
// are not enforced.
type contentExpr struct {
	source string
	types  []*NodeType
	inline bool
	// The first element of the expression when it is required (`block+`,
	// `paragraph block*`), used to fill new nodes.
	fill *NodeType
}

var contentTokenRegexp = regexp.MustCompile(`\w+|\W`)

type tokenStream struct {
	str       string
	nodeTypes map[string]*NodeType
	inline    *bool
	pos       int
	tokens    []string
}

func newTokenStream(str string, nodeTypes map[string]*NodeType) *tokenStream {
	var tokens []string
	for _, tok := range contentTokenRegexp.FindAllString(str, -1) {
		if strings.TrimSpace(tok) != "" {
			tokens = append(tokens, tok)
		}
	}
	return &tokenStream{
		str:       str,
		nodeTypes: nodeTypes,
		tokens:    tokens,
	}
}

func (ts *tokenStream) next() *string {
	if ts.pos >= len(ts.tokens) {
		return nil
	}
	return &ts.tokens[ts.pos]
}

func (ts *tokenStream) err(format string, args ...interface{}) error {
	str := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s (in content expression %q)", str, ts.str)
}

func parseContentExpr(str string, nodeTypes map[string]*NodeType) (*contentExpr, error) {
	expr := &contentExpr{source: str}
	stream := newTokenStream(str, nodeTypes)
	seen := map[*NodeType]bool{}
	first := true
	for tok := stream.next(); tok != nil; tok = stream.next() {
		stream.pos++
		if !isWordCharacters(*tok) {
			switch *tok {
			case "(", ")", "|", "+", "*", "?", "{", "}", ",":
				continue
			}
			return nil, stream.err("Unexpected token %q", *tok)
		}
		if isDigits(*tok) {
			continue
		}
		types, err := resolveName(stream, *tok)
		if err != nil {
			return nil, err
		}
		for _, typ := range types {
			inline := typ.IsInline()
			if stream.inline == nil {
				stream.inline = &inline
			} else if *stream.inline != inline {
				return nil, stream.err("Mixing inline and block content")
			}
			if !seen[typ] {
				seen[typ] = true
				expr.types = append(expr.types, typ)
			}
		}
		if first {
			first = false
			if after := stream.next(); after == nil || (*after != "*" && *after != "?") {
				expr.fill = types[0]
			}
		}
	}
	if stream.inline != nil {
		expr.inline = *stream.inline
	}
	return expr, nil
}

func (e *contentExpr) empty() bool {
	return e == nil || len(e.types) == 0
}

func (e *contentExpr) allows(typ *NodeType) bool {
	if e == nil {
		return false
	}
	for _, t := range e.types {
		if t == typ {
			return true
		}
	}
	return false
}

func (e *contentExpr) allowedTypes() []*NodeType {
	if e == nil {
		return nil
	}
	return e.types
}

func (e *contentExpr) requiredFill() *NodeType {
	if e == nil {
		return nil
	}
	return e.fill
}

func resolveName(stream *tokenStream, name string) ([]*NodeType, error) {
	types := stream.nodeTypes
	if typ, ok := types[name]; ok {
		return []*NodeType{typ}, nil
	}
	var result []*NodeType
	for _, typ := range types {
		for _, g := range typ.Groups {
			if g == name {
				result = append(result, typ)
				break
			}
		}
	}
	if len(result) == 0 {
		return nil, stream.err("No node or type %q found", name)
	}
	sortBySchemaOrder(result)
	return result, nil
}

// Groups resolve in schema order, so that the first member of a group is the
// default type used to fill required content.
func sortBySchemaOrder(types []*NodeType) {
	if len(types) < 2 {
		return
	}
	order := map[*NodeType]int{}
	for i, nt := range types[0].Schema.Nodes {
		order[nt] = i
	}
	for i := 1; i < len(types); i++ {
		for j := i; j > 0 && order[types[j]] < order[types[j-1]]; j-- {
			types[j], types[j-1] = types[j-1], types[j]
		}
	}
}

func isWordCharacters(str string) bool {
	for _, c := range str {
		switch {
		case '0' <= c && c <= '9':
		case 'a' <= c && c <= 'z':
		case 'A' <= c && c <= 'Z':
		case c == '_':
			// OK
		default:
			return false
		}
	}
	return true
}

func isDigits(str string) bool {
	for _, c := range str {
		if c < '0' || c > '9' {
			return false
		}
	}
	return str != ""
}
