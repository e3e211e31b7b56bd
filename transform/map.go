package transform

import (
	"fmt"
	"strings"
)

// Mappable is implemented by the things positions can be mapped through:
// step maps and mappings.
type Mappable interface {
	// Map a position through this object. assoc (-1 or 1, defaults to 1)
	// determines with which side the position is associated, which decides
	// where it ends up when content is inserted right at it.
	Map(pos int, assoc ...int) int

	// MapResult maps a position and also reports whether it was deleted,
	// that is, whether its surroundings were replaced. When content is only
	// removed on one side, the position counts as deleted only when assoc
	// points at that side.
	MapResult(pos int, assoc ...int) *MapResult
}

// MapResult is a mapped position with extra information.
type MapResult struct {
	Pos     int
	Deleted bool
}

func assocOf(assoc []int) int {
	if len(assoc) > 0 && assoc[0] < 0 {
		return -1
	}
	return 1
}

// StepMap describes the deletions and insertions made by a step. Ranges is a
// flat list where each group of three numbers is a changed chunk:
// [start, oldSize, newSize].
type StepMap struct {
	Ranges   []int
	Inverted bool
}

// NewStepMap creates a position map from its ranges.
func NewStepMap(ranges []int, inverted ...bool) *StepMap {
	return &StepMap{Ranges: ranges, Inverted: len(inverted) > 0 && inverted[0]}
}

// EmptyStepMap maps every position to itself.
var EmptyStepMap = NewStepMap(nil)

// Map implements Mappable.
func (sm *StepMap) Map(pos int, assoc ...int) int {
	return sm.mapPos(pos, assocOf(assoc)).Pos
}

// MapResult implements Mappable.
func (sm *StepMap) MapResult(pos int, assoc ...int) *MapResult {
	return sm.mapPos(pos, assocOf(assoc))
}

func (sm *StepMap) sizes() (oldIndex, newIndex int) {
	if sm.Inverted {
		return 2, 1
	}
	return 1, 2
}

func (sm *StepMap) mapPos(pos, assoc int) *MapResult {
	diff := 0
	oldIndex, newIndex := sm.sizes()
	for i := 0; i+2 < len(sm.Ranges); i += 3 {
		start := sm.Ranges[i]
		if sm.Inverted {
			start -= diff
		}
		if start > pos {
			break
		}
		oldSize, newSize := sm.Ranges[i+oldIndex], sm.Ranges[i+newIndex]
		end := start + oldSize
		if pos > end {
			diff += newSize - oldSize
			continue
		}
		side := assoc
		switch {
		case oldSize == 0:
		case pos == start:
			side = -1
		case pos == end:
			side = 1
		}
		result := start + diff
		if side > 0 {
			result += newSize
		}
		deleted := pos != start
		if assoc > 0 {
			deleted = pos != end
		}
		return &MapResult{Pos: result, Deleted: deleted && oldSize > 0}
	}
	return &MapResult{Pos: pos + diff}
}

// ForEach calls fn for each changed range, with its old and new
// coordinates.
func (sm *StepMap) ForEach(fn func(oldStart, oldEnd, newStart, newEnd int)) {
	oldIndex, newIndex := sm.sizes()
	diff := 0
	for i := 0; i+2 < len(sm.Ranges); i += 3 {
		start := sm.Ranges[i]
		oldStart := start
		if sm.Inverted {
			oldStart = start - diff
		}
		newStart := start
		if !sm.Inverted {
			newStart = start + diff
		}
		oldSize, newSize := sm.Ranges[i+oldIndex], sm.Ranges[i+newIndex]
		fn(oldStart, oldStart+oldSize, newStart, newStart+newSize)
		diff += newSize - oldSize
	}
}

// Invert returns a map that maps positions of the post-step document back
// to the pre-step document.
func (sm *StepMap) Invert() *StepMap {
	return NewStepMap(sm.Ranges, !sm.Inverted)
}

func (sm *StepMap) String() string {
	parts := make([]string, len(sm.Ranges))
	for i, r := range sm.Ranges {
		parts[i] = fmt.Sprint(r)
	}
	prefix := ""
	if sm.Inverted {
		prefix = "-"
	}
	return prefix + "[" + strings.Join(parts, ",") + "]"
}

// Mapping is a sequence of step maps, applied in order.
type Mapping struct {
	Maps []*StepMap
}

// AppendMap adds a step map at the end of the mapping.
func (m *Mapping) AppendMap(sm *StepMap) {
	m.Maps = append(m.Maps, sm)
}

// Map implements Mappable.
func (m *Mapping) Map(pos int, assoc ...int) int {
	a := assocOf(assoc)
	for _, sm := range m.Maps {
		pos = sm.Map(pos, a)
	}
	return pos
}

// MapResult implements Mappable. The position is deleted when any of the
// maps deleted it.
func (m *Mapping) MapResult(pos int, assoc ...int) *MapResult {
	a := assocOf(assoc)
	deleted := false
	for _, sm := range m.Maps {
		r := sm.MapResult(pos, a)
		pos = r.Pos
		deleted = deleted || r.Deleted
	}
	return &MapResult{Pos: pos, Deleted: deleted}
}

var (
	_ Mappable = &StepMap{}
	_ Mappable = &Mapping{}
)
