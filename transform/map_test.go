package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMapping(t *testing.T, mapping Mappable, pos, expected int, assoc ...int) {
	t.Helper()
	assert.Equal(t, expected, mapping.Map(pos, assoc...), "map %d", pos)
}

func testDeleted(t *testing.T, mapping Mappable, pos, assoc int, deleted bool) {
	t.Helper()
	assert.Equal(t, deleted, mapping.MapResult(pos, assoc).Deleted, "deleted %d", pos)
}

func TestStepMapInsertion(t *testing.T) {
	sm := NewStepMap([]int{2, 0, 4})
	testMapping(t, sm, 0, 0)
	testMapping(t, sm, 2, 6)
	testMapping(t, sm, 2, 2, -1)
	testMapping(t, sm, 3, 7)
	testDeleted(t, sm, 2, 1, false)
}

func TestStepMapDeletion(t *testing.T) {
	sm := NewStepMap([]int{2, 4, 0})
	testMapping(t, sm, 0, 0)
	testMapping(t, sm, 2, 2)
	testMapping(t, sm, 4, 2)
	testMapping(t, sm, 6, 2)
	testMapping(t, sm, 7, 3)
	testDeleted(t, sm, 2, 1, true)
	testDeleted(t, sm, 2, -1, false)
	testDeleted(t, sm, 4, 1, true)
	testDeleted(t, sm, 6, 1, false)
	testDeleted(t, sm, 6, -1, true)
}

func TestStepMapReplacement(t *testing.T) {
	sm := NewStepMap([]int{2, 4, 4})
	testMapping(t, sm, 0, 0)
	testMapping(t, sm, 2, 2)
	testMapping(t, sm, 4, 6)
	testMapping(t, sm, 4, 2, -1)
	testMapping(t, sm, 6, 6)
	testMapping(t, sm, 8, 8)
}

func TestStepMapInvert(t *testing.T) {
	sm := NewStepMap([]int{2, 0, 4}).Invert()
	testMapping(t, sm, 0, 0)
	testMapping(t, sm, 6, 2)
	testMapping(t, sm, 4, 2)
	testMapping(t, sm, 8, 4)
	assert.Equal(t, "-[2,0,4]", sm.String())
	assert.Equal(t, "[2,0,4]", sm.Invert().String())
}

func TestStepMapForEach(t *testing.T) {
	var ranges [][4]int
	NewStepMap([]int{2, 0, 4, 10, 3, 1}).ForEach(func(oldStart, oldEnd, newStart, newEnd int) {
		ranges = append(ranges, [4]int{oldStart, oldEnd, newStart, newEnd})
	})
	assert.Equal(t, [][4]int{{2, 2, 2, 6}, {10, 13, 14, 15}}, ranges)
}

func TestMapping(t *testing.T) {
	mapping := &Mapping{}
	mapping.AppendMap(NewStepMap([]int{0, 0, 2}))
	mapping.AppendMap(NewStepMap([]int{4, 2, 0}))
	testMapping(t, mapping, 0, 2)
	testMapping(t, mapping, 1, 3)
	testMapping(t, mapping, 2, 4)
	testMapping(t, mapping, 3, 4)
	testMapping(t, mapping, 5, 5)
	testDeleted(t, mapping, 3, 1, true)
	testDeleted(t, mapping, 1, 1, false)
	testMapping(t, EmptyStepMap, 5, 5)
}
