package interval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSetInsert(t *testing.T) {
	s := NewSet()
	assert.True(t, s.Insert(iv(57, 70)))
	assert.True(t, s.Insert(iv(81, 95)))
	assert.False(t, s.Insert(iv(57, 70)), "duplicate")
	assert.False(t, s.Insert(iv(9, 9)), "empty")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(iv(81, 95)))
	assert.False(t, s.Has(iv(81, 94)))
}

func TestSetOrderAndMin(t *testing.T) {
	s := NewSet(iv(81, 95), iv(53, 57), iv(61, 70))
	want := []Interval{iv(53, 57), iv(61, 70), iv(81, 95)}
	if diff := cmp.Diff(want, s.Slice()); diff != "" {
		t.Errorf("Slice() mismatch (-want +got):\n%s", diff)
	}

	m, ok := s.Min()
	assert.True(t, ok)
	assert.Equal(t, iv(53, 57), m)

	_, ok = NewSet().Min()
	assert.False(t, ok)
	assert.Equal(t, "{[53, 57), [61, 70), [81, 95)}", s.String())
}

func TestSetCoveredAndDisjoint(t *testing.T) {
	s := NewSet(iv(0, 5), iv(5, 9), iv(20, 21))
	assert.Equal(t, uint64(10), s.Covered())
	assert.True(t, s.Disjoint())

	s.Insert(iv(8, 12))
	assert.False(t, s.Disjoint())
	assert.True(t, NewSet().Disjoint())
}

func TestSetEqual(t *testing.T) {
	a := NewSet(iv(1, 2), iv(3, 4))
	b := NewSet(iv(3, 4), iv(1, 2))
	assert.True(t, a.Equal(b))

	b.Insert(iv(5, 6))
	assert.False(t, a.Equal(b))
	assert.False(t, NewSet(iv(1, 2), iv(3, 5)).Equal(a))
}
