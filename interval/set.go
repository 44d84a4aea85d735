package interval

import (
	"strings"

	"github.com/google/btree"
)

const degree = 8

// Set is a duplicate free collection of intervals, kept ordered by Start so
// that iteration and Min are deterministic. It does not merge touching or
// overlapping intervals.
type Set struct {
	tree *btree.BTreeG[Interval]
}

func NewSet(ivs ...Interval) *Set {
	s := &Set{tree: btree.NewG[Interval](degree, Less)}
	for _, iv := range ivs {
		s.Insert(iv)
	}
	return s
}

// Insert adds iv and reports whether it was new. Empty intervals are ignored.
func (s *Set) Insert(iv Interval) bool {
	if iv.IsEmpty() {
		return false
	}
	_, replaced := s.tree.ReplaceOrInsert(iv)
	return !replaced
}

func (s *Set) Has(iv Interval) bool {
	return s.tree.Has(iv)
}

func (s *Set) Len() int {
	return s.tree.Len()
}

// Min returns the interval with the lowest start.
func (s *Set) Min() (Interval, bool) {
	return s.tree.Min()
}

// Slice returns the intervals in ascending order.
func (s *Set) Slice() []Interval {
	out := make([]Interval, 0, s.Len())
	s.tree.Ascend(func(iv Interval) bool {
		out = append(out, iv)
		return true
	})
	return out
}

// Covered is the number of integers covered by the set, counting overlaps
// more than once.
func (s *Set) Covered() uint64 {
	var n uint64
	s.tree.Ascend(func(iv Interval) bool {
		n += iv.Len()
		return true
	})
	return n
}

// Disjoint reports whether no two intervals in the set overlap.
func (s *Set) Disjoint() bool {
	ok := true
	var prev Interval
	first := true
	s.tree.Ascend(func(iv Interval) bool {
		if !first && prev.End > iv.Start {
			ok = false
			return false
		}
		prev, first = iv, false
		return true
	})
	return ok
}

func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	equal := true
	s.tree.Ascend(func(iv Interval) bool {
		equal = o.Has(iv)
		return equal
	})
	return equal
}

func (s *Set) String() string {
	parts := make([]string, 0, s.Len())
	for _, iv := range s.Slice() {
		parts = append(parts, iv.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
