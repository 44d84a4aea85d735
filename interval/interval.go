package interval

import (
	"errors"
	"fmt"
	"math/bits"
)

var ErrOverflow = errors.New("interval exceeds the uint64 range")

// [Start, End).
// An Interval can be thought of as a sorted set of integers.
//
// Consider:
//
// [1, 2, 3] = [1, 4)
//
// [2, 3, 4] = [2, 5)
//
// Useful operations are:
//
// DiffLower: [1]
//
// Intersect: [2, 3]
//
// DiffUpper: [4]
//
// The three together always give back the union [1, 2, 3, 4].
type Interval struct {
	Start, End uint64
}

// FromLength returns [start, start+n).
func FromLength(start, n uint64) (Interval, error) {
	end, carry := bits.Add64(start, n, 0)
	if carry != 0 {
		return Interval{}, fmt.Errorf("%d+%d: %w", start, n, ErrOverflow)
	}
	return Interval{start, end}, nil
}

func (i Interval) Len() uint64 {
	if i.IsEmpty() {
		return 0
	}
	return i.End - i.Start
}

func (i Interval) IsEmpty() bool {
	return i.Start >= i.End
}

func (i Interval) Contains(v uint64) bool {
	return i.Start <= v && v < i.End
}

// Translate moves the interval so that it starts at start.
// The length is kept, so End becomes start+Len().
func (i Interval) Translate(start uint64) (Interval, error) {
	return FromLength(start, i.Len())
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d)", i.Start, i.End)
}

// Intersect returns the overlap of a and b. Touching intervals like [1, 5)
// and [5, 9) do not overlap.
func Intersect(a, b Interval) (Interval, bool) {
	start := max(a.Start, b.Start)
	end := min(a.End, b.End)
	if start >= end {
		return Interval{}, false
	}
	return Interval{start, end}, true
}

// DiffLower returns the part of a ∪ b that lies below the later of the two
// starts. If a and b do not overlap this is the whole lower interval.
func DiffLower(a, b Interval) (Interval, bool) {
	if a.Start == b.Start {
		return Interval{}, false
	}
	first, second := a, b
	if b.Start < a.Start {
		first, second = b, a
	}
	lo := Interval{first.Start, min(second.Start, first.End)}
	return lo, !lo.IsEmpty()
}

// DiffUpper returns the part of a ∪ b that lies above the earlier of the two
// ends. If a and b do not overlap this is the whole upper interval.
func DiffUpper(a, b Interval) (Interval, bool) {
	if a.End == b.End {
		return Interval{}, false
	}
	first, last := a, b
	if b.End < a.End {
		first, last = b, a
	}
	hi := Interval{max(first.End, last.Start), last.End}
	return hi, !hi.IsEmpty()
}

// Less orders intervals by Start, then by End.
func Less(a, b Interval) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.End < b.End
}
