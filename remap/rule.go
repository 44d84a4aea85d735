package remap

import (
	"errors"
	"fmt"
	"math/bits"

	"almanac/interval"
)

var ErrInvalidRule = errors.New("invalid remap rule")

// Rule maps [Src, Src+Len) onto [Dst, Dst+Len), value by value.
type Rule struct {
	Dst, Src, Len uint64
}

// NewRule checks that both spans fit into uint64.
func NewRule(dst, src, length uint64) (Rule, error) {
	r := Rule{Dst: dst, Src: src, Len: length}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

func (r Rule) Validate() error {
	if _, err := r.Span(); err != nil {
		return err
	}
	if _, err := interval.FromLength(r.Dst, r.Len); err != nil {
		return fmt.Errorf("%w: destination: %w", ErrInvalidRule, err)
	}
	return nil
}

// Span is the source interval the rule applies to.
func (r Rule) Span() (interval.Interval, error) {
	span, err := interval.FromLength(r.Src, r.Len)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("%w: source: %w", ErrInvalidRule, err)
	}
	return span, nil
}

// apply moves iv, which must lie inside Span, to the destination side.
func (r Rule) apply(iv interval.Interval) (interval.Interval, error) {
	start, carry := bits.Add64(r.Dst, iv.Start-r.Src, 0)
	if carry != 0 {
		return interval.Interval{}, fmt.Errorf("rule %v on %v: %w", r, iv, interval.ErrOverflow)
	}
	return iv.Translate(start)
}

func (r Rule) String() string {
	return fmt.Sprintf("%d %d %d", r.Dst, r.Src, r.Len)
}

// Stage is one "X-to-Y map" block. From and To are empty when the stage was
// not parsed from a named header.
type Stage struct {
	Name     string
	From, To string
	Rules    []Rule
}

func (s Stage) Validate() error {
	for i, r := range s.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("stage %q rule %d: %w", s.Name, i, err)
		}
	}
	return nil
}

// Lookup maps a single value through the first rule that covers it.
// Values outside every rule map to themselves.
func (s Stage) Lookup(v uint64) (uint64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	for _, r := range s.Rules {
		if span, _ := r.Span(); span.Contains(v) {
			return r.Dst + (v - r.Src), nil
		}
	}
	return v, nil
}
