// Package remap rewrites sets of disjoint intervals through stages of
// piecewise-linear rules.
package remap

import (
	"fmt"

	"almanac/interval"

	"go.uber.org/zap"
)

type Remapper struct {
	log *zap.Logger
}

func NewRemapper(log *zap.Logger) *Remapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Remapper{log: log}
}

// RemapStage sends every interval of input through stage.
//
// Intervals are taken from a work stack. The first rule whose span overlaps
// the current interval moves the overlapping part to the destination side;
// whatever sticks out below or above the span goes back on the stack to be
// matched against the rules again. Intervals no rule touches are kept as
// they are.
//
// If input is disjoint and the rule spans do not overlap, the result is
// disjoint and covers as many values as input.
func (m *Remapper) RemapStage(stage Stage, input *interval.Set) (*interval.Set, error) {
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	out := interval.NewSet()
	seen := make(map[interval.Interval]struct{}, input.Len())
	stack := input.Slice()

	for len(stack) > 0 {
		var cur interval.Interval
		cur, stack = stack[len(stack)-1], stack[:len(stack)-1]

		if _, ok := seen[cur]; ok || cur.IsEmpty() {
			continue
		}
		seen[cur] = struct{}{}

		matched := false
		for _, rule := range stage.Rules {
			span, _ := rule.Span()
			hit, ok := interval.Intersect(span, cur)
			if !ok {
				continue
			}
			matched = true

			moved, err := rule.apply(hit)
			if err != nil {
				return nil, fmt.Errorf("stage %q: %w", stage.Name, err)
			}
			out.Insert(moved)
			m.log.Debug("matched",
				zap.String("stage", stage.Name),
				zap.Stringer("interval", cur),
				zap.Stringer("rule", rule),
				zap.Stringer("result", moved))

			if hit == cur {
				break
			}
			if lo, ok := interval.DiffLower(span, cur); ok && cur.Start < span.Start {
				stack = append(stack, lo)
				m.log.Debug("remainder", zap.String("stage", stage.Name), zap.Stringer("lower", lo))
			}
			if hi, ok := interval.DiffUpper(span, cur); ok && cur.End > span.End {
				stack = append(stack, hi)
				m.log.Debug("remainder", zap.String("stage", stage.Name), zap.Stringer("upper", hi))
			}
			break
		}

		if !matched {
			out.Insert(cur)
			m.log.Debug("pass through", zap.String("stage", stage.Name), zap.Stringer("interval", cur))
		}
	}

	return out, nil
}

// StageResult is the output of one stage of a pipeline run.
type StageResult struct {
	Stage  Stage
	Output *interval.Set
}

// RunPipeline threads initial through every stage in order and returns the
// output of the last one.
func (m *Remapper) RunPipeline(initial *interval.Set, stages []Stage) (*interval.Set, error) {
	cur := initial
	for _, stage := range stages {
		next, err := m.RemapStage(stage, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// TracePipeline is RunPipeline, keeping the output of every stage.
func (m *Remapper) TracePipeline(initial *interval.Set, stages []Stage) ([]StageResult, error) {
	results := make([]StageResult, 0, len(stages))
	cur := initial
	for _, stage := range stages {
		next, err := m.RemapStage(stage, cur)
		if err != nil {
			return nil, err
		}
		m.log.Info("stage done",
			zap.String("stage", stage.Name),
			zap.Int("intervals", next.Len()),
			zap.Uint64("covered", next.Covered()))
		results = append(results, StageResult{Stage: stage, Output: next})
		cur = next
	}
	return results, nil
}
