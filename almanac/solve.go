package almanac

import (
	"fmt"

	"almanac/interval"
	"almanac/remap"

	"go.uber.org/zap"
)

// Solver runs the seeds of an almanac through its chain of maps.
// From and To narrow the chain, see Almanac.Chain.
type Solver struct {
	From, To string

	remapper *remap.Remapper
	log      *zap.Logger
}

func NewSolver(log *zap.Logger) *Solver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Solver{remapper: remap.NewRemapper(log), log: log}
}

// LowestLocation treats every seed as a single number.
func (s *Solver) LowestLocation(a *Almanac) (uint64, error) {
	seeds, err := a.SeedPoints()
	if err != nil {
		return 0, err
	}
	return s.lowest(a, seeds)
}

// LowestLocationRanged treats the seeds as (start, length) pairs.
func (s *Solver) LowestLocationRanged(a *Almanac) (uint64, error) {
	seeds, err := a.SeedRanges()
	if err != nil {
		return 0, err
	}
	return s.lowest(a, seeds)
}

// Trace returns the intervals after every stage of the chain.
func (s *Solver) Trace(a *Almanac, ranged bool) ([]remap.StageResult, error) {
	seeds, err := a.SeedPoints()
	if ranged {
		seeds, err = a.SeedRanges()
	}
	if err != nil {
		return nil, err
	}
	if seeds.Len() == 0 {
		return nil, ErrNoSeeds
	}
	chain, err := a.Chain(s.From, s.To)
	if err != nil {
		return nil, err
	}
	return s.remapper.TracePipeline(seeds, chain)
}

func (s *Solver) lowest(a *Almanac, seeds *interval.Set) (uint64, error) {
	if seeds.Len() == 0 {
		return 0, ErrNoSeeds
	}
	chain, err := a.Chain(s.From, s.To)
	if err != nil {
		return 0, err
	}
	s.log.Debug("running chain", zap.Int("stages", len(chain)), zap.Int("seeds", seeds.Len()))

	out, err := s.remapper.RunPipeline(seeds, chain)
	if err != nil {
		return 0, fmt.Errorf("remap seeds: %w", err)
	}
	lowest, ok := out.Min()
	if !ok {
		return 0, ErrNoSeeds
	}
	return lowest.Start, nil
}
