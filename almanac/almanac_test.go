package almanac

import (
	"os"
	"slices"
	"strings"
	"testing"

	"almanac/remap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func readSample(t *testing.T) *Almanac {
	t.Helper()
	f, err := os.Open("testdata/sample.txt")
	require.NoError(t, err)
	defer f.Close()

	a, err := Parse(f)
	require.NoError(t, err)
	return a
}

func names(stages []remap.Stage) []string {
	var out []string
	for _, s := range stages {
		out = append(out, s.Name)
	}
	return out
}

func TestParseSample(t *testing.T) {
	a := readSample(t)
	assert.Equal(t, []uint64{79, 14, 55, 13}, a.Seeds)
	require.Len(t, a.Stages, 7)

	first := a.Stages[0]
	assert.Equal(t, "seed-to-soil", first.Name)
	assert.Equal(t, "seed", first.From)
	assert.Equal(t, "soil", first.To)
	assert.Equal(t, []remap.Rule{{Dst: 50, Src: 98, Len: 2}, {Dst: 52, Src: 50, Len: 48}}, first.Rules)

	last := a.Stages[6]
	assert.Equal(t, "location", last.To)
	assert.Len(t, last.Rules, 2)
}

func TestLowestLocation(t *testing.T) {
	a := readSample(t)
	got, err := NewSolver(zaptest.NewLogger(t)).LowestLocation(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(35), got)
}

func TestLowestLocationMatchesLookup(t *testing.T) {
	a := readSample(t)
	want := uint64(1<<64 - 1)
	for _, seed := range a.Seeds {
		v := seed
		for _, s := range a.Stages {
			next, err := s.Lookup(v)
			require.NoError(t, err)
			v = next
		}
		want = min(want, v)
	}
	got, err := NewSolver(nil).LowestLocation(a)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLowestLocationRanged(t *testing.T) {
	a := readSample(t)
	got, err := NewSolver(zaptest.NewLogger(t)).LowestLocationRanged(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(46), got)
}

func TestChainOrdersShuffledBlocks(t *testing.T) {
	a := readSample(t)
	slices.Reverse(a.Stages)

	chain, err := a.Chain("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"seed-to-soil",
		"soil-to-fertilizer",
		"fertilizer-to-water",
		"water-to-light",
		"light-to-temperature",
		"temperature-to-humidity",
		"humidity-to-location",
	}, names(chain))

	got, err := NewSolver(nil).LowestLocationRanged(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(46), got)
}

func TestChainPartial(t *testing.T) {
	a := readSample(t)
	chain, err := a.Chain("soil", "water")
	require.NoError(t, err)
	assert.Equal(t, []string{"soil-to-fertilizer", "fertilizer-to-water"}, names(chain))

	s := NewSolver(nil)
	s.From, s.To = "seed", "soil"
	got, err := s.LowestLocation(a)
	require.NoError(t, err)
	// 79->81 14->14 55->57 13->13
	assert.Equal(t, uint64(13), got)
}

func TestChainErrors(t *testing.T) {
	t.Run("gap", func(t *testing.T) {
		a := readSample(t)
		a.Stages = slices.Delete(a.Stages, 3, 4)
		_, err := a.Chain("", "")
		assert.ErrorIs(t, err, ErrBrokenChain)
	})
	t.Run("cycle", func(t *testing.T) {
		a := readSample(t)
		a.Stages = append(a.Stages, remap.Stage{Name: "location-to-seed", From: "location", To: "seed"})
		_, err := a.Chain("", "")
		assert.ErrorIs(t, err, ErrCyclicChain)
	})
	t.Run("unknown category", func(t *testing.T) {
		a := readSample(t)
		_, err := a.Chain("seed", "moon")
		assert.ErrorIs(t, err, ErrBrokenChain)
	})
	t.Run("self map", func(t *testing.T) {
		a := &Almanac{Stages: []remap.Stage{{Name: "seed-to-seed", From: "seed", To: "seed"}}}
		_, err := a.Chain("", "")
		assert.ErrorIs(t, err, ErrCyclicChain)
	})
}

func TestChainUnnamedKeepsFileOrder(t *testing.T) {
	a, err := Parse(strings.NewReader("seeds: 1 2\n\nfirst map:\n10 0 5\n\nsecond map:\n0 10 1\n"))
	require.NoError(t, err)
	chain, err := a.Chain("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, names(chain))

	got, err := NewSolver(nil).LowestLocation(a)
	require.NoError(t, err)
	// 1 -> 11 -> 11, 2 -> 12 -> 12
	assert.Equal(t, uint64(11), got)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"bad seed label", "plants: 1 2\n", 1},
		{"bad seed number", "seeds: 1 x\n", 1},
		{"short rule", "seeds: 1 2\n\nseed-to-soil map:\n1 2\n", 4},
		{"rule outside block", "seeds: 1 2\n\n1 2 3\n", 3},
		{"negative", "seeds: 1 2\nseed-to-soil map:\n1 -2 3\n", 3},
		{"overflowing rule", "seeds: 1 2\nseed-to-soil map:\n18446744073709551615 0 2\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestSeedErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoSeeds)

	a, err := Parse(strings.NewReader("seeds: 1 2 3\n"))
	require.NoError(t, err)
	_, err = NewSolver(nil).LowestLocationRanged(a)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)

	a, err = Parse(strings.NewReader("seeds:\n"))
	require.NoError(t, err)
	_, err = NewSolver(nil).LowestLocation(a)
	assert.ErrorIs(t, err, ErrNoSeeds)
}

func TestTrace(t *testing.T) {
	a := readSample(t)
	trace, err := NewSolver(nil).Trace(a, true)
	require.NoError(t, err)
	require.Len(t, trace, 7)
	for _, r := range trace {
		assert.True(t, r.Output.Disjoint(), r.Stage.Name)
		assert.Equal(t, uint64(27), r.Output.Covered(), r.Stage.Name)
	}
	lowest, ok := trace[6].Output.Min()
	require.True(t, ok)
	assert.Equal(t, uint64(46), lowest.Start)
}

func TestTraceWithoutSeeds(t *testing.T) {
	a, err := Parse(strings.NewReader("seeds:\n\nseed-to-soil map:\n50 98 2\n"))
	require.NoError(t, err)

	_, err = NewSolver(nil).Trace(a, false)
	assert.ErrorIs(t, err, ErrNoSeeds)

	// zero-length ranges leave nothing to trace either
	a.Seeds = []uint64{5, 0}
	_, err = NewSolver(nil).Trace(a, true)
	assert.ErrorIs(t, err, ErrNoSeeds)
}
