package almanac

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"almanac/interval"
	"almanac/remap"
)

var ErrNoSeeds = errors.New("almanac has no seeds")

// ParseError points at the line of the input that could not be read.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Almanac is the parsed puzzle input: a seed line followed by map blocks.
type Almanac struct {
	Seeds  []uint64
	Stages []remap.Stage
}

// Parse reads
//
//	seeds: 79 14 55 13
//
//	seed-to-soil map:
//	50 98 2
//	52 50 48
//
// and so on. Blank lines between blocks are optional.
func Parse(r io.Reader) (*Almanac, error) {
	scanner := bufio.NewScanner(r)
	a := &Almanac{}
	line := 0
	seeded := false
	var cur *remap.Stage

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		switch {
		case text == "":
			cur = nil
		case !seeded:
			seeds, err := parseSeeds(text)
			if err != nil {
				return nil, &ParseError{Line: line, Msg: "bad seed line", Err: err}
			}
			a.Seeds = seeds
			seeded = true
		case strings.HasSuffix(text, "map:"):
			a.Stages = append(a.Stages, newStage(strings.TrimSpace(strings.TrimSuffix(text, "map:"))))
			cur = &a.Stages[len(a.Stages)-1]
		case cur == nil:
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("rule %q outside of a map block", text)}
		default:
			rule, err := parseRule(text)
			if err != nil {
				return nil, &ParseError{Line: line, Msg: "bad rule", Err: err}
			}
			cur.Rules = append(cur.Rules, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !seeded {
		return nil, ErrNoSeeds
	}
	return a, nil
}

func parseSeeds(text string) ([]uint64, error) {
	label, rest, ok := strings.Cut(text, ":")
	if !ok || strings.TrimSpace(label) != "seeds" {
		return nil, fmt.Errorf("expected \"seeds:\", got %q", text)
	}
	return parseNumbers(rest)
}

func parseRule(text string) (remap.Rule, error) {
	nums, err := parseNumbers(text)
	if err != nil {
		return remap.Rule{}, err
	}
	if len(nums) != 3 {
		return remap.Rule{}, fmt.Errorf("expected \"dest src len\", got %d numbers", len(nums))
	}
	return remap.NewRule(nums[0], nums[1], nums[2])
}

func parseNumbers(text string) ([]uint64, error) {
	fields := strings.Fields(text)
	nums := make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// newStage splits "seed-to-soil" into its categories. Names without "-to-"
// keep empty categories.
func newStage(name string) remap.Stage {
	s := remap.Stage{Name: name}
	if from, to, ok := strings.Cut(name, "-to-"); ok {
		s.From, s.To = from, to
	}
	return s
}

// SeedPoints is one unit interval per seed number.
func (a *Almanac) SeedPoints() (*interval.Set, error) {
	s := interval.NewSet()
	for _, seed := range a.Seeds {
		iv, err := interval.FromLength(seed, 1)
		if err != nil {
			return nil, err
		}
		s.Insert(iv)
	}
	return s, nil
}

// SeedRanges reads the seeds as (start, length) pairs.
func (a *Almanac) SeedRanges() (*interval.Set, error) {
	if len(a.Seeds)%2 != 0 {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("odd number of seed values (%d) for ranges", len(a.Seeds))}
	}
	s := interval.NewSet()
	for i := 0; i < len(a.Seeds); i += 2 {
		iv, err := interval.FromLength(a.Seeds[i], a.Seeds[i+1])
		if err != nil {
			return nil, &ParseError{Line: 1, Msg: "bad seed range", Err: err}
		}
		s.Insert(iv)
	}
	return s, nil
}
