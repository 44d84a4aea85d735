package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"almanac/almanac"

	"go.uber.org/zap"
)

var ErrUnknown = errors.New("no such solver")

type Solve func(a *almanac.Almanac) (uint64, error)

type Result struct {
	Name   string
	Answer uint64
}

type Commands struct {
	log      *zap.Logger
	commands map[string]Solve
}

func NewCommands(log *zap.Logger) *Commands {
	if log == nil {
		log = zap.NewNop()
	}
	return &Commands{log: log, commands: make(map[string]Solve)}
}

// Defaults registers the two puzzle parts of s as "points" and "ranges".
func Defaults(log *zap.Logger, s *almanac.Solver) *Commands {
	c := NewCommands(log)
	c.Register("points", s.LowestLocation)
	c.Register("ranges", s.LowestLocationRanged)
	return c
}

func (c *Commands) Register(name string, command Solve) {
	c.commands[name] = command
}

// Names returns the registered solvers in alphabetical order.
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exec runs the solver whose name starts with command. "all" runs every
// solver.
func (c *Commands) Exec(command string, a *almanac.Almanac) ([]Result, error) {
	names := []string{command}
	if command == "all" {
		names = c.Names()
	}

	var results []Result
	for _, prefix := range names {
		name, solve := c.findCommandByLongestPrefix(prefix)
		if solve == nil {
			c.log.Warn("solver not found", zap.String("command", prefix))
			return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknown, prefix, strings.Join(c.Names(), ", "))
		}
		answer, err := solve(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.log.Debug("solved", zap.String("solver", name), zap.Uint64("answer", answer))
		results = append(results, Result{Name: name, Answer: answer})
	}
	return results, nil
}

func (c *Commands) findCommandByLongestPrefix(commandPrefix string) (string, Solve) {
	longest := -1
	var longestName string
	var longestCmd Solve
	for _, name := range c.Names() {
		if strings.HasPrefix(name, commandPrefix) && len(name) > longest {
			longest = len(name)
			longestName = name
			longestCmd = c.commands[name]
		}
	}
	return longestName, longestCmd
}
