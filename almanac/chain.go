package almanac

import (
	"errors"
	"fmt"

	"almanac/remap"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	ErrBrokenChain = errors.New("map blocks do not form a chain")
	ErrCyclicChain = errors.New("map blocks form a cycle")
)

// categories is the graph of "X-to-Y" edges between category names.
type categories struct {
	g     *simple.DirectedGraph
	ids   map[string]int64
	names map[int64]string
	// stage index per edge
	edges map[[2]int64]int
}

func newCategories(stages []remap.Stage) (*categories, error) {
	c := &categories{
		g:     simple.NewDirectedGraph(),
		ids:   map[string]int64{},
		names: map[int64]string{},
		edges: map[[2]int64]int{},
	}
	for i, s := range stages {
		if s.From == "" || s.To == "" {
			return nil, fmt.Errorf("%w: stage %q has no categories", ErrBrokenChain, s.Name)
		}
		from, to := c.node(s.From), c.node(s.To)
		if from.ID() == to.ID() {
			return nil, fmt.Errorf("%w: %q maps onto itself", ErrCyclicChain, s.Name)
		}
		key := [2]int64{from.ID(), to.ID()}
		if _, dup := c.edges[key]; dup {
			return nil, fmt.Errorf("%w: %q appears twice", ErrBrokenChain, s.Name)
		}
		c.edges[key] = i
		c.g.SetEdge(c.g.NewEdge(from, to))
	}
	return c, nil
}

func (c *categories) node(name string) graph.Node {
	if id, ok := c.ids[name]; ok {
		return c.g.Node(id)
	}
	n := c.g.NewNode()
	c.g.AddNode(n)
	c.ids[name] = n.ID()
	c.names[n.ID()] = name
	return n
}

// Chain returns the stages that lead from category from to category to, in
// the order they have to be applied. An empty from means the only category
// nothing maps into, an empty to the only one that maps nowhere.
//
// Stages without "X-to-Y" names are returned in file order when from and to
// are empty.
func (a *Almanac) Chain(from, to string) ([]remap.Stage, error) {
	if from == "" && to == "" && !named(a.Stages) {
		return a.Stages, nil
	}

	c, err := newCategories(a.Stages)
	if err != nil {
		return nil, err
	}
	sorted, err := topo.Sort(c.g)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCyclicChain, err)
	}
	if len(sorted) == 0 {
		return nil, nil
	}
	if from == "" {
		if from, err = c.only(sorted, c.g.To); err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
	}
	if to == "" {
		if to, err = c.only(sorted, c.g.From); err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
	}

	start, ok := c.ids[from]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrBrokenChain, from)
	}
	end, ok := c.ids[to]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrBrokenChain, to)
	}

	// Walk the single outgoing edge of every category until we reach end.
	var chain []remap.Stage
	for cur := start; cur != end; {
		next := c.g.From(cur)
		if next.Len() != 1 {
			return nil, fmt.Errorf("%w: %q has %d outgoing maps", ErrBrokenChain, c.names[cur], next.Len())
		}
		next.Next()
		n := next.Node().ID()
		chain = append(chain, a.Stages[c.edges[[2]int64{cur, n}]])
		cur = n
	}
	return chain, nil
}

// only returns the single category without neighbours in the direction of
// adjacent, i.e. the only source for g.To and the only sink for g.From.
func (c *categories) only(sorted []graph.Node, adjacent func(int64) graph.Nodes) (string, error) {
	var found []string
	for _, n := range sorted {
		if adjacent(n.ID()).Len() == 0 {
			found = append(found, c.names[n.ID()])
		}
	}
	if len(found) != 1 {
		return "", fmt.Errorf("%w: candidates %q", ErrBrokenChain, found)
	}
	return found[0], nil
}

func named(stages []remap.Stage) bool {
	for _, s := range stages {
		if s.From != "" {
			return true
		}
	}
	return false
}
