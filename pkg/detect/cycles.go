package detect

import (
	"slices"
	"strings"

	"github.com/gridlock-dev/gridlock/pkg/lockgraph"
)

// Cycle is one elementary circular wait. Threads[i] requests Resources[i],
// which is held by Threads[(i+1) % len(Threads)], closing the loop back to
// Threads[0]. A length-1 cycle is a thread requesting a resource it already
// holds.
//
// Cycles are canonicalized: Threads[0] is always the minimum thread ID in
// the cycle, so cycles compare equal across runs and DFS start points.
type Cycle struct {
	Threads   []string `json:"threads"`
	Resources []string `json:"resources"`
}

// Len returns the number of thread participants.
func (c Cycle) Len() int { return len(c.Threads) }

// IsSelfLoop reports whether the cycle is a single thread requesting a
// resource it already holds.
func (c Cycle) IsSelfLoop() bool { return len(c.Threads) == 1 }

// key returns a string identity used for rotation deduplication.
// Canonicalization must happen first.
func (c Cycle) key() string {
	return strings.Join(c.Threads, "\x00") + "\x01" + strings.Join(c.Resources, "\x00")
}

// canonicalize rotates the cycle so it starts at the minimum thread ID.
func (c *Cycle) canonicalize() {
	if len(c.Threads) < 2 {
		return
	}
	min := 0
	for i, t := range c.Threads {
		if t < c.Threads[min] {
			min = i
		}
	}
	if min == 0 {
		return
	}
	c.Threads = append(c.Threads[min:], c.Threads[:min]...)
	c.Resources = append(c.Resources[min:], c.Resources[:min]...)
}

// FindAllCycles returns every elementary cycle in the wait-for graph derived
// from g. The search runs a DFS from every thread in sorted ID order,
// maintaining the current recursion path; reaching a thread already on the
// path emits the sub-path from that thread onward as one cycle. The search
// does not stop at the first cycle found, so disjoint cycles are all
// reported. Rotations of the same cycle are deduplicated.
//
// The result is ordered by each cycle's minimum thread ID, then by full
// participant sequence, so repeated runs on the same graph yield identical
// output. Graphs with no threads, no resources or no circular waits produce
// an empty slice.
func FindAllCycles(g *lockgraph.Graph) []Cycle {
	const (
		white = iota
		gray
		black
	)

	w := buildWaitFor(g)
	color := make(map[string]int, g.ThreadCount())
	pathIndex := make(map[string]int)
	var path []waitEdge

	var cycles []Cycle
	seen := make(map[string]bool)

	emit := func(edges []waitEdge) {
		c := Cycle{
			Threads:   make([]string, len(edges)),
			Resources: make([]string, len(edges)),
		}
		for i, e := range edges {
			c.Threads[i] = e.From
			c.Resources[i] = e.Via
		}
		c.canonicalize()
		if k := c.key(); !seen[k] {
			seen[k] = true
			cycles = append(cycles, c)
		}
	}

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		pathIndex[node] = len(path)
		for _, e := range w[node] {
			if i, onPath := pathIndex[e.To]; onPath {
				// Back edge: the sub-path from e.To to node plus this
				// edge is one elementary cycle. Keep searching.
				emit(append(slices.Clone(path[i:]), e))
				continue
			}
			if color[e.To] == white {
				path = append(path, e)
				dfs(e.To)
				path = path[:len(path)-1]
			}
		}
		delete(pathIndex, node)
		color[node] = black
	}

	for _, t := range g.Threads() {
		if color[t] == white {
			dfs(t)
		}
	}

	slices.SortStableFunc(cycles, func(a, b Cycle) int {
		if c := strings.Compare(a.Threads[0], b.Threads[0]); c != 0 {
			return c
		}
		return strings.Compare(a.key(), b.key())
	})
	return cycles
}
