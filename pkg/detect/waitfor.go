package detect

import "github.com/gridlock-dev/gridlock/pkg/lockgraph"

// waitEdge is one collapsed wait-for edge: From requests Via, held by To.
type waitEdge struct {
	From string // waiting thread
	Via  string // requested resource
	To   string // thread holding Via
}

// waitFor is the thread-only digraph derived from an allocation graph.
// Adjacency values keep the resource each edge travels through so cycles
// can be expanded back to thread → resource → thread form for reporting.
type waitFor map[string][]waitEdge

// buildWaitFor collapses the bipartite allocation graph into a wait-for
// graph. A thread with no outstanding request contributes no outgoing edge;
// a requested resource with no holder contributes no edge at all.
func buildWaitFor(g *lockgraph.Graph) waitFor {
	w := make(waitFor)
	for _, t := range g.Threads() {
		r, ok := g.RequestOf(t)
		if !ok {
			continue
		}
		owner, ok := g.HolderOf(r)
		if !ok {
			continue
		}
		w[t] = append(w[t], waitEdge{From: t, Via: r, To: owner})
	}
	return w
}
