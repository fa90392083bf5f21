// Package detect finds deadlocks in an allocation graph.
//
// Detection happens in two steps. First the bipartite thread/resource graph
// is collapsed into a wait-for graph: a directed edge T1 → T2 exists iff T1
// requests a resource currently held by T2. Then a depth-first search from
// every thread enumerates all elementary cycles in that graph, expanding
// each wait-for edge back into its thread → resource → thread form for
// reporting.
//
// Cycles that are rotations of one another are the same cycle; every cycle
// is canonicalized to start at its minimum thread ID before deduplication,
// so output is deterministic and idempotent for identical input. A thread
// requesting a resource it already holds forms a degenerate length-1 cycle,
// reported distinctly from multi-thread circular waits.
//
// The detector is a pure function over an immutable snapshot: it borrows the
// graph read-only and raises no errors of its own, since malformed graphs
// are rejected at construction time by package lockgraph.
package detect
