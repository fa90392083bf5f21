package detect

import (
	"fmt"
	"strings"
)

// Deadlock is a classified cycle: the canonical participant sequence plus
// human-readable output derived from it. Records are created fresh per
// analysis, carry no references back into the graph, and are safe to hand
// to presentation layers as-is.
type Deadlock struct {
	// Cycle is the canonical circular wait.
	Cycle Cycle `json:"cycle"`

	// Description names every participant and the two-hop relation to its
	// successor, closing the loop back to the first thread.
	Description string `json:"description"`

	// Waits holds one annotation per participating thread, in cycle order:
	// "T1 → waiting for R2 (held by T2)".
	Waits []string `json:"waits"`
}

// Classify converts a raw cycle into a deadlock record. The cycle's starting
// point is already canonicalized to its minimum-ID thread by FindAllCycles,
// so output is stable across repeated runs on the same graph.
func Classify(c Cycle) Deadlock {
	if c.IsSelfLoop() {
		t, r := c.Threads[0], c.Resources[0]
		return Deadlock{
			Cycle:       c,
			Description: fmt.Sprintf("%s requests %s, which it already holds (self-deadlock)", t, r),
			Waits:       []string{fmt.Sprintf("%s → waiting for %s (held by %s)", t, r, t)},
		}
	}

	n := c.Len()
	parts := make([]string, n)
	waits := make([]string, n)
	for i := range c.Threads {
		t := c.Threads[i]
		held := c.Resources[(i+n-1)%n] // resource the previous thread waits on
		wanted := c.Resources[i]
		next := c.Threads[(i+1)%n]
		parts[i] = fmt.Sprintf("%s holds %s and requests %s, held by %s", t, held, wanted, next)
		waits[i] = fmt.Sprintf("%s → waiting for %s (held by %s)", t, wanted, next)
	}

	return Deadlock{
		Cycle:       c,
		Description: fmt.Sprintf("Circular wait between %d threads: %s", n, strings.Join(parts, "; ")),
		Waits:       waits,
	}
}

// ClassifyAll classifies every cycle, preserving detector order.
func ClassifyAll(cycles []Cycle) []Deadlock {
	if len(cycles) == 0 {
		return nil
	}
	out := make([]Deadlock, len(cycles))
	for i, c := range cycles {
		out[i] = Classify(c)
	}
	return out
}
