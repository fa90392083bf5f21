// Package remedy selects mitigation strategies for detected deadlocks.
//
// Strategy selection is structural: it looks only at the detected cycle set
// and the graph's shape (cycle lengths, resource counts), never at the
// scenario's semantics. Each strategy is advice - a title, a one-sentence
// rationale and a descriptive procedure sketch - since the engine only
// recommends fixes, it does not apply them.
package remedy

import (
	"github.com/gridlock-dev/gridlock/pkg/detect"
	"github.com/gridlock-dev/gridlock/pkg/lockgraph"
)

// Strategy is one recommended mitigation.
type Strategy struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
	Procedure string `json:"procedure"`
}

// Strategy titles, in the order they are recommended.
const (
	TitleResourceOrdering  = "Resource Ordering"
	TitleTimeoutBackoff    = "Timeout with Backoff"
	TitlePeriodicDetection = "Periodic Deadlock Detection + Victim Selection"
	TitleSafetyCheck       = "Safety-Check Allocation (Banker's-style)"
)

var (
	resourceOrdering = Strategy{
		Title:     TitleResourceOrdering,
		Rationale: "Circular waits cannot form when every thread acquires resources in one agreed total order.",
		Procedure: "Assign each resource a rank (e.g. sort by ID). Before entering a critical " +
			"section, collect every resource the operation will need, sort them by rank, and " +
			"acquire them strictly in increasing order. Release in any order.",
	}

	timeoutBackoff = Strategy{
		Title:     TitleTimeoutBackoff,
		Rationale: "Bounded waits turn a permanent deadlock into a retryable failure.",
		Procedure: "Acquire with a deadline instead of blocking forever. On timeout, release " +
			"every resource already held, wait a randomized (jittered) delay, and retry the " +
			"whole acquisition sequence from the start.",
	}

	periodicDetection = Strategy{
		Title:     TitlePeriodicDetection,
		Rationale: "With three or more participants, prevention by ordering gets invasive; detecting and breaking the cycle at runtime scales better.",
		Procedure: "Run the wait-for cycle check on a timer or whenever a wait exceeds a " +
			"threshold. When a cycle is found, pick a victim (lowest priority, least work " +
			"lost, or fewest held resources), abort it so its holdings are released, and " +
			"let the survivors proceed. Restart the victim afterwards.",
	}

	safetyCheck = Strategy{
		Title:     TitleSafetyCheck,
		Rationale: "With more than two resources in play, granting requests only when a safe completion order still exists prevents deadlock before it forms.",
		Procedure: "Track, per thread, the maximum set of resources it may still need. On " +
			"each request, tentatively grant it and check whether some ordering of the " +
			"remaining threads can run to completion with the resources left. Grant only " +
			"if such an ordering exists; otherwise make the requester wait.",
	}
)

// Recommend maps the detected deadlock set and graph shape to an ordered
// list of applicable strategies.
//
// With at least one deadlock, Resource Ordering and Timeout with Backoff are
// always included. Periodic Detection + Victim Selection is added when any
// single cycle has three or more thread participants, and the Banker's-style
// safety check when the graph contains more than two distinct resources.
// With no deadlocks there is nothing to mitigate and the result is empty.
func Recommend(deadlocks []detect.Deadlock, stats lockgraph.Stats) []Strategy {
	if len(deadlocks) == 0 {
		return nil
	}

	out := []Strategy{resourceOrdering, timeoutBackoff}

	for _, d := range deadlocks {
		if d.Cycle.Len() >= 3 {
			out = append(out, periodicDetection)
			break
		}
	}
	if stats.Resources > 2 {
		out = append(out, safetyCheck)
	}
	return out
}
