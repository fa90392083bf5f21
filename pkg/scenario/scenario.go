package scenario

import (
	"fmt"

	"github.com/gridlock-dev/gridlock/pkg/lockgraph"
)

// Hold declares that a thread starts out owning a resource.
type Hold struct {
	Thread   string `toml:"thread" json:"thread"`
	Resource string `toml:"resource" json:"resource"`
}

// Request declares a thread's single outstanding acquisition attempt.
type Request struct {
	Thread   string `toml:"thread" json:"thread"`
	Resource string `toml:"resource" json:"resource"`
}

// Scenario is a declarative allocation snapshot: the full input for one
// analysis run. Scenarios come from TOML manifests, from the demo
// generators, or from API request bodies.
type Scenario struct {
	Name      string    `toml:"name" json:"name,omitempty"`
	Threads   []string  `toml:"threads" json:"threads"`
	Resources []string  `toml:"resources" json:"resources"`
	Holds     []Hold    `toml:"hold" json:"holds,omitempty"`
	Requests  []Request `toml:"request" json:"requests,omitempty"`
}

// Build constructs a validated allocation graph from the scenario.
// Referential integrity and the single-holder invariant are checked by the
// graph mutators; the first violation aborts construction.
func (s Scenario) Build() (*lockgraph.Graph, error) {
	g := lockgraph.New()
	for _, id := range s.Threads {
		if err := g.AddThread(id); err != nil {
			return nil, fmt.Errorf("thread %q: %w", id, err)
		}
	}
	for _, id := range s.Resources {
		if err := g.AddResource(id); err != nil {
			return nil, fmt.Errorf("resource %q: %w", id, err)
		}
	}
	for _, h := range s.Holds {
		if err := g.SetHolds(h.Thread, h.Resource); err != nil {
			return nil, fmt.Errorf("hold %s → %s: %w", h.Thread, h.Resource, err)
		}
	}
	for _, r := range s.Requests {
		if err := g.SetRequests(r.Thread, r.Resource); err != nil {
			return nil, fmt.Errorf("request %s → %s: %w", r.Thread, r.Resource, err)
		}
	}
	return g, nil
}

// Event is one entry in a scenario's acquisition timeline.
type Event struct {
	Seq  int    `json:"seq"`
	Text string `json:"event"`
}

// Timeline derives the acquisition history implied by the scenario:
// every hold as a completed acquisition, then every request as a wait.
// Order follows declaration order, so timelines are deterministic.
func (s Scenario) Timeline() []Event {
	events := make([]Event, 0, len(s.Holds)+len(s.Requests))
	for _, h := range s.Holds {
		events = append(events, Event{
			Seq:  len(events) + 1,
			Text: fmt.Sprintf("%s acquired %s", h.Thread, h.Resource),
		})
	}
	for _, r := range s.Requests {
		events = append(events, Event{
			Seq:  len(events) + 1,
			Text: fmt.Sprintf("%s waiting for %s", r.Thread, r.Resource),
		})
	}
	return events
}
