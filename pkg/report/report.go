package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/gridlock-dev/gridlock/pkg/detect"
	"github.com/gridlock-dev/gridlock/pkg/lockgraph"
	"github.com/gridlock-dev/gridlock/pkg/remedy"
	"github.com/gridlock-dev/gridlock/pkg/scenario"
)

// Node and link type markers, matching the dashboard's expectations.
const (
	NodeThread   = "thread"
	NodeResource = "resource"

	LinkHolds   = "holds"
	LinkWaiting = "waiting"
)

// Node is one graph vertex in presentation form.
type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"` // thread or resource
}

// Link is one directed edge in presentation form. Deadlock marks edges that
// participate in at least one detected cycle.
type Link struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type"` // holds or waiting
	Deadlock bool   `json:"deadlock"`
}

// Snapshot is the full output of one analysis run: the graph in node/link
// form, the acquisition timeline, every deadlock record and every
// recommended strategy. Snapshots are immutable once built and safe to
// serve concurrently.
type Snapshot struct {
	RunID      string            `json:"run_id"`
	Scenario   string            `json:"scenario,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	Nodes      []Node            `json:"nodes"`
	Links      []Link            `json:"links"`
	Timeline   []scenario.Event  `json:"timeline,omitempty"`
	Deadlocks  []detect.Deadlock `json:"deadlocks"`
	Strategies []remedy.Strategy `json:"strategies"`
	Stats      lockgraph.Stats   `json:"stats"`
}

// Deadlocked reports whether the run found any circular wait.
func (s *Snapshot) Deadlocked() bool { return len(s.Deadlocks) > 0 }

// Build assembles a snapshot from an analyzed graph. Nodes and links follow
// the graph's sorted ID order, so identical inputs produce identical
// snapshots apart from RunID and CreatedAt.
func Build(g *lockgraph.Graph, name string, events []scenario.Event, deadlocks []detect.Deadlock, strategies []remedy.Strategy) *Snapshot {
	s := &Snapshot{
		RunID:      uuid.NewString(),
		Scenario:   name,
		CreatedAt:  time.Now().UTC(),
		Timeline:   events,
		Deadlocks:  deadlocks,
		Strategies: strategies,
		Stats:      g.Stats(),
	}

	for _, id := range g.Threads() {
		s.Nodes = append(s.Nodes, Node{ID: id, Type: NodeThread})
	}
	for _, id := range g.Resources() {
		s.Nodes = append(s.Nodes, Node{ID: id, Type: NodeResource})
	}

	hot := deadlockedEdges(deadlocks)
	for _, t := range g.Threads() {
		for _, r := range g.HoldingsOf(t) {
			s.Links = append(s.Links, Link{
				Source:   t,
				Target:   r,
				Type:     LinkHolds,
				Deadlock: hot[edgeKey(t, r, LinkHolds)],
			})
		}
		if r, ok := g.RequestOf(t); ok {
			s.Links = append(s.Links, Link{
				Source:   t,
				Target:   r,
				Type:     LinkWaiting,
				Deadlock: hot[edgeKey(t, r, LinkWaiting)],
			})
		}
	}
	return s
}

func edgeKey(thread, resource, kind string) string {
	return kind + "\x00" + thread + "\x00" + resource
}

// deadlockedEdges collects every hold and request edge that lies on a
// detected cycle: Threads[i] waits on Resources[i], which Threads[i+1] holds.
func deadlockedEdges(deadlocks []detect.Deadlock) map[string]bool {
	hot := make(map[string]bool)
	for _, d := range deadlocks {
		n := d.Cycle.Len()
		for i := 0; i < n; i++ {
			waiter := d.Cycle.Threads[i]
			res := d.Cycle.Resources[i]
			holder := d.Cycle.Threads[(i+1)%n]
			hot[edgeKey(waiter, res, LinkWaiting)] = true
			hot[edgeKey(holder, res, LinkHolds)] = true
		}
	}
	return hot
}

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// Marshal converts a snapshot to indented JSON bytes.
func Marshal(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a snapshot as JSON to an io.Writer.
func Write(s *Snapshot, w io.Writer) error {
	return writeTo(s, w)
}

// WriteFile writes a snapshot to a JSON file with 0644 permissions.
func WriteFile(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(s, f)
}

// Read decodes a JSON snapshot from an io.Reader.
func Read(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &s, nil
}

// ReadFile reads a snapshot from a JSON file.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func writeTo(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
