package scenario

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/gridlock-dev/gridlock/pkg/detect"
	"github.com/gridlock-dev/gridlock/pkg/lockgraph"
)

func TestBuild(t *testing.T) {
	s := Scenario{
		Threads:   []string{"T1", "T2"},
		Resources: []string{"R1", "R2"},
		Holds:     []Hold{{"T1", "R1"}, {"T2", "R2"}},
		Requests:  []Request{{"T1", "R2"}, {"T2", "R1"}},
	}

	g, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if owner, ok := g.HolderOf("R1"); !ok || owner != "T1" {
		t.Errorf("HolderOf(R1) = %q, %v", owner, ok)
	}
	if r, ok := g.RequestOf("T2"); !ok || r != "R1" {
		t.Errorf("RequestOf(T2) = %q, %v", r, ok)
	}
}

func TestBuildRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name    string
		s       Scenario
		wantErr error
	}{
		{
			name: "UnknownThreadInHold",
			s: Scenario{
				Resources: []string{"R1"},
				Holds:     []Hold{{"T9", "R1"}},
			},
			wantErr: lockgraph.ErrUnknownThread,
		},
		{
			name: "UnknownResourceInRequest",
			s: Scenario{
				Threads:  []string{"T1"},
				Requests: []Request{{"T1", "R9"}},
			},
			wantErr: lockgraph.ErrUnknownResource,
		},
		{
			name: "DoubleHold",
			s: Scenario{
				Threads:   []string{"T1", "T2"},
				Resources: []string{"R1"},
				Holds:     []Hold{{"T1", "R1"}, {"T2", "R1"}},
			},
			wantErr: lockgraph.ErrResourceHeld,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.s.Build(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Build err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeline(t *testing.T) {
	s := Scenario{
		Threads:   []string{"T1", "T2"},
		Resources: []string{"R1", "R2"},
		Holds:     []Hold{{"T1", "R1"}, {"T2", "R2"}},
		Requests:  []Request{{"T1", "R2"}},
	}

	events := s.Timeline()
	want := []string{
		"T1 acquired R1",
		"T2 acquired R2",
		"T1 waiting for R2",
	}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Text != want[i] {
			t.Errorf("event %d = %q, want %q", i, e.Text, want[i])
		}
		if e.Seq != i+1 {
			t.Errorf("event %d seq = %d, want %d", i, e.Seq, i+1)
		}
	}
}

func TestCircular(t *testing.T) {
	s := Circular(3, 3)

	g, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cycles := detect.FindAllCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("cycles = %d, want 1 ring", len(cycles))
	}
	if cycles[0].Len() != 3 {
		t.Errorf("ring length = %d, want 3", cycles[0].Len())
	}
}

func TestCircularTwoByTwo(t *testing.T) {
	s := Circular(2, 2)

	if len(s.Holds) != 2 || len(s.Requests) != 2 {
		t.Fatalf("holds/requests = %d/%d, want 2/2", len(s.Holds), len(s.Requests))
	}
	// Textbook AB/BA: T1 holds R1 requests R2, T2 holds R2 requests R1.
	if s.Holds[0] != (Hold{"T1", "R1"}) || s.Requests[0] != (Request{"T1", "R2"}) {
		t.Errorf("T1 edges = %+v / %+v", s.Holds[0], s.Requests[0])
	}
	if s.Holds[1] != (Hold{"T2", "R2"}) || s.Requests[1] != (Request{"T2", "R1"}) {
		t.Errorf("T2 edges = %+v / %+v", s.Holds[1], s.Requests[1])
	}
}

func TestCircularMoreThreadsThanResources(t *testing.T) {
	s := Circular(4, 2)

	if len(s.Holds) != 2 {
		t.Errorf("holds = %d, want one per resource", len(s.Holds))
	}
	if _, err := s.Build(); err != nil {
		t.Errorf("Build: %v", err)
	}
}

func TestRandomIsReproducible(t *testing.T) {
	a := Random(rand.New(rand.NewSource(7)), 5, 4)
	b := Random(rand.New(rand.NewSource(7)), 5, 4)

	if len(a.Holds) != len(b.Holds) || len(a.Requests) != len(b.Requests) {
		t.Fatalf("same seed produced different scenarios: %+v vs %+v", a, b)
	}
	for i := range a.Holds {
		if a.Holds[i] != b.Holds[i] {
			t.Errorf("hold %d differs: %+v vs %+v", i, a.Holds[i], b.Holds[i])
		}
	}
	for i := range a.Requests {
		if a.Requests[i] != b.Requests[i] {
			t.Errorf("request %d differs: %+v vs %+v", i, a.Requests[i], b.Requests[i])
		}
	}

	if _, err := a.Build(); err != nil {
		t.Errorf("random scenario does not build: %v", err)
	}
}

func TestRandomNeverSelfRequests(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		s := Random(rng, 4, 3)
		g, err := s.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		for _, th := range g.Threads() {
			r, ok := g.RequestOf(th)
			if !ok {
				continue
			}
			if owner, held := g.HolderOf(r); held && owner == th {
				t.Fatalf("thread %s requests %s which it holds", th, r)
			}
		}
	}
}
