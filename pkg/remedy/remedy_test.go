package remedy

import (
	"testing"

	"github.com/gridlock-dev/gridlock/pkg/detect"
	"github.com/gridlock-dev/gridlock/pkg/lockgraph"
)

func deadlockOfLen(n int) detect.Deadlock {
	c := detect.Cycle{}
	for i := 0; i < n; i++ {
		c.Threads = append(c.Threads, "T")
		c.Resources = append(c.Resources, "R")
	}
	return detect.Deadlock{Cycle: c}
}

func titles(strategies []Strategy) []string {
	out := make([]string, len(strategies))
	for i, s := range strategies {
		out[i] = s.Title
	}
	return out
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name      string
		deadlocks []detect.Deadlock
		stats     lockgraph.Stats
		want      []string
	}{
		{
			name:  "NoDeadlocks",
			stats: lockgraph.Stats{Threads: 3, Resources: 3},
			want:  nil,
		},
		{
			name:      "TwoThreadTwoResource",
			deadlocks: []detect.Deadlock{deadlockOfLen(2)},
			stats:     lockgraph.Stats{Threads: 2, Resources: 2},
			want:      []string{TitleResourceOrdering, TitleTimeoutBackoff},
		},
		{
			name:      "ThreeThreadCycle",
			deadlocks: []detect.Deadlock{deadlockOfLen(3)},
			stats:     lockgraph.Stats{Threads: 3, Resources: 3},
			want: []string{
				TitleResourceOrdering,
				TitleTimeoutBackoff,
				TitlePeriodicDetection,
				TitleSafetyCheck,
			},
		},
		{
			name:      "SelfLoopManyResources",
			deadlocks: []detect.Deadlock{deadlockOfLen(1)},
			stats:     lockgraph.Stats{Threads: 1, Resources: 4},
			want: []string{
				TitleResourceOrdering,
				TitleTimeoutBackoff,
				TitleSafetyCheck,
			},
		},
		{
			name: "PeriodicDetectionTriggersOnAnySingleCycle",
			deadlocks: []detect.Deadlock{
				deadlockOfLen(2),
				deadlockOfLen(4),
			},
			stats: lockgraph.Stats{Threads: 6, Resources: 2},
			want: []string{
				TitleResourceOrdering,
				TitleTimeoutBackoff,
				TitlePeriodicDetection,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(Recommend(tt.deadlocks, tt.stats))
			if len(got) != len(tt.want) {
				t.Fatalf("strategies = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("strategy %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStrategiesCarryProse(t *testing.T) {
	got := Recommend([]detect.Deadlock{deadlockOfLen(3)}, lockgraph.Stats{Resources: 3})
	for _, s := range got {
		if s.Title == "" || s.Rationale == "" || s.Procedure == "" {
			t.Errorf("strategy %+v missing title, rationale or procedure", s)
		}
	}
}
