package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gridlock-dev/gridlock/pkg/remedy"
	"github.com/gridlock-dev/gridlock/pkg/scenario"
	"github.com/gridlock-dev/gridlock/pkg/store"
)

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{
			name:    "NoSource",
			opts:    Options{},
			wantErr: "scenario source is required",
		},
		{
			name:    "TwoSources",
			opts:    Options{Demo: DemoCircular, ScenarioFile: "x.toml"},
			wantErr: "exactly one scenario source",
		},
		{
			name:    "UnknownDemo",
			opts:    Options{Demo: "chaotic"},
			wantErr: "invalid demo",
		},
		{
			name:    "UnknownFormat",
			opts:    Options{Demo: DemoCircular, Formats: []string{"gif"}},
			wantErr: "invalid format",
		},
		{
			name:    "NegativeCounts",
			opts:    Options{Demo: DemoCircular, Threads: -1},
			wantErr: "must be positive",
		},
		{
			name: "DefaultsApplied",
			opts: Options{Demo: DemoCircular},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateAndSetDefaults: %v", err)
				}
				if tt.opts.Threads != DefaultThreads || tt.opts.Resources != DefaultResources {
					t.Errorf("counts = %d/%d, want defaults", tt.opts.Threads, tt.opts.Resources)
				}
				if len(tt.opts.Formats) != 1 || tt.opts.Formats[0] != FormatJSON {
					t.Errorf("formats = %v, want [json]", tt.opts.Formats)
				}
				if tt.opts.Logger == nil {
					t.Error("logger not defaulted")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestExecuteCircularDemo(t *testing.T) {
	mem := store.NewMemoryStore()
	runner := NewRunner(mem, nil)

	result, err := runner.Execute(context.Background(), Options{
		Demo:    DemoCircular,
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	snap := result.Snapshot
	if len(snap.Deadlocks) != 1 {
		t.Fatalf("deadlocks = %d, want 1", len(snap.Deadlocks))
	}
	if snap.Deadlocks[0].Cycle.Len() != 2 {
		t.Errorf("cycle length = %d, want 2", snap.Deadlocks[0].Cycle.Len())
	}

	// 2 threads / 2 resources: ordering + timeout only.
	if len(snap.Strategies) != 2 {
		t.Fatalf("strategies = %d, want 2", len(snap.Strategies))
	}
	if snap.Strategies[0].Title != remedy.TitleResourceOrdering ||
		snap.Strategies[1].Title != remedy.TitleTimeoutBackoff {
		t.Errorf("strategy titles = %q, %q", snap.Strategies[0].Title, snap.Strategies[1].Title)
	}

	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact missing")
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph allocation") {
		t.Error("dot artifact missing or malformed")
	}

	// Snapshot is retrievable from the store under its run ID.
	stored, err := mem.Get(context.Background(), snap.RunID)
	if err != nil {
		t.Fatalf("store Get: %v", err)
	}
	if stored.RunID != snap.RunID {
		t.Errorf("stored RunID = %q, want %q", stored.RunID, snap.RunID)
	}
}

func TestExecuteThreeRing(t *testing.T) {
	runner := NewRunner(nil, nil)

	result, err := runner.Execute(context.Background(), Options{
		Demo:      DemoCircular,
		Threads:   3,
		Resources: 3,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	snap := result.Snapshot
	if len(snap.Deadlocks) != 1 || snap.Deadlocks[0].Cycle.Len() != 3 {
		t.Fatalf("deadlocks = %+v, want one 3-cycle", snap.Deadlocks)
	}

	titles := make(map[string]bool)
	for _, s := range snap.Strategies {
		titles[s.Title] = true
	}
	if !titles[remedy.TitlePeriodicDetection] {
		t.Error("3-thread cycle did not trigger periodic detection strategy")
	}
	if !titles[remedy.TitleSafetyCheck] {
		t.Error("3 resources did not trigger safety-check strategy")
	}
}

func TestExecuteScenarioFile(t *testing.T) {
	manifest := `
threads = ["T1", "T2", "T3"]
resources = ["R1", "R2", "R3"]

[[hold]]
thread = "T1"
resource = "R1"

[[hold]]
thread = "T2"
resource = "R2"

[[hold]]
thread = "T3"
resource = "R3"

[[request]]
thread = "T1"
resource = "R2"

[[request]]
thread = "T2"
resource = "R3"
`
	path := filepath.Join(t.TempDir(), "chain.toml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	runner := NewRunner(nil, nil)
	result, err := runner.Execute(context.Background(), Options{ScenarioFile: path})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// A chain is not a loop: no deadlocks, no strategies.
	if len(result.Snapshot.Deadlocks) != 0 {
		t.Errorf("deadlocks = %d, want 0", len(result.Snapshot.Deadlocks))
	}
	if len(result.Snapshot.Strategies) != 0 {
		t.Errorf("strategies = %d, want 0", len(result.Snapshot.Strategies))
	}
}

func TestExecuteInlineScenario(t *testing.T) {
	runner := NewRunner(nil, nil)

	scen := scenario.Circular(2, 2)
	result, err := runner.Execute(context.Background(), Options{Scenario: &scen})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Snapshot.Deadlocked() {
		t.Error("inline AB/BA scenario produced no deadlock")
	}
}

func TestExecuteRejectsBadScenario(t *testing.T) {
	runner := NewRunner(nil, nil)

	_, err := runner.Execute(context.Background(), Options{
		Scenario: &scenario.Scenario{
			Threads:   []string{"T1", "T2"},
			Resources: []string{"R1"},
			Holds: []scenario.Hold{
				{Thread: "T1", Resource: "R1"},
				{Thread: "T2", Resource: "R1"},
			},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "build graph") {
		t.Errorf("err = %v, want build graph failure", err)
	}
}

func TestRandomDemoIsReproducible(t *testing.T) {
	runner := NewRunner(nil, nil)

	opts := func() Options {
		return Options{Demo: DemoRandom, Threads: 5, Resources: 4, Seed: 99}
	}
	a, err := runner.Execute(context.Background(), opts())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	b, err := runner.Execute(context.Background(), opts())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(a.Snapshot.Links) != len(b.Snapshot.Links) {
		t.Fatalf("same seed produced different graphs")
	}
	for i := range a.Snapshot.Links {
		if a.Snapshot.Links[i] != b.Snapshot.Links[i] {
			t.Errorf("link %d differs: %+v vs %+v", i, a.Snapshot.Links[i], b.Snapshot.Links[i])
		}
	}
}
