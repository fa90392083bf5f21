package render

import (
	"strings"
	"testing"

	"github.com/gridlock-dev/gridlock/pkg/detect"
	"github.com/gridlock-dev/gridlock/pkg/remedy"
	"github.com/gridlock-dev/gridlock/pkg/report"
	"github.com/gridlock-dev/gridlock/pkg/scenario"
)

func snapshotABBA(t *testing.T) *report.Snapshot {
	t.Helper()
	s := scenario.Circular(2, 2)
	g, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	deadlocks := detect.ClassifyAll(detect.FindAllCycles(g))
	return report.Build(g, s.Name, s.Timeline(), deadlocks, remedy.Recommend(deadlocks, g.Stats()))
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(snapshotABBA(t), Options{})

	for _, want := range []string{
		`"T1" [shape=box`,
		`"R1" [shape=ellipse`,
		`"T1" -> "R1" [label="holds"`,
		`"T1" -> "R2" [label="waiting", style=dashed, color=red`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.HasPrefix(dot, "digraph allocation {") {
		t.Errorf("unexpected DOT header:\n%s", dot)
	}
}

func TestToDOTLabel(t *testing.T) {
	snap := snapshotABBA(t)

	dot := ToDOT(snap, Options{Label: "demo", Detailed: true})
	if !strings.Contains(dot, "demo\\n2 threads, 2 resources, 1 deadlocks") {
		t.Errorf("detailed label missing:\n%s", dot)
	}

	plain := ToDOT(snap, Options{})
	if strings.Contains(plain, "label=\"demo") {
		t.Errorf("label rendered without being requested:\n%s", plain)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	snap := snapshotABBA(t)
	if a, b := ToDOT(snap, Options{}), ToDOT(snap, Options{}); a != b {
		t.Error("ToDOT output differs between calls on the same snapshot")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 216.00 188.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 216.00 188.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="216" height="188"`) {
		t.Errorf("explicit size missing: %s", out)
	}

	// SVGs without a viewBox pass through untouched.
	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("plain SVG modified: %s", got)
	}
}
