package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gridlock-dev/gridlock/pkg/detect"
	"github.com/gridlock-dev/gridlock/pkg/report"
	"github.com/gridlock-dev/gridlock/pkg/scenario"
)

func testSnapshot() *report.Snapshot {
	return &report.Snapshot{
		Scenario: "ring",
		Timeline: []scenario.Event{
			{Seq: 1, Text: "T1 acquired R1"},
			{Seq: 2, Text: "T2 acquired R2"},
			{Seq: 3, Text: "T1 waiting for R2"},
			{Seq: 4, Text: "T2 waiting for R1"},
		},
		Deadlocks: []detect.Deadlock{
			{
				Cycle:       detect.Cycle{Threads: []string{"T1", "T2"}, Resources: []string{"R2", "R1"}},
				Description: "Circular wait between 2 threads",
			},
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func step(t *testing.T, m tea.Model, key string) TimelineModel {
	t.Helper()
	next, _ := m.Update(keyMsg(key))
	tm, ok := next.(TimelineModel)
	if !ok {
		t.Fatalf("Update returned %T, want TimelineModel", next)
	}
	return tm
}

func TestTimelineModelStepping(t *testing.T) {
	m := NewTimelineModel(testSnapshot())
	if m.Step != 0 {
		t.Fatalf("initial step = %d, want 0", m.Step)
	}

	m = step(t, m, "right")
	m = step(t, m, "right")
	if m.Step != 2 {
		t.Errorf("step after two advances = %d, want 2", m.Step)
	}

	m = step(t, m, "left")
	if m.Step != 1 {
		t.Errorf("step after back = %d, want 1", m.Step)
	}

	// Stepping back past the start is a no-op.
	m = step(t, m, "left")
	m = step(t, m, "left")
	if m.Step != 0 {
		t.Errorf("step clamped at start = %d, want 0", m.Step)
	}
}

func TestTimelineModelVerdict(t *testing.T) {
	m := NewTimelineModel(testSnapshot())

	// Advance through every event plus one more for the verdict.
	for i := 0; i < len(m.Snapshot.Timeline)+1; i++ {
		m = step(t, m, "right")
	}

	view := m.View()
	if !strings.Contains(view, "deadlock(s) detected") {
		t.Errorf("verdict view missing deadlock summary:\n%s", view)
	}
	if !strings.Contains(view, "Circular wait between 2 threads") {
		t.Errorf("verdict view missing description:\n%s", view)
	}

	// Advancing past the verdict is a no-op.
	before := m.Step
	m = step(t, m, "right")
	if m.Step != before {
		t.Errorf("step advanced past verdict: %d -> %d", before, m.Step)
	}
}

func TestTimelineModelNoDeadlock(t *testing.T) {
	snap := &report.Snapshot{
		Timeline: []scenario.Event{{Seq: 1, Text: "T1 acquired R1"}},
	}
	m := NewTimelineModel(snap)
	m = step(t, m, "right")
	m = step(t, m, "right")

	if !strings.Contains(m.View(), "no deadlock detected") {
		t.Errorf("verdict view missing all-clear:\n%s", m.View())
	}
}

func TestTimelineModelQuit(t *testing.T) {
	m := NewTimelineModel(testSnapshot())
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
}
