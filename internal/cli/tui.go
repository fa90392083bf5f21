package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gridlock-dev/gridlock/pkg/report"
)

// Timeline viewer styles
var (
	tlCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tlPastStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	tlFutureStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TimelineModel - Interactive timeline stepping
// =============================================================================

// TimelineModel is the bubbletea model for stepping through a scenario's
// acquisition timeline one event at a time. Step past the last event and the
// verdict appears: the detected deadlocks or an all-clear.
type TimelineModel struct {
	Snapshot *report.Snapshot
	Step     int // number of revealed events; len(Timeline)+1 shows the verdict
}

// NewTimelineModel creates a timeline model positioned before the first event.
func NewTimelineModel(snap *report.Snapshot) TimelineModel {
	return TimelineModel{Snapshot: snap}
}

func (m TimelineModel) Init() tea.Cmd {
	return nil
}

func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", " ", "enter":
			if m.Step <= len(m.Snapshot.Timeline) {
				m.Step++
			}
		case "left", "h":
			if m.Step > 0 {
				m.Step--
			}
		}
	}
	return m, nil
}

func (m TimelineModel) View() string {
	var b strings.Builder

	title := "Timeline"
	if m.Snapshot.Scenario != "" {
		title += ": " + m.Snapshot.Scenario
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(tlFutureStyle.Render("←/→ step  q quit"))
	b.WriteString("\n\n")

	for i, e := range m.Snapshot.Timeline {
		line := fmt.Sprintf("  %2d. %s", e.Seq, e.Text)
		switch {
		case i == m.Step-1:
			b.WriteString(tlCurrentStyle.Render("▸" + line[1:]))
		case i < m.Step:
			b.WriteString(tlPastStyle.Render(line))
		default:
			b.WriteString(tlFutureStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Step > len(m.Snapshot.Timeline) {
		b.WriteString("\n")
		b.WriteString(m.verdict())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tlFutureStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Step, len(m.Snapshot.Timeline)), len(m.Snapshot.Timeline))))
	return b.String()
}

// verdict summarizes the analysis once the timeline has fully played out.
func (m TimelineModel) verdict() string {
	if !m.Snapshot.Deadlocked() {
		return styleOK.Render("✓ no deadlock detected")
	}

	var b strings.Builder
	b.WriteString(styleDeadlock.Render(fmt.Sprintf("✗ %d deadlock(s) detected", len(m.Snapshot.Deadlocks))))
	for _, d := range m.Snapshot.Deadlocks {
		b.WriteString("\n  ")
		b.WriteString(tlPastStyle.Render(d.Description))
	}
	if len(m.Snapshot.Strategies) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styleTitle.Render("Recommended strategies"))
		for _, s := range m.Snapshot.Strategies {
			b.WriteString("\n  ")
			b.WriteString(styleStrategy.Render("• " + s.Title))
		}
	}
	return b.String()
}

// runTimelineViewer runs the interactive timeline program to completion.
func runTimelineViewer(snap *report.Snapshot) error {
	_, err := tea.NewProgram(NewTimelineModel(snap)).Run()
	return err
}
