package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gridlock-dev/gridlock/pkg/report"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary accents
	colorGreen  = lipgloss.Color("35")  // Green - success / no deadlock
	colorYellow = lipgloss.Color("220") // Amber - strategies
	colorRed    = lipgloss.Color("167") // Soft red - deadlocks
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDeadlock = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleOK       = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleStrategy = lipgloss.NewStyle().Foreground(colorYellow)
	styleValue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Report Output
// =============================================================================

// printReport writes the snapshot's findings to stdout: a deadlock section,
// the per-thread wait edges, and recommended strategies. The presentation
// layer only reads the snapshot; all analysis happened upstream.
func printReport(snap *report.Snapshot) {
	if snap.Scenario != "" {
		fmt.Println(styleTitle.Render("Scenario: " + snap.Scenario))
	}
	fmt.Println(styleDim.Render(fmt.Sprintf("%d threads, %d resources, %d holds, %d requests",
		snap.Stats.Threads, snap.Stats.Resources, snap.Stats.Holds, snap.Stats.Requests)))
	fmt.Println()

	if !snap.Deadlocked() {
		fmt.Println(styleOK.Render("✓ no deadlock detected"))
		return
	}

	fmt.Println(styleDeadlock.Render(fmt.Sprintf("✗ %d deadlock(s) detected", len(snap.Deadlocks))))
	for i, d := range snap.Deadlocks {
		fmt.Println()
		fmt.Printf("%s %s\n",
			styleDeadlock.Render(fmt.Sprintf("[%d]", i+1)),
			styleValue.Render(d.Description))
		for _, wait := range d.Waits {
			fmt.Println(styleDim.Render("    ├─ " + wait))
		}
	}

	if len(snap.Strategies) > 0 {
		fmt.Println()
		fmt.Println(styleTitle.Render("Recommended strategies"))
		for i, s := range snap.Strategies {
			fmt.Printf("%s %s\n", styleStrategy.Render(fmt.Sprintf("%d.", i+1)), styleValue.Render(s.Title))
			fmt.Println(styleDim.Render("   " + s.Rationale))
			fmt.Println(styleDim.Render("   " + s.Procedure))
		}
	}
}

// printTimeline renders the acquisition timeline as a two-column table.
func printTimeline(snap *report.Snapshot) {
	if len(snap.Timeline) == 0 {
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleDim).
		Headers("#", "EVENT")
	for _, e := range snap.Timeline {
		t.Row(strconv.Itoa(e.Seq), e.Text)
	}

	fmt.Println(styleTitle.Render("Timeline"))
	fmt.Println(t.Render())
}
