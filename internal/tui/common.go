package tui

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"

	"lapso/internal/agg"
)

// viewState represents the currently active view.
type viewState int

const (
	viewOverview viewState = iota
	viewTrends
	viewHeatmap
	viewRecords
)

var viewNames = []string{"Overview", "Trends", "Heatmap", "Records"}

// --- Messages ---

// snapshotMsg delivers a freshly published snapshot to every view. Views
// derive everything from the snapshot they are handed, never from ambient
// state.
type snapshotMsg struct {
	snap *agg.Snapshot
}

type refreshErrMsg struct {
	err error
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type tickMsg time.Time

// --- Helpers ---

func formatMinutes(m float64) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	total := int(math.Round(m))
	h := total / 60
	if h == 0 {
		return fmt.Sprintf("%s%dm", sign, total)
	}
	return fmt.Sprintf("%s%dh%02dm", sign, h, total%60)
}

// categoryStyles assigns each category a stable palette color by its
// discovery order in the snapshot.
func categoryStyles(snap *agg.Snapshot) map[string]lipgloss.Style {
	styles := make(map[string]lipgloss.Style)
	for i, cat := range agg.AvailableCategories(snap) {
		styles[cat] = lipgloss.NewStyle().Foreground(categoryPalette[i%len(categoryPalette)])
	}
	return styles
}
