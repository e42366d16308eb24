package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"lapso/internal/agg"
)

// days in display order, Monday first regardless of locale.
var heatmapDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// heatmapModel shows activity intensity per weekday and hour, summed over
// every category except the configured exclusions.
type heatmapModel struct {
	snap     *agg.Snapshot
	excluded []string
	width    int
	height   int

	cells [7][24]float64 // Monday-first rows
	peak  float64
}

func newHeatmapModel(excluded []string) heatmapModel {
	return heatmapModel{excluded: excluded}
}

func (m *heatmapModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *heatmapModel) setSnapshot(snap *agg.Snapshot) {
	m.snap = snap

	m.cells = [7][24]float64{}
	m.peak = 0
	for _, b := range agg.Heatmap(snap, m.excluded) {
		row := (int(b.Day) + 6) % 7 // Monday first
		m.cells[row][b.Hour] += b.Minutes
		if m.cells[row][b.Hour] > m.peak {
			m.peak = m.cells[row][b.Hour]
		}
	}
}

func (m heatmapModel) view() string {
	w := m.width - 4

	header := titleStyle.Render("Activity by Day and Hour")
	if len(m.excluded) > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Bottom,
			header, "  ",
			mutedStyle.Render("(excluding "+strings.Join(m.excluded, ", ")+")"),
		)
	}

	if m.snap == nil || m.snap.Empty() {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				header, "",
				mutedStyle.Render("No records yet. Press r to refresh."),
			),
		)
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.renderGrid(), "", m.renderScale(),
		),
	)
}

func (m heatmapModel) renderGrid() string {
	var rows []string

	// Hour axis, one column per two characters.
	var hours strings.Builder
	hours.WriteString("      ")
	for h := 0; h < 24; h += 3 {
		hours.WriteString(fmt.Sprintf("%-6s", fmt.Sprintf("%02d", h)))
	}
	rows = append(rows, mutedStyle.Render(hours.String()))

	for i, day := range heatmapDays {
		var b strings.Builder
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-5s ", day.String()[:3])))
		for h := 0; h < 24; h++ {
			b.WriteString(m.cellStyle(m.cells[i][h]).Render("██"))
		}
		rows = append(rows, b.String())
	}

	return strings.Join(rows, "\n")
}

func (m heatmapModel) cellStyle(minutes float64) lipgloss.Style {
	idx := 0
	if m.peak > 0 && minutes > 0 {
		idx = 1 + int(math.Floor(minutes/m.peak*float64(len(heatRamp)-2)))
		if idx > len(heatRamp)-1 {
			idx = len(heatRamp) - 1
		}
	}
	return lipgloss.NewStyle().Foreground(heatRamp[idx])
}

func (m heatmapModel) renderScale() string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render("  less "))
	for _, c := range heatRamp {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render("██"))
	}
	b.WriteString(mutedStyle.Render(" more"))
	if m.peak > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("   peak cell: %s", formatMinutes(m.peak))))
	}
	return b.String()
}
