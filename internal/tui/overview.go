package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"lapso/internal/agg"
)

// overviewModel shows total time per category: a bar chart of the sorted
// totals plus a percentage table underneath.
type overviewModel struct {
	snap   *agg.Snapshot
	width  int
	height int

	chart barchart.Model
}

func newOverviewModel() overviewModel {
	return overviewModel{
		chart: barchart.New(60, 12),
	}
}

func (o *overviewModel) setSize(w, h int) {
	o.width = w
	o.height = h
	if o.snap != nil {
		o.buildChart()
	}
}

func (o *overviewModel) setSnapshot(snap *agg.Snapshot) {
	o.snap = snap
	o.buildChart()
}

func (o *overviewModel) buildChart() {
	chartWidth := o.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if o.height > 30 {
		chartHeight = 16
	}

	o.chart = barchart.New(chartWidth, chartHeight)

	totals := agg.TotalsSortedDescending(o.snap)
	styles := categoryStyles(o.snap)

	var bars []barchart.BarData
	for _, t := range totals {
		label := t.Category
		if len(label) > 8 {
			label = label[:8]
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  t.Category,
				Value: t.Minutes / 60.0,
				Style: styles[t.Category],
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	o.chart.PushAll(bars)
	o.chart.Draw()
}

func (o overviewModel) view() string {
	w := o.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Total Time by Category"), "  ",
		mutedStyle.Render("(hours)"),
	)

	if o.snap == nil || o.snap.Empty() {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				header, "",
				mutedStyle.Render("No records yet. Press r to refresh."),
			),
		)
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", o.chart.View(), "", o.renderTable(w),
		),
	)
}

func (o overviewModel) renderTable(w int) string {
	totals := agg.TotalsSortedDescending(o.snap)
	styles := categoryStyles(o.snap)

	var grand float64
	for _, t := range totals {
		grand += t.Minutes
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-16s %10s %8s", "Category", "Total", "Share")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 36))))

	for _, t := range totals {
		dot := styles[t.Category].Render("●")
		share := 0.0
		if grand != 0 {
			share = t.Minutes / grand * 100
		}
		rows = append(rows, fmt.Sprintf("  %s %-14s %10s %7.1f%%",
			dot, t.Category, formatMinutes(t.Minutes), share,
		))
	}

	return strings.Join(rows, "\n")
}
