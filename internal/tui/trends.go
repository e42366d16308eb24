package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"lapso/internal/agg"
)

// trendsModel shows the per-day category breakdown for a 7-day window,
// stacked bars per day. The category filter is a multiselect form; an empty
// selection means every category.
type trendsModel struct {
	snap   *agg.Snapshot
	width  int
	height int

	offset int // 7-day windows back from today (0 = current)

	// Selection as a pointer so the huh form survives value copies.
	selected *[]string

	formActive bool
	form       *huh.Form

	chart barchart.Model
}

func newTrendsModel() trendsModel {
	sel := []string{}
	return trendsModel{
		selected: &sel,
		chart:    barchart.New(60, 12),
	}
}

func (m *trendsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	if m.snap != nil {
		m.buildChart()
	}
}

func (m *trendsModel) setSnapshot(snap *agg.Snapshot) {
	m.snap = snap

	// Categories can disappear across refreshes; prune stale selections.
	available := make(map[string]bool)
	for _, c := range agg.AvailableCategories(snap) {
		available[c] = true
	}
	kept := (*m.selected)[:0]
	for _, c := range *m.selected {
		if available[c] {
			kept = append(kept, c)
		}
	}
	*m.selected = kept

	m.buildChart()
}

func (m trendsModel) dateRange() (time.Time, time.Time) {
	loc := time.UTC
	if m.snap != nil {
		loc = m.snap.Location()
	}
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	end := today.AddDate(0, 0, 1-7*m.offset)
	start := end.AddDate(0, 0, -7)
	return start, end
}

func (m trendsModel) update(msg tea.Msg) (trendsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			m.buildChart()
			return m, nil
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
				m.buildChart()
			}
			return m, nil
		case key.Matches(msg, keys.Filter):
			return m.showFilter()
		}
	}
	return m, nil
}

func (m trendsModel) showFilter() (trendsModel, tea.Cmd) {
	if m.snap == nil || m.snap.Empty() {
		return m, nil
	}

	cats := agg.AvailableCategories(m.snap)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Categories").
				Description("Empty selection shows everything").
				Options(huh.NewOptions(cats...)...).
				Value(m.selected),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m trendsModel) updateForm(msg tea.Msg) (trendsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		m.buildChart()
		return m, nil
	}

	return m, cmd
}

func (m *trendsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	if m.snap == nil {
		return
	}

	start, end := m.dateRange()
	points := agg.DailyTrend(m.snap, *m.selected)
	styles := categoryStyles(m.snap)

	var bars []barchart.BarData
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		var values []barchart.BarValue
		for _, p := range points {
			if p.Day.Format("2006-01-02") == dateStr {
				values = append(values, barchart.BarValue{
					Name:  p.Category,
					Value: p.Minutes / 60.0,
					Style: styles[p.Category],
				})
			}
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m trendsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Filter Trends"), "", m.form.View(),
			),
		)
	}

	start, end := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		start.Format("Jan 02"), end.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Daily Time by Category"), "  ", dateLabel,
	)

	legend := m.renderLegend()
	nav := mutedStyle.Render("  ←/→: move window  f: filter")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", legend, "", nav,
		),
	)
}

func (m trendsModel) renderLegend() string {
	if m.snap == nil {
		return ""
	}
	styles := categoryStyles(m.snap)

	shown := *m.selected
	if len(shown) == 0 {
		shown = agg.AvailableCategories(m.snap)
	}

	var items []string
	for _, c := range shown {
		items = append(items, fmt.Sprintf("%s %s", styles[c].Render("●"), c))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
