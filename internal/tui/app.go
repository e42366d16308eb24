package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lapso/internal/agg"
	"lapso/internal/config"
	"lapso/internal/export"
)

// App is the root Bubble Tea model. It owns the refresh trigger: the
// initial load, the r key, and the optional auto-refresh ticker all funnel
// into one refresher, and every view re-derives from the snapshot the
// refresher publishes.
type App struct {
	refresher *agg.Refresher
	holder    *agg.Holder
	cfg       *config.Config

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	overview overviewModel
	trends   trendsModel
	heatmap  heatmapModel
	records  recordsModel

	help        help.Model
	status      string
	statusErr   bool
	lastRefresh time.Time
	recordCount int
}

func NewApp(refresher *agg.Refresher, holder *agg.Holder, cfg *config.Config) App {
	h := help.New()
	h.ShowAll = false

	return App{
		refresher:  refresher,
		holder:     holder,
		cfg:        cfg,
		activeView: viewOverview,
		overview:   newOverviewModel(),
		trends:     newTrendsModel(),
		heatmap:    newHeatmapModel(cfg.HeatmapExclude),
		records:    newRecordsModel(),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.refreshCmd()}
	if a.cfg.RefreshInterval > 0 {
		cmds = append(cmds, a.tickCmd())
	}
	return tea.Batch(cmds...)
}

func (a App) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := a.refresher.Refresh(context.Background())
		if err != nil {
			return refreshErrMsg{err: err}
		}
		return snapshotMsg{snap: snap}
	}
}

func (a App) tickCmd() tea.Cmd {
	return tea.Tick(a.cfg.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.overview.setSize(a.width, contentHeight)
		a.trends.setSize(a.width, contentHeight)
		a.heatmap.setSize(a.width, contentHeight)
		a.records.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// The filter form captures input while open.
		if a.activeView == viewTrends && a.trends.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Refresh):
			a.status = "Refreshing..."
			a.statusErr = false
			return a, a.refreshCmd()
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewOverview
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTrends
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewHeatmap
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewRecords
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, nil
		}

	case snapshotMsg:
		a.overview.setSnapshot(msg.snap)
		a.trends.setSnapshot(msg.snap)
		a.heatmap.setSnapshot(msg.snap)
		a.records.setSnapshot(msg.snap)
		a.recordCount = len(msg.snap.Records())
		a.lastRefresh = msg.snap.TakenAt()
		if d := msg.snap.Dropped(); d > 0 {
			a.status = fmt.Sprintf("Refreshed, %d malformed record(s) dropped", d)
		} else {
			a.status = ""
		}
		a.statusErr = false
		return a, nil

	case refreshErrMsg:
		// The previously published snapshot stays on screen.
		a.status = fmt.Sprintf("Refresh failed: %v", msg.err)
		a.statusErr = true
		return a, nil

	case tickMsg:
		return a, tea.Batch(a.refreshCmd(), a.tickCmd())

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.activeView == viewTrends {
		a.trends, cmd = a.trends.update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewOverview:
		content = a.overview.view()
	case viewTrends:
		content = a.trends.view()
	case viewHeatmap:
		content = a.heatmap.view()
	case viewRecords:
		content = a.records.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("lapso")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	var right string
	if a.status != "" {
		if a.statusErr {
			right = errorStyle.Render(" " + a.status)
		} else {
			right = successStyle.Render(" " + a.status)
		}
	} else if !a.lastRefresh.IsZero() {
		right = mutedStyle.Render(fmt.Sprintf(" %d records · refreshed %s",
			a.recordCount, a.lastRefresh.Format("15:04:05")))
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"Totals CSV", "Trend CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Aggregates")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		snap := a.holder.Current()

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(home, fmt.Sprintf("lapso-totals-%s.csv", dateStr))
			err = export.TotalsCSV(snap, path)
		case 1:
			path = filepath.Join(home, fmt.Sprintf("lapso-trend-%s.csv", dateStr))
			err = export.TrendCSV(snap, path)
		default:
			path = filepath.Join(home, fmt.Sprintf("lapso-%s.json", dateStr))
			err = export.ToJSON(snap, a.cfg.HeatmapExclude, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
