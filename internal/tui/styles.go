package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary   = lipgloss.Color("#7AA2F7")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#BB9AF7")
)

// categoryPalette colors chart series; categories pick colors by discovery
// order.
var categoryPalette = []lipgloss.Color{
	lipgloss.Color("#7AA2F7"),
	lipgloss.Color("#9ECE6A"),
	lipgloss.Color("#E0AF68"),
	lipgloss.Color("#F7768E"),
	lipgloss.Color("#BB9AF7"),
	lipgloss.Color("#7DCFFF"),
	lipgloss.Color("#FF9E64"),
	lipgloss.Color("#73DACA"),
}

// heatRamp shades heatmap cells from cold to hot.
var heatRamp = []lipgloss.Color{
	lipgloss.Color("#24283B"),
	lipgloss.Color("#2F3A5C"),
	lipgloss.Color("#3D59A1"),
	lipgloss.Color("#5C7ACD"),
	lipgloss.Color("#7AA2F7"),
	lipgloss.Color("#BB9AF7"),
}

// Styles
var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
