package tui

import (
	"fmt"
	"sort"
	"strings"

	"lapso/internal/agg"
)

const recentLimit = 15

// recordsModel lists the most recent normalized records in the snapshot.
type recordsModel struct {
	snap   *agg.Snapshot
	width  int
	height int

	recent []agg.Record
}

func newRecordsModel() recordsModel {
	return recordsModel{}
}

func (m *recordsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *recordsModel) setSnapshot(snap *agg.Snapshot) {
	m.snap = snap

	recent := make([]agg.Record, len(snap.Records()))
	copy(recent, snap.Records())
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].InitTimeMS > recent[j].InitTimeMS
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	m.recent = recent
}

func (m recordsModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("Recent Records")

	if m.snap == nil || len(m.recent) == 0 {
		return panelStyle.Width(w).Render(
			fmt.Sprintf("%s\n%s", title, mutedStyle.Render("No records yet. Press r to refresh.")),
		)
	}

	styles := categoryStyles(m.snap)

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-18s %-16s %10s", "Start", "Category", "Duration")))
	for _, r := range m.recent {
		dot := styles[r.Category].Render("●")
		rows = append(rows, fmt.Sprintf("  %-18s %s %-14s %10s",
			r.Date.Format("Mon 02 Jan 15:04"), dot, r.Category, formatMinutes(r.Minutes),
		))
	}

	if d := m.snap.Dropped(); d > 0 {
		rows = append(rows, "")
		rows = append(rows, errorStyle.Render(fmt.Sprintf("  %d malformed record(s) dropped on last refresh", d)))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
