package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"lapso/internal/agg"
)

type jsonExport struct {
	GeneratedAt string        `json:"generated_at"`
	Timezone    string        `json:"timezone"`
	Records     int           `json:"records"`
	Dropped     int           `json:"dropped"`
	Totals      []jsonTotal   `json:"totals"`
	DailyTrend  []jsonTrend   `json:"daily_trend"`
	Heatmap     []jsonHeatmap `json:"heatmap"`
}

type jsonTotal struct {
	Category string  `json:"category"`
	Minutes  float64 `json:"minutes"`
}

type jsonTrend struct {
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Minutes  float64 `json:"minutes"`
}

type jsonHeatmap struct {
	Day      string  `json:"day"`
	Hour     int     `json:"hour"`
	Category string  `json:"category"`
	Minutes  float64 `json:"minutes"`
}

// ToJSON writes every aggregate view of the snapshot as one document. The
// heatmap honors the configured category exclusions; totals and trend cover
// everything.
func ToJSON(snap *agg.Snapshot, excluded []string, path string) error {
	doc := jsonExport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Timezone:    snap.Location().String(),
		Records:     len(snap.Records()),
		Dropped:     snap.Dropped(),
	}

	for _, t := range agg.TotalsSortedDescending(snap) {
		doc.Totals = append(doc.Totals, jsonTotal{Category: t.Category, Minutes: t.Minutes})
	}
	for _, p := range agg.DailyTrend(snap, nil) {
		doc.DailyTrend = append(doc.DailyTrend, jsonTrend{
			Date:     p.Day.Format("2006-01-02"),
			Category: p.Category,
			Minutes:  p.Minutes,
		})
	}
	for _, b := range agg.Heatmap(snap, excluded) {
		doc.Heatmap = append(doc.Heatmap, jsonHeatmap{
			Day:      b.Day.String(),
			Hour:     b.Hour,
			Category: b.Category,
			Minutes:  b.Minutes,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
