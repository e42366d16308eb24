package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"lapso/internal/agg"
)

// TotalsCSV writes per-category totals, largest first.
func TotalsCSV(snap *agg.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"category", "total_minutes"}); err != nil {
		return err
	}
	for _, t := range agg.TotalsSortedDescending(snap) {
		row := []string{t.Category, formatMinutes(t.Minutes)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// TrendCSV writes the per-day category trend across all categories.
func TrendCSV(snap *agg.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "category", "minutes"}); err != nil {
		return err
	}
	for _, p := range agg.DailyTrend(snap, nil) {
		row := []string{p.Day.Format("2006-01-02"), p.Category, formatMinutes(p.Minutes)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
