package agg

import (
	"sort"
	"time"
)

// View functions are pure reductions over one snapshot: same snapshot and
// filters in, identical result out. Each call returns a freshly allocated
// result set.

// TotalsByCategory returns the precomputed category totals in discovery
// order (the order categories first appear in the record set).
func TotalsByCategory(s *Snapshot) []CategoryTotal {
	out := make([]CategoryTotal, len(s.totals))
	copy(out, s.totals)
	return out
}

// TotalsSortedDescending returns category totals sorted by minutes
// descending, ties broken by category name ascending.
func TotalsSortedDescending(s *Snapshot) []CategoryTotal {
	out := TotalsByCategory(s)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// AvailableCategories returns the categories present in this snapshot, in
// discovery order. The set reflects only the current snapshot, not any
// previous one.
func AvailableCategories(s *Snapshot) []string {
	out := make([]string, len(s.totals))
	for i, t := range s.totals {
		out[i] = t.Category
	}
	return out
}

// DailyTrend sums minutes per calendar day and category. Day boundaries are
// taken in the snapshot's timezone. An empty or nil selection means no
// filter: every category is included. Categories absent from the snapshot
// simply contribute nothing.
func DailyTrend(s *Snapshot, selected []string) []TrendPoint {
	var filter map[string]bool
	if len(selected) > 0 {
		filter = make(map[string]bool, len(selected))
		for _, c := range selected {
			filter[c] = true
		}
	}

	type dayKey struct {
		day      string
		category string
	}
	sums := make(map[dayKey]*TrendPoint)

	for _, r := range s.records {
		if filter != nil && !filter[r.Category] {
			continue
		}
		day := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, r.Date.Location())
		k := dayKey{day: day.Format("2006-01-02"), category: r.Category}
		p, ok := sums[k]
		if !ok {
			p = &TrendPoint{Day: day, Category: r.Category}
			sums[k] = p
		}
		p.Minutes += r.Minutes
	}

	out := make([]TrendPoint, 0, len(sums))
	for _, p := range sums {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Heatmap sums minutes per (weekday, hour, category) cell in the snapshot's
// timezone, skipping excluded categories. Buckets come back ordered
// Monday through Sunday, then hour, then category.
func Heatmap(s *Snapshot, excluded []string) []HeatmapBucket {
	skip := make(map[string]bool, len(excluded))
	for _, c := range excluded {
		skip[c] = true
	}

	type cellKey struct {
		day      time.Weekday
		hour     int
		category string
	}
	sums := make(map[cellKey]float64)

	for _, r := range s.records {
		if skip[r.Category] {
			continue
		}
		k := cellKey{day: r.Date.Weekday(), hour: r.Date.Hour(), category: r.Category}
		sums[k] += r.Minutes
	}

	out := make([]HeatmapBucket, 0, len(sums))
	for k, m := range sums {
		out = append(out, HeatmapBucket{Day: k.day, Hour: k.hour, Category: k.category, Minutes: m})
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := mondayIndex(out[i].Day), mondayIndex(out[j].Day)
		if di != dj {
			return di < dj
		}
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// mondayIndex maps time.Weekday (Sunday=0) to a Monday-first display index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
