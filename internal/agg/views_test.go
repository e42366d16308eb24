package agg

import (
	"reflect"
	"testing"
	"time"
)

// at builds a raw record spanning minutes starting at the given UTC time.
func at(category string, start time.Time, minutes int64) RawRecord {
	init := start.UnixMilli()
	return raw(category, init, init+minutes*60000)
}

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// ============================================================
// Totals
// ============================================================

func TestTotalsByCategoryDiscoveryOrder(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC",
		raw("work", 0, 600000),
		raw("sleep", 600000, 29400000),
		raw("work", 29400000, 30000000),
	)
	snap := mustRefresh(t, r)

	totals := TotalsByCategory(snap)
	want := []CategoryTotal{{"work", 20.0}, {"sleep", 480.0}}
	if !reflect.DeepEqual(totals, want) {
		t.Fatalf("totals = %+v, want %+v", totals, want)
	}
}

func TestTotalsSortedDescending(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC",
		raw("mail", 0, 600000),   // 10
		raw("code", 0, 1800000),  // 30
		raw("calls", 0, 600000),  // 10, ties with mail
		raw("sleep", 0, 1200000), // 20
	)
	snap := mustRefresh(t, r)

	got := TotalsSortedDescending(snap)
	want := []CategoryTotal{{"code", 30.0}, {"sleep", 20.0}, {"calls", 10.0}, {"mail", 10.0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sorted totals = %+v, want %+v", got, want)
	}
}

func TestTotalsSortedDoesNotReorderSnapshot(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC",
		raw("b", 0, 600000),
		raw("a", 0, 1800000),
	)
	snap := mustRefresh(t, r)

	TotalsSortedDescending(snap)
	totals := TotalsByCategory(snap)
	if totals[0].Category != "b" {
		t.Fatalf("snapshot totals mutated: %+v", totals)
	}
}

// ============================================================
// Daily trend
// ============================================================

func TestDailyTrendGroupsByLocalDay(t *testing.T) {
	// 02:30 UTC on Jan 15 is still Jan 14 in Santiago; 12:00 UTC is Jan 15.
	r, _, _ := newTestRefresher(t, "America/Santiago",
		at("work", utc(2024, 1, 15, 2, 30), 30),
		at("work", utc(2024, 1, 15, 12, 0), 60),
		at("play", utc(2024, 1, 15, 13, 0), 15),
	)
	snap := mustRefresh(t, r)

	trend := DailyTrend(snap, nil)
	if len(trend) != 3 {
		t.Fatalf("trend = %+v, want 3 points", trend)
	}
	if trend[0].Day.Day() != 14 || trend[0].Category != "work" || trend[0].Minutes != 30.0 {
		t.Fatalf("trend[0] = %+v, want Jan 14 work 30", trend[0])
	}
	if trend[1].Day.Day() != 15 || trend[1].Category != "play" {
		t.Fatalf("trend[1] = %+v, want Jan 15 play (category ascending within a day)", trend[1])
	}
	if trend[2].Day.Day() != 15 || trend[2].Category != "work" || trend[2].Minutes != 60.0 {
		t.Fatalf("trend[2] = %+v, want Jan 15 work 60", trend[2])
	}
}

func TestDailyTrendFilter(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC",
		at("work", utc(2024, 1, 15, 9, 0), 30),
		at("play", utc(2024, 1, 15, 10, 0), 15),
	)
	snap := mustRefresh(t, r)

	got := DailyTrend(snap, []string{"play"})
	if len(got) != 1 || got[0].Category != "play" || got[0].Minutes != 15.0 {
		t.Fatalf("filtered trend = %+v, want just play 15", got)
	}
}

func TestDailyTrendEmptyFilterMeansAll(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC",
		at("work", utc(2024, 1, 15, 9, 0), 30),
		at("play", utc(2024, 1, 16, 10, 0), 15),
		at("sleep", utc(2024, 1, 16, 22, 0), 480),
	)
	snap := mustRefresh(t, r)

	all := DailyTrend(snap, nil)
	explicit := DailyTrend(snap, AvailableCategories(snap))
	if !reflect.DeepEqual(all, explicit) {
		t.Fatalf("empty filter %+v != explicit all %+v", all, explicit)
	}
}

func TestDailyTrendUnknownCategory(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC", at("work", utc(2024, 1, 15, 9, 0), 30))
	snap := mustRefresh(t, r)

	if got := DailyTrend(snap, []string{"gardening"}); len(got) != 0 {
		t.Fatalf("unknown category should yield empty, got %+v", got)
	}
}

func TestTrendMatchesTotals(t *testing.T) {
	r, _, _ := newTestRefresher(t, "America/Santiago",
		at("work", utc(2024, 1, 15, 2, 30), 30),
		at("work", utc(2024, 1, 15, 12, 0), 90),
		at("play", utc(2024, 1, 16, 13, 0), 45),
		at("sleep", utc(2024, 1, 16, 3, 0), 480),
	)
	snap := mustRefresh(t, r)

	var trendSum float64
	for _, p := range DailyTrend(snap, nil) {
		trendSum += p.Minutes
	}
	var totalSum float64
	for _, c := range TotalsByCategory(snap) {
		totalSum += c.Minutes
	}
	if trendSum != totalSum {
		t.Fatalf("trend sum %v != totals sum %v", trendSum, totalSum)
	}
}

// ============================================================
// Heatmap
// ============================================================

func TestHeatmapExcludesCategories(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC",
		raw("work", 0, 600000),
		raw("sleep", 600000, 29400000),
	)
	snap := mustRefresh(t, r)

	buckets := Heatmap(snap, []string{"sleep"})
	if len(buckets) != 1 {
		t.Fatalf("buckets = %+v, want 1", buckets)
	}
	for _, b := range buckets {
		if b.Category == "sleep" {
			t.Fatalf("excluded category present: %+v", b)
		}
	}
	if buckets[0].Category != "work" || buckets[0].Minutes != 10.0 {
		t.Fatalf("bucket = %+v, want work 10", buckets[0])
	}
}

func TestHeatmapBuckets(t *testing.T) {
	// Monday Jan 15 2024 09:00 and 09:30 share a bucket; Tuesday 09:00
	// and Monday 10:00 get their own.
	r, _, _ := newTestRefresher(t, "UTC",
		at("work", utc(2024, 1, 15, 9, 0), 20),
		at("work", utc(2024, 1, 15, 9, 30), 10),
		at("work", utc(2024, 1, 15, 10, 0), 5),
		at("work", utc(2024, 1, 16, 9, 0), 15),
	)
	snap := mustRefresh(t, r)

	buckets := Heatmap(snap, nil)
	want := []HeatmapBucket{
		{time.Monday, 9, "work", 30.0},
		{time.Monday, 10, "work", 5.0},
		{time.Tuesday, 9, "work", 15.0},
	}
	if !reflect.DeepEqual(buckets, want) {
		t.Fatalf("buckets = %+v, want %+v", buckets, want)
	}
}

func TestHeatmapMondayFirst(t *testing.T) {
	// Sunday Jan 14 and Monday Jan 15: Monday sorts first despite
	// time.Weekday putting Sunday at 0.
	r, _, _ := newTestRefresher(t, "UTC",
		at("work", utc(2024, 1, 14, 9, 0), 10),
		at("work", utc(2024, 1, 15, 9, 0), 10),
	)
	snap := mustRefresh(t, r)

	buckets := Heatmap(snap, nil)
	if buckets[0].Day != time.Monday || buckets[1].Day != time.Sunday {
		t.Fatalf("buckets ordered %v, %v; want Monday then Sunday", buckets[0].Day, buckets[1].Day)
	}
}

// ============================================================
// Determinism
// ============================================================

func TestViewsAreIdempotent(t *testing.T) {
	r, _, _ := newTestRefresher(t, "America/Santiago",
		at("work", utc(2024, 1, 15, 2, 30), 30),
		at("play", utc(2024, 1, 16, 13, 0), 45),
		at("sleep", utc(2024, 1, 16, 3, 0), 480),
	)
	snap := mustRefresh(t, r)

	if a, b := TotalsByCategory(snap), TotalsByCategory(snap); !reflect.DeepEqual(a, b) {
		t.Fatal("TotalsByCategory not deterministic")
	}
	if a, b := TotalsSortedDescending(snap), TotalsSortedDescending(snap); !reflect.DeepEqual(a, b) {
		t.Fatal("TotalsSortedDescending not deterministic")
	}
	if a, b := DailyTrend(snap, nil), DailyTrend(snap, nil); !reflect.DeepEqual(a, b) {
		t.Fatal("DailyTrend not deterministic")
	}
	if a, b := Heatmap(snap, []string{"sleep"}), Heatmap(snap, []string{"sleep"}); !reflect.DeepEqual(a, b) {
		t.Fatal("Heatmap not deterministic")
	}
	if a, b := AvailableCategories(snap), AvailableCategories(snap); !reflect.DeepEqual(a, b) {
		t.Fatal("AvailableCategories not deterministic")
	}
}

func TestAvailableCategoriesReflectsCurrentSnapshot(t *testing.T) {
	r, holder, src := newTestRefresher(t, "UTC", raw("work", 0, 600000))
	mustRefresh(t, r)

	src.set([]RawRecord{raw("play", 0, 600000)}, nil)
	mustRefresh(t, r)

	got := AvailableCategories(holder.Current())
	if !reflect.DeepEqual(got, []string{"play"}) {
		t.Fatalf("categories = %v, want only the current snapshot's set", got)
	}
}
