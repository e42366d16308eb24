package agg

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// fakeSource is an in-memory RecordSource for tests.
type fakeSource struct {
	mu      sync.Mutex
	records []RawRecord
	err     error
}

func (f *fakeSource) Logs(_ context.Context) ([]RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]RawRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeSource) set(records []RawRecord, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
	f.err = err
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// raw builds a well-formed raw record.
func raw(category string, initMS, endMS int64) RawRecord {
	return RawRecord{Category: strp(category), InitTimeMS: i64p(initMS), EndTimeMS: i64p(endMS)}
}

func newTestRefresher(t *testing.T, zone string, records ...RawRecord) (*Refresher, *Holder, *fakeSource) {
	t.Helper()
	src := &fakeSource{records: records}
	holder := NewHolder()
	r := NewRefresher(src, newTestNormalizer(t, zone), holder, testLogger())
	return r, holder, src
}

// mustRefresh refreshes and fails the test on error.
func mustRefresh(t *testing.T, r *Refresher) *Snapshot {
	t.Helper()
	snap, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return snap
}

// ============================================================
// Refresh
// ============================================================

func TestRefreshPublishesSnapshot(t *testing.T) {
	r, holder, _ := newTestRefresher(t, "UTC",
		raw("work", 0, 600000),
		raw("sleep", 600000, 29400000),
	)

	before := holder.Current()
	if !before.Empty() {
		t.Fatal("holder should start with an empty snapshot")
	}

	snap := mustRefresh(t, r)
	if holder.Current() != snap {
		t.Fatal("refresh did not publish the returned snapshot")
	}
	if len(snap.Records()) != 2 {
		t.Fatalf("records = %d, want 2", len(snap.Records()))
	}

	totals := TotalsByCategory(snap)
	if len(totals) != 2 {
		t.Fatalf("totals = %v, want 2 categories", totals)
	}
	if totals[0].Category != "work" || totals[0].Minutes != 10.0 {
		t.Fatalf("totals[0] = %+v, want {work 10}", totals[0])
	}
	if totals[1].Category != "sleep" || totals[1].Minutes != 480.0 {
		t.Fatalf("totals[1] = %+v, want {sleep 480}", totals[1])
	}
}

func TestRefreshSourceErrorKeepsOldSnapshot(t *testing.T) {
	r, holder, src := newTestRefresher(t, "UTC", raw("work", 0, 600000))

	old := mustRefresh(t, r)

	src.set(nil, errors.New("connection refused"))
	_, err := r.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if holder.Current() != old {
		t.Fatal("failed refresh must not replace the published snapshot")
	}
}

func TestRefreshDropsMalformed(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC",
		raw("work", 0, 600000),
		RawRecord{InitTimeMS: i64p(0), EndTimeMS: i64p(60000)}, // no category
		RawRecord{Category: strp("play")},                      // no timestamps
	)

	snap := mustRefresh(t, r)
	if snap.Dropped() != 2 {
		t.Fatalf("dropped = %d, want 2", snap.Dropped())
	}
	if len(snap.Records()) != 1 || snap.Records()[0].Category != "work" {
		t.Fatalf("records = %+v, want just the work record", snap.Records())
	}
}

func TestRefreshEmptySource(t *testing.T) {
	r, _, _ := newTestRefresher(t, "UTC")

	snap := mustRefresh(t, r)
	if !snap.Empty() {
		t.Fatal("snapshot should be empty")
	}
	if got := TotalsByCategory(snap); len(got) != 0 {
		t.Fatalf("totals = %v, want empty", got)
	}
	if got := DailyTrend(snap, nil); len(got) != 0 {
		t.Fatalf("trend = %v, want empty", got)
	}
	if got := Heatmap(snap, nil); len(got) != 0 {
		t.Fatalf("heatmap = %v, want empty", got)
	}
	if got := AvailableCategories(snap); len(got) != 0 {
		t.Fatalf("categories = %v, want empty", got)
	}
}

func TestRefreshOldReferenceStaysValid(t *testing.T) {
	r, holder, src := newTestRefresher(t, "UTC", raw("work", 0, 600000))

	old := mustRefresh(t, r)

	src.set([]RawRecord{raw("play", 0, 1200000)}, nil)
	mustRefresh(t, r)

	if holder.Current() == old {
		t.Fatal("second refresh should have published a new snapshot")
	}

	// The retained reference still sees the pre-refresh data.
	totals := TotalsByCategory(old)
	if len(totals) != 1 || totals[0].Category != "work" || totals[0].Minutes != 10.0 {
		t.Fatalf("old snapshot changed: %+v", totals)
	}
}

func TestRefreshBackToBack(t *testing.T) {
	r, holder, _ := newTestRefresher(t, "UTC", raw("work", 0, 600000))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Refresh(context.Background())
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, the published snapshot is a fully
	// built one.
	totals := TotalsByCategory(holder.Current())
	if len(totals) != 1 || totals[0].Minutes != 10.0 {
		t.Fatalf("published snapshot inconsistent: %+v", totals)
	}
}

func TestRefreshLocalizesRecords(t *testing.T) {
	init := time.Date(2024, 1, 15, 2, 30, 0, 0, time.UTC).UnixMilli()
	r, _, _ := newTestRefresher(t, "America/Santiago", raw("sleep", init, init+60000))

	snap := mustRefresh(t, r)
	rec := snap.Records()[0]
	if rec.Date.Day() != 14 {
		t.Fatalf("record date %v, want Jan 14 local", rec.Date)
	}
}
