package agg

import (
	"sync/atomic"
	"time"
)

// Snapshot is an immutable bundle of normalized records plus precomputed
// category totals. A snapshot is built wholesale by a refresh and never
// mutated afterwards, so readers holding a reference can keep using it
// after a newer snapshot is published.
type Snapshot struct {
	records []Record
	totals  []CategoryTotal // discovery order
	dropped int
	takenAt time.Time
	loc     *time.Location
}

// Records returns the normalized record set. Callers must treat it as
// read-only.
func (s *Snapshot) Records() []Record {
	return s.records
}

// Dropped returns how many raw records were discarded as malformed while
// building this snapshot.
func (s *Snapshot) Dropped() int {
	return s.dropped
}

// TakenAt returns when this snapshot was built.
func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}

// Empty reports whether the snapshot holds no records.
func (s *Snapshot) Empty() bool {
	return len(s.records) == 0
}

// Location returns the timezone records were localized to. Day and hour
// boundaries in the views follow this zone.
func (s *Snapshot) Location() *time.Location {
	return s.loc
}

func newSnapshot(records []Record, dropped int, takenAt time.Time, loc *time.Location) *Snapshot {
	s := &Snapshot{
		records: records,
		dropped: dropped,
		takenAt: takenAt,
		loc:     loc,
	}

	index := make(map[string]int, 8)
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(s.totals)
			index[r.Category] = i
			s.totals = append(s.totals, CategoryTotal{Category: r.Category})
		}
		s.totals[i].Minutes += r.Minutes
	}
	return s
}

// Holder is the current-snapshot slot: written only by the refresher,
// read by everyone else. Publication is an atomic pointer swap, so a
// reader sees either the entirely-old or the entirely-new snapshot.
type Holder struct {
	cur atomic.Pointer[Snapshot]
}

// NewHolder returns a holder primed with an empty snapshot, so readers
// never observe nil before the first refresh completes.
func NewHolder() *Holder {
	h := &Holder{}
	h.cur.Store(newSnapshot(nil, 0, time.Time{}, time.UTC))
	return h
}

// Current returns the most recently published snapshot.
func (h *Holder) Current() *Snapshot {
	return h.cur.Load()
}

func (h *Holder) publish(s *Snapshot) {
	h.cur.Store(s)
}
