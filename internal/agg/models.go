package agg

import (
	"context"
	"time"
)

// RawRecord is a log row as it comes out of the record source. Fields are
// pointers because the source may hold NULLs; the normalizer decides what
// is malformed.
type RawRecord struct {
	Category   *string
	InitTimeMS *int64
	EndTimeMS  *int64
}

// Record is a normalized log record. Immutable once built.
type Record struct {
	Category   string
	InitTimeMS int64
	EndTimeMS  int64
	Minutes    float64
	Date       time.Time // init time localized to the configured zone
}

// CategoryTotal is the summed minutes for one category.
type CategoryTotal struct {
	Category string
	Minutes  float64
}

// TrendPoint is the summed minutes for one category on one calendar day.
// Day is midnight in the snapshot's timezone.
type TrendPoint struct {
	Day      time.Time
	Category string
	Minutes  float64
}

// HeatmapBucket is the summed minutes for one (weekday, hour, category) cell.
type HeatmapBucket struct {
	Day      time.Weekday
	Hour     int
	Category string
	Minutes  float64
}

// RecordSource yields the complete current record set. Always a full scan;
// there is no incremental contract.
type RecordSource interface {
	Logs(ctx context.Context) ([]RawRecord, error)
}
