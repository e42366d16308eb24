package agg

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedRecord marks a raw record that cannot be normalized. Such
// records are dropped from the snapshot; they never abort a refresh.
var ErrMalformedRecord = errors.New("malformed record")

// Normalizer derives duration and a localized date from raw millisecond
// timestamps.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer resolves the timezone name through the tz database, so DST
// transitions are handled correctly rather than as a fixed offset.
func NewNormalizer(timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Normalizer{loc: loc}, nil
}

// Location returns the zone records are localized to.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize builds a Record from a raw row. Timestamps are interpreted as
// Unix epoch milliseconds in UTC and converted to the configured zone.
// A negative duration is a data-quality problem upstream, not an error here.
func (n *Normalizer) Normalize(raw RawRecord) (Record, error) {
	if raw.Category == nil || *raw.Category == "" {
		return Record{}, fmt.Errorf("%w: missing category", ErrMalformedRecord)
	}
	if raw.InitTimeMS == nil {
		return Record{}, fmt.Errorf("%w: missing init_time_ms", ErrMalformedRecord)
	}
	if raw.EndTimeMS == nil {
		return Record{}, fmt.Errorf("%w: missing end_time_ms", ErrMalformedRecord)
	}

	init, end := *raw.InitTimeMS, *raw.EndTimeMS
	return Record{
		Category:   *raw.Category,
		InitTimeMS: init,
		EndTimeMS:  end,
		Minutes:    float64(end-init) / 60000.0,
		Date:       time.UnixMilli(init).In(n.loc),
	}, nil
}
