package agg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Refresher rebuilds the published snapshot from the record source.
// Refreshes are serialized; reads against the holder never block.
type Refresher struct {
	source RecordSource
	norm   *Normalizer
	holder *Holder
	logger *logrus.Logger

	mu sync.Mutex
}

func NewRefresher(source RecordSource, norm *Normalizer, holder *Holder, logger *logrus.Logger) *Refresher {
	return &Refresher{
		source: source,
		norm:   norm,
		holder: holder,
		logger: logger,
	}
}

// Refresh pulls the complete record set, normalizes it, and atomically
// publishes a new snapshot. Malformed records are dropped and logged, never
// fatal. If the source fails, the previously published snapshot stays
// current and the error is returned to the caller.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raws, err := r.source.Logs(ctx)
	if err != nil {
		return nil, fmt.Errorf("pull records: %w", err)
	}

	records := make([]Record, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		rec, err := r.norm.Normalize(raw)
		if err != nil {
			if errors.Is(err, ErrMalformedRecord) {
				dropped++
				r.logger.WithFields(logrus.Fields{
					"reason": err.Error(),
				}).Warn("dropping malformed record")
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}

	snap := newSnapshot(records, dropped, time.Now(), r.norm.Location())
	r.holder.publish(snap)

	r.logger.WithFields(logrus.Fields{
		"records":    len(records),
		"dropped":    dropped,
		"categories": len(snap.totals),
	}).Info("snapshot refreshed")

	return snap, nil
}
