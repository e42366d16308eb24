package store

import (
	"context"
	"database/sql"
	"fmt"

	"lapso/internal/agg"
)

// Logs returns every log row, oldest first, satisfying agg.RecordSource.
// This is always a full scan; the aggregation core rebuilds its snapshot
// from scratch on each refresh. NULL columns come back as nil fields so the
// normalizer can decide what to drop.
func (s *Store) Logs(ctx context.Context) ([]agg.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, init_time_ms, end_time_ms FROM logs ORDER BY init_time_ms`)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var records []agg.RawRecord
	for rows.Next() {
		var category sql.NullString
		var initMS, endMS sql.NullInt64
		if err := rows.Scan(&category, &initMS, &endMS); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}

		var r agg.RawRecord
		if category.Valid {
			r.Category = &category.String
		}
		if initMS.Valid {
			r.InitTimeMS = &initMS.Int64
		}
		if endMS.Valid {
			r.EndTimeMS = &endMS.Int64
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
