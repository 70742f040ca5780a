package storage

import (
	"context"
	"fmt"

	"github.com/rotnitxe/yourprime/internal/models"
)

// UpsertSleepLog stores one night of sleep, replacing an earlier entry for
// the same night (exports overlap across backups).
func (db *DB) UpsertSleepLog(ctx context.Context, log models.SleepLog) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sleep_logs (night, duration_hours, quality)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (night) DO UPDATE
		 SET duration_hours = EXCLUDED.duration_hours, quality = EXCLUDED.quality`,
		log.Date, log.DurationHours, log.Quality)
	if err != nil {
		return fmt.Errorf("upserting sleep log: %w", err)
	}
	return nil
}

// LoadSleep returns all sleep logs, newest first.
func (db *DB) LoadSleep(ctx context.Context) ([]models.SleepLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT night, duration_hours, quality FROM sleep_logs ORDER BY night DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying sleep logs: %w", err)
	}
	defer rows.Close()

	var out []models.SleepLog
	for rows.Next() {
		var l models.SleepLog
		if err := rows.Scan(&l.Date, &l.DurationHours, &l.Quality); err != nil {
			return nil, fmt.Errorf("scanning sleep log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
