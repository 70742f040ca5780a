package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rotnitxe/yourprime/internal/models"
)

// UpsertFeedback stores the post-session check-in for a workout log. One
// feedback record per log; a re-filed check-in replaces the old one. The log
// id goes through the same LogUUID mapping as InsertWorkoutLog, so feedback
// keyed by a legacy client id still references the right log.
func (db *DB) UpsertFeedback(ctx context.Context, fb models.PostSessionFeedback) error {
	if fb.LogID == "" {
		return fmt.Errorf("feedback log id is required")
	}
	logID := LogUUID(fb.LogID)
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO session_feedback (log_id, reported_at, fatigue, sore_muscles, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (log_id) DO UPDATE
		 SET reported_at = EXCLUDED.reported_at,
		     fatigue = EXCLUDED.fatigue,
		     sore_muscles = EXCLUDED.sore_muscles,
		     notes = EXCLUDED.notes`,
		logID, fb.Date, fb.Fatigue, fb.SoreMuscles, fb.Notes)
	if err != nil {
		return fmt.Errorf("upserting feedback: %w", err)
	}
	return nil
}

// LoadFeedback returns all post-session feedback, newest first.
func (db *DB) LoadFeedback(ctx context.Context) ([]models.PostSessionFeedback, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT log_id, reported_at, fatigue, sore_muscles, notes
		 FROM session_feedback ORDER BY reported_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var out []models.PostSessionFeedback
	for rows.Next() {
		var (
			fb    models.PostSessionFeedback
			logID uuid.UUID
		)
		if err := rows.Scan(&logID, &fb.Date, &fb.Fatigue, &fb.SoreMuscles, &fb.Notes); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		fb.LogID = logID.String()
		out = append(out, fb)
	}
	return out, rows.Err()
}
