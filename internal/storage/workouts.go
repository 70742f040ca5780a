package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rotnitxe/yourprime/internal/models"
)

// InsertWorkoutLog stores a full workout log with its exercises and sets in
// one transaction. Returns false without error when a log with the same id
// already exists (idempotent re-ingest). Non-UUID client ids are mapped via
// LogUUID.
func (db *DB) InsertWorkoutLog(ctx context.Context, log models.WorkoutLog) (bool, error) {
	if log.ID == "" {
		return false, fmt.Errorf("workout log id is required")
	}
	id := LogUUID(log.ID)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO workout_logs
			(id, session_id, program_id, title, notes, logged_at, duration_sec,
			 fatigue_level, mental_clarity, discomforts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING`,
		id, log.SessionID, log.ProgramID, log.Title, log.Notes, log.Date,
		log.DurationSec, log.FatigueLevel, log.MentalClarity, log.Discomforts)
	if err != nil {
		return false, fmt.Errorf("inserting workout log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	for pos, ex := range log.Exercises {
		var exRow int64
		err := tx.QueryRow(ctx,
			`INSERT INTO workout_exercises
				(log_id, position, exercise_id, exercise_db_id, exercise_name)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			id, pos, ex.ExerciseID, ex.ExerciseDBID, ex.Name).Scan(&exRow)
		if err != nil {
			return false, fmt.Errorf("inserting exercise %q: %w", ex.Name, err)
		}

		for setPos, set := range ex.Sets {
			_, err := tx.Exec(ctx,
				`INSERT INTO workout_sets
					(exercise_row, position, weight_kg, reps, duration_sec, rpe)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				exRow, setPos, set.WeightKg, set.Reps, set.DurationSec, set.RPE)
			if err != nil {
				return false, fmt.Errorf("inserting set %d of %q: %w", setPos, ex.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing workout log: %w", err)
	}
	return true, nil
}

// LoadHistory returns every workout log, newest first, fully assembled.
// Three queries plus in-memory assembly keeps the row shapes flat.
func (db *DB) LoadHistory(ctx context.Context) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, program_id, title, notes, logged_at,
		        duration_sec, fatigue_level, mental_clarity, discomforts
		 FROM workout_logs
		 ORDER BY logged_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var logs []models.WorkoutLog
	index := make(map[string]int)
	for rows.Next() {
		var (
			l  models.WorkoutLog
			id uuid.UUID
		)
		if err := rows.Scan(&id, &l.SessionID, &l.ProgramID, &l.Title, &l.Notes,
			&l.Date, &l.DurationSec, &l.FatigueLevel, &l.MentalClarity, &l.Discomforts); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		l.ID = id.String()
		index[l.ID] = len(logs)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT id, log_id, exercise_id, exercise_db_id, exercise_name
		 FROM workout_exercises
		 ORDER BY log_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer exRows.Close()

	exIndex := make(map[int64]struct{ log, ex int })
	for exRows.Next() {
		var (
			exRow int64
			logID uuid.UUID
			ex    models.CompletedExercise
		)
		if err := exRows.Scan(&exRow, &logID, &ex.ExerciseID, &ex.ExerciseDBID, &ex.Name); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		li, ok := index[logID.String()]
		if !ok {
			continue
		}
		logs[li].Exercises = append(logs[li].Exercises, ex)
		exIndex[exRow] = struct{ log, ex int }{li, len(logs[li].Exercises) - 1}
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT exercise_row, weight_kg, reps, duration_sec, rpe
		 FROM workout_sets
		 ORDER BY exercise_row, position`)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var (
			exRow int64
			set   models.CompletedSet
		)
		if err := setRows.Scan(&exRow, &set.WeightKg, &set.Reps, &set.DurationSec, &set.RPE); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		pos, ok := exIndex[exRow]
		if !ok {
			continue
		}
		ex := &logs[pos.log].Exercises[pos.ex]
		ex.Sets = append(ex.Sets, set)
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// GetWorkoutLog returns one log by id, fully assembled.
func (db *DB) GetWorkoutLog(ctx context.Context, id uuid.UUID) (*models.WorkoutLog, error) {
	var l models.WorkoutLog
	err := db.Pool.QueryRow(ctx,
		`SELECT session_id, program_id, title, notes, logged_at,
		        duration_sec, fatigue_level, mental_clarity, discomforts
		 FROM workout_logs WHERE id = $1`, id).
		Scan(&l.SessionID, &l.ProgramID, &l.Title, &l.Notes, &l.Date,
			&l.DurationSec, &l.FatigueLevel, &l.MentalClarity, &l.Discomforts)
	if err != nil {
		return nil, fmt.Errorf("querying workout log %s: %w", id, err)
	}
	l.ID = id.String()

	rows, err := db.Pool.Query(ctx,
		`SELECT e.exercise_id, e.exercise_db_id, e.exercise_name,
		        s.weight_kg, s.reps, s.duration_sec, s.rpe, e.id
		 FROM workout_exercises e
		 LEFT JOIN workout_sets s ON s.exercise_row = e.id
		 WHERE e.log_id = $1
		 ORDER BY e.position, s.position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying workout detail: %w", err)
	}
	defer rows.Close()

	var lastRow int64 = -1
	for rows.Next() {
		var (
			ex    models.CompletedExercise
			exRow int64
			wKg   *float64
			reps  *int
			dur   *int
			rpe   *float64
		)
		if err := rows.Scan(&ex.ExerciseID, &ex.ExerciseDBID, &ex.Name, &wKg, &reps, &dur, &rpe, &exRow); err != nil {
			return nil, fmt.Errorf("scanning workout detail: %w", err)
		}
		if exRow != lastRow {
			l.Exercises = append(l.Exercises, ex)
			lastRow = exRow
		}
		if wKg == nil {
			continue // exercise logged with no sets
		}
		set := models.CompletedSet{WeightKg: *wKg, RPE: rpe}
		if reps != nil {
			set.Reps = *reps
		}
		if dur != nil {
			set.DurationSec = *dur
		}
		cur := &l.Exercises[len(l.Exercises)-1]
		cur.Sets = append(cur.Sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &l, nil
}

// WorkoutSummary is the list-view row for the workouts endpoint.
type WorkoutSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Date         time.Time `json:"date"`
	DurationSec  int       `json:"duration_sec"`
	FatigueLevel int       `json:"fatigue_level,omitempty"`
	Exercises    int       `json:"exercises"`
	Sets         int       `json:"sets"`
}

// QueryWorkouts returns summaries for logs in [start, end), newest first.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time) ([]WorkoutSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT l.id, l.title, l.logged_at, l.duration_sec, l.fatigue_level,
		        COUNT(DISTINCT e.id)::int, COUNT(s.id)::int
		 FROM workout_logs l
		 LEFT JOIN workout_exercises e ON e.log_id = l.id
		 LEFT JOIN workout_sets s ON s.exercise_row = e.id
		 WHERE l.logged_at >= $1 AND l.logged_at < $2
		 GROUP BY l.id
		 ORDER BY l.logged_at DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var out []WorkoutSummary
	for rows.Next() {
		var (
			ws WorkoutSummary
			id uuid.UUID
		)
		if err := rows.Scan(&id, &ws.Title, &ws.Date, &ws.DurationSec, &ws.FatigueLevel, &ws.Exercises, &ws.Sets); err != nil {
			return nil, fmt.Errorf("scanning workout summary: %w", err)
		}
		ws.ID = id.String()
		out = append(out, ws)
	}
	return out, rows.Err()
}
