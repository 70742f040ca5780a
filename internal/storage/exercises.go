package storage

import (
	"context"
	"fmt"

	"github.com/rotnitxe/yourprime/internal/models"
)

// UpsertCustomExercise stores a user-defined exercise and its muscle
// involvements, replacing any previous definition with the same id.
func (db *DB) UpsertCustomExercise(ctx context.Context, e models.ExerciseMuscleInfo) error {
	if e.ID == "" || e.Name == "" {
		return fmt.Errorf("custom exercise needs id and name")
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO custom_exercises (id, name, category, equipment)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, category = EXCLUDED.category, equipment = EXCLUDED.equipment`,
		e.ID, e.Name, e.Category, e.Equipment)
	if err != nil {
		return fmt.Errorf("upserting custom exercise: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM custom_exercise_muscles WHERE exercise_id = $1`, e.ID); err != nil {
		return fmt.Errorf("clearing involvements: %w", err)
	}

	for pos, mi := range e.InvolvedMuscles {
		_, err := tx.Exec(ctx,
			`INSERT INTO custom_exercise_muscles (exercise_id, position, muscle, role, activation)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.ID, pos, mi.Muscle, string(mi.Role), mi.Activation)
		if err != nil {
			return fmt.Errorf("inserting involvement %q: %w", mi.Muscle, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing custom exercise: %w", err)
	}
	return nil
}

// LoadCustomExercises returns all user-defined exercises with their
// involvements, in insertion order.
func (db *DB) LoadCustomExercises(ctx context.Context) ([]models.ExerciseMuscleInfo, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, category, equipment FROM custom_exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying custom exercises: %w", err)
	}
	defer rows.Close()

	var out []models.ExerciseMuscleInfo
	index := make(map[string]int)
	for rows.Next() {
		var e models.ExerciseMuscleInfo
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Equipment); err != nil {
			return nil, fmt.Errorf("scanning custom exercise: %w", err)
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	miRows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, muscle, role, activation
		 FROM custom_exercise_muscles ORDER BY exercise_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying involvements: %w", err)
	}
	defer miRows.Close()

	for miRows.Next() {
		var (
			exID string
			mi   models.MuscleInvolvement
			role string
		)
		if err := miRows.Scan(&exID, &mi.Muscle, &role, &mi.Activation); err != nil {
			return nil, fmt.Errorf("scanning involvement: %w", err)
		}
		mi.Role, _ = models.NormalizeRole(role)
		if i, ok := index[exID]; ok {
			out[i].InvolvedMuscles = append(out[i].InvolvedMuscles, mi)
		}
	}
	return out, miRows.Err()
}
