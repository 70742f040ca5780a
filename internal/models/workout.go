package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WorkoutLog is one completed training session. Logs are created when a
// session finishes and are read-only input for the analysis engine.
type WorkoutLog struct {
	ID            string              `json:"id"`
	SessionID     string              `json:"session_id,omitempty"`
	ProgramID     string              `json:"program_id,omitempty"`
	Title         string              `json:"title,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Date          time.Time           `json:"date"`
	DurationSec   int                 `json:"duration_sec"`
	FatigueLevel  int                 `json:"fatigue_level,omitempty"`  // subjective 1-10
	MentalClarity int                 `json:"mental_clarity,omitempty"` // subjective 1-10
	Discomforts   []string            `json:"discomforts,omitempty"`
	Exercises     []CompletedExercise `json:"completed_exercises"`
}

// CompletedExercise is one exercise performed within a log. ExerciseDBID
// points into the exercise catalog; Name is the display fallback used to
// match legacy logs created before the exercise existed in the catalog.
type CompletedExercise struct {
	ExerciseID   string         `json:"exercise_id"`
	ExerciseDBID string         `json:"exercise_db_id,omitempty"`
	Name         string         `json:"exercise_name"`
	Sets         []CompletedSet `json:"sets"`
}

// CompletedSet is a single performed set. Either Reps or DurationSec must be
// positive for the set to count toward volume.
type CompletedSet struct {
	WeightKg    float64  `json:"weight_kg"`
	Reps        int      `json:"reps,omitempty"`
	DurationSec int      `json:"duration_sec,omitempty"`
	RPE         *float64 `json:"rpe,omitempty"` // 1-10, optional
}

// Countable reports whether the set carries enough data to count toward
// volume. Sets with neither reps nor duration are malformed and skipped
// during aggregation rather than rejected (lenient-input policy).
func (s CompletedSet) Countable() bool {
	return s.Reps > 0 || s.DurationSec > 0
}

// Load returns the set's tonnage contribution: weight times reps, or weight
// times duration seconds for time-based work.
func (s CompletedSet) Load() float64 {
	if s.Reps > 0 {
		return s.WeightKg * float64(s.Reps)
	}
	return s.WeightKg * float64(s.DurationSec)
}

// FlexTime wraps time.Time and accepts the timestamp shapes found in app
// exports: RFC 3339 strings, date-only strings, and Unix epoch milliseconds
// (what the web client's Date.now() produced).
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ft *FlexTime) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		return nil
	}

	if !strings.HasPrefix(raw, `"`) {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s", raw)
		}
		ft.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q", s)
		}
	}
	ft.Time = t
	return nil
}
