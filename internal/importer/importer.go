// Package importer loads YourPrime JSON exports (the app's local-storage
// backup files) into the database. Export files use the web client's
// camelCase field names and epoch-millisecond timestamps; they are mapped
// onto the canonical models here.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/rotnitxe/yourprime/internal/models"
	"github.com/rotnitxe/yourprime/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	WorkoutsInserted   int
	WorkoutsDuplicated int
	SleepLogsUpserted  int
	FeedbackUpserted   int
	ExercisesUpserted  int
	SetsSkipped        int
	RecordsErrored     int
}

// Importer reads export files and inserts their data into the DB.
type Importer struct {
	db     *storage.DB
	log    *slog.Logger
	unit   models.WeightUnit
	dryRun bool
	stats  Stats
}

// New creates a new Importer. unit is the weight unit the export was logged
// in; lb weights are converted to kg on insert.
func New(db *storage.DB, unit models.WeightUnit, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, unit: unit, log: log, dryRun: dryRun}
}

// exportFile mirrors the app's backup format.
type exportFile struct {
	WorkoutLogs []struct {
		ID            string          `json:"id"`
		SessionID     string          `json:"sessionId"`
		ProgramID     string          `json:"programId"`
		Title         string          `json:"title"`
		Notes         string          `json:"notes"`
		Date          models.FlexTime `json:"date"`
		Duration      int             `json:"duration"`
		FatigueLevel  int             `json:"fatigueLevel"`
		MentalClarity int             `json:"mentalClarity"`
		Discomforts   []string        `json:"discomforts"`
		Exercises     []struct {
			ExerciseID   string `json:"exerciseId"`
			ExerciseDBID string `json:"exerciseDbId"`
			Name         string `json:"exerciseName"`
			Sets         []struct {
				Weight   float64  `json:"weight"`
				Reps     int      `json:"completedReps"`
				Duration int      `json:"completedDuration"`
				RPE      *float64 `json:"completedRPE"`
			} `json:"completedSets"`
		} `json:"completedExercises"`
	} `json:"workoutLogs"`

	SleepLogs []struct {
		Date     models.FlexTime `json:"date"`
		Duration float64         `json:"duration"`
		Quality  int             `json:"quality"`
	} `json:"sleepLogs"`

	Feedback []struct {
		LogID       string          `json:"logId"`
		Date        models.FlexTime `json:"date"`
		Fatigue     int             `json:"fatigue"`
		SoreMuscles []string        `json:"soreMuscles"`
		Notes       string          `json:"notes"`
	} `json:"postSessionFeedback"`

	CustomExercises []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Category  string `json:"category"`
		Equipment string `json:"equipment"`
		Muscles   []struct {
			Muscle     string  `json:"muscle"`
			Role       string  `json:"role"`
			Activation float64 `json:"activation"`
		} `json:"involvedMuscles"`
	} `json:"customExercises"`
}

// Import processes every .json export under dir, oldest filename first so
// newer backups win on upserts. Already-imported files (tracked in the
// state db) are skipped.
func (imp *Importer) Import(ctx context.Context, dir string, state *StateDB) (*Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading export dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		path := filepath.Join(dir, name)

		hash, err := HashFile(path)
		if err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("hashing export", "file", name, "error", err)
			continue
		}
		if state != nil {
			done, err := state.IsImported(name, hash)
			if err != nil {
				return &imp.stats, fmt.Errorf("checking state for %s: %w", name, err)
			}
			if done {
				imp.stats.FilesSkipped++
				continue
			}
		}

		if err := imp.importFile(ctx, path); err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("importing export", "file", name, "error", err)
			continue
		}
		imp.stats.FilesProcessed++

		if state != nil && !imp.dryRun {
			if err := state.MarkImported(name, hash); err != nil {
				return &imp.stats, fmt.Errorf("recording state for %s: %w", name, err)
			}
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("parsing export: %w", err)
	}

	// A single bad record must not sink the rest of the file: records that
	// fail are logged and counted, and the import moves on. Only unreadable
	// or unparseable files count as errored.
	skippedLogs := make(map[string]bool)

	for _, raw := range export.WorkoutLogs {
		log := models.WorkoutLog{
			ID:            raw.ID,
			SessionID:     raw.SessionID,
			ProgramID:     raw.ProgramID,
			Title:         raw.Title,
			Notes:         raw.Notes,
			Date:          raw.Date.Time,
			DurationSec:   raw.Duration,
			FatigueLevel:  raw.FatigueLevel,
			MentalClarity: raw.MentalClarity,
			Discomforts:   raw.Discomforts,
		}
		if log.ID == "" {
			log.ID = uuid.NewString()
		}
		if log.Date.IsZero() {
			imp.log.Warn("skipping workout log without date", "id", log.ID)
			skippedLogs[log.ID] = true
			continue
		}
		for _, rawEx := range raw.Exercises {
			ex := models.CompletedExercise{
				ExerciseID:   rawEx.ExerciseID,
				ExerciseDBID: rawEx.ExerciseDBID,
				Name:         rawEx.Name,
			}
			for _, rawSet := range rawEx.Sets {
				set := models.CompletedSet{
					WeightKg:    rawSet.Weight,
					Reps:        rawSet.Reps,
					DurationSec: rawSet.Duration,
					RPE:         rawSet.RPE,
				}
				if imp.unit == models.UnitLb {
					set.WeightKg *= models.LbToKg
				}
				if !set.Countable() {
					imp.stats.SetsSkipped++
					imp.log.Warn("skipping set without reps or duration",
						"log", log.ID, "exercise", ex.Name)
					continue
				}
				ex.Sets = append(ex.Sets, set)
			}
			log.Exercises = append(log.Exercises, ex)
		}

		if imp.dryRun {
			imp.stats.WorkoutsInserted++
			continue
		}
		inserted, err := imp.db.InsertWorkoutLog(ctx, log)
		if err != nil {
			imp.stats.RecordsErrored++
			imp.log.Warn("storing workout log", "id", log.ID, "error", err)
			continue
		}
		if inserted {
			imp.stats.WorkoutsInserted++
		} else {
			imp.stats.WorkoutsDuplicated++
		}
	}

	for _, raw := range export.SleepLogs {
		if raw.Date.IsZero() || raw.Duration <= 0 {
			continue
		}
		log := models.SleepLog{Date: raw.Date.Time, DurationHours: raw.Duration, Quality: raw.Quality}
		if !imp.dryRun {
			if err := imp.db.UpsertSleepLog(ctx, log); err != nil {
				imp.stats.RecordsErrored++
				imp.log.Warn("storing sleep log", "night", log.Date, "error", err)
				continue
			}
		}
		imp.stats.SleepLogsUpserted++
	}

	for _, raw := range export.Feedback {
		if raw.LogID == "" {
			continue
		}
		if skippedLogs[raw.LogID] {
			imp.log.Warn("skipping feedback for dropped workout log", "log", raw.LogID)
			continue
		}
		fb := models.PostSessionFeedback{
			LogID:       raw.LogID,
			Date:        raw.Date.Time,
			Fatigue:     raw.Fatigue,
			SoreMuscles: raw.SoreMuscles,
			Notes:       raw.Notes,
		}
		if !imp.dryRun {
			if err := imp.db.UpsertFeedback(ctx, fb); err != nil {
				imp.stats.RecordsErrored++
				imp.log.Warn("storing feedback", "log", fb.LogID, "error", err)
				continue
			}
		}
		imp.stats.FeedbackUpserted++
	}

	for _, raw := range export.CustomExercises {
		e := models.ExerciseMuscleInfo{
			ID:        raw.ID,
			Name:      raw.Name,
			Category:  raw.Category,
			Equipment: raw.Equipment,
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		for _, m := range raw.Muscles {
			role, known := models.NormalizeRole(m.Role)
			if !known {
				imp.log.Warn("unknown muscle role in export", "exercise", e.Name, "role", m.Role)
			}
			mi := models.MuscleInvolvement{Muscle: m.Muscle, Role: role, Activation: m.Activation}
			if !mi.Valid() {
				imp.log.Warn("skipping malformed involvement", "exercise", e.Name, "muscle", m.Muscle, "activation", m.Activation)
				continue
			}
			e.InvolvedMuscles = append(e.InvolvedMuscles, mi)
		}
		if !imp.dryRun {
			if err := imp.db.UpsertCustomExercise(ctx, e); err != nil {
				imp.stats.RecordsErrored++
				imp.log.Warn("storing custom exercise", "exercise", e.Name, "error", err)
				continue
			}
		}
		imp.stats.ExercisesUpserted++
	}

	return nil
}

// Parse decodes a single export file without touching the database. Used by
// tests and --dry-run inspection.
func Parse(data []byte) (workouts, sleepLogs, feedback, exercises int, err error) {
	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("parsing export: %w", err)
	}
	return len(export.WorkoutLogs), len(export.SleepLogs), len(export.Feedback), len(export.CustomExercises), nil
}
