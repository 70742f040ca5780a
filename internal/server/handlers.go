package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rotnitxe/yourprime/internal/models"
	"github.com/rotnitxe/yourprime/internal/storage"
)

// ingestWorkoutPayload mirrors the app's workout log export shape. Weights
// arrive in the user's configured unit and are normalized to kg on ingest.
type ingestWorkoutPayload struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	ProgramID     string          `json:"program_id"`
	Title         string          `json:"title"`
	Notes         string          `json:"notes"`
	Date          models.FlexTime `json:"date"`
	DurationSec   int             `json:"duration_sec"`
	FatigueLevel  int             `json:"fatigue_level"`
	MentalClarity int             `json:"mental_clarity"`
	Discomforts   []string        `json:"discomforts"`
	Exercises     []struct {
		ExerciseID   string `json:"exercise_id"`
		ExerciseDBID string `json:"exercise_db_id"`
		Name         string `json:"exercise_name"`
		Sets         []struct {
			Weight      float64  `json:"weight"`
			Reps        int      `json:"reps"`
			DurationSec int      `json:"duration_sec"`
			RPE         *float64 `json:"rpe"`
		} `json:"sets"`
	} `json:"completed_exercises"`
}

func (p ingestWorkoutPayload) toLog(unit models.WeightUnit) models.WorkoutLog {
	log := models.WorkoutLog{
		ID:            p.ID,
		SessionID:     p.SessionID,
		ProgramID:     p.ProgramID,
		Title:         p.Title,
		Notes:         p.Notes,
		Date:          p.Date.Time,
		DurationSec:   p.DurationSec,
		FatigueLevel:  p.FatigueLevel,
		MentalClarity: p.MentalClarity,
		Discomforts:   p.Discomforts,
	}
	for _, ex := range p.Exercises {
		ce := models.CompletedExercise{
			ExerciseID:   ex.ExerciseID,
			ExerciseDBID: ex.ExerciseDBID,
			Name:         ex.Name,
		}
		for _, set := range ex.Sets {
			weight := set.Weight
			if unit == models.UnitLb {
				weight *= models.LbToKg
			}
			ce.Sets = append(ce.Sets, models.CompletedSet{
				WeightKg:    weight,
				Reps:        set.Reps,
				DurationSec: set.DurationSec,
				RPE:         set.RPE,
			})
		}
		log.Exercises = append(log.Exercises, ce)
	}
	return log
}

func (s *Server) handleIngestWorkout(w http.ResponseWriter, r *http.Request) {
	var payload ingestWorkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}
	if payload.Date.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}

	inserted, err := s.db.InsertWorkoutLog(r.Context(), payload.toLog(s.settings.WeightUnit))
	if err != nil {
		s.log.Error("workout ingest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": payload.ID, "inserted": inserted})
}

func (s *Server) handleIngestSleep(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Date          models.FlexTime `json:"date"`
		DurationHours float64         `json:"duration_hours"`
		Quality       int             `json:"quality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if payload.Date.IsZero() || payload.DurationHours <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date and duration_hours are required"})
		return
	}

	log := models.SleepLog{Date: payload.Date.Time, DurationHours: payload.DurationHours, Quality: payload.Quality}
	if err := s.db.UpsertSleepLog(r.Context(), log); err != nil {
		s.log.Error("sleep ingest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIngestFeedback(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		LogID       string          `json:"log_id"`
		Date        models.FlexTime `json:"date"`
		Fatigue     int             `json:"fatigue"`
		SoreMuscles []string        `json:"sore_muscles"`
		Notes       string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if payload.LogID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "log_id is required"})
		return
	}

	fb := models.PostSessionFeedback{
		LogID:       payload.LogID,
		Date:        payload.Date.Time,
		Fatigue:     payload.Fatigue,
		SoreMuscles: payload.SoreMuscles,
		Notes:       payload.Notes,
	}
	if fb.Date.IsZero() {
		fb.Date = time.Now()
	}
	if err := s.db.UpsertFeedback(r.Context(), fb); err != nil {
		s.log.Error("feedback ingest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIngestExercise(w http.ResponseWriter, r *http.Request) {
	var e models.ExerciseMuscleInfo
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	sanitizeInvolvements(&e, s.log)

	if err := s.db.UpsertCustomExercise(r.Context(), e); err != nil {
		s.log.Error("exercise ingest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.coach.ReloadExercises(r.Context()); err != nil {
		s.log.Error("catalog reload", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": e.ID})
}

func (s *Server) handleMuscleBattery(w http.ResponseWriter, r *http.Request) {
	muscle := chi.URLParam(r, "muscle")
	result, err := s.coach.MuscleBattery(r.Context(), muscle)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSystemicFatigue(w http.ResponseWriter, r *http.Request) {
	result, err := s.coach.SystemicFatigue(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	muscle := chi.URLParam(r, "muscle")

	windowDays := 0
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "window must be a positive integer (days)"})
			return
		}
		windowDays = n
	}

	result, err := s.coach.VolumeBreakdown(r.Context(), muscle, windowDays)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMuscles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.coach.Muscles())
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	workouts, err := s.db.QueryWorkouts(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	// Legacy client ids map through LogUUID, so a log stays addressable by
	// the id the client knows it under.
	logID := storage.LogUUID(chi.URLParam(r, "id"))

	detail, err := s.db.GetWorkoutLog(r.Context(), logID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// sanitizeInvolvements normalizes roles and removes entries that could never
// count toward volume (empty muscle name, activation outside [0,1]) before
// the exercise is persisted.
func sanitizeInvolvements(e *models.ExerciseMuscleInfo, log *slog.Logger) {
	kept := e.InvolvedMuscles[:0]
	for _, mi := range e.InvolvedMuscles {
		role, ok := models.NormalizeRole(string(mi.Role))
		if !ok {
			log.Warn("unknown muscle role", "exercise", e.Name, "role", mi.Role)
		}
		mi.Role = role
		if !mi.Valid() {
			log.Warn("dropping malformed involvement", "exercise", e.Name, "muscle", mi.Muscle, "activation", mi.Activation)
			continue
		}
		kept = append(kept, mi)
	}
	e.InvolvedMuscles = kept
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 28 days, matching the analysis window
		end = time.Now()
		start = end.AddDate(0, 0, -28)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
