// Package recovery estimates per-muscle readiness ("muscle battery") and
// systemic CNS fatigue from workout history, sleep and subjective feedback.
// Like the analysis package it is pure computation: explicit reference time,
// no storage, no logging, and no error returns — every missing input
// degrades to a neutral default so the engine always produces a renderable
// result (untrained muscles are simply fully charged).
package recovery

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rotnitxe/yourprime/internal/analysis"
	"github.com/rotnitxe/yourprime/internal/catalog"
	"github.com/rotnitxe/yourprime/internal/models"
	"github.com/rotnitxe/yourprime/internal/taxonomy"
)

// Status classifies a 0-100 readiness score. The thresholds are shared by
// muscle and systemic scores so UI color-coding stays consistent.
type Status string

const (
	StatusFresh      Status = "fresh"      // score >= 85
	StatusRecovering Status = "recovering" // 40 <= score < 85
	StatusFatigued   Status = "fatigued"   // score < 40
)

// Classify maps a score to its status band.
func Classify(score float64) Status {
	switch {
	case score >= 85:
		return StatusFresh
	case score >= 40:
		return StatusRecovering
	default:
		return StatusFatigued
	}
}

// Config holds the tuning constants of the battery model. The decay shape
// (cost → decay → modifier → clamp → classify) is fixed; these numbers are
// the product-tuning surface.
type Config struct {
	SetCost             float64 // fatigue points per direct set
	IndirectWeight      float64 // fraction of SetCost an indirect set costs
	MaxSessionCost      float64 // cap on one session's deposited fatigue
	ResidualPoints      float64 // remaining fatigue considered fully recovered
	SleepHoursThreshold float64 // below this, last night counts as short sleep
	GoodSleepHours      float64 // at/above this, recovery gets a small bonus
	SleepQualityFloor   int     // quality (1-5) at/below this counts as poor
	HighFatigueLevel    int     // feedback fatigue (1-10) at/above this slows recovery
	ModifierMin         float64
	ModifierMax         float64
	HalfLifeOverrides   map[string]float64
}

// DefaultConfig returns the tuning used in production. A 20-direct-set
// session deposits the capped 85 points; 5 sets deposit 27.5.
func DefaultConfig() Config {
	return Config{
		SetCost:             5.5,
		IndirectWeight:      0.5,
		MaxSessionCost:      85,
		ResidualPoints:      1,
		SleepHoursThreshold: 6,
		GoodSleepHours:      8,
		SleepQualityFloor:   2,
		HighFatigueLevel:    8,
		ModifierMin:         0.5,
		ModifierMax:         1.5,
	}
}

// BatteryResult is the recovery report for one muscle. It is recomputed on
// every request and never persisted.
type BatteryResult struct {
	Muscle               string   `json:"muscle"`
	RecoveryScore        float64  `json:"recovery_score"`
	Status               Status   `json:"status"`
	HoursSinceSession    *float64 `json:"hours_since_last_session,omitempty"`
	EstimatedHoursToFull float64  `json:"estimated_hours_to_full"`
	EffectiveSets        float64  `json:"effective_sets"`
	IndirectSets         float64  `json:"indirect_sets"`
	RecentTonnageKg      float64  `json:"recent_tonnage_kg"`
	ImpactingFactors     []string `json:"impacting_factors"`
}

// Inputs bundles the read-only snapshots the estimators consume.
type Inputs struct {
	History  []models.WorkoutLog
	Sleep    []models.SleepLog
	Feedback []models.PostSessionFeedback
	Catalog  *catalog.Index
	Taxonomy *taxonomy.Index
}

// MuscleBattery computes the recovery score for one muscle at time now.
//
// Model: the most recent qualifying session deposits a fatigue cost
// proportional to its direct sets plus activation-weighted indirect sets.
// The cost decays exponentially with elapsed hours at a per-muscle rate,
// scaled by a bounded multiplicative modifier from recent sleep and
// post-session feedback. Score = 100 minus remaining fatigue, clamped.
func MuscleBattery(cfg Config, muscle string, in Inputs, now time.Time) BatteryResult {
	res := BatteryResult{
		Muscle:           muscle,
		RecoveryScore:    100,
		Status:           StatusFresh,
		ImpactingFactors: []string{},
	}

	last, direct, indirect, found := analysis.LastSession(muscle, in.History, in.Catalog, in.Taxonomy)
	if !found {
		// Never trained: fully charged, unbounded hours-since sentinel.
		return res
	}

	hours := now.Sub(last.Date).Hours()
	if hours < 0 {
		hours = 0
	}
	res.HoursSinceSession = &hours
	res.EffectiveSets = direct
	res.IndirectSets = indirect

	var tonnage float64
	targets := in.Taxonomy.TargetSet(muscle)
	for _, ex := range last.Exercises {
		if !hitsPrimary(in.Catalog.Involvement(ex.ExerciseDBID, ex.Name), targets) {
			continue
		}
		for _, set := range ex.Sets {
			if set.Countable() {
				tonnage += set.Load()
			}
		}
	}
	res.RecentTonnageKg = tonnage

	cost := (direct + cfg.IndirectWeight*indirect) * cfg.SetCost
	if cost > cfg.MaxSessionCost {
		cost = cfg.MaxSessionCost
	}

	modifier, factors := cfg.rateModifier(muscle, last, in, now)
	res.ImpactingFactors = factors

	k := decayRate(cfg.halfLifeFor(muscle)) * modifier
	remaining := cost * math.Exp(-k*hours)

	res.RecoveryScore = clampScore(100 - remaining)
	res.Status = Classify(res.RecoveryScore)
	if remaining > cfg.ResidualPoints {
		res.EstimatedHoursToFull = math.Log(remaining/cfg.ResidualPoints) / k
	}
	return res
}

// rateModifier builds the bounded multiplicative recovery-rate modifier and
// the human-readable factor list. Missing sleep or feedback simply leaves
// the corresponding factor neutral.
func (cfg Config) rateModifier(muscle string, last models.WorkoutLog, in Inputs, now time.Time) (float64, []string) {
	modifier := 1.0
	factors := []string{}

	if sleep, ok := latestSleep(in.Sleep, now); ok {
		switch {
		case sleep.DurationHours < cfg.SleepHoursThreshold:
			modifier *= 0.8
			factors = append(factors, "Sueño insuficiente la noche anterior")
		case sleep.DurationHours >= cfg.GoodSleepHours:
			modifier *= 1.1
		}
		if sleep.Quality > 0 && sleep.Quality <= cfg.SleepQualityFloor {
			modifier *= 0.9
			factors = append(factors, "Mala calidad de sueño reciente")
		}
	}

	if fb, ok := feedbackFor(in.Feedback, last); ok {
		if sore, name := mentionsMuscle(fb.SoreMuscles, muscle, in.Taxonomy); sore {
			modifier *= 0.85
			factors = append(factors, fmt.Sprintf("Molestia reportada en %s tras la última sesión", name))
		}
		if cfg.HighFatigueLevel > 0 && fb.Fatigue >= cfg.HighFatigueLevel {
			modifier *= 0.9
			factors = append(factors, "Fatiga elevada reportada tras la última sesión")
		}
	}

	if modifier < cfg.ModifierMin {
		modifier = cfg.ModifierMin
	}
	if modifier > cfg.ModifierMax {
		modifier = cfg.ModifierMax
	}
	return modifier, factors
}

// latestSleep returns the most recent sleep log no older than 48 h; stale
// sleep data should not keep modifying today's recovery.
func latestSleep(logs []models.SleepLog, now time.Time) (models.SleepLog, bool) {
	var best models.SleepLog
	found := false
	for _, l := range logs {
		if l.Date.After(now) || now.Sub(l.Date) > 48*time.Hour {
			continue
		}
		if !found || l.Date.After(best.Date) {
			best, found = l, true
		}
	}
	return best, found
}

// feedbackFor finds the post-session feedback filed for a specific log.
func feedbackFor(feedback []models.PostSessionFeedback, log models.WorkoutLog) (models.PostSessionFeedback, bool) {
	for _, fb := range feedback {
		if fb.LogID == log.ID {
			return fb, true
		}
	}
	return models.PostSessionFeedback{}, false
}

// mentionsMuscle reports whether any reported-sore muscle resolves into the
// target muscle's set, returning the matched name for the factor message.
func mentionsMuscle(sore []string, muscle string, tax *taxonomy.Index) (bool, string) {
	targets := tax.TargetSet(muscle)
	for _, s := range sore {
		canonical, _ := models.CanonicalMuscle(s)
		if targets[strings.ToLower(canonical)] {
			return true, canonical
		}
	}
	return false, ""
}

func hitsPrimary(inv []models.MuscleInvolvement, targets map[string]bool) bool {
	for _, mi := range inv {
		canonical, _ := models.CanonicalMuscle(mi.Muscle)
		if mi.Role == models.RolePrimary && targets[strings.ToLower(canonical)] {
			return true
		}
	}
	return false
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
