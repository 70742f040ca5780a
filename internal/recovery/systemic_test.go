package recovery

import (
	"testing"
	"time"

	"github.com/rotnitxe/yourprime/internal/models"
)

// TestSystemicNoHistory verifies the baseline: no sessions means full CNS
// readiness.
func TestSystemicNoHistory(t *testing.T) {
	res := SystemicFatigue(DefaultConfig(), nil, nil, testNow)
	if res.Score != 100 {
		t.Errorf("score = %v, want 100", res.Score)
	}
	if res.Status != StatusFresh {
		t.Errorf("status = %q, want fresh", res.Status)
	}
	if res.ImpactFactors == nil {
		t.Error("impact factors should be an empty list, not nil")
	}
}

// TestSystemicAccumulatesAcrossSessions verifies that systemic load sums over
// every recent session, unlike the per-muscle battery which only looks at the
// last one.
func TestSystemicAccumulatesAcrossSessions(t *testing.T) {
	cfg := DefaultConfig()
	one := SystemicFatigue(cfg, []models.WorkoutLog{benchSession("w1", 12, 6)}, nil, testNow)
	two := SystemicFatigue(cfg, []models.WorkoutLog{
		benchSession("w1", 12, 6),
		benchSession("w2", 36, 6),
	}, nil, testNow)

	if two.Score >= one.Score {
		t.Errorf("two sessions scored %v, one session %v; want more load lower", two.Score, one.Score)
	}
}

// TestSystemicRecoversOverTime verifies decay: the same session weighs less
// as hours pass.
func TestSystemicRecoversOverTime(t *testing.T) {
	cfg := DefaultConfig()
	recent := SystemicFatigue(cfg, []models.WorkoutLog{benchSession("w1", 4, 8)}, nil, testNow)
	older := SystemicFatigue(cfg, []models.WorkoutLog{benchSession("w1", 72, 8)}, nil, testNow)

	if older.Score <= recent.Score {
		t.Errorf("older session scored %v, recent %v; want decay", older.Score, recent.Score)
	}
}

// TestSystemicFatigueLevelScalesLoad verifies that the subjective session
// fatigue report scales the deposited load.
func TestSystemicFatigueLevelScalesLoad(t *testing.T) {
	cfg := DefaultConfig()
	easy := benchSession("w1", 12, 8)
	easy.FatigueLevel = 2
	hard := benchSession("w1", 12, 8)
	hard.FatigueLevel = 10

	easyRes := SystemicFatigue(cfg, []models.WorkoutLog{easy}, nil, testNow)
	hardRes := SystemicFatigue(cfg, []models.WorkoutLog{hard}, nil, testNow)

	if hardRes.Score >= easyRes.Score {
		t.Errorf("hard session scored %v, easy %v; want reported fatigue to matter", hardRes.Score, easyRes.Score)
	}
}

// TestSystemicFutureSessionsIgnored verifies that future-dated logs deposit
// nothing.
func TestSystemicFutureSessionsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	res := SystemicFatigue(cfg, []models.WorkoutLog{benchSession("w1", -5, 8)}, nil, testNow)
	if res.Score != 100 {
		t.Errorf("score = %v, want 100 with only a future session", res.Score)
	}
}

// TestSystemicHighWeeklyVolumeFactor verifies the 7-day load warning.
func TestSystemicHighWeeklyVolumeFactor(t *testing.T) {
	cfg := DefaultConfig()
	var history []models.WorkoutLog
	for i := 0; i < 5; i++ {
		history = append(history, benchSession("w", float64(12+24*i), 20))
	}
	res := SystemicFatigue(cfg, history, nil, testNow)

	if !hasFactor(res.ImpactFactors, "Carga de entrenamiento alta") {
		t.Errorf("factors = %v, want high weekly load factor for 100 sets", res.ImpactFactors)
	}
}

// TestSystemicSleepModifier verifies that short recent sleep slows systemic
// recovery and surfaces the factor, same semantics as the muscle battery.
func TestSystemicSleepModifier(t *testing.T) {
	cfg := DefaultConfig()
	history := []models.WorkoutLog{benchSession("w1", 24, 8)}

	baseline := SystemicFatigue(cfg, history, nil, testNow)

	sleep := []models.SleepLog{{Date: testNow.Add(-8 * time.Hour), DurationHours: 4, Quality: 2}}
	tired := SystemicFatigue(cfg, history, sleep, testNow)

	if tired.Score >= baseline.Score {
		t.Errorf("short-sleep score %v not below baseline %v", tired.Score, baseline.Score)
	}
	if !hasFactor(tired.ImpactFactors, "Sueño insuficiente") {
		t.Errorf("factors = %v, want short-sleep factor", tired.ImpactFactors)
	}
	if !hasFactor(tired.ImpactFactors, "Mala calidad de sueño") {
		t.Errorf("factors = %v, want poor-quality factor for quality 2", tired.ImpactFactors)
	}
}

// TestSystemicEmptySetsIgnored verifies that logs whose sets are all
// malformed deposit nothing.
func TestSystemicEmptySetsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	log := models.WorkoutLog{
		ID:   "w1",
		Date: testNow.Add(-12 * time.Hour),
		Exercises: []models.CompletedExercise{{
			ExerciseDBID: "press-banca",
			Sets:         []models.CompletedSet{{WeightKg: 80}, {WeightKg: 80}},
		}},
	}
	res := SystemicFatigue(cfg, []models.WorkoutLog{log}, nil, testNow)
	if res.Score != 100 {
		t.Errorf("score = %v, want 100 for a log with no countable sets", res.Score)
	}
}
