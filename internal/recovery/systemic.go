package recovery

import (
	"math"
	"time"

	"github.com/rotnitxe/yourprime/internal/models"
)

// SystemicResult is the whole-body CNS readiness report. Same ephemeral
// lifecycle and status bands as BatteryResult.
type SystemicResult struct {
	Score         float64  `json:"score"`
	Status        Status   `json:"status"`
	ImpactFactors []string `json:"impact_factors"`
}

// cnsSetCost is the systemic fatigue deposited per countable set, before the
// session's subjective fatigue level scales it. Smaller than the per-muscle
// SetCost because systemic load spreads across the whole body.
const cnsSetCost = 1.6

// highWeeklySets is the 7-day total set count above which recent load is
// surfaced as an impact factor.
const highWeeklySets = 80

// SystemicFatigue aggregates every session's load (no muscle filter) into a
// single CNS readiness score. Each session deposits fatigue proportional to
// its countable sets, scaled by the user's reported session fatigue, and
// decays exponentially with the CNS half-life; the sleep modifier is the
// same one the battery uses.
func SystemicFatigue(cfg Config, history []models.WorkoutLog, sleep []models.SleepLog, now time.Time) SystemicResult {
	res := SystemicResult{Score: 100, Status: StatusFresh, ImpactFactors: []string{}}
	if len(history) == 0 {
		return res
	}

	modifier := 1.0
	if s, ok := latestSleep(sleep, now); ok {
		switch {
		case s.DurationHours < cfg.SleepHoursThreshold:
			modifier *= 0.8
			res.ImpactFactors = append(res.ImpactFactors, "Sueño insuficiente la noche anterior")
		case s.DurationHours >= cfg.GoodSleepHours:
			modifier *= 1.1
		}
		if s.Quality > 0 && s.Quality <= cfg.SleepQualityFloor {
			modifier *= 0.9
			res.ImpactFactors = append(res.ImpactFactors, "Mala calidad de sueño reciente")
		}
	}
	if modifier < cfg.ModifierMin {
		modifier = cfg.ModifierMin
	}
	if modifier > cfg.ModifierMax {
		modifier = cfg.ModifierMax
	}

	k := decayRate(cnsHalfLifeHours) * modifier
	var remaining float64
	var weeklySets int

	for _, log := range history {
		hours := now.Sub(log.Date).Hours()
		if hours < 0 {
			continue
		}
		sets := countableSets(log)
		if sets == 0 {
			continue
		}
		if hours <= 7*24 {
			weeklySets += sets
		}

		load := float64(sets) * cnsSetCost
		if log.FatigueLevel > 0 {
			// A 1-10 session-fatigue report scales load by 0.6x-1.5x.
			load *= 0.5 + float64(log.FatigueLevel)/10
		}
		if load > cfg.MaxSessionCost {
			load = cfg.MaxSessionCost
		}
		remaining += load * math.Exp(-k*hours)
	}

	if weeklySets >= highWeeklySets {
		res.ImpactFactors = append(res.ImpactFactors, "Carga de entrenamiento alta en los últimos 7 días")
	}

	res.Score = clampScore(100 - remaining)
	res.Status = Classify(res.Score)
	return res
}

func countableSets(log models.WorkoutLog) int {
	n := 0
	for _, ex := range log.Exercises {
		for _, set := range ex.Sets {
			if set.Countable() {
				n++
			}
		}
	}
	return n
}
