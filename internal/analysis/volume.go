// Package analysis computes per-muscle training volume and frequency from
// workout history. It is pure, synchronous computation over in-memory
// snapshots: no storage, no clock, no logger. Callers pass the reference
// time explicitly so identical inputs always produce identical results.
package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/rotnitxe/yourprime/internal/catalog"
	"github.com/rotnitxe/yourprime/internal/models"
	"github.com/rotnitxe/yourprime/internal/taxonomy"
)

// DefaultWindowDays is the analysis window used when the caller does not
// request one.
const DefaultWindowDays = 28

// Params configures one aggregation run.
type Params struct {
	Muscle     string
	WindowDays int
	Now        time.Time
	WeekStart  time.Weekday
}

// Breakdown is the volume report for one muscle (or body part / category)
// over the window. Direct and indirect sets stay in separate buckets: they
// carry different fatigue cost and must remain independently reportable.
type Breakdown struct {
	Muscle          string   `json:"muscle"`
	TargetMuscles   []string `json:"target_muscles"`
	WindowDays      int      `json:"window_days"`
	DirectSets      float64  `json:"direct_sets"`
	IndirectSets    float64  `json:"indirect_sets"`
	WeightedSets    float64  `json:"weighted_sets"`
	Frequency       float64  `json:"frequency"`
	AvgRestDays     *float64 `json:"avg_rest_days,omitempty"`
	RecentTonnageKg float64  `json:"recent_tonnage_kg"`
	Sessions        int      `json:"sessions"`
}

// exerciseHit is the deduplicated contribution of one completed exercise:
// each (log, exercise, set) is attributed once even when the exercise hits
// several resolved target muscles, so aggregating a parent never
// double-counts an exercise involving multiple of its children.
type exerciseHit struct {
	direct     bool
	activation float64
}

func classify(inv []models.MuscleInvolvement, targets map[string]bool) (exerciseHit, bool) {
	var hit exerciseHit
	matched := false
	for _, mi := range inv {
		canonical, _ := models.CanonicalMuscle(mi.Muscle)
		if !targets[strings.ToLower(canonical)] {
			continue
		}
		matched = true
		if mi.Role == models.RolePrimary {
			hit.direct = true
		} else if mi.Activation > hit.activation {
			hit.activation = mi.Activation
		}
	}
	return hit, matched
}

// Aggregate walks the history window and computes the volume breakdown for
// p.Muscle. Zero qualifying sessions yield a valid "untrained muscle"
// result: all counts zero, frequency zero, AvgRestDays nil.
func Aggregate(p Params, history []models.WorkoutLog, cat *catalog.Index, tax *taxonomy.Index) Breakdown {
	if p.WindowDays <= 0 {
		p.WindowDays = DefaultWindowDays
	}
	targets := tax.TargetSet(p.Muscle)
	cutoff := p.Now.AddDate(0, 0, -p.WindowDays)

	b := Breakdown{
		Muscle:        p.Muscle,
		TargetMuscles: tax.Resolve(p.Muscle),
		WindowDays:    p.WindowDays,
	}

	sessionDays := make(map[string]bool)
	weeks := make(map[string]bool)

	for _, log := range history {
		if log.Date.Before(cutoff) || log.Date.After(p.Now) {
			continue
		}
		qualifies := false
		for _, ex := range log.Exercises {
			hit, ok := classify(cat.Involvement(ex.ExerciseDBID, ex.Name), targets)
			if !ok {
				continue
			}
			qualifies = true
			for _, set := range ex.Sets {
				if !set.Countable() {
					continue
				}
				if hit.direct {
					b.DirectSets++
					b.RecentTonnageKg += set.Load()
				} else if hit.activation > 0 {
					b.IndirectSets += hit.activation
				}
			}
		}
		if qualifies {
			// One session credit per log, however many exercises qualify.
			sessionDays[log.Date.Format("2006-01-02")] = true
			weeks[weekKey(log.Date, p.WeekStart)] = true
		}
	}

	b.WeightedSets = b.DirectSets + b.IndirectSets
	b.Sessions = len(sessionDays)
	b.Frequency = float64(len(weeks)) / (float64(p.WindowDays) / 7.0)
	b.AvgRestDays = avgRestDays(sessionDays)
	return b
}

// LastSession finds the most recent log containing a direct-or-indirect hit
// on the muscle, scanning the full history (no window: recency lookups are
// unbounded per the recovery model). Returns the log plus that single
// session's direct and activation-weighted indirect set counts.
func LastSession(muscle string, history []models.WorkoutLog, cat *catalog.Index, tax *taxonomy.Index) (log models.WorkoutLog, direct, indirect float64, found bool) {
	targets := tax.TargetSet(muscle)

	for _, candidate := range history {
		var d, ind float64
		qualifies := false
		for _, ex := range candidate.Exercises {
			hit, ok := classify(cat.Involvement(ex.ExerciseDBID, ex.Name), targets)
			if !ok {
				continue
			}
			qualifies = true
			for _, set := range ex.Sets {
				if !set.Countable() {
					continue
				}
				if hit.direct {
					d++
				} else if hit.activation > 0 {
					ind += hit.activation
				}
			}
		}
		if qualifies && (!found || candidate.Date.After(log.Date)) {
			log, direct, indirect, found = candidate, d, ind, true
		}
	}
	return log, direct, indirect, found
}

// avgRestDays returns the mean gap in days between consecutive qualifying
// session days, or nil for fewer than two sessions.
func avgRestDays(sessionDays map[string]bool) *float64 {
	if len(sessionDays) < 2 {
		return nil
	}
	days := make([]string, 0, len(sessionDays))
	for d := range sessionDays {
		days = append(days, d)
	}
	sort.Strings(days)

	var totalGap float64
	for i := 1; i < len(days); i++ {
		prev, _ := time.Parse("2006-01-02", days[i-1])
		cur, _ := time.Parse("2006-01-02", days[i])
		totalGap += cur.Sub(prev).Hours() / 24
	}
	avg := totalGap / float64(len(days)-1)
	return &avg
}

// weekKey buckets a date into its calendar week, anchored on the user's
// configured week start day.
func weekKey(t time.Time, weekStart time.Weekday) string {
	daysBack := (int(t.Weekday()) - int(weekStart) + 7) % 7
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -daysBack)
	return start.Format("2006-01-02")
}
