package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/rotnitxe/yourprime/internal/catalog"
	"github.com/rotnitxe/yourprime/internal/models"
	"github.com/rotnitxe/yourprime/internal/taxonomy"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testCatalog() *catalog.Index {
	return catalog.NewIndex([]models.ExerciseMuscleInfo{
		{
			ID:   "press-banca",
			Name: "Press de Banca",
			InvolvedMuscles: []models.MuscleInvolvement{
				{Muscle: "Pectorales", Role: models.RolePrimary, Activation: 1.0},
				{Muscle: "Tríceps", Role: models.RoleSecondary, Activation: 0.4},
			},
		},
		{
			ID:   "sentadilla",
			Name: "Sentadilla",
			InvolvedMuscles: []models.MuscleInvolvement{
				{Muscle: "Cuádriceps", Role: models.RolePrimary, Activation: 1.0},
				{Muscle: "Glúteos", Role: models.RoleSecondary, Activation: 0.6},
				{Muscle: "Isquiosurales", Role: models.RoleSecondary, Activation: 0.3},
			},
		},
	})
}

func testTaxonomy() *taxonomy.Index {
	return taxonomy.NewIndex(models.MuscleHierarchy{
		BodyParts: map[string][]models.MuscleGroup{
			"Pecho": {{Parent: "Pectorales"}},
			"Piernas": {
				{Parent: "Cuádriceps"},
				{Parent: "Glúteos"},
				{Parent: "Isquiosurales"},
			},
			"Brazos": {{Parent: "Tríceps"}},
		},
	})
}

// benchLog builds a session of nSets bench press sets at weight x reps, dated
// daysAgo before the test clock.
func benchLog(id string, daysAgo int, nSets int, weight float64, reps int) models.WorkoutLog {
	sets := make([]models.CompletedSet, nSets)
	for i := range sets {
		sets[i] = models.CompletedSet{WeightKg: weight, Reps: reps}
	}
	return models.WorkoutLog{
		ID:   id,
		Date: testNow.AddDate(0, 0, -daysAgo),
		Exercises: []models.CompletedExercise{
			{ExerciseDBID: "press-banca", Name: "Press de Banca", Sets: sets},
		},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestAggregateDirectSets verifies the canonical bench press attribution:
// four sets of 80x8 yield 4 direct sets and 2560 kg of tonnage for the
// primary mover, with no indirect credit.
func TestAggregateDirectSets(t *testing.T) {
	history := []models.WorkoutLog{benchLog("w1", 2, 4, 80, 8)}
	b := Aggregate(Params{Muscle: "Pectorales", Now: testNow}, history, testCatalog(), testTaxonomy())

	if b.DirectSets != 4 {
		t.Errorf("direct sets = %v, want 4", b.DirectSets)
	}
	if b.IndirectSets != 0 {
		t.Errorf("indirect sets = %v, want 0", b.IndirectSets)
	}
	if b.RecentTonnageKg != 2560 {
		t.Errorf("tonnage = %v, want 2560", b.RecentTonnageKg)
	}
	if b.Sessions != 1 {
		t.Errorf("sessions = %v, want 1", b.Sessions)
	}
}

// TestAggregateIndirectSets verifies activation weighting: the same four
// bench sets credit the secondary mover with 4 x 0.4 = 1.6 indirect sets and
// contribute nothing to its tonnage.
func TestAggregateIndirectSets(t *testing.T) {
	history := []models.WorkoutLog{benchLog("w1", 2, 4, 80, 8)}
	b := Aggregate(Params{Muscle: "Tríceps", Now: testNow}, history, testCatalog(), testTaxonomy())

	if b.DirectSets != 0 {
		t.Errorf("direct sets = %v, want 0", b.DirectSets)
	}
	if !almostEqual(b.IndirectSets, 1.6) {
		t.Errorf("indirect sets = %v, want 1.6", b.IndirectSets)
	}
	if b.RecentTonnageKg != 0 {
		t.Errorf("tonnage = %v, want 0 (secondary role)", b.RecentTonnageKg)
	}
	if !almostEqual(b.WeightedSets, 1.6) {
		t.Errorf("weighted sets = %v, want 1.6", b.WeightedSets)
	}
}

// TestAggregateParentDedup verifies that an exercise hitting several muscles
// under the queried body part is attributed once, not once per child.
// A squat (quads primary, glutes and hams secondary) counts its sets as
// direct sets for Piernas exactly once.
func TestAggregateParentDedup(t *testing.T) {
	history := []models.WorkoutLog{{
		ID:   "w1",
		Date: testNow.AddDate(0, 0, -1),
		Exercises: []models.CompletedExercise{{
			ExerciseDBID: "sentadilla",
			Name:         "Sentadilla",
			Sets: []models.CompletedSet{
				{WeightKg: 100, Reps: 5},
				{WeightKg: 100, Reps: 5},
				{WeightKg: 100, Reps: 5},
			},
		}},
	}}
	b := Aggregate(Params{Muscle: "Piernas", Now: testNow}, history, testCatalog(), testTaxonomy())

	if b.DirectSets != 3 {
		t.Errorf("direct sets = %v, want 3 (no double counting across children)", b.DirectSets)
	}
	if b.IndirectSets != 0 {
		t.Errorf("indirect sets = %v, want 0 (primary hit wins for the whole exercise)", b.IndirectSets)
	}
	if b.Sessions != 1 {
		t.Errorf("sessions = %v, want 1", b.Sessions)
	}
}

// TestAggregateWindowFilter verifies that sessions outside the window, and
// future-dated sessions, are excluded.
func TestAggregateWindowFilter(t *testing.T) {
	history := []models.WorkoutLog{
		benchLog("inside", 5, 2, 80, 8),
		benchLog("too-old", 40, 4, 80, 8),
		benchLog("future", -1, 4, 80, 8),
	}
	b := Aggregate(Params{Muscle: "Pectorales", WindowDays: 28, Now: testNow}, history, testCatalog(), testTaxonomy())

	if b.DirectSets != 2 {
		t.Errorf("direct sets = %v, want 2 (only the in-window session)", b.DirectSets)
	}
	if b.Sessions != 1 {
		t.Errorf("sessions = %v, want 1", b.Sessions)
	}
}

// TestAggregateSkipsMalformedSets verifies lenient input handling: sets with
// neither reps nor duration contribute nothing but do not fail the run.
func TestAggregateSkipsMalformedSets(t *testing.T) {
	history := []models.WorkoutLog{{
		ID:   "w1",
		Date: testNow.AddDate(0, 0, -1),
		Exercises: []models.CompletedExercise{{
			ExerciseDBID: "press-banca",
			Sets: []models.CompletedSet{
				{WeightKg: 80, Reps: 8},
				{WeightKg: 80}, // no reps, no duration
			},
		}},
	}}
	b := Aggregate(Params{Muscle: "Pectorales", Now: testNow}, history, testCatalog(), testTaxonomy())

	if b.DirectSets != 1 {
		t.Errorf("direct sets = %v, want 1", b.DirectSets)
	}
	if b.RecentTonnageKg != 640 {
		t.Errorf("tonnage = %v, want 640", b.RecentTonnageKg)
	}
}

// TestAggregateUntrainedMuscle verifies the zero-history shape: all counts
// zero, frequency zero, AvgRestDays nil rather than NaN.
func TestAggregateUntrainedMuscle(t *testing.T) {
	b := Aggregate(Params{Muscle: "Gemelos", Now: testNow}, nil, testCatalog(), testTaxonomy())

	if b.DirectSets != 0 || b.IndirectSets != 0 || b.RecentTonnageKg != 0 || b.Sessions != 0 {
		t.Errorf("untrained muscle should be all zeros, got %+v", b)
	}
	if b.Frequency != 0 {
		t.Errorf("frequency = %v, want 0", b.Frequency)
	}
	if b.AvgRestDays != nil {
		t.Errorf("avg rest days = %v, want nil", *b.AvgRestDays)
	}
}

// TestAggregateAvgRestDays verifies the mean-gap computation: sessions 0, 3
// and 10 days ago have gaps of 7 and 3 days, averaging 5.
func TestAggregateAvgRestDays(t *testing.T) {
	history := []models.WorkoutLog{
		benchLog("w1", 0, 3, 80, 8),
		benchLog("w2", 3, 3, 80, 8),
		benchLog("w3", 10, 3, 80, 8),
	}
	b := Aggregate(Params{Muscle: "Pectorales", Now: testNow}, history, testCatalog(), testTaxonomy())

	if b.AvgRestDays == nil {
		t.Fatal("avg rest days = nil, want 5")
	}
	if !almostEqual(*b.AvgRestDays, 5) {
		t.Errorf("avg rest days = %v, want 5", *b.AvgRestDays)
	}
}

// TestAggregateAvgRestDaysSingleSession verifies that one session yields nil
// (no gap exists to average).
func TestAggregateAvgRestDaysSingleSession(t *testing.T) {
	history := []models.WorkoutLog{benchLog("w1", 2, 3, 80, 8)}
	b := Aggregate(Params{Muscle: "Pectorales", Now: testNow}, history, testCatalog(), testTaxonomy())
	if b.AvgRestDays != nil {
		t.Errorf("avg rest days = %v, want nil for a single session", *b.AvgRestDays)
	}
}

// TestAggregateFrequency verifies week counting: two sessions in the same
// calendar week and one in another give 2 distinct weeks over a 4-week
// window, a frequency of 0.5 sessions-weeks per week.
func TestAggregateFrequency(t *testing.T) {
	// testNow is a Saturday; with a Monday week start, 1 and 3 days ago land
	// in the same week, 9 days ago in the previous one.
	history := []models.WorkoutLog{
		benchLog("w1", 1, 3, 80, 8),
		benchLog("w2", 3, 3, 80, 8),
		benchLog("w3", 9, 3, 80, 8),
	}
	p := Params{Muscle: "Pectorales", WindowDays: 28, Now: testNow, WeekStart: time.Monday}
	b := Aggregate(p, history, testCatalog(), testTaxonomy())

	if !almostEqual(b.Frequency, 0.5) {
		t.Errorf("frequency = %v, want 0.5", b.Frequency)
	}
	if b.Sessions != 3 {
		t.Errorf("sessions = %v, want 3", b.Sessions)
	}
}

// TestAggregateSameDaySessions verifies that two logs on one calendar day
// count as a single session day for rest-gap purposes.
func TestAggregateSameDaySessions(t *testing.T) {
	morning := benchLog("w1", 2, 2, 80, 8)
	evening := benchLog("w2", 2, 2, 80, 8)
	evening.Date = evening.Date.Add(8 * time.Hour)
	history := []models.WorkoutLog{morning, evening, benchLog("w3", 6, 2, 80, 8)}

	b := Aggregate(Params{Muscle: "Pectorales", Now: testNow}, history, testCatalog(), testTaxonomy())
	if b.Sessions != 2 {
		t.Errorf("sessions = %v, want 2 distinct days", b.Sessions)
	}
	if b.AvgRestDays == nil || !almostEqual(*b.AvgRestDays, 4) {
		t.Errorf("avg rest days = %v, want 4", b.AvgRestDays)
	}
}

// TestLastSessionPicksMostRecent verifies that recency lookup scans the whole
// history regardless of order and returns that session's own set counts.
func TestLastSessionPicksMostRecent(t *testing.T) {
	history := []models.WorkoutLog{
		benchLog("old", 20, 5, 80, 8),
		benchLog("new", 2, 3, 80, 8),
		benchLog("mid", 10, 4, 80, 8),
	}
	log, direct, indirect, found := LastSession("Pectorales", history, testCatalog(), testTaxonomy())
	if !found {
		t.Fatal("expected a session")
	}
	if log.ID != "new" {
		t.Errorf("log = %q, want the most recent", log.ID)
	}
	if direct != 3 {
		t.Errorf("direct = %v, want 3", direct)
	}
	if indirect != 0 {
		t.Errorf("indirect = %v, want 0", indirect)
	}
}

// TestLastSessionNotFound verifies the untrained case.
func TestLastSessionNotFound(t *testing.T) {
	_, _, _, found := LastSession("Gemelos", []models.WorkoutLog{benchLog("w1", 2, 4, 80, 8)}, testCatalog(), testTaxonomy())
	if found {
		t.Error("expected found=false for a muscle with no sessions")
	}
}

// TestAggregateUnknownExercise verifies that a log referencing an exercise
// missing from the catalog contributes nothing rather than erroring.
func TestAggregateUnknownExercise(t *testing.T) {
	history := []models.WorkoutLog{{
		ID:   "w1",
		Date: testNow.AddDate(0, 0, -1),
		Exercises: []models.CompletedExercise{{
			ExerciseDBID: "no-existe",
			Name:         "Ejercicio Borrado",
			Sets:         []models.CompletedSet{{WeightKg: 50, Reps: 10}},
		}},
	}}
	b := Aggregate(Params{Muscle: "Pectorales", Now: testNow}, history, testCatalog(), testTaxonomy())
	if b.DirectSets != 0 || b.Sessions != 0 {
		t.Errorf("unknown exercise contributed volume: %+v", b)
	}
}
