package catalog

import (
	"testing"

	"github.com/rotnitxe/yourprime/internal/models"
)

func testEntries() []models.ExerciseMuscleInfo {
	return []models.ExerciseMuscleInfo{
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
			},
		},
	}
}

// TestLookupByID verifies that the catalog id is the primary lookup key.
func TestLookupByID(t *testing.T) {
	ix := NewIndex(testEntries())
	e, ok := ix.Lookup("press-banca", "")
	if !ok {
		t.Fatal("expected lookup hit by id")
	}
	if e.Name != "Press de Banca" {
		t.Errorf("name = %q, want %q", e.Name, "Press de Banca")
	}
}

// TestLookupNameFallback verifies the case-insensitive name fallback used for
// legacy logs that predate the exercise's catalog entry.
func TestLookupNameFallback(t *testing.T) {
	ix := NewIndex(testEntries())
	for _, name := range []string{"Press de Banca", "press de banca", "  PRESS DE BANCA  "} {
		e, ok := ix.Lookup("", name)
		if !ok {
			t.Errorf("Lookup(%q): expected hit", name)
			continue
		}
		if e.ID != "press-banca" {
			t.Errorf("Lookup(%q) id = %q, want press-banca", name, e.ID)
		}
	}
}

// TestLookupUnknownIDFallsBackToName verifies that a stale id still resolves
// through the name.
func TestLookupUnknownIDFallsBackToName(t *testing.T) {
	ix := NewIndex(testEntries())
	e, ok := ix.Lookup("deleted-id", "Sentadilla")
	if !ok || e.ID != "sentadilla" {
		t.Errorf("Lookup(deleted-id, Sentadilla) = (%q, %v), want sentadilla", e.ID, ok)
	}
}

// TestInvolvementUnknown verifies that an unknown exercise yields nil, not an
// error: it simply contributes no volume.
func TestInvolvementUnknown(t *testing.T) {
	ix := NewIndex(testEntries())
	if inv := ix.Involvement("", "Ejercicio Inventado"); inv != nil {
		t.Errorf("Involvement(unknown) = %v, want nil", inv)
	}
}

// TestInvolvementDropsMalformed verifies that invalid involvement entries
// (empty muscle, out-of-range activation) are filtered before the aggregator
// sees them.
func TestInvolvementDropsMalformed(t *testing.T) {
	ix := NewIndex([]models.ExerciseMuscleInfo{{
		ID:   "raro",
		Name: "Raro",
		InvolvedMuscles: []models.MuscleInvolvement{
			{Muscle: "Pectorales", Role: models.RolePrimary, Activation: 1.0},
			{Muscle: "", Role: models.RoleSecondary, Activation: 0.5},
			{Muscle: "Tríceps", Role: models.RoleSecondary, Activation: 1.8},
		},
	}})
	inv := ix.Involvement("raro", "")
	if len(inv) != 1 {
		t.Fatalf("Involvement = %v, want 1 valid entry", inv)
	}
	if inv[0].Muscle != "Pectorales" {
		t.Errorf("surviving muscle = %q, want Pectorales", inv[0].Muscle)
	}
}

// TestLaterEntriesWin verifies override semantics: a custom exercise sharing
// an id replaces the bundled entry.
func TestLaterEntriesWin(t *testing.T) {
	entries := append(testEntries(), models.ExerciseMuscleInfo{
		ID:   "press-banca",
		Name: "Press de Banca",
		InvolvedMuscles: []models.MuscleInvolvement{
			{Muscle: "Pectorales", Role: models.RolePrimary, Activation: 0.9},
		},
	})
	ix := NewIndex(entries)
	inv := ix.Involvement("press-banca", "")
	if len(inv) != 1 || inv[0].Activation != 0.9 {
		t.Errorf("Involvement = %v, want the custom override", inv)
	}
}
