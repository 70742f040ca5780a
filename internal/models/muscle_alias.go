package models

import "strings"

// Canonical muscle names (as used by the bundled catalog, in Spanish).
const (
	MusclePectorales    = "Pectorales"
	MuscleDorsales      = "Dorsales"
	MuscleTrapecios     = "Trapecios"
	MuscleEspaldaBaja   = "Espalda baja"
	MuscleDeltoides     = "Deltoides"
	MuscleBiceps        = "Bíceps"
	MuscleTriceps       = "Tríceps"
	MuscleAntebrazos    = "Antebrazos"
	MuscleCuadriceps    = "Cuádriceps"
	MuscleIsquiosurales = "Isquiosurales"
	MuscleGluteos       = "Glúteos"
	MuscleGemelos       = "Gemelos"
	MuscleAbdominales   = "Abdominales"
	MuscleOblicuos      = "Oblicuos"
)

// muscleAliasMap maps lowercased English names, gym shorthand, and common
// accent-less spellings to the canonical catalog names. Freeform muscle tags
// on custom exercises arrive in whatever language the user typed.
var muscleAliasMap = map[string]string{
	// English
	"chest":      MusclePectorales,
	"pecs":       MusclePectorales,
	"lats":       MuscleDorsales,
	"back":       MuscleDorsales,
	"traps":      MuscleTrapecios,
	"lower back": MuscleEspaldaBaja,
	"shoulders":  MuscleDeltoides,
	"delts":      MuscleDeltoides,
	"biceps":     MuscleBiceps,
	"triceps":    MuscleTriceps,
	"forearms":   MuscleAntebrazos,
	"quads":      MuscleCuadriceps,
	"quadriceps": MuscleCuadriceps,
	"hamstrings": MuscleIsquiosurales,
	"hams":       MuscleIsquiosurales,
	"glutes":     MuscleGluteos,
	"calves":     MuscleGemelos,
	"abs":        MuscleAbdominales,
	"obliques":   MuscleOblicuos,

	// Accent-less / variant Spanish
	"biceps braquial": MuscleBiceps,
	"cuadriceps":      MuscleCuadriceps,
	"gluteos":         MuscleGluteos,
	"femorales":       MuscleIsquiosurales,
	"isquios":         MuscleIsquiosurales,
	"lumbares":        MuscleEspaldaBaja,
	"zona lumbar":     MuscleEspaldaBaja,
	"hombros":         MuscleDeltoides,
	"pecho":           MusclePectorales,
	"espalda alta":    MuscleTrapecios,
	"abdomen":         MuscleAbdominales,
}

// CanonicalMuscle maps a possibly-aliased muscle name to its canonical
// catalog form. Returns the canonical name and true if an alias matched, or
// the trimmed original and false if not. Unknown names are not an error:
// taxonomy lookups treat them as already-leaf muscles.
func CanonicalMuscle(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := muscleAliasMap[strings.ToLower(trimmed)]; ok {
		return canonical, true
	}
	return trimmed, false
}
