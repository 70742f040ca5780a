package models

import "strings"

// MuscleRole describes how an exercise recruits a muscle.
type MuscleRole string

const (
	RolePrimary    MuscleRole = "primary"
	RoleSecondary  MuscleRole = "secondary"
	RoleStabilizer MuscleRole = "stabilizer"
)

// NormalizeRole maps a raw role string (any casing, plus the Spanish labels
// older exports used) to its canonical MuscleRole. Unknown roles come back
// as-is with ok=false so the importer can log them.
func NormalizeRole(raw string) (MuscleRole, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "primary", "primario", "principal":
		return RolePrimary, true
	case "secondary", "secundario":
		return RoleSecondary, true
	case "stabilizer", "estabilizador":
		return RoleStabilizer, true
	}
	return MuscleRole(raw), false
}

// MuscleInvolvement is one muscle trained by an exercise, with its role and
// an activation fraction in [0,1]. Activation is relative within the
// exercise, not normalized across exercises.
type MuscleInvolvement struct {
	Muscle     string     `json:"muscle" yaml:"muscle"`
	Role       MuscleRole `json:"role" yaml:"role"`
	Activation float64    `json:"activation" yaml:"activation"`
}

// Valid reports whether the involvement entry can participate in volume
// attribution. Entries with an empty muscle name or an activation outside
// [0,1] are malformed and skipped during aggregation.
func (mi MuscleInvolvement) Valid() bool {
	return mi.Muscle != "" && mi.Activation >= 0 && mi.Activation <= 1
}

// ExerciseMuscleInfo is a catalog entry for one exercise.
type ExerciseMuscleInfo struct {
	ID              string              `json:"id" yaml:"id"`
	Name            string              `json:"name" yaml:"name"`
	Category        string              `json:"category,omitempty" yaml:"category,omitempty"`
	Equipment       string              `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	InvolvedMuscles []MuscleInvolvement `json:"involved_muscles" yaml:"involved_muscles"`
}

// MuscleGroup is one parent muscle with its child muscles inside a body part.
type MuscleGroup struct {
	Parent   string   `json:"parent" yaml:"parent"`
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`
}

// MuscleHierarchy is the static body-part taxonomy: each body part owns an
// ordered list of muscle groups, and special functional categories (e.g.
// "Core") list members that cut across body parts. The taxonomy is a forest:
// a child muscle has exactly one parent within a body part.
type MuscleHierarchy struct {
	BodyParts         map[string][]MuscleGroup `json:"body_parts" yaml:"body_parts"`
	SpecialCategories map[string][]string      `json:"special_categories" yaml:"special_categories"`
}
