package recovery

import (
	"math"
	"strings"

	"github.com/rotnitxe/yourprime/internal/models"
)

// Per-muscle recovery half-lives in hours: the time for half of a session's
// deposited fatigue to dissipate at a neutral modifier. Large compound
// groups sit at 34-40 h, small isolation muscles at 18-24 h. These are
// tuning constants, not sports-science ground truth; config can override
// any of them (recovery.half_life_hours).
var defaultHalfLives = map[string]float64{
	models.MuscleCuadriceps:    38,
	models.MuscleIsquiosurales: 36,
	models.MuscleGluteos:       34,
	models.MuscleEspaldaBaja:   40,
	models.MuscleDorsales:      34,
	models.MusclePectorales:    32,
	models.MuscleTrapecios:     26,
	models.MuscleDeltoides:     24,
	models.MuscleBiceps:        20,
	models.MuscleTriceps:       20,
	models.MuscleAntebrazos:    18,
	models.MuscleGemelos:       18,
	models.MuscleAbdominales:   18,
	models.MuscleOblicuos:      18,
}

// defaultHalfLifeHours applies to muscles without a table entry.
const defaultHalfLifeHours = 30.0

// cnsHalfLifeHours governs systemic (whole-body) fatigue decay. Central
// fatigue clears faster than local muscle damage but every session feeds it.
const cnsHalfLifeHours = 16.0

// halfLifeFor returns the recovery half-life for a muscle name,
// case-insensitively, honoring config overrides first.
func (c Config) halfLifeFor(muscle string) float64 {
	canonical, _ := models.CanonicalMuscle(muscle)
	key := strings.ToLower(canonical)
	for name, hours := range c.HalfLifeOverrides {
		if strings.ToLower(name) == key && hours > 0 {
			return hours
		}
	}
	for name, hours := range defaultHalfLives {
		if strings.ToLower(name) == key {
			return hours
		}
	}
	return defaultHalfLifeHours
}

// decayRate converts a half-life to the exponential decay constant k such
// that remaining = cost * exp(-k*hours).
func decayRate(halfLifeHours float64) float64 {
	return math.Ln2 / halfLifeHours
}
