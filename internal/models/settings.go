package models

import "time"

// WeightUnit is the unit a user logs weights in. Storage is always kg; lb
// values are converted at ingest.
type WeightUnit string

const (
	UnitKg WeightUnit = "kg"
	UnitLb WeightUnit = "lb"
)

// LbToKg converts pounds to kilograms.
const LbToKg = 0.45359237

// Settings holds the two user preferences the analysis engine cares about:
// the logging weight unit and the day a training week starts on (used for
// frequency bucketing). Everything else in the app's settings (AI provider,
// themes) is irrelevant here.
type Settings struct {
	WeightUnit  WeightUnit   `json:"weight_unit"`
	StartWeekOn time.Weekday `json:"start_week_on"`
}

// DefaultSettings returns kg logging with weeks starting on Monday.
func DefaultSettings() Settings {
	return Settings{WeightUnit: UnitKg, StartWeekOn: time.Monday}
}
