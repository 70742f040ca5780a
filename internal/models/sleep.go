package models

import "time"

// SleepLog is one night of sleep. Quality is the app's subjective 1-5 scale.
// Sleep is used only as a recovery-rate modifier, never as training load.
type SleepLog struct {
	Date          time.Time `json:"date"`
	DurationHours float64   `json:"duration_hours"`
	Quality       int       `json:"quality,omitempty"`
}

// PostSessionFeedback is the subjective check-in a user files after a
// session: overall fatigue (1-10) and any muscles reported as sore. Feedback
// is keyed to the workout log it follows.
type PostSessionFeedback struct {
	LogID       string    `json:"log_id"`
	Date        time.Time `json:"date"`
	Fatigue     int       `json:"fatigue,omitempty"` // 1-10
	SoreMuscles []string  `json:"sore_muscles,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}
