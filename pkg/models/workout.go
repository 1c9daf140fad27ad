package models

import "time"

// Workout is the server-confirmed entity returned by the backend once a
// submission lands. The pipeline never synthesizes one locally; a success
// response without it is treated as a failure.
type Workout struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Title           string      `json:"title"`
	Notes           string      `json:"notes"`
	Description     string      `json:"description,omitempty"`
	ImageURL        string      `json:"image_url,omitempty"`
	WeightUnit      WeightUnit  `json:"weight_unit"`
	RoutineID       string      `json:"routine_id,omitempty"`
	DurationSeconds int         `json:"duration_seconds,omitempty"`
	Exercises       []*Exercise `json:"exercises"`
	PerformedAt     time.Time   `json:"performed_at"`
	CreatedAt       time.Time   `json:"created_at"`
}
