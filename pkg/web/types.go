// Package web provides the local HTTP control API for the sync daemon.
package web

import (
	"time"

	"github.com/liftbook/liftbook/pkg/models"
)

// SubmitWorkoutRequest is the request body for queueing a workout submission.
type SubmitWorkoutRequest struct {
	UserID           string             `json:"user_id"                    validate:"required"`
	Title            string             `json:"title"                      validate:"required"`
	Notes            string             `json:"notes"`
	Description      string             `json:"description,omitempty"`
	WeightUnit       string             `json:"weight_unit"                validate:"required,oneof=kg lb"`
	Exercises        []*models.Exercise `json:"exercises,omitempty"`
	IsStructuredMode bool               `json:"is_structured_mode"`
	RoutineID        string             `json:"routine_id,omitempty"`
	DurationSeconds  int                `json:"duration_seconds,omitempty"`
	ImageRef         string             `json:"image_ref,omitempty"`
	PerformedAt      *time.Time         `json:"performed_at,omitempty"`
}

// PendingSubmission summarizes the outbox entry for status responses without
// exposing the full payload.
type PendingSubmission struct {
	DedupToken  string    `json:"dedup_token"`
	Title       string    `json:"title"`
	PerformedAt time.Time `json:"performed_at"`
}

// StatusResponse is the pipeline snapshot served by GET /v1/status.
type StatusResponse struct {
	HasDraft    bool                `json:"has_draft"`
	Pending     *PendingSubmission  `json:"pending,omitempty"`
	Placeholder *models.Placeholder `json:"placeholder,omitempty"`
}

// FlushResponse reports the tagged outcome of one processor run.
type FlushResponse struct {
	Status      string              `json:"status"`
	WorkoutID   string              `json:"workout_id,omitempty"`
	Placeholder *models.Placeholder `json:"placeholder,omitempty"`
	Error       string              `json:"error,omitempty"`
}
