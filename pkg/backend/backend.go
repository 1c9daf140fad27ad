// Package backend defines the remote collaborators the submission pipeline
// consumes: the workout creation endpoint, the auth session provider, the
// image upload service and the profile lookup. Their internals live on the
// server side; the pipeline only depends on these interfaces.
package backend

import (
	"context"
	"time"

	"github.com/liftbook/liftbook/pkg/models"
)

// Session is the caller's current identity.
type Session struct {
	Token  string
	UserID string
}

// SessionProvider yields the current auth session, or nil when signed out.
type SessionProvider interface {
	CurrentSession(ctx context.Context) (*Session, error)
}

// StaticSessionProvider serves a fixed session. Used by the daemon, which is
// configured with a long-lived device token.
type StaticSessionProvider struct {
	Token  string
	UserID string
}

func (p *StaticSessionProvider) CurrentSession(_ context.Context) (*Session, error) {
	if p.Token == "" {
		return nil, nil
	}

	return &Session{Token: p.Token, UserID: p.UserID}, nil
}

// ImageUploader resolves a local image reference into a durable URL before
// the submission is queued, so retries never depend on a local file handle.
type ImageUploader interface {
	Upload(ctx context.Context, localRef, ownerID string) (string, error)
}

// ProfileService is the best-effort display profile lookup used to decorate
// the placeholder. Failures are non-fatal.
type ProfileService interface {
	DisplayProfile(ctx context.Context, userID string) (*models.DisplayProfile, error)
}

// CreateWorkoutRequest is the payload for the remote workout creation call.
// DedupToken makes the call safe to repeat: the backend collapses duplicate
// deliveries with the same token into one created entity.
type CreateWorkoutRequest struct {
	Notes                 string             `json:"notes"`
	Title                 string             `json:"title"`
	ImageURL              string             `json:"image_url,omitempty"`
	WeightUnit            models.WeightUnit  `json:"weight_unit"`
	DedupToken            string             `json:"dedup_token"`
	RoutineID             string             `json:"routine_id,omitempty"`
	DurationSeconds       int                `json:"duration_seconds,omitempty"`
	Description           string             `json:"description,omitempty"`
	Exercises             []*models.Exercise `json:"exercises,omitempty"`
	IsStructuredMode      bool               `json:"is_structured_mode"`
	PerformedAt           time.Time          `json:"performed_at"`
	TimezoneOffsetMinutes int                `json:"timezone_offset_minutes"`
}

// WorkoutAPI is the remote workout creation endpoint. Implementations must
// return the confirmed entity; the processor treats a success without one as
// a terminal error.
type WorkoutAPI interface {
	CreateWorkout(ctx context.Context, token string, req *CreateWorkoutRequest) (*models.Workout, error)
}
