package submission

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/liftbook/liftbook/pkg/backend"
	"github.com/liftbook/liftbook/pkg/eventbus"
	"github.com/liftbook/liftbook/pkg/events"
	"github.com/liftbook/liftbook/pkg/models"
	"github.com/liftbook/liftbook/pkg/otelhelper"
	"github.com/liftbook/liftbook/pkg/persistence"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Service packages a finished draft into a durable outbox entry plus its
// optimistic placeholder. It never flushes; the caller decides when to run
// the processor (right after submit, and again on later triggers).
type Service struct {
	persistence persistence.Persistence
	uploader    backend.ImageUploader
	profiles    backend.ProfileService
	publisher   eventbus.EventPublisher
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewService creates a submission service. profiles and publisher are
// best-effort collaborators and may be nil.
func NewService(
	p persistence.Persistence,
	uploader backend.ImageUploader,
	profiles backend.ProfileService,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		persistence: p,
		uploader:    uploader,
		profiles:    profiles,
		publisher:   publisher,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// SubmitRequest carries everything the user confirmed on the submit screen.
type SubmitRequest struct {
	UserID           string             `validate:"required"`
	Title            string             `validate:"required"`
	Notes            string
	WeightUnit       models.WeightUnit  `validate:"required,oneof=kg lb"`
	Exercises        []*models.Exercise `validate:"dive"`
	IsStructuredMode bool
	RoutineID        string
	DurationSeconds  int
	Description      string
	ImageRef         string    // Local image reference, resolved before queueing
	PerformedAt      time.Time // Zero means now
}

// SubmitResult pairs the queued entry with its placeholder. Replaced reports
// that a previously pending entry was overwritten (single-slot outbox).
type SubmitResult struct {
	Entry       *models.OutboxEntry
	Placeholder *models.Placeholder
	Replaced    bool
}

// Submit validates the request, resolves the attached image, and persists the
// entry and placeholder as a pair. Validation and upload failures reject the
// submit before anything is persisted, so the draft survives untouched.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	ctx, span := otel.Tracer("liftbook/submission").Start(ctx, "service.submit")
	defer span.End()

	if err := s.validateRequest(req); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	imageURL := ""

	if req.ImageRef != "" {
		resolved, err := s.uploader.Upload(ctx, req.ImageRef, req.UserID)
		if err != nil {
			uploadErr := NewImageUploadError("Submit", err)
			otelhelper.SetError(span, uploadErr)

			return nil, uploadErr
		}

		imageURL = resolved
	}

	// Generated exactly once. Retries of this entry reuse it so the backend
	// collapses duplicate deliveries into one workout.
	dedupToken := uuid.New().String()

	performedAt := req.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now()
	}

	_, tzOffsetSeconds := performedAt.Zone()

	entry := &models.OutboxEntry{
		Notes:                 req.Notes,
		Title:                 req.Title,
		ImageURL:              imageURL,
		WeightUnit:            req.WeightUnit,
		UserID:                req.UserID,
		DedupToken:            dedupToken,
		RoutineID:             req.RoutineID,
		DurationSeconds:       req.DurationSeconds,
		Description:           req.Description,
		Exercises:             models.CloneExercises(req.Exercises),
		IsStructuredMode:      req.IsStructuredMode,
		PerformedAt:           performedAt,
		TimezoneOffsetMinutes: tzOffsetSeconds / 60,
	}

	placeholder := &models.Placeholder{
		ID:        "pending-" + dedupToken,
		Title:     req.Title,
		ImageURL:  imageURL,
		CreatedAt: performedAt,
		IsPending: true,
	}

	if s.profiles != nil {
		profile, err := s.profiles.DisplayProfile(ctx, req.UserID)
		if err != nil {
			s.logger.DebugContext(ctx, "Display profile lookup failed, building bare placeholder", "error", err)
		} else if profile != nil {
			placeholder.AuthorName = profile.DisplayName
			placeholder.AuthorAvatarURL = profile.AvatarURL
		}
	}

	replaced := false

	if previous, err := s.persistence.OutboxRepository().Get(ctx); err == nil && previous != nil {
		replaced = true

		s.logger.WarnContext(ctx, "Overwriting pending outbox entry", "previousToken", previous.DedupToken)
	}

	if err := s.persistence.OutboxRepository().Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to queue submission: %w", err)
	}

	// Written after the entry; a crash between the two writes is repaired by
	// persistence.Reconcile on the next start.
	if err := s.persistence.PlaceholderRepository().Put(ctx, placeholder); err != nil {
		return nil, fmt.Errorf("failed to store placeholder: %w", err)
	}

	s.emit(ctx, req.UserID, events.SubmissionQueued{
		BaseEvent:  events.NewBaseEvent(events.SubmissionQueuedEvent, req.UserID),
		DedupToken: dedupToken,
		Replaced:   replaced,
	})

	span.SetAttributes(
		attribute.String(otelhelper.DedupTokenKey, dedupToken),
		attribute.String(otelhelper.UserIDKey, req.UserID),
		attribute.Bool("liftbook.submission.replaced", replaced),
	)

	return &SubmitResult{Entry: entry, Placeholder: placeholder, Replaced: replaced}, nil
}

func (s *Service) validateRequest(req SubmitRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return NewValidationError("Submit", "INVALID_REQUEST", err.Error())
	}

	if strings.TrimSpace(req.Title) == "" {
		return NewValidationError("Submit", "BLANK_TITLE", "workout title is required")
	}

	if strings.TrimSpace(req.Notes) == "" && !hasExerciseContent(req.Exercises) {
		return &ServiceError{
			Op:      "Submit",
			Code:    "BLANK_CONTENT",
			Message: ErrBlankContent.Error(),
			Err:     fmt.Errorf("%w: %w", ErrInvalidSubmission, ErrBlankContent),
		}
	}

	return nil
}

func hasExerciseContent(exercises []*models.Exercise) bool {
	for _, exercise := range exercises {
		if strings.TrimSpace(exercise.Name) != "" {
			return true
		}
	}

	return false
}

// emit publishes a diagnostic event. Telemetry never affects the outcome, so
// publish failures are logged and swallowed.
func (s *Service) emit(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.DebugContext(ctx, "Failed to publish submission event", "eventType", event.GetType(), "error", err)
	}
}
