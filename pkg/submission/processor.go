package submission

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/liftbook/liftbook/pkg/backend"
	"github.com/liftbook/liftbook/pkg/eventbus"
	"github.com/liftbook/liftbook/pkg/events"
	"github.com/liftbook/liftbook/pkg/models"
	"github.com/liftbook/liftbook/pkg/otelhelper"
	"github.com/liftbook/liftbook/pkg/persistence"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ProcessStatus is the tagged outcome of one flush attempt. Flush-time
// failures are reported through the result rather than an error so callers
// cannot forget to handle the offline case.
type ProcessStatus string

const (
	// StatusNone means the outbox was empty; nothing to do.
	StatusNone ProcessStatus = "none"

	// StatusSkipped means another invocation was already processing.
	StatusSkipped ProcessStatus = "skipped"

	// StatusSuccess means the backend confirmed the workout; outbox and
	// placeholder were cleared.
	StatusSuccess ProcessStatus = "success"

	// StatusOffline means a connectivity failure; outbox and placeholder
	// were left untouched for a later retry with the same dedup token.
	StatusOffline ProcessStatus = "offline"

	// StatusError means a terminal failure; the entry content was demoted
	// back into the draft and the outbox and placeholder cleared.
	StatusError ProcessStatus = "error"
)

// ProcessResult is the outcome of a single Process call.
type ProcessResult struct {
	Status      ProcessStatus
	Placeholder *models.Placeholder
	Workout     *models.Workout
	Err         error // Underlying failure for offline and error outcomes
}

// Processor flushes the outbox: it reads the pending entry, calls the
// backend once, classifies the outcome, and drives the stores through their
// transitions. It never schedules its own retries; triggers arrive from
// outside (right after submit, on a cron tick, on demand).
type Processor struct {
	persistence persistence.Persistence
	sessions    backend.SessionProvider
	api         backend.WorkoutAPI
	publisher   eventbus.EventPublisher
	logger      *slog.Logger

	// Re-entrancy guard, not a cross-process lock. Claimed before the first
	// blocking call so overlapping triggers cannot both proceed.
	busy atomic.Bool
}

// NewProcessor creates a processor. publisher may be nil.
func NewProcessor(
	p persistence.Persistence,
	sessions backend.SessionProvider,
	api backend.WorkoutAPI,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		persistence: p,
		sessions:    sessions,
		api:         api,
		publisher:   publisher,
		logger:      logger,
	}
}

// Process performs one flush attempt. Store read/write failures are returned
// as errors; submission outcomes (success, offline, terminal) are reported in
// the result. A nil error always comes with a non-nil result.
func (p *Processor) Process(ctx context.Context) (*ProcessResult, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return &ProcessResult{Status: StatusSkipped}, nil
	}
	defer p.busy.Store(false)

	ctx, span := otel.Tracer("liftbook/submission").Start(ctx, "processor.process")
	defer span.End()

	result, err := p.process(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.OutcomeKey, string(result.Status)))

	return result, nil
}

func (p *Processor) process(ctx context.Context) (*ProcessResult, error) {
	entry, err := p.persistence.OutboxRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read outbox: %w", err)
	}

	if entry == nil {
		return &ProcessResult{Status: StatusNone}, nil
	}

	placeholder, err := p.persistence.PlaceholderRepository().Get(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to load placeholder during flush", "error", err)
	}

	p.emit(ctx, entry.UserID, events.SubmissionProcessing{
		BaseEvent:  events.NewBaseEvent(events.SubmissionProcessingEvent, entry.UserID),
		DedupToken: entry.DedupToken,
	})

	session, err := p.sessions.CurrentSession(ctx)
	if err != nil || session == nil {
		// Identity loss is not a connectivity problem; retrying without the
		// user signing back in will not help.
		if err == nil {
			err = backend.ErrMissingSession
		}

		return p.fail(ctx, entry, placeholder, err)
	}

	workout, err := p.api.CreateWorkout(ctx, session.Token, buildCreateRequest(entry))
	if err == nil && (workout == nil || workout.ID == "") {
		// Never trust a bare "ok": without the confirmed entity the
		// placeholder could not be replaced by anything real.
		err = backend.ErrEmptyResponse
	}

	if err != nil {
		if Classify(err) == ClassOffline {
			p.logger.InfoContext(ctx, "Flush hit connectivity failure, keeping entry for retry",
				"dedupToken", entry.DedupToken, "error", err)
			p.emit(ctx, entry.UserID, events.SubmissionOffline{
				BaseEvent:  events.NewBaseEvent(events.SubmissionOfflineEvent, entry.UserID),
				DedupToken: entry.DedupToken,
				Reason:     err.Error(),
			})

			return &ProcessResult{Status: StatusOffline, Placeholder: placeholder, Err: err}, nil
		}

		return p.fail(ctx, entry, placeholder, err)
	}

	if err := p.clearPending(ctx); err != nil {
		// The workout landed; the stale entry will be retried with the same
		// token and collapsed server-side, so surface the store failure.
		return nil, err
	}

	p.logger.InfoContext(ctx, "Submission confirmed", "dedupToken", entry.DedupToken, "workoutId", workout.ID)
	p.emit(ctx, entry.UserID, events.SubmissionSucceeded{
		BaseEvent:  events.NewBaseEvent(events.SubmissionSucceededEvent, entry.UserID),
		DedupToken: entry.DedupToken,
		WorkoutID:  workout.ID,
	})

	return &ProcessResult{Status: StatusSuccess, Placeholder: placeholder, Workout: workout}, nil
}

// fail handles a terminal outcome: the entry content is folded back into the
// draft (overwriting whatever draft exists — the failed submission carries
// the more complete, user-confirmed intent), then outbox and placeholder are
// cleared.
func (p *Processor) fail(ctx context.Context, entry *models.OutboxEntry, placeholder *models.Placeholder, cause error) (*ProcessResult, error) {
	if err := p.persistence.DraftRepository().Save(ctx, entry.ToDraft()); err != nil {
		// Keep the entry rather than risk dropping the content; the next
		// trigger retries the whole sequence.
		return nil, fmt.Errorf("failed to demote submission to draft: %w", err)
	}

	if err := p.clearPending(ctx); err != nil {
		return nil, err
	}

	p.logger.WarnContext(ctx, "Submission failed terminally, content demoted to draft",
		"dedupToken", entry.DedupToken, "error", cause)
	p.emit(ctx, entry.UserID, events.SubmissionFailed{
		BaseEvent:  events.NewBaseEvent(events.SubmissionFailedEvent, entry.UserID),
		DedupToken: entry.DedupToken,
		Error:      cause.Error(),
	})

	return &ProcessResult{Status: StatusError, Placeholder: placeholder, Err: cause}, nil
}

func (p *Processor) clearPending(ctx context.Context) error {
	if err := p.persistence.OutboxRepository().Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear outbox: %w", err)
	}

	if err := p.persistence.PlaceholderRepository().Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear placeholder: %w", err)
	}

	return nil
}

func buildCreateRequest(entry *models.OutboxEntry) *backend.CreateWorkoutRequest {
	return &backend.CreateWorkoutRequest{
		Notes:                 entry.Notes,
		Title:                 entry.Title,
		ImageURL:              entry.ImageURL,
		WeightUnit:            entry.WeightUnit,
		DedupToken:            entry.DedupToken,
		RoutineID:             entry.RoutineID,
		DurationSeconds:       entry.DurationSeconds,
		Description:           entry.Description,
		Exercises:             entry.Exercises,
		IsStructuredMode:      entry.IsStructuredMode,
		PerformedAt:           entry.PerformedAt,
		TimezoneOffsetMinutes: entry.TimezoneOffsetMinutes,
	}
}

func (p *Processor) emit(ctx context.Context, key string, event eventbus.Event) {
	if p.publisher == nil {
		return
	}

	if err := p.publisher.Publish(ctx, key, event); err != nil {
		p.logger.DebugContext(ctx, "Failed to publish submission event", "eventType", event.GetType(), "error", err)
	}
}
