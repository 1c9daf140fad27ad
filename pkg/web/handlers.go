package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/liftbook/liftbook/pkg/models"
	"github.com/liftbook/liftbook/pkg/persistence"
	"github.com/liftbook/liftbook/pkg/submission"
)

type APIHandlers struct {
	service     *submission.Service
	processor   *submission.Processor
	persistence persistence.Persistence
	validator   *validator.Validate
}

func NewAPIHandlers(
	service *submission.Service,
	processor *submission.Processor,
	persistence persistence.Persistence,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		service:     service,
		processor:   processor,
		persistence: persistence,
		validator:   validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Liftbook sync daemon is healthy"
	httpStatus := http.StatusOK
	repositoryCheck := "ok"

	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		message = "Liftbook sync daemon is unhealthy"
		httpStatus = http.StatusInternalServerError
		repositoryCheck = err.Error()
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// GetStatus returns a snapshot of the pipeline: whether a draft exists, the
// pending outbox entry (if any), and the optimistic placeholder.
func (h *APIHandlers) GetStatus(c fiber.Ctx) error {
	ctx := c.Context()

	draft, err := h.persistence.DraftRepository().Load(ctx)
	if err != nil {
		return internalError(c, err)
	}

	entry, err := h.persistence.OutboxRepository().Get(ctx)
	if err != nil {
		return internalError(c, err)
	}

	placeholder, err := h.persistence.PlaceholderRepository().Get(ctx)
	if err != nil {
		return internalError(c, err)
	}

	resp := StatusResponse{
		HasDraft:    draft != nil,
		Placeholder: placeholder,
	}

	if entry != nil {
		resp.Pending = &PendingSubmission{
			DedupToken:  entry.DedupToken,
			Title:       entry.Title,
			PerformedAt: entry.PerformedAt,
		}
	}

	return c.JSON(resp)
}

// SubmitWorkout queues a workout for submission. With ?flush=true it also
// runs the processor once and reports the flush outcome alongside the queued
// entry.
func (h *APIHandlers) SubmitWorkout(c fiber.Ctx) error {
	if err := validateSubmitPayload(c.Body()); err != nil {
		return badRequest(c, err.Error())
	}

	var req SubmitWorkoutRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	submitReq := submission.SubmitRequest{
		UserID:           req.UserID,
		Title:            req.Title,
		Notes:            req.Notes,
		WeightUnit:       models.WeightUnit(req.WeightUnit),
		Exercises:        req.Exercises,
		IsStructuredMode: req.IsStructuredMode,
		RoutineID:        req.RoutineID,
		DurationSeconds:  req.DurationSeconds,
		Description:      req.Description,
		ImageRef:         req.ImageRef,
	}
	if req.PerformedAt != nil {
		submitReq.PerformedAt = *req.PerformedAt
	}

	result, err := h.service.Submit(c.Context(), submitReq)
	if err != nil {
		return handleSubmissionError(c, err)
	}

	response := fiber.Map{
		"dedup_token": result.Entry.DedupToken,
		"placeholder": result.Placeholder,
		"replaced":    result.Replaced,
	}

	if flush, _ := strconv.ParseBool(c.Query("flush")); flush {
		processed, err := h.processor.Process(c.Context())
		if err != nil {
			return internalError(c, err)
		}

		response["flush"] = buildFlushResponse(processed)
	}

	return c.Status(fiber.StatusAccepted).JSON(response)
}

// Flush runs the processor once and returns the tagged outcome. Submission
// failures (offline, terminal) are part of the response, not HTTP errors.
func (h *APIHandlers) Flush(c fiber.Ctx) error {
	result, err := h.processor.Process(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(buildFlushResponse(result))
}

func buildFlushResponse(result *submission.ProcessResult) FlushResponse {
	resp := FlushResponse{
		Status:      string(result.Status),
		Placeholder: result.Placeholder,
	}

	if result.Workout != nil {
		resp.WorkoutID = result.Workout.ID
	}

	if result.Err != nil {
		resp.Error = result.Err.Error()
	}

	return resp
}
