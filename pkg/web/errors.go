package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/liftbook/liftbook/pkg/persistence"
	"github.com/liftbook/liftbook/pkg/submission"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleSubmissionError provides typed error handling for submission service errors.
func handleSubmissionError(c fiber.Ctx, err error) error {
	switch {
	case submission.IsValidationError(err):
		problem := problems.NewStatusProblem(400).
			WithInstance(c.Path()).
			WithType("validation_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)

	case submission.IsImageUploadError(err):
		problem := problems.NewStatusProblem(502).
			WithInstance(c.Path()).
			WithType("image_upload_failed").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadGateway).JSON(problem)

	case persistence.IsStoreUnavailable(err):
		problem := problems.NewStatusProblem(503).
			WithInstance(c.Path()).
			WithType("store_unavailable").
			WithDetail(err.Error())

		return c.Status(fiber.StatusServiceUnavailable).JSON(problem)

	default:
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error").
			WithError(err)

		return c.Status(fiber.StatusInternalServerError).JSON(problem)
	}
}
