package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
)

// ProblemDetail is an RFC 7807 error body.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Remedy   string `json:"remedy,omitempty"`
}

func problemResponse(c *fiber.Ctx, status int, errType, title, detail string) error {
	return c.Status(status).JSON(ProblemDetail{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Path(),
	})
}

// commandProblem maps an orchestrator error to a problem response.
// Infrastructure errors fall through to the error handler.
func commandProblem(c *fiber.Ctx, err error) error {
	status, title := statusFor(err)
	if status == fiber.StatusInternalServerError {
		return err
	}
	return c.Status(status).JSON(ProblemDetail{
		Type:     orchestrator.StatusOf(err),
		Title:    title,
		Status:   status,
		Detail:   err.Error(),
		Instance: c.Path(),
		Remedy:   engineering.RemedyOf(err),
	})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, engineering.ErrNoProject):
		return fiber.StatusNotFound, "No Project"
	case errors.Is(err, engineering.ErrNotFound):
		return fiber.StatusNotFound, "Not Found"
	case errors.Is(err, orchestrator.ErrUnknownCommand):
		return fiber.StatusNotFound, "Unknown Command"
	case errors.Is(err, engineering.ErrUnknownStep):
		return fiber.StatusBadRequest, "Unknown Scoping Step"
	case errors.Is(err, engineering.ErrInvalidRole):
		return fiber.StatusBadRequest, "Invalid Agent Role"
	case errors.Is(err, engineering.ErrInvalidArgument):
		return fiber.StatusBadRequest, "Invalid Argument"
	case errors.Is(err, engineering.ErrPrecondition):
		return fiber.StatusUnprocessableEntity, "Precondition Failed"
	case errors.Is(err, engineering.ErrConflict):
		return fiber.StatusConflict, "Conflict"
	default:
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}
