package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/services"
	"github.com/taskflow/taskflow-api/internal/validation"
)

// respondError maps service errors onto API error responses. Unexpected
// errors are attached to the context for the request logger and reported
// with the generic message only.
func respondError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		apierrors.ValidationFailed(c, fieldErrs)
	case errors.Is(err, services.ErrUserExists):
		apierrors.AlreadyExists(c, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrGenerateTextRequired):
		apierrors.BadRequest(c, "Text is required")
	case errors.Is(err, services.ErrGenerateTextTooLong):
		apierrors.BadRequest(c, "Text is too long")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, "No tasks could be generated from the provided text")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, services.ErrAIUpstream):
		_ = c.Error(err)
		apierrors.BadGateway(c, "Failed to generate tasks")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
