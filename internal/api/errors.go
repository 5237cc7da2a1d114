package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
)

// statusForError maps the core error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error for err. Server-side failures are
// logged with their cause and answered with a generic message.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: true, Message: core.ErrInternal.Error()})
		return
	}

	resp := ErrorResponse{Error: true}
	switch status {
	case http.StatusBadRequest:
		resp.Message = core.ErrValidation.Error()
		resp.Details = err.Error()
	case http.StatusUnauthorized:
		resp.Message = core.ErrUnauthorized.Error()
	case http.StatusForbidden:
		resp.Message = core.ErrForbidden.Error()
	case http.StatusNotFound:
		resp.Message = core.ErrNotFound.Error()
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// respondBindError answers a request body or query that failed binding.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: true, Message: core.ErrValidation.Error(), Details: err.Error()})
}
