package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
)

// InstructorHandler serves the instructor views.
type InstructorHandler struct {
	instructorService core.InstructorService
	logger            *zap.Logger
}

// NewInstructorHandler creates a new InstructorHandler.
func NewInstructorHandler(is core.InstructorService, logger *zap.Logger) *InstructorHandler {
	return &InstructorHandler{instructorService: is, logger: logger}
}

// ListInstructors handles GET /instructors.
func (h *InstructorHandler) ListInstructors(c *gin.Context) {
	summaries, err := h.instructorService.Summaries(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list instructors", err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetInstructor handles GET /instructors/:id.
func (h *InstructorHandler) GetInstructor(c *gin.Context) {
	detail, err := h.instructorService.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get instructor", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
