package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/models"
)

// ClassHandler handles class catalog and moderation endpoints.
type ClassHandler struct {
	classService core.ClassService
	logger       *zap.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(cs core.ClassService, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{classService: cs, logger: logger}
}

func classFilterFromQuery(c *gin.Context) db.ClassFilter {
	return db.ClassFilter{
		InstructorEmail: c.Query("instructorEmail"),
		Status:          c.Query("status"),
	}
}

// ListClasses handles GET /class?instructorEmail=&status=.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context(), classFilterFromQuery(c))
	if err != nil {
		respondError(c, h.logger, "list classes", err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// TopClasses handles GET /class/top.
func (h *ClassHandler) TopClasses(c *gin.Context) {
	classes, err := h.classService.Top(c.Request.Context(), classFilterFromQuery(c))
	if err != nil {
		respondError(c, h.logger, "top classes", err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// EnrolledClasses handles GET /class/enrolled. Ids come either comma-separated
// (?ids=a,b) or repeated (?ids=a&ids=b).
func (h *ClassHandler) EnrolledClasses(c *gin.Context) {
	var ids []string
	for _, raw := range c.QueryArray("ids") {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	classes, err := h.classService.ListByIDs(c.Request.Context(), ids)
	if err != nil {
		respondError(c, h.logger, "enrolled classes", err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// GetClass handles GET /class/:id.
func (h *ClassHandler) GetClass(c *gin.Context) {
	class, err := h.classService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get class", err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// CreateClass handles POST /class. New classes always start as Pending.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.classService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "create class", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateClass handles PATCH /class/:id.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	var req models.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.classService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, "update class", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SetStatus handles PATCH /class/{approve,deny}/:id.
func (h *ClassHandler) SetStatus(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.classService.SetStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respondError(c, h.logger, "set class status", err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// SetFeedback handles PATCH /class/feedback/:id.
func (h *ClassHandler) SetFeedback(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.classService.SetFeedback(c.Request.Context(), c.Param("id"), req.Feedback)
	if err != nil {
		respondError(c, h.logger, "set class feedback", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
