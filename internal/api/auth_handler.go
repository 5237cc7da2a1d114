package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/models"
)

// AuthHandler issues bearer tokens.
type AuthHandler struct {
	tokens core.TokenService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(tokens core.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, logger: logger}
}

// IssueToken handles POST /jwt. The body is the identity to embed in the token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var identity models.Identity
	if err := c.ShouldBindJSON(&identity); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.tokens.Sign(identity)
	if err != nil {
		respondError(c, h.logger, "sign token", err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
