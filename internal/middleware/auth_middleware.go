package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/models"
)

const identityKey = "identity"

// ErrorResponse mirrors api.ErrorResponse; it is defined here to avoid an import cycle.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// AuthMiddleware verifies bearer tokens issued by the token service.
type AuthMiddleware struct {
	tokens core.TokenService
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
// It panics if tokens is nil, since protected routes cannot work without it.
func NewAuthMiddleware(tokens core.TokenService, logger *zap.Logger) *AuthMiddleware {
	if tokens == nil {
		panic("AuthMiddleware requires a non-nil TokenService")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// VerifyToken rejects requests without a well-formed "Bearer <token>" header
// with 401 and requests whose token does not verify with 403. On success the
// decoded identity is stored in the context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: true, Message: core.ErrUnauthorized.Error()})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: true, Message: core.ErrUnauthorized.Error()})
			return
		}

		identity, err := m.tokens.Verify(parts[1])
		if err != nil {
			m.logger.Debug("Token verification failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: true, Message: core.ErrForbidden.Error()})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by VerifyToken.
func IdentityFrom(c *gin.Context) (*models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok && identity != nil
}
