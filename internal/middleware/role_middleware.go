package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
)

// RequireRole lets the request through only when the verified caller's stored
// user record holds role. It must run after VerifyToken.
func RequireRole(users core.UserService, role string, logger *zap.Logger) gin.HandlerFunc {
	if users == nil {
		panic("RequireRole requires a non-nil UserService")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: true, Message: core.ErrUnauthorized.Error()})
			return
		}

		allowed, err := users.HasRole(c.Request.Context(), identity.Email, role)
		if err != nil {
			logger.Error("Role lookup failed", zap.String("email", identity.Email), zap.String("role", role), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: true, Message: core.ErrInternal.Error()})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: true, Message: core.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}
