package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/middleware"
	"summercamp-backend-go/internal/models"
)

// CartHandler handles the shopping cart endpoints.
type CartHandler struct {
	cartService core.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cs core.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cartService: cs, logger: logger}
}

// ListCart handles GET /carts?email=. Callers may only read their own cart.
func (h *CartHandler) ListCart(c *gin.Context) {
	email := c.Query("email")
	if !ownsEmail(c, email) {
		respondError(c, h.logger, "list cart", core.ErrForbidden)
		return
	}
	items, err := h.cartService.ListByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.logger, "list cart", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToCart handles POST /carts.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.cartService.Add(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "add cart item", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RemoveFromCart handles DELETE /carts/:id.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	res, err := h.cartService.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "remove cart item", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ownsEmail reports whether email is empty or belongs to the verified caller.
func ownsEmail(c *gin.Context, email string) bool {
	if email == "" {
		return true
	}
	identity, ok := middleware.IdentityFrom(c)
	return ok && identity.Email == email
}
