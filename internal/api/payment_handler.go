package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/models"
)

// PaymentHandler handles checkout and payment history endpoints.
type PaymentHandler struct {
	paymentService core.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps core.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: ps, logger: logger}
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	secret, err := h.paymentService.CreateIntent(c.Request.Context(), req.Price)
	if err != nil {
		respondError(c, h.logger, "create payment intent", err)
		return
	}
	c.JSON(http.StatusOK, ClientSecretResponse{ClientSecret: secret})
}

// RecordPayment handles POST /payments.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := h.paymentService.Record(c.Request.Context(), req)
	if err != nil {
		// The payment was stored; the 500 carries its insert result.
		if errors.Is(err, core.ErrCartClearFailed) && result != nil {
			h.logger.Error("record payment failed", zap.Error(err), zap.String("paymentId", result.InsertResult.InsertedID))
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, newPaymentErrorResponse(result))
			return
		}
		respondError(c, h.logger, "record payment", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PaymentHistory handles GET /payments?email=, newest first.
func (h *PaymentHandler) PaymentHistory(c *gin.Context) {
	email := c.Query("email")
	if !ownsEmail(c, email) {
		respondError(c, h.logger, "payment history", core.ErrForbidden)
		return
	}
	payments, err := h.paymentService.History(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.logger, "payment history", err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// CountPayments handles GET /payments/count?classId=.
func (h *PaymentHandler) CountPayments(c *gin.Context) {
	count, err := h.paymentService.CountForClass(c.Request.Context(), c.Query("classId"))
	if err != nil {
		respondError(c, h.logger, "count payments", err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}
