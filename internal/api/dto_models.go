package api

import "summercamp-backend-go/internal/core"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is a plain informational reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by POST /jwt.
type TokenResponse struct {
	Token string `json:"token"`
}

// ClientSecretResponse is returned by POST /create-payment-intent.
type ClientSecretResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CountResponse is returned by GET /payments/count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// PaymentErrorResponse reports a payment whose cart items were not cleared.
// The payment itself was stored, so its insert result is included.
type PaymentErrorResponse struct {
	ErrorResponse
	InsertResult interface{} `json:"insertResult"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Store   string `json:"store"`
}

func newPaymentErrorResponse(result *core.PaymentResult) PaymentErrorResponse {
	return PaymentErrorResponse{
		ErrorResponse: ErrorResponse{Error: true, Message: core.ErrCartClearFailed.Error()},
		InsertResult:  result.InsertResult,
	}
}
