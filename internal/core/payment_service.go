package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/events"
	"summercamp-backend-go/internal/models"
)

// MaxIntentPrice is the largest price accepted for a payment intent. It
// matches the provider's eight-digit cap on amounts in the smallest unit.
const MaxIntentPrice = 999999.99

type paymentService struct {
	paymentRepo db.PaymentRepository
	cartRepo    db.CartRepository
	intents     PaymentIntentCreator
	publisher   events.Publisher
	currency    string
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService instance. A nil publisher
// disables payment events.
func NewPaymentService(
	paymentRepo db.PaymentRepository,
	cartRepo db.CartRepository,
	intents PaymentIntentCreator,
	publisher events.Publisher,
	currency string,
	logger *zap.Logger,
) PaymentService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if currency == "" {
		currency = "usd"
	}
	return &paymentService{
		paymentRepo: paymentRepo,
		cartRepo:    cartRepo,
		intents:     intents,
		publisher:   publisher,
		currency:    currency,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateIntent converts price to the smallest currency unit and asks the
// provider for a client secret.
func (s *paymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	// Checked before the conversion; a float beyond int64 range has no
	// defined int64 value. The negated form also rejects NaN.
	if !(price <= MaxIntentPrice) {
		return "", fmt.Errorf("%w: price too large", ErrValidation)
	}
	amount := int64(math.Round(price * 100))
	if amount <= 0 {
		return "", fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	secret, err := s.intents.CreatePaymentIntent(ctx, amount, s.currency)
	if err != nil {
		return "", fmt.Errorf("%w: create payment intent: %v", ErrInternal, err)
	}
	return secret, nil
}

// Record runs two independent steps: insert the payment, then delete the
// referenced cart items. A failure in the second step leaves the payment in place.
func (s *paymentService) Record(ctx context.Context, req models.CreatePaymentRequest) (*PaymentResult, error) {
	date := s.now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	payment := &models.Payment{
		Email:         req.Email,
		TransactionID: req.TransactionID,
		Price:         req.Price,
		Date:          date,
		Quantity:      req.Quantity,
		CartItemsID:   nonNil(req.CartItemsID),
		ClassesID:     nonNil(req.ClassesID),
		ClassNames:    req.ClassNames,
	}

	inserted, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, storeError("record payment", err)
	}
	result := &PaymentResult{InsertResult: inserted}

	// No rollback: the payment stays even if the cart cannot be cleared.
	deleted, deleteErr := s.cartRepo.DeleteByIDs(ctx, payment.CartItemsID)
	if deleteErr == nil {
		result.DeleteResult = &deleted
	}

	event := events.PaymentRecorded{
		PaymentID:     payment.ID,
		Email:         payment.Email,
		TransactionID: payment.TransactionID,
		Price:         payment.Price,
		Date:          payment.Date,
		ClassesID:     payment.ClassesID,
		ClassNames:    payment.ClassNames,
	}
	// The payment is stored either way, so the receipt event goes out before
	// the cart error is returned. Publish failures are only logged.
	if err := s.publisher.PublishPaymentRecorded(ctx, event); err != nil {
		s.logger.Warn("Failed to publish payment event", zap.String("paymentId", payment.ID), zap.Error(err))
	}

	if deleteErr != nil {
		return result, fmt.Errorf("%w: payment %s: %v", ErrCartClearFailed, payment.ID, deleteErr)
	}
	return result, nil
}

// History returns an empty list when email is empty.
func (s *paymentService) History(ctx context.Context, email string) ([]models.Payment, error) {
	if email == "" {
		return []models.Payment{}, nil
	}
	payments, err := s.paymentRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, storeError("list payments", err)
	}
	return payments, nil
}

func (s *paymentService) CountForClass(ctx context.Context, classID string) (int64, error) {
	if classID == "" {
		return 0, fmt.Errorf("%w: classId is required", ErrValidation)
	}
	n, err := s.paymentRepo.CountByClassID(ctx, classID)
	if err != nil {
		return 0, storeError("count payments", err)
	}
	return n, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
