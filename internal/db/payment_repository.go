package db

import (
	"context"
	"fmt"

	"summercamp-backend-go/internal/models"
)

type paymentRepository struct {
	store DocumentStore
}

// NewPaymentRepository creates a new payment repository backed by store.
func NewPaymentRepository(store DocumentStore) PaymentRepository {
	return &paymentRepository{store: store}
}

func (r *paymentRepository) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	docs, err := r.store.Find(ctx, PaymentsCollection, Query{
		Filter:     Filter{}.Eq("email", email),
		OrderBy:    "date",
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of '%s': %w", email, err)
	}
	return decodeAll[models.Payment](docs)
}

func (r *paymentRepository) CountByClassID(ctx context.Context, classID string) (int64, error) {
	n, err := r.store.Count(ctx, PaymentsCollection, Filter{}.Contains("classesId", classID))
	if err != nil {
		return 0, fmt.Errorf("failed to count payments for class '%s': %w", classID, err)
	}
	return n, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) (InsertResult, error) {
	res, err := r.store.Insert(ctx, PaymentsCollection, payment)
	if err != nil {
		return InsertResult{}, fmt.Errorf("failed to record payment for '%s': %w", payment.Email, err)
	}
	payment.ID = res.InsertedID
	return res, nil
}
