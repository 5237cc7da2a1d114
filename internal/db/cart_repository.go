package db

import (
	"context"
	"fmt"

	"summercamp-backend-go/internal/models"
)

type cartRepository struct {
	store DocumentStore
}

// NewCartRepository creates a new cart repository backed by store.
func NewCartRepository(store DocumentStore) CartRepository {
	return &cartRepository{store: store}
}

func (r *cartRepository) ListByEmail(ctx context.Context, email string) ([]models.CartItem, error) {
	docs, err := r.store.Find(ctx, CartsCollection, Query{Filter: Filter{}.Eq("email", email)})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart of '%s': %w", email, err)
	}
	return decodeAll[models.CartItem](docs)
}

func (r *cartRepository) Create(ctx context.Context, item *models.CartItem) (InsertResult, error) {
	res, err := r.store.Insert(ctx, CartsCollection, item)
	if err != nil {
		return InsertResult{}, fmt.Errorf("failed to add cart item for '%s': %w", item.Email, err)
	}
	item.ID = res.InsertedID
	return res, nil
}

func (r *cartRepository) Delete(ctx context.Context, itemID string) (DeleteResult, error) {
	if err := checkIDs(r.store, itemID); err != nil {
		return DeleteResult{}, err
	}
	return r.store.Delete(ctx, CartsCollection, itemID)
}

func (r *cartRepository) DeleteByIDs(ctx context.Context, itemIDs []string) (DeleteResult, error) {
	if len(itemIDs) == 0 {
		return DeleteResult{Acknowledged: true}, nil
	}
	if err := checkIDs(r.store, itemIDs...); err != nil {
		return DeleteResult{}, err
	}
	return r.store.DeleteMany(ctx, CartsCollection, Filter{}.In(FieldID, itemIDs))
}
