package core

import (
	"context"

	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/models"
)

type cartService struct {
	cartRepo db.CartRepository
}

// NewCartService creates a new CartService instance.
func NewCartService(cartRepo db.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

// ListByEmail returns an empty list when email is empty.
func (s *cartService) ListByEmail(ctx context.Context, email string) ([]models.CartItem, error) {
	if email == "" {
		return []models.CartItem{}, nil
	}
	items, err := s.cartRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, storeError("list cart", err)
	}
	return items, nil
}

func (s *cartService) Add(ctx context.Context, req models.AddCartItemRequest) (db.InsertResult, error) {
	item := &models.CartItem{
		Email:           req.Email,
		ClassID:         req.ClassID,
		ClassName:       req.ClassName,
		InstructorName:  req.InstructorName,
		InstructorEmail: req.InstructorEmail,
		Image:           req.Image,
		Price:           req.Price,
		Seats:           req.Seats,
	}
	res, err := s.cartRepo.Create(ctx, item)
	if err != nil {
		return db.InsertResult{}, storeError("add cart item", err)
	}
	return res, nil
}

func (s *cartService) Remove(ctx context.Context, itemID string) (db.DeleteResult, error) {
	res, err := s.cartRepo.Delete(ctx, itemID)
	if err != nil {
		return db.DeleteResult{}, storeError("remove cart item", err)
	}
	return res, nil
}
