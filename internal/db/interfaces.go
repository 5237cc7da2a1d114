package db

import (
	"context"

	"summercamp-backend-go/internal/models"
)

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns every user, or only those with the given role when role is non-empty.
	List(ctx context.Context, role string) ([]models.User, error)
	Create(ctx context.Context, user *models.User) (InsertResult, error)
	// SetRole replaces the role field, creating the document when it is missing.
	SetRole(ctx context.Context, userID, role string) (UpdateResult, error)
	Delete(ctx context.Context, userID string) (DeleteResult, error)
}

// ClassFilter holds the optional exact-match filters for listing classes.
type ClassFilter struct {
	InstructorEmail string
	Status          string
}

// ClassRepository defines the interface for class data storage operations.
type ClassRepository interface {
	GetByID(ctx context.Context, classID string) (*models.Class, error)
	List(ctx context.Context, filter ClassFilter) ([]models.Class, error)
	ListByIDs(ctx context.Context, classIDs []string) ([]models.Class, error)
	// Top returns up to limit classes ordered by studentCount, highest first.
	Top(ctx context.Context, filter ClassFilter, limit int) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) (InsertResult, error)
	Update(ctx context.Context, classID string, fields map[string]interface{}, upsert bool) (UpdateResult, error)
}

// CartRepository defines the interface for cart data storage operations.
type CartRepository interface {
	ListByEmail(ctx context.Context, email string) ([]models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) (InsertResult, error)
	Delete(ctx context.Context, itemID string) (DeleteResult, error)
	DeleteByIDs(ctx context.Context, itemIDs []string) (DeleteResult, error)
}

// PaymentRepository defines the interface for payment data storage operations.
type PaymentRepository interface {
	// ListByEmail returns the payments of one user, newest first.
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
	CountByClassID(ctx context.Context, classID string) (int64, error)
	Create(ctx context.Context, payment *models.Payment) (InsertResult, error)
}
