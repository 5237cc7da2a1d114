package core

import (
	"context"

	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/models"
)

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Sign(identity models.Identity) (string, error)
	// Verify returns the identity inside token, or an error wrapping ErrForbidden.
	Verify(token string) (*models.Identity, error)
}

// UserService defines the interface for user-related operations.
type UserService interface {
	// CreateIfAbsent inserts a user unless one with the same email exists.
	// The bool reports whether an insert happened.
	CreateIfAbsent(ctx context.Context, req models.CreateUserRequest) (*db.InsertResult, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role string) ([]models.User, error)
	// HasRole reports whether the user with email exists and holds role exactly.
	HasRole(ctx context.Context, email, role string) (bool, error)
	SetRole(ctx context.Context, userID, role string) (db.UpdateResult, error)
	Delete(ctx context.Context, userID string) (db.DeleteResult, error)
}

// ClassService defines the interface for class-related operations.
type ClassService interface {
	List(ctx context.Context, filter db.ClassFilter) ([]models.Class, error)
	Get(ctx context.Context, classID string) (*models.Class, error)
	ListByIDs(ctx context.Context, classIDs []string) ([]models.Class, error)
	Top(ctx context.Context, filter db.ClassFilter) ([]models.Class, error)
	Create(ctx context.Context, req models.CreateClassRequest) (db.InsertResult, error)
	Update(ctx context.Context, classID string, req models.UpdateClassRequest) (db.UpdateResult, error)
	SetStatus(ctx context.Context, classID, status string) (db.UpdateResult, error)
	SetFeedback(ctx context.Context, classID, feedback string) (db.UpdateResult, error)
}

// InstructorService assembles instructor views from users and classes.
type InstructorService interface {
	Summaries(ctx context.Context) ([]models.InstructorSummary, error)
	Detail(ctx context.Context, userID string) (*models.InstructorDetail, error)
}

// CartService defines the interface for cart operations.
type CartService interface {
	ListByEmail(ctx context.Context, email string) ([]models.CartItem, error)
	Add(ctx context.Context, req models.AddCartItemRequest) (db.InsertResult, error)
	Remove(ctx context.Context, itemID string) (db.DeleteResult, error)
}

// PaymentService defines the interface for payment operations.
type PaymentService interface {
	CreateIntent(ctx context.Context, price float64) (string, error)
	// Record stores the payment and then clears its cart items. When the
	// second step fails the returned result still carries the insert and the
	// error wraps ErrCartClearFailed.
	Record(ctx context.Context, req models.CreatePaymentRequest) (*PaymentResult, error)
	History(ctx context.Context, email string) ([]models.Payment, error)
	CountForClass(ctx context.Context, classID string) (int64, error)
}

// PaymentIntentCreator is the card-payment provider capability.
type PaymentIntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// PaymentResult is the outcome of recording a payment.
type PaymentResult struct {
	InsertResult db.InsertResult  `json:"insertResult"`
	DeleteResult *db.DeleteResult `json:"deleteResult"`
}
