package db

import (
	"context"
	"errors"
	"fmt"

	"summercamp-backend-go/internal/models"
)

// userRepository implements UserRepository on any DocumentStore.
type userRepository struct {
	store DocumentStore
}

// NewUserRepository creates a new user repository backed by store.
func NewUserRepository(store DocumentStore) UserRepository {
	return &userRepository{store: store}
}

// GetByID retrieves a user document by its ID.
func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if err := checkIDs(r.store, userID); err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, UsersCollection, userID)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.User](doc)
}

// GetByEmail retrieves the first user with the given email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for GetByEmail operation")
	}
	docs, err := r.store.Find(ctx, UsersCollection, Query{Filter: Filter{}.Eq("email", email), Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to look up user '%s': %w", email, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("user with email '%s': %w", email, ErrNotFound)
	}
	return decodeOne[models.User](docs[0])
}

func (r *userRepository) List(ctx context.Context, role string) ([]models.User, error) {
	var f Filter
	if role != "" {
		f = f.Eq("role", role)
	}
	docs, err := r.store.Find(ctx, UsersCollection, Query{Filter: f})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return decodeAll[models.User](docs)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (InsertResult, error) {
	res, err := r.store.Insert(ctx, UsersCollection, user)
	if err != nil {
		return InsertResult{}, fmt.Errorf("failed to create user '%s': %w", user.Email, err)
	}
	user.ID = res.InsertedID
	return res, nil
}

func (r *userRepository) SetRole(ctx context.Context, userID, role string) (UpdateResult, error) {
	if err := checkIDs(r.store, userID); err != nil {
		return UpdateResult{}, err
	}
	return r.store.Update(ctx, UsersCollection, userID, map[string]interface{}{"role": role}, true)
}

func (r *userRepository) Delete(ctx context.Context, userID string) (DeleteResult, error) {
	if err := checkIDs(r.store, userID); err != nil {
		return DeleteResult{}, err
	}
	return r.store.Delete(ctx, UsersCollection, userID)
}
