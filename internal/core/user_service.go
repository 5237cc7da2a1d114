package core

import (
	"context"
	"errors"
	"fmt"

	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// CreateIfAbsent looks the user up by email and inserts it when missing.
// Two concurrent calls with the same email can both insert.
func (s *userService) CreateIfAbsent(ctx context.Context, req models.CreateUserRequest) (*db.InsertResult, bool, error) {
	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, storeError("look up user", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  role,
		Image: req.Image,
	}
	res, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, false, storeError("create user", err)
	}
	return &res, true, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError("get user by email", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, role string) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

func (s *userService) HasRole(ctx context.Context, email, role string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, storeError("get user role", err)
	}
	return user.Role == role, nil
}

// SetRole writes role without checking that the user exists; a missing id
// results in a new document holding only the role.
func (s *userService) SetRole(ctx context.Context, userID, role string) (db.UpdateResult, error) {
	res, err := s.userRepo.SetRole(ctx, userID, role)
	if err != nil {
		return db.UpdateResult{}, storeError("set user role", err)
	}
	return res, nil
}

func (s *userService) Delete(ctx context.Context, userID string) (db.DeleteResult, error) {
	res, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return db.DeleteResult{}, storeError("delete user", err)
	}
	return res, nil
}
