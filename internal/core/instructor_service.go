package core

import (
	"context"

	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/models"
)

type instructorService struct {
	userRepo  db.UserRepository
	classRepo db.ClassRepository
}

// NewInstructorService creates a new InstructorService instance.
func NewInstructorService(userRepo db.UserRepository, classRepo db.ClassRepository) InstructorService {
	return &instructorService{userRepo: userRepo, classRepo: classRepo}
}

// Summaries lists instructors with their approved classes. One class query
// is issued per instructor.
func (s *instructorService) Summaries(ctx context.Context) ([]models.InstructorSummary, error) {
	instructors, err := s.userRepo.List(ctx, models.RoleInstructor)
	if err != nil {
		return nil, storeError("list instructors", err)
	}

	out := make([]models.InstructorSummary, 0, len(instructors))
	for _, instructor := range instructors {
		classes, err := s.classRepo.List(ctx, db.ClassFilter{
			InstructorEmail: instructor.Email,
			Status:          models.StatusApproved,
		})
		if err != nil {
			return nil, storeError("list instructor classes", err)
		}
		names := make([]string, 0, len(classes))
		for _, c := range classes {
			names = append(names, c.ClassName)
		}
		out = append(out, models.InstructorSummary{
			User:            instructor,
			ApprovedClasses: len(classes),
			ClassNames:      names,
		})
	}
	return out, nil
}

// Detail resolves the user id to an email and returns all of that user's classes.
func (s *instructorService) Detail(ctx context.Context, userID string) (*models.InstructorDetail, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError("get instructor", err)
	}
	classes, err := s.classRepo.List(ctx, db.ClassFilter{InstructorEmail: user.Email})
	if err != nil {
		return nil, storeError("list instructor classes", err)
	}
	return &models.InstructorDetail{Instructor: user, Classes: classes}, nil
}
