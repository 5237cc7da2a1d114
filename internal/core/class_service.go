package core

import (
	"context"
	"fmt"

	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/models"
)

// TopClassesLimit is how many classes the ranking returns.
const TopClassesLimit = 6

type classService struct {
	classRepo db.ClassRepository
}

// NewClassService creates a new ClassService instance.
func NewClassService(classRepo db.ClassRepository) ClassService {
	return &classService{classRepo: classRepo}
}

func (s *classService) List(ctx context.Context, filter db.ClassFilter) ([]models.Class, error) {
	classes, err := s.classRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError("list classes", err)
	}
	return classes, nil
}

func (s *classService) Get(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, storeError("get class", err)
	}
	return class, nil
}

func (s *classService) ListByIDs(ctx context.Context, classIDs []string) ([]models.Class, error) {
	classes, err := s.classRepo.ListByIDs(ctx, classIDs)
	if err != nil {
		return nil, storeError("list classes by id", err)
	}
	return classes, nil
}

func (s *classService) Top(ctx context.Context, filter db.ClassFilter) ([]models.Class, error) {
	classes, err := s.classRepo.Top(ctx, filter, TopClassesLimit)
	if err != nil {
		return nil, storeError("rank classes", err)
	}
	return classes, nil
}

// Create stores a new class. Every class starts Pending with no students,
// whatever the request says.
func (s *classService) Create(ctx context.Context, req models.CreateClassRequest) (db.InsertResult, error) {
	class := &models.Class{
		InstructorName:  req.InstructorName,
		InstructorEmail: req.InstructorEmail,
		ClassName:       req.ClassName,
		Seats:           req.Seats,
		Price:           req.Price,
		Image:           req.Image,
		Status:          models.StatusPending,
	}
	res, err := s.classRepo.Create(ctx, class)
	if err != nil {
		return db.InsertResult{}, storeError("create class", err)
	}
	return res, nil
}

func (s *classService) Update(ctx context.Context, classID string, req models.UpdateClassRequest) (db.UpdateResult, error) {
	fields := map[string]interface{}{}
	if req.ClassName != nil {
		fields["className"] = *req.ClassName
	}
	if req.Seats != nil {
		fields["seats"] = *req.Seats
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.StudentCount != nil {
		fields["studentCount"] = *req.StudentCount
	}
	if len(fields) == 0 {
		return db.UpdateResult{}, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	res, err := s.classRepo.Update(ctx, classID, fields, false)
	if err != nil {
		return db.UpdateResult{}, storeError("update class", err)
	}
	return res, nil
}

// SetStatus moves a class to status. Like the other admin transitions it is
// an upsert, so an unknown id creates a document holding only the status.
func (s *classService) SetStatus(ctx context.Context, classID, status string) (db.UpdateResult, error) {
	if status != models.StatusApproved && status != models.StatusDenied && status != models.StatusPending {
		return db.UpdateResult{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	res, err := s.classRepo.Update(ctx, classID, map[string]interface{}{"status": status}, true)
	if err != nil {
		return db.UpdateResult{}, storeError("set class status", err)
	}
	return res, nil
}

func (s *classService) SetFeedback(ctx context.Context, classID, feedback string) (db.UpdateResult, error) {
	res, err := s.classRepo.Update(ctx, classID, map[string]interface{}{"feedback": feedback}, true)
	if err != nil {
		return db.UpdateResult{}, storeError("set class feedback", err)
	}
	return res, nil
}
