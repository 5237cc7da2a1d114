package db

import (
	"context"
	"fmt"

	"summercamp-backend-go/internal/models"
)

type classRepository struct {
	store DocumentStore
}

// NewClassRepository creates a new class repository backed by store.
func NewClassRepository(store DocumentStore) ClassRepository {
	return &classRepository{store: store}
}

func (f ClassFilter) toFilter() Filter {
	var out Filter
	if f.InstructorEmail != "" {
		out = out.Eq("instructorEmail", f.InstructorEmail)
	}
	if f.Status != "" {
		out = out.Eq("status", f.Status)
	}
	return out
}

func (r *classRepository) GetByID(ctx context.Context, classID string) (*models.Class, error) {
	if err := checkIDs(r.store, classID); err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, ClassesCollection, classID)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Class](doc)
}

func (r *classRepository) List(ctx context.Context, filter ClassFilter) ([]models.Class, error) {
	docs, err := r.store.Find(ctx, ClassesCollection, Query{Filter: filter.toFilter()})
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return decodeAll[models.Class](docs)
}

// ListByIDs returns the classes whose ids are in classIDs. Ids without a
// matching document are skipped.
func (r *classRepository) ListByIDs(ctx context.Context, classIDs []string) ([]models.Class, error) {
	if len(classIDs) == 0 {
		return []models.Class{}, nil
	}
	if err := checkIDs(r.store, classIDs...); err != nil {
		return nil, err
	}
	docs, err := r.store.Find(ctx, ClassesCollection, Query{Filter: Filter{}.In(FieldID, classIDs)})
	if err != nil {
		return nil, fmt.Errorf("failed to list classes by id: %w", err)
	}
	return decodeAll[models.Class](docs)
}

func (r *classRepository) Top(ctx context.Context, filter ClassFilter, limit int) ([]models.Class, error) {
	docs, err := r.store.Find(ctx, ClassesCollection, Query{
		Filter:     filter.toFilter(),
		OrderBy:    "studentCount",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank classes: %w", err)
	}
	return decodeAll[models.Class](docs)
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) (InsertResult, error) {
	res, err := r.store.Insert(ctx, ClassesCollection, class)
	if err != nil {
		return InsertResult{}, fmt.Errorf("failed to create class '%s': %w", class.ClassName, err)
	}
	class.ID = res.InsertedID
	return res, nil
}

func (r *classRepository) Update(ctx context.Context, classID string, fields map[string]interface{}, upsert bool) (UpdateResult, error) {
	if err := checkIDs(r.store, classID); err != nil {
		return UpdateResult{}, err
	}
	return r.store.Update(ctx, ClassesCollection, classID, fields, upsert)
}
