package db

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document is not found in the store.
var ErrNotFound = errors.New("document not found")

// ErrInvalidID is returned when an identifier is not in the store's id format.
var ErrInvalidID = errors.New("invalid document id")

// Collection names shared by every backend.
const (
	UsersCollection    = "users"
	ClassesCollection  = "classes"
	CartsCollection    = "carts"
	PaymentsCollection = "payments"
)

// FieldID addresses the document identifier in a Condition.
const FieldID = "_id"

// Op is a filter operator. Values match Firestore's operator strings.
type Op string

const (
	OpEqual         Op = "=="
	OpIn            Op = "in"
	OpArrayContains Op = "array-contains"
)

// Condition is one exact-match clause. Conditions in a Filter are ANDed.
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

// Filter is a conjunction of conditions.
type Filter []Condition

// Eq appends an equality condition and returns the extended filter.
func (f Filter) Eq(field string, value interface{}) Filter {
	return append(f, Condition{Field: field, Op: OpEqual, Value: value})
}

// In appends a membership condition.
func (f Filter) In(field string, values []string) Filter {
	return append(f, Condition{Field: field, Op: OpIn, Value: values})
}

// Contains appends an array-contains condition.
func (f Filter) Contains(field string, value interface{}) Filter {
	return append(f, Condition{Field: field, Op: OpArrayContains, Value: value})
}

// Query describes a find operation.
type Query struct {
	Filter     Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Document is a single stored record as returned by a backend.
type Document interface {
	ID() string
	DataTo(v interface{}) error
}

// InsertResult mirrors the store's insert acknowledgement.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult mirrors the store's update acknowledgement.
type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

// DeleteResult mirrors the store's delete acknowledgement.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// DocumentStore is the document database capability every repository is built on.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	Insert(ctx context.Context, collection string, doc interface{}) (InsertResult, error)
	// Update replaces the given fields on one document. With upsert, a missing
	// document is created holding only those fields.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}, upsert bool) (UpdateResult, error)
	Delete(ctx context.Context, collection, id string) (DeleteResult, error)
	DeleteMany(ctx context.Context, collection string, f Filter) (DeleteResult, error)
	Count(ctx context.Context, collection string, f Filter) (int64, error)
	// ValidID reports whether id is well-formed for this backend.
	ValidID(id string) bool
	Close() error
}

type identifiable interface {
	SetID(id string)
}

// decodeOne decodes a document into a new T and stamps its id.
func decodeOne[T any, PT interface {
	*T
	identifiable
}](doc Document) (*T, error) {
	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, fmt.Errorf("failed to decode document '%s': %w", doc.ID(), err)
	}
	PT(&v).SetID(doc.ID())
	return &v, nil
}

// decodeAll decodes documents in order. A nil input yields an empty, non-nil slice.
func decodeAll[T any, PT interface {
	*T
	identifiable
}](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := decodeOne[T, PT](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// checkIDs returns ErrInvalidID for the first malformed id.
func checkIDs(store DocumentStore, ids ...string) error {
	for _, id := range ids {
		if !store.ValidID(id) {
			return fmt.Errorf("%w: '%s'", ErrInvalidID, id)
		}
	}
	return nil
}
