package db

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore. Documents are held as their
// JSON form, so field names in filters are the models' json keys (which match
// the firestore and bson keys). Ids are random UUIDs.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	order []string // insertion order, used as the store-native order
	docs  map[string]map[string]interface{}
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memCollection)}
}

type memDocument struct {
	id   string
	data map[string]interface{}
}

func (d memDocument) ID() string { return d.id }

func (d memDocument) DataTo(v interface{}) error {
	raw, err := json.Marshal(d.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (s *MemoryStore) collection(name string) *memCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[string]map[string]interface{})}
		s.collections[name] = c
	}
	return c
}

func (c *memCollection) remove(id string) {
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// toJSONMap converts any JSON-encodable value into its generic map form.
func toJSONMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	delete(m, FieldID)
	return m, nil
}

// normalize gives a value the same representation it would have after a JSON round trip.
func normalize(v interface{}) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("document '%s' in '%s': %w", id, collection, ErrNotFound)
	}
	data, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("document '%s' in '%s': %w", id, collection, ErrNotFound)
	}
	return memDocument{id: id, data: copyMap(data)}, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[collection]
	if !ok {
		return []Document{}, nil
	}

	var docs []memDocument
	// Insertion order is the natural order, as with a collection scan.
	for _, id := range c.order {
		data := c.docs[id]
		if matches(q.Filter, id, data) {
			docs = append(docs, memDocument{id: id, data: copyMap(data)})
		}
	}

	if q.OrderBy != "" {
		// Stable, so equal keys keep insertion order.
		sort.SliceStable(docs, func(i, j int) bool {
			cmp := compareValues(docs[i].data[q.OrderBy], docs[j].data[q.OrderBy])
			if q.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}

	out := make([]Document, len(docs))
	for i := range docs {
		out[i] = docs[i]
	}
	return out, nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, doc interface{}) (InsertResult, error) {
	data, err := toJSONMap(doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("failed to encode document for '%s': %w", collection, err)
	}
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	c.docs[id] = data
	c.order = append(c.order, id)
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}, upsert bool) (UpdateResult, error) {
	set, err := toJSONMap(fields)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to encode update for '%s': %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	existing, ok := c.docs[id]
	if !ok {
		if !upsert {
			return UpdateResult{Acknowledged: true}, nil
		}
		c.docs[id] = set
		c.order = append(c.order, id)
		return UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
	}

	changed := false
	for k, v := range set {
		if old, present := existing[k]; !present || !reflect.DeepEqual(old, v) {
			changed = true
		}
		existing[k] = v
	}
	res := UpdateResult{Acknowledged: true, MatchedCount: 1}
	if changed {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	if _, ok := c.docs[id]; !ok {
		return DeleteResult{Acknowledged: true}, nil
	}
	c.remove(id)
	return DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (s *MemoryStore) DeleteMany(ctx context.Context, collection string, f Filter) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	var doomed []string
	for _, id := range c.order {
		if matches(f, id, c.docs[id]) {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		c.remove(id)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: int64(len(doomed))}, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, f Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	var n int64
	for _, id := range c.order {
		if matches(f, id, c.docs[id]) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *MemoryStore) Close() error { return nil }

func matches(f Filter, id string, data map[string]interface{}) bool {
	for _, cond := range f {
		var actual interface{}
		if cond.Field == FieldID {
			actual = id
		} else {
			actual = data[cond.Field]
		}

		switch cond.Op {
		case OpEqual:
			if !reflect.DeepEqual(normalize(cond.Value), actual) {
				return false
			}
		case OpIn:
			values, _ := normalize(cond.Value).([]interface{})
			found := false
			for _, v := range values {
				if reflect.DeepEqual(v, actual) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case OpArrayContains:
			elems, _ := actual.([]interface{})
			want := normalize(cond.Value)
			found := false
			for _, e := range elems {
				if reflect.DeepEqual(e, want) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues orders numbers numerically, RFC 3339 strings chronologically
// and other strings lexically. Missing values sort first.
func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 1
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, ok := b.(string)
		if !ok {
			return 1
		}
		at, aerr := time.Parse(time.RFC3339Nano, av)
		bt, berr := time.Parse(time.RFC3339Nano, bv)
		if aerr == nil && berr == nil {
			return at.Compare(bt)
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case nil:
		if b == nil {
			return 0
		}
		return -1
	}
	return 0
}
