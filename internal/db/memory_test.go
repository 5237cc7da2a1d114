package db

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testDoc struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func insertAll(t *testing.T, s *MemoryStore, collection string, docs ...testDoc) []string {
	t.Helper()
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		res, err := s.Insert(context.Background(), collection, d)
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if !res.Acknowledged || res.InsertedID == "" {
			t.Fatalf("Insert result = %+v", res)
		}
		ids = append(ids, res.InsertedID)
	}
	return ids
}

func TestMemoryStoreGet(t *testing.T) {
	s := NewMemoryStore()
	ids := insertAll(t, s, "things", testDoc{Name: "a", Count: 2})

	doc, err := s.Get(context.Background(), "things", ids[0])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var got testDoc
	if err := doc.DataTo(&got); err != nil {
		t.Fatalf("DataTo: %v", err)
	}
	if doc.ID() != ids[0] || got.Name != "a" || got.Count != 2 {
		t.Errorf("Get = %s %+v", doc.ID(), got)
	}

	if _, err := s.Get(context.Background(), "things", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(context.Background(), "nothing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty collection error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreFind(t *testing.T) {
	s := NewMemoryStore()
	ids := insertAll(t, s, "things",
		testDoc{Name: "a", Email: "x@example.com", Count: 1, Tags: []string{"t1"}},
		testDoc{Name: "b", Email: "y@example.com", Count: 5, Tags: []string{"t1", "t2"}},
		testDoc{Name: "c", Email: "x@example.com", Count: 5},
		testDoc{Name: "d", Email: "x@example.com", Count: 3},
	)
	ctx := context.Background()

	names := func(docs []Document) []string {
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			var v testDoc
			if err := d.DataTo(&v); err != nil {
				t.Fatalf("DataTo: %v", err)
			}
			out = append(out, v.Name)
		}
		return out
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all in insertion order", Query{}, []string{"a", "b", "c", "d"}},
		{"equality", Query{Filter: Filter{}.Eq("email", "x@example.com")}, []string{"a", "c", "d"}},
		{"equality on number", Query{Filter: Filter{}.Eq("count", 5)}, []string{"b", "c"}},
		{"and", Query{Filter: Filter{}.Eq("email", "x@example.com").Eq("count", 5)}, []string{"c"}},
		{"id in", Query{Filter: Filter{}.In(FieldID, []string{ids[3], ids[0], "nope"})}, []string{"a", "d"}},
		{"array contains", Query{Filter: Filter{}.Contains("tags", "t1")}, []string{"a", "b"}},
		{"descending with stable ties", Query{OrderBy: "count", Descending: true}, []string{"b", "c", "d", "a"}},
		{"ascending", Query{OrderBy: "count"}, []string{"a", "d", "b", "c"}},
		{"limit", Query{OrderBy: "count", Descending: true, Limit: 2}, []string{"b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := s.Find(ctx, "things", tt.query)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			got := names(docs)
			if len(got) != len(tt.want) {
				t.Fatalf("Find = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Find = %v, want %v", got, tt.want)
				}
			}
		})
	}

	docs, err := s.Find(ctx, "empty", Query{})
	if err != nil || docs == nil || len(docs) != 0 {
		t.Errorf("Find on empty collection = %v, %v", docs, err)
	}
}

func TestMemoryStoreOrdersTimes(t *testing.T) {
	type dated struct {
		Label string    `json:"label"`
		Date  time.Time `json:"date"`
	}
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for _, d := range []dated{
		{"middle", base.Add(time.Hour)},
		{"oldest", base},
		{"newest", base.Add(25 * time.Hour)},
	} {
		if _, err := s.Insert(ctx, "dated", d); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	docs, err := s.Find(ctx, "dated", Query{OrderBy: "date", Descending: true})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	for i, doc := range docs {
		var v dated
		if err := doc.DataTo(&v); err != nil {
			t.Fatalf("DataTo: %v", err)
		}
		if v.Label != want[i] {
			t.Errorf("position %d = %s, want %s", i, v.Label, want[i])
		}
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ids := insertAll(t, s, "things", testDoc{Name: "a", Count: 1})

	res, err := s.Update(ctx, "things", ids[0], map[string]interface{}{"count": 4}, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.MatchedCount != 1 || res.ModifiedCount != 1 || res.UpsertedCount != 0 {
		t.Errorf("Update result = %+v", res)
	}

	res, err = s.Update(ctx, "things", ids[0], map[string]interface{}{"count": 4}, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.MatchedCount != 1 || res.ModifiedCount != 0 {
		t.Errorf("unchanged Update result = %+v", res)
	}

	missing := "11111111-1111-1111-1111-111111111111"
	res, err = s.Update(ctx, "things", missing, map[string]interface{}{"count": 9}, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.MatchedCount != 0 || res.UpsertedCount != 0 {
		t.Errorf("Update of missing doc = %+v", res)
	}
	if _, err := s.Get(ctx, "things", missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("plain update created a document")
	}

	res, err = s.Update(ctx, "things", missing, map[string]interface{}{"name": "ghost"}, true)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.UpsertedCount != 1 || res.UpsertedID != missing {
		t.Errorf("upsert result = %+v", res)
	}
	doc, err := s.Get(ctx, "things", missing)
	if err != nil {
		t.Fatalf("Get upserted: %v", err)
	}
	var got testDoc
	if err := doc.DataTo(&got); err != nil {
		t.Fatalf("DataTo: %v", err)
	}
	if got.Name != "ghost" || got.Email != "" || got.Count != 0 {
		t.Errorf("upserted doc = %+v, want only name set", got)
	}
}

func TestMemoryStoreDeleteAndCount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ids := insertAll(t, s, "things",
		testDoc{Name: "a", Tags: []string{"k"}},
		testDoc{Name: "b", Tags: []string{"k", "j"}},
		testDoc{Name: "c"},
	)

	n, err := s.Count(ctx, "things", Filter{}.Contains("tags", "k"))
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v; want 2", n, err)
	}

	res, err := s.Delete(ctx, "things", ids[2])
	if err != nil || res.DeletedCount != 1 {
		t.Fatalf("Delete = %+v, %v", res, err)
	}
	res, err = s.Delete(ctx, "things", ids[2])
	if err != nil || res.DeletedCount != 0 || !res.Acknowledged {
		t.Fatalf("second Delete = %+v, %v", res, err)
	}

	res, err = s.DeleteMany(ctx, "things", Filter{}.In(FieldID, []string{ids[0], ids[1], ids[2]}))
	if err != nil || res.DeletedCount != 2 {
		t.Fatalf("DeleteMany = %+v, %v", res, err)
	}
	if n, _ := s.Count(ctx, "things", nil); n != 0 {
		t.Errorf("Count after DeleteMany = %d", n)
	}
}

func TestMemoryStoreValidID(t *testing.T) {
	s := NewMemoryStore()
	if !s.ValidID("6f1c1c36-4ab4-4c1e-9d61-1a2b3c4d5e6f") {
		t.Error("uuid rejected")
	}
	for _, id := range []string{"", "abc", "64b7f0c2e1a2b3c4d5e6f708"} {
		if s.ValidID(id) {
			t.Errorf("ValidID(%q) = true", id)
		}
	}
}
