package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"summercamp-backend-go/internal/config"
)

// Firestore rejects "in" filters with more than 30 values.
const firestoreMaxInValues = 30

// FirestoreStore implements DocumentStore on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore initializes the Firebase Admin SDK and opens a Firestore client.
// It uses credentials and project ID from the provided appConfig.
func NewFirestoreStore(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*FirestoreStore, error) {
	if appConfig == nil {
		return nil, errors.New("NewFirestoreStore: appConfig cannot be nil")
	}

	var credsOption option.ClientOption
	if appConfig.GoogleApplicationCredentials != "" {
		logger.Info("Initializing Firebase with credentials file", zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			// ADC may still work, so this is not fatal.
			logger.Warn("Credentials file in GOOGLE_APPLICATION_CREDENTIALS does not exist", zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)
	} else if appConfig.FirebaseServiceAccountJSONBase64 != "" {
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FirebaseServiceAccountJSONBase64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decodedJSON)
	} else {
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	firebaseAppConfig := &firebase.Config{ProjectID: appConfig.FirebaseProjectID}

	var app *firebase.App
	var err error
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseAppConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseAppConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	logger.Info("Firestore client initialized", zap.String("projectID", appConfig.FirebaseProjectID))
	return &FirestoreStore{client: client}, nil
}

type firestoreDocument struct {
	snap *firestore.DocumentSnapshot
}

func (d firestoreDocument) ID() string                 { return d.snap.Ref.ID }
func (d firestoreDocument) DataTo(v interface{}) error { return d.snap.DataTo(v) }

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("document '%s' in '%s': %w", id, collection, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document '%s' in '%s': %w", id, collection, err)
	}
	return firestoreDocument{snap: snap}, nil
}

// buildQuery translates a Filter into a Firestore query. FieldID conditions
// are expressed against firestore.DocumentID with document references.
func (s *FirestoreStore) buildQuery(collection string, f Filter) firestore.Query {
	coll := s.client.Collection(collection)
	query := coll.Query
	for _, cond := range f {
		if cond.Field != FieldID {
			query = query.Where(cond.Field, string(cond.Op), cond.Value)
			continue
		}
		switch v := cond.Value.(type) {
		case string:
			query = query.Where(firestore.DocumentID, string(cond.Op), coll.Doc(v))
		case []string:
			refs := make([]*firestore.DocumentRef, len(v))
			for i, id := range v {
				refs[i] = coll.Doc(id)
			}
			query = query.Where(firestore.DocumentID, string(cond.Op), refs)
		default:
			query = query.Where(firestore.DocumentID, string(cond.Op), cond.Value)
		}
	}
	return query
}

// splitInFilter breaks the first oversized "in" condition into filters that
// Firestore accepts. Filters without one are returned unchanged.
func splitInFilter(f Filter) []Filter {
	for i, cond := range f {
		values, ok := cond.Value.([]string)
		if cond.Op != OpIn || !ok || len(values) <= firestoreMaxInValues {
			continue
		}
		var out []Filter
		for start := 0; start < len(values); start += firestoreMaxInValues {
			end := min(start+firestoreMaxInValues, len(values))
			chunk := make(Filter, len(f))
			copy(chunk, f)
			chunk[i] = Condition{Field: cond.Field, Op: OpIn, Value: values[start:end]}
			out = append(out, chunk)
		}
		return out
	}
	return []Filter{f}
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	docs := []Document{}
	for _, f := range splitInFilter(q.Filter) {
		query := s.buildQuery(collection, f)
		if q.OrderBy != "" {
			dir := firestore.Asc
			if q.Descending {
				dir = firestore.Desc
			}
			query = query.OrderBy(q.OrderBy, dir)
		}
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}

		iter := query.Documents(ctx)
		for {
			snap, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, fmt.Errorf("failed to iterate '%s': %w", collection, err)
			}
			docs = append(docs, firestoreDocument{snap: snap})
		}
		iter.Stop()
	}
	return docs, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, collection string, doc interface{}) (InsertResult, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("failed to insert into '%s': %w", collection, err)
	}
	return InsertResult{Acknowledged: true, InsertedID: ref.ID}, nil
}

// Update uses Update for plain updates, so a missing document reports zero
// matches, and Set with MergeAll for upserts. The existence check before an
// upsert is not atomic with the write.
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}, upsert bool) (UpdateResult, error) {
	ref := s.client.Collection(collection).Doc(id)

	if !upsert {
		updates := make([]firestore.Update, 0, len(fields))
		for k, v := range fields {
			updates = append(updates, firestore.Update{Path: k, Value: v})
		}
		if _, err := ref.Update(ctx, updates); err != nil {
			// Missing document: matched nothing, not an error.
			if status.Code(err) == codes.NotFound {
				return UpdateResult{Acknowledged: true}, nil
			}
			return UpdateResult{}, fmt.Errorf("failed to update '%s' in '%s': %w", id, collection, err)
		}
		return UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}

	// Set does not report whether it created the document; the read decides
	// between matched and upserted counts.
	_, getErr := ref.Get(ctx)
	existed := getErr == nil
	if getErr != nil && status.Code(getErr) != codes.NotFound {
		return UpdateResult{}, fmt.Errorf("failed to read '%s' in '%s' before upsert: %w", id, collection, getErr)
	}
	if _, err := ref.Set(ctx, fields, firestore.MergeAll); err != nil {
		return UpdateResult{}, fmt.Errorf("failed to upsert '%s' in '%s': %w", id, collection, err)
	}
	if existed {
		return UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) (DeleteResult, error) {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return DeleteResult{Acknowledged: true}, nil
		}
		return DeleteResult{}, fmt.Errorf("failed to delete '%s' in '%s': %w", id, collection, err)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (s *FirestoreStore) DeleteMany(ctx context.Context, collection string, f Filter) (DeleteResult, error) {
	docs, err := s.Find(ctx, collection, Query{Filter: f})
	if err != nil {
		return DeleteResult{}, err
	}
	if len(docs) == 0 {
		return DeleteResult{Acknowledged: true}, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := bw.Delete(s.client.Collection(collection).Doc(doc.ID()))
		if err != nil {
			bw.End()
			return DeleteResult{}, fmt.Errorf("failed to queue delete of '%s' in '%s': %w", doc.ID(), collection, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	// Jobs resolve independently. Count what was deleted and report the first failure.
	var deleted int64
	var firstErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
	}
	if firstErr != nil {
		return DeleteResult{Acknowledged: true, DeletedCount: deleted}, fmt.Errorf("failed to delete from '%s': %w", collection, firstErr)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

func (s *FirestoreStore) Count(ctx context.Context, collection string, f Filter) (int64, error) {
	var total int64
	for _, chunk := range splitInFilter(f) {
		query := s.buildQuery(collection, chunk)
		results, err := query.NewAggregationQuery().WithCount("all").Get(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count '%s': %w", collection, err)
		}
		count, ok := results["all"]
		if !ok {
			return 0, fmt.Errorf("aggregation count missing for '%s'", collection)
		}
		value, ok := count.(*firestorepb.Value)
		if !ok {
			return 0, fmt.Errorf("unexpected aggregation result type %T for '%s'", count, collection)
		}
		total += value.GetIntegerValue()
	}
	return total, nil
}

// ValidID accepts any id Firestore allows as a document name.
func (s *FirestoreStore) ValidID(id string) bool {
	if id == "" || len(id) > 1500 || id == "." || id == ".." {
		return false
	}
	if strings.Contains(id, "/") {
		return false
	}
	return !(strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"))
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
