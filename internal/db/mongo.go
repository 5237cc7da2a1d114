package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore implements DocumentStore on MongoDB. Document ids are ObjectIDs
// exchanged as 24-character hex strings.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string, logger *zap.Logger) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("NewMongoStore: uri cannot be empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("MongoDB client connected", zap.String("database", database))
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

type mongoDocument struct {
	raw bson.Raw
}

func (d mongoDocument) ID() string {
	if oid, ok := d.raw.Lookup("_id").ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := d.raw.Lookup("_id").StringValueOK(); ok {
		return s
	}
	return ""
}

func (d mongoDocument) DataTo(v interface{}) error { return bson.Unmarshal(d.raw, v) }

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidID, id)
		}
		out = append(out, oid)
	}
	return out, nil
}

// toBSON translates a Filter. Array fields match a scalar by element, so
// array-contains is a plain equality in MongoDB.
func toBSON(f Filter) (bson.D, error) {
	out := bson.D{}
	for _, cond := range f {
		value := cond.Value
		// Ids travel as hex strings and are stored as ObjectIDs.
		if cond.Field == FieldID {
			switch v := cond.Value.(type) {
			case string:
				oid, err := primitive.ObjectIDFromHex(v)
				if err != nil {
					return nil, fmt.Errorf("%w: '%s'", ErrInvalidID, v)
				}
				value = oid
			case []string:
				oids, err := objectIDs(v)
				if err != nil {
					return nil, err
				}
				value = oids
			}
		}

		switch cond.Op {
		case OpEqual, OpArrayContains:
			out = append(out, bson.E{Key: cond.Field, Value: value})
		case OpIn:
			out = append(out, bson.E{Key: cond.Field, Value: bson.M{"$in": value}})
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", cond.Op)
		}
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidID, id)
	}
	raw, err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("document '%s' in '%s': %w", id, collection, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document '%s' in '%s': %w", id, collection, err)
	}
	return mongoDocument{raw: raw}, nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	filter, err := toBSON(q.Filter)
	if err != nil {
		return nil, err
	}
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query '%s': %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := []Document{}
	for cursor.Next(ctx) {
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		docs = append(docs, mongoDocument{raw: raw})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate '%s': %w", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc interface{}) (InsertResult, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("failed to insert into '%s': %w", collection, err)
	}
	id := fmt.Sprint(res.InsertedID)
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		id = oid.Hex()
	}
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}, upsert bool) (UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("%w: '%s'", ErrInvalidID, id)
	}
	opts := options.Update().SetUpsert(upsert)
	res, err := s.db.Collection(collection).UpdateByID(ctx, oid, bson.M{"$set": fields}, opts)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to update '%s' in '%s': %w", id, collection, err)
	}
	out := UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if upserted, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = upserted.Hex()
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) (DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%w: '%s'", ErrInvalidID, id)
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to delete '%s' in '%s': %w", id, collection, err)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, f Filter) (DeleteResult, error) {
	filter, err := toBSON(f)
	if err != nil {
		return DeleteResult{}, err
	}
	res, err := s.db.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to delete from '%s': %w", collection, err)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, f Filter) (int64, error) {
	filter, err := toBSON(f)
	if err != nil {
		return 0, err
	}
	n, err := s.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count '%s': %w", collection, err)
	}
	return n, nil
}

func (s *MongoStore) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
