// Package mongodb implements the record store contract on top of MongoDB.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mherrera/rodeo/internal/record"
)

// Store is a MongoDB-backed record store. Each logical table maps to a
// collection of the configured database.
type Store struct {
	client *mongo.Client
	dbName string
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, dbName: dbName}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(table string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(table)
}

// List decodes every row matching filter into out.
func (s *Store) List(ctx context.Context, table string, filter record.Filter, out any) error {
	cursor, err := s.collection(table).Find(ctx, toBSON(filter))
	if err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return nil
}

// Insert writes the given rows in one batch.
func (s *Store) Insert(ctx context.Context, table string, rows []any) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := s.collection(table).InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Update applies patch to every row matching filter.
func (s *Store) Update(ctx context.Context, table string, filter record.Filter, patch record.Patch) (int64, error) {
	res, err := s.collection(table).UpdateMany(ctx, toBSON(filter), bson.M{"$set": bson.M(patch)})
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return res.ModifiedCount, nil
}

// Delete removes every row matching filter.
func (s *Store) Delete(ctx context.Context, table string, filter record.Filter) (int64, error) {
	res, err := s.collection(table).DeleteMany(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return res.DeletedCount, nil
}

func toBSON(filter record.Filter) bson.M {
	query := bson.M{}
	for field, cond := range filter {
		switch {
		case cond.Null != nil && *cond.Null:
			// Matches both explicit null and absent fields.
			query[field] = nil
		case cond.Null != nil:
			query[field] = bson.M{"$ne": nil}
		case len(cond.In) > 0:
			query[field] = bson.M{"$in": cond.In}
		case cond.Gte != nil || cond.Lte != nil:
			bounds := bson.M{}
			if cond.Gte != nil {
				bounds["$gte"] = cond.Gte
			}
			if cond.Lte != nil {
				bounds["$lte"] = cond.Lte
			}
			query[field] = bounds
		default:
			query[field] = cond.Eq
		}
	}
	return query
}
