package report

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo is the document-store implementation of Store; one collection per
// report kind, keyed by the request fingerprint.
type Mongo[E any] struct {
	coll *mongo.Collection
}

func NewMongo[E any](db *mongo.Database, collection string) *Mongo[E] {
	return &Mongo[E]{coll: db.Collection(collection)}
}

func (s *Mongo[E]) Get(ctx context.Context, hash string) (*E, error) {
	var entity E
	err := s.coll.FindOne(ctx, bson.M{"_id": hash}).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report %s: %w", hash, err)
	}
	return &entity, nil
}

func (s *Mongo[E]) Put(ctx context.Context, entity *E) error {
	if _, err := s.coll.InsertOne(ctx, entity); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}
