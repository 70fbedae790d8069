// Package mongo stores each collection as Mongo documents, with unique indexes standing in for
// the relational constraints of the Postgres adapters.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/fastygo/clients/domain"
)

// ErrDuplicateKey is wrapped into a STORE domain error when a unique index rejects a write.
var ErrDuplicateKey = errors.New("duplicate key")

type collection[T any] struct {
	coll     *mongo.Collection
	notFound error

	id    func(*T) string
	setID func(*T, string)
	fix   func(*T)
}

func (c *collection[T]) name() string { return c.coll.Name() }

func (c *collection[T]) save(ctx context.Context, doc *T) (*T, error) {
	if doc == nil {
		return nil, domain.ErrInvalidPayload
	}
	stored := *doc
	if c.id(&stored) == "" {
		c.setID(&stored, uuid.NewString())
	}
	_, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.id(&stored)}}, stored, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, c.storeErr(err)
	}
	return &stored, nil
}

// saveAll issues one ordered bulk write. Standalone servers have no multi-document transaction,
// so documents this call created are removed again when the bulk write fails.
func (c *collection[T]) saveAll(ctx context.Context, docs []T) ([]T, error) {
	out := make([]T, 0, len(docs))
	if len(docs) == 0 {
		return out, nil
	}
	models := make([]mongo.WriteModel, 0, len(docs))
	created := make([]string, 0, len(docs))
	for _, doc := range docs {
		stored := doc
		if c.id(&stored) == "" {
			c.setID(&stored, uuid.NewString())
			created = append(created, c.id(&stored))
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: c.id(&stored)}}).
			SetReplacement(stored).
			SetUpsert(true))
		out = append(out, stored)
	}

	if _, err := c.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		var cleanupErr error
		if len(created) > 0 {
			_, cleanupErr = c.coll.DeleteMany(context.WithoutCancel(ctx), bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: created}}}})
		}
		return nil, bulkFailure(c.storeErr(err), created, cleanupErr)
	}
	return out, nil
}

// bulkFailure reports a failed bulk write. When removing the inserted documents failed too, the
// ids left behind travel with the error.
func bulkFailure(cause error, created []string, cleanupErr error) error {
	if cleanupErr == nil {
		return cause
	}
	return errors.Join(cause, fmt.Errorf("remove %d inserted documents %v: %w", len(created), created, cleanupErr))
}

func (c *collection[T]) findOne(ctx context.Context, filter bson.D) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound
		}
		return nil, c.storeErr(err)
	}
	if c.fix != nil {
		c.fix(&doc)
	}
	return &doc, nil
}

func (c *collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	return c.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (c *collection[T]) findByField(ctx context.Context, field, value string) (*T, error) {
	return c.findOne(ctx, bson.D{{Key: field, Value: value}})
}

// findAllByID omits missing ids and returns documents in the order of ids.
func (c *collection[T]) findAllByID(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return make([]T, 0), nil
	}
	docs, err := c.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]T, len(docs))
	for i := range docs {
		byID[c.id(&docs[i])] = docs[i]
	}
	out := make([]T, 0, len(docs))
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			out = append(out, doc)
			delete(byID, id)
		}
	}
	return out, nil
}

func (c *collection[T]) findAll(ctx context.Context) ([]T, error) {
	return c.find(ctx, bson.D{})
}

func (c *collection[T]) find(ctx context.Context, filter bson.D) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, c.storeErr(err)
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, c.storeErr(err)
	}
	if c.fix != nil {
		for i := range out {
			c.fix(&out[i])
		}
	}
	return out, nil
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return c.storeErr(err)
	}
	if res.DeletedCount == 0 {
		return c.notFound
	}
	return nil
}

func (c *collection[T]) storeErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.StoreError(c.name(), errors.Join(ErrDuplicateKey, err))
	}
	return domain.StoreError(c.name(), err)
}
