package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/medimart/medi-server/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// byID sorts by _id; ObjectID hex strings order by creation time
var byID = bson.D{{Key: "_id", Value: 1}}

// Collection stores documents of one model in a MongoDB collection
type Collection[T any, PT interface {
	*T
	repositories.Document
}] struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewCollection wraps coll
func NewCollection[T any, PT interface {
	*T
	repositories.Document
}](coll *mongo.Collection, logger *zap.Logger) *Collection[T, PT] {
	return &Collection[T, PT]{
		coll:   coll,
		logger: logger,
	}
}

// Find returns documents matching every filter field in insertion order
func (c *Collection[T, PT]) Find(ctx context.Context, filter repositories.Filter) ([]*T, error) {
	cur, err := c.coll.Find(ctx, toBSON(filter), options.Find().SetSort(byID))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}
	defer cur.Close(ctx)

	docs := make([]*T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", c.coll.Name(), err)
	}
	return docs, nil
}

// FindOne returns the first matching document
func (c *Collection[T, PT]) FindOne(ctx context.Context, filter repositories.Filter) (*T, error) {
	return c.findOne(ctx, toBSON(filter))
}

// FindByID returns the document with the given id
func (c *Collection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	return c.findOne(ctx, idFilter(id))
}

func (c *Collection[T, PT]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	doc := new(T)
	err := c.coll.FindOne(ctx, filter, options.FindOne().SetSort(byID)).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", c.coll.Name(), repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find in %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

// Insert stores doc under a new ObjectID hex string unless it already carries an id
func (c *Collection[T, PT]) Insert(ctx context.Context, doc *T) (string, error) {
	d := PT(doc)
	if d.GetID() == "" {
		d.SetID(primitive.NewObjectID().Hex())
	}

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%s: %w", c.coll.Name(), repositories.ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to insert into %s: %w", c.coll.Name(), err)
	}

	c.logger.Debug("document inserted", zap.String("collection", c.coll.Name()), zap.String("id", d.GetID()))
	return d.GetID(), nil
}

// UpdateByID applies $set with the given fields
func (c *Collection[T, PT]) UpdateByID(ctx context.Context, id string, update repositories.Update) error {
	set := bson.M{}
	for k, v := range update {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		_, err := c.FindByID(ctx, id)
		return err
	}

	res, err := c.coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", c.coll.Name(), repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update %s: %w", c.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", c.coll.Name(), id, repositories.ErrNotFound)
	}
	return nil
}

// IncrementByID applies $inc to one field
func (c *Collection[T, PT]) IncrementByID(ctx context.Context, id string, field string, delta int64) error {
	if field == "_id" {
		return fmt.Errorf("%s: cannot increment _id", c.coll.Name())
	}

	res, err := c.coll.UpdateOne(ctx, idFilter(id), bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return fmt.Errorf("failed to increment %s.%s: %w", c.coll.Name(), field, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", c.coll.Name(), id, repositories.ErrNotFound)
	}
	return nil
}

// DeleteByID removes one document
func (c *Collection[T, PT]) DeleteByID(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", c.coll.Name(), id, repositories.ErrNotFound)
	}
	return nil
}

// DeleteMany removes every matching document
func (c *Collection[T, PT]) DeleteMany(ctx context.Context, filter repositories.Filter) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", c.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// idFilter matches id stored as a string and, when id is ObjectID hex, as an ObjectID too.
// Documents written by earlier deployments carry ObjectID keys.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func toBSON(filter repositories.Filter) bson.M {
	m := bson.M{}
	for k, v := range filter {
		m[k] = v
	}
	return m
}
