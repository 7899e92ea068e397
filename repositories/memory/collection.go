package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/medimart/medi-server/repositories"
)

// Collection keeps JSON encoded documents in insertion order
type Collection[T any, PT interface {
	*T
	repositories.Document
}] struct {
	mu     sync.RWMutex
	name   string
	unique []string
	order  []string
	docs   map[string][]byte
}

// NewCollection creates an empty collection; unique names fields whose values may not repeat
func NewCollection[T any, PT interface {
	*T
	repositories.Document
}](name string, unique ...string) *Collection[T, PT] {
	return &Collection[T, PT]{
		name:   name,
		unique: unique,
		docs:   make(map[string][]byte),
	}
}

// Find returns documents matching every filter field in insertion order
func (c *Collection[T, PT]) Find(ctx context.Context, filter repositories.Filter) ([]*T, error) {
	want, err := normalize(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]*T, 0)
	for _, id := range c.order {
		ok, err := matches(c.docs[id], want)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		doc, err := c.decode(id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindOne returns the first matching document
func (c *Collection[T, PT]) FindOne(ctx context.Context, filter repositories.Filter) (*T, error) {
	docs, err := c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", c.name, repositories.ErrNotFound)
	}
	return docs[0], nil
}

// FindByID returns the document with the given id
func (c *Collection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.docs[id]; !ok {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, repositories.ErrNotFound)
	}
	return c.decode(id)
}

// Insert stores a copy of doc under a new UUID unless it already carries an id
func (c *Collection[T, PT]) Insert(ctx context.Context, doc *T) (string, error) {
	d := PT(doc)
	if d.GetID() == "" {
		d.SetID(uuid.NewString())
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[d.GetID()]; ok {
		return "", fmt.Errorf("%s: %w", c.name, repositories.ErrDuplicateKey)
	}
	if err := c.checkUnique(d.GetID(), raw); err != nil {
		return "", err
	}

	c.docs[d.GetID()] = raw
	c.order = append(c.order, d.GetID())
	return d.GetID(), nil
}

// UpdateByID merges the given fields into the stored document
func (c *Collection[T, PT]) UpdateByID(ctx context.Context, id string, update repositories.Update) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%s %s: %w", c.name, id, repositories.ErrNotFound)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to decode %s document %s: %w", c.name, id, err)
	}
	for k, v := range update {
		if k == "_id" {
			continue
		}
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s update: %w", c.name, err)
	}
	if err := c.checkUnique(id, merged); err != nil {
		return err
	}

	c.docs[id] = merged
	return nil
}

// IncrementByID adds delta to a numeric field while holding the write lock
func (c *Collection[T, PT]) IncrementByID(ctx context.Context, id string, field string, delta int64) error {
	if field == "_id" {
		return fmt.Errorf("%s: cannot increment _id", c.name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%s %s: %w", c.name, id, repositories.ErrNotFound)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to decode %s document %s: %w", c.name, id, err)
	}

	var current float64
	switch v := fields[field].(type) {
	case nil:
	case float64:
		current = v
	default:
		return fmt.Errorf("%s %s: field %q is not numeric", c.name, id, field)
	}
	fields[field] = current + float64(delta)

	updated, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s update: %w", c.name, err)
	}
	c.docs[id] = updated
	return nil
}

// DeleteByID removes one document
func (c *Collection[T, PT]) DeleteByID(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("%s %s: %w", c.name, id, repositories.ErrNotFound)
	}
	c.remove(id)
	return nil
}

// DeleteMany removes every matching document
func (c *Collection[T, PT]) DeleteMany(ctx context.Context, filter repositories.Filter) (int64, error) {
	want, err := normalize(filter)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var ids []string
	for _, id := range c.order {
		ok, err := matches(c.docs[id], want)
		if err != nil {
			return 0, err
		}
		if ok {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		c.remove(id)
	}
	return int64(len(ids)), nil
}

// Len returns the number of stored documents
func (c *Collection[T, PT]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func (c *Collection[T, PT]) remove(id string) {
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Collection[T, PT]) decode(id string) (*T, error) {
	doc := new(T)
	if err := json.Unmarshal(c.docs[id], doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s document %s: %w", c.name, id, err)
	}
	PT(doc).SetID(id)
	return doc, nil
}

// checkUnique must be called with the write lock held
func (c *Collection[T, PT]) checkUnique(id string, raw []byte) error {
	if len(c.unique) == 0 {
		return nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to decode %s document: %w", c.name, err)
	}

	for _, key := range c.unique {
		value, ok := fields[key]
		if !ok {
			continue
		}
		for otherID, other := range c.docs {
			if otherID == id {
				continue
			}
			match, err := matches(other, map[string]interface{}{key: value})
			if err != nil {
				return err
			}
			if match {
				return fmt.Errorf("%s.%s: %w", c.name, key, repositories.ErrDuplicateKey)
			}
		}
	}
	return nil
}

// normalize round-trips filter values through JSON so they compare like stored fields
func normalize(filter repositories.Filter) (map[string]interface{}, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode filter: %w", err)
	}
	return out, nil
}

func matches(raw []byte, want map[string]interface{}) (bool, error) {
	if len(want) == 0 {
		return true, nil
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false, fmt.Errorf("failed to decode document: %w", err)
	}
	for k, v := range want {
		if !reflect.DeepEqual(fields[k], v) {
			return false, nil
		}
	}
	return true, nil
}
