// Package memory keeps documents in process memory. It enforces the same unique keys as the
// Postgres and Mongo adapters and backs tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/fastygo/clients/domain"
)

// ErrDuplicateKey is wrapped into a STORE domain error on unique-key violations.
var ErrDuplicateKey = errors.New("duplicate key")

type collection[T any] struct {
	name     string
	notFound error

	id     func(*T) string
	setID  func(*T, string)
	unique func(*T) string
	clone  func(T) T

	mu    sync.RWMutex
	docs  map[string]T
	order []string
}

func (c *collection[T]) save(ctx context.Context, doc *T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrInvalidPayload
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := c.clone(*doc)
	if c.id(&stored) == "" {
		c.setID(&stored, uuid.NewString())
	}
	if err := c.checkUnique(&stored, nil); err != nil {
		return nil, err
	}
	c.put(stored)
	out := c.clone(stored)
	return &out, nil
}

// saveAll validates the whole batch before writing so a rejected batch leaves no partial state.
func (c *collection[T]) saveAll(ctx context.Context, docs []T) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	batch := make([]T, 0, len(docs))
	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		stored := c.clone(doc)
		if c.id(&stored) == "" {
			c.setID(&stored, uuid.NewString())
		}
		if err := c.checkUnique(&stored, seen); err != nil {
			return nil, err
		}
		batch = append(batch, stored)
	}
	out := make([]T, 0, len(batch))
	for _, stored := range batch {
		c.put(stored)
		out = append(out, c.clone(stored))
	}
	return out, nil
}

func (c *collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, c.notFound
	}
	out := c.clone(doc)
	return &out, nil
}

func (c *collection[T]) findOne(ctx context.Context, match func(*T) bool) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		doc := c.docs[id]
		if match(&doc) {
			out := c.clone(doc)
			return &out, nil
		}
	}
	return nil, c.notFound
}

// findAllByID silently omits missing ids.
func (c *collection[T]) findAllByID(ctx context.Context, ids []string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if doc, ok := c.docs[id]; ok {
			out = append(out, c.clone(doc))
		}
	}
	return out, nil
}

func (c *collection[T]) findAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.clone(c.docs[id]))
	}
	return out, nil
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return c.notFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored documents.
func (c *collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// checkUnique must run under the write lock. seen tracks keys claimed earlier in the same batch.
func (c *collection[T]) checkUnique(doc *T, seen map[string]string) error {
	if c.unique == nil {
		return nil
	}
	key := c.unique(doc)
	if key == "" {
		return nil
	}
	id := c.id(doc)
	if seen != nil {
		if owner, ok := seen[key]; ok && owner != id {
			return domain.StoreError(c.name, ErrDuplicateKey)
		}
		seen[key] = id
	}
	for existingID, existing := range c.docs {
		if existingID != id && c.unique(&existing) == key {
			return domain.StoreError(c.name, ErrDuplicateKey)
		}
	}
	return nil
}

func (c *collection[T]) put(doc T) {
	id := c.id(&doc)
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc
}
