// Package collection persists ordered entity lists in a domain.KVStore.
//
// A collection of kind K owned by event E is stored as an index key
// (domain.CollectionKey(K, E)) holding the ordered JSON array of ids, plus one
// record key per entity (domain.RecordKey(index, id)) holding its JSON. Mutations
// only rewrite the records that changed.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"eventmaster/internal/domain"
)

// Collection is an ordered, event-scoped list of T. T is normally a pointer to a domain entity.
type Collection[T any] struct {
	kv     domain.KVStore
	kind   string
	idOf   func(T) string
	logger *slog.Logger
	locks  *keyLocks
}

// New returns a collection of the given kind. idOf extracts the id of an item.
func New[T any](kv domain.KVStore, kind string, idOf func(T) string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{
		kv:     kv,
		kind:   kind,
		idOf:   idOf,
		logger: logger.With("collection", kind),
		locks:  newKeyLocks(),
	}
}

// Kind returns the entity kind of the collection.
func (c *Collection[T]) Kind() string { return c.kind }

// snapshot is a loaded collection plus the raw record JSON it was decoded from.
type snapshot[T any] struct {
	exists bool
	ids    []string
	items  []T
	raw    map[string]string
}

// Load returns the items of the collection owned by eventID in stored order.
// A missing collection is empty. Corrupt index or record data is logged and
// skipped; only backend failures are returned as errors.
func (c *Collection[T]) Load(ctx context.Context, eventID string) ([]T, error) {
	snap, err := c.load(ctx, domain.CollectionKey(c.kind, eventID))
	if err != nil {
		return nil, err
	}
	return snap.items, nil
}

// Exists reports whether the collection index has ever been written for eventID.
// An empty collection that was saved still exists.
func (c *Collection[T]) Exists(ctx context.Context, eventID string) (bool, error) {
	_, found, err := c.kv.Get(ctx, domain.CollectionKey(c.kind, eventID))
	if err != nil {
		return false, fmt.Errorf("read %s index: %w", c.kind, err)
	}
	return found, nil
}

// Get returns the item with the given id or domain.ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, eventID, id string) (T, error) {
	var zero T
	items, err := c.Load(ctx, eventID)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if c.idOf(item) == id {
			return item, nil
		}
	}
	return zero, domain.ErrNotFound
}

// Append adds item at the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, eventID string, item T) error {
	_, err := c.Mutate(ctx, eventID, func(items []T) ([]T, error) {
		return append(items, item), nil
	})
	return err
}

// Insert adds item at position at, clamped to the list bounds.
func (c *Collection[T]) Insert(ctx context.Context, eventID string, at int, item T) error {
	_, err := c.Mutate(ctx, eventID, func(items []T) ([]T, error) {
		at = max(0, min(at, len(items)))
		return slices.Insert(items, at, item), nil
	})
	return err
}

// Upsert replaces the item with the same id in place, or appends it when absent.
func (c *Collection[T]) Upsert(ctx context.Context, eventID string, item T) error {
	id := c.idOf(item)
	_, err := c.Mutate(ctx, eventID, func(items []T) ([]T, error) {
		if i := c.indexOf(items, id); i >= 0 {
			items[i] = item
			return items, nil
		}
		return append(items, item), nil
	})
	return err
}

// Update applies fn to the item with the given id and stores the result.
// It returns domain.ErrNotFound when there is no such item.
func (c *Collection[T]) Update(ctx context.Context, eventID, id string, fn func(T) (T, error)) (T, error) {
	var updated T
	_, err := c.Mutate(ctx, eventID, func(items []T) ([]T, error) {
		i := c.indexOf(items, id)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		next, err := fn(items[i])
		if err != nil {
			return nil, err
		}
		items[i] = next
		updated = next
		return items, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

// Remove deletes exactly the item with the given id, or returns domain.ErrNotFound.
func (c *Collection[T]) Remove(ctx context.Context, eventID, id string) error {
	_, err := c.Mutate(ctx, eventID, func(items []T) ([]T, error) {
		i := c.indexOf(items, id)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return slices.Delete(items, i, i+1), nil
	})
	return err
}

// ReplaceAll stores items as the whole collection.
func (c *Collection[T]) ReplaceAll(ctx context.Context, eventID string, items []T) error {
	_, err := c.Mutate(ctx, eventID, func([]T) ([]T, error) {
		return items, nil
	})
	return err
}

// Mutate loads the collection, passes it to fn and writes back the list fn returns.
// Calls for the same collection are serialized.
func (c *Collection[T]) Mutate(ctx context.Context, eventID string, fn func([]T) ([]T, error)) ([]T, error) {
	key := domain.CollectionKey(c.kind, eventID)
	unlock := c.locks.lock(key)
	defer unlock()

	snap, err := c.load(ctx, key)
	if err != nil {
		return nil, err
	}
	next, err := fn(slices.Clone(snap.items))
	if err != nil {
		return nil, err
	}
	if err := c.write(ctx, key, snap, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Seed stores items as the collection only when its index has never been
// written. It reports whether it wrote anything.
func (c *Collection[T]) Seed(ctx context.Context, eventID string, items []T) (bool, error) {
	key := domain.CollectionKey(c.kind, eventID)
	unlock := c.locks.lock(key)
	defer unlock()

	snap, err := c.load(ctx, key)
	if err != nil {
		return false, err
	}
	if snap.exists {
		return false, nil
	}
	if err := c.write(ctx, key, snap, items); err != nil {
		return false, err
	}
	return true, nil
}

// write stores next over snap. Only records whose JSON changed are rewritten,
// records no longer listed are deleted, and the index is written after new
// records so it never points at missing data.
func (c *Collection[T]) write(ctx context.Context, key string, snap *snapshot[T], next []T) error {
	ids := make([]string, 0, len(next))
	seen := make(map[string]struct{}, len(next))
	for _, item := range next {
		id := c.idOf(item)
		if id == "" {
			return fmt.Errorf("%w: %s item without id", domain.ErrInvalidInput, c.kind)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate %s id %q", domain.ErrInvalidInput, c.kind, id)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for i, item := range next {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", c.kind, ids[i], err)
		}
		if prev, ok := snap.raw[ids[i]]; ok && prev == string(data) {
			continue
		}
		if err := c.kv.Set(ctx, domain.RecordKey(key, ids[i]), string(data)); err != nil {
			return fmt.Errorf("write %s %s: %w", c.kind, ids[i], err)
		}
	}

	if !snap.exists || !slices.Equal(ids, snap.ids) {
		data, err := json.Marshal(ids)
		if err != nil {
			return fmt.Errorf("encode %s index: %w", c.kind, err)
		}
		if err := c.kv.Set(ctx, key, string(data)); err != nil {
			return fmt.Errorf("write %s index: %w", c.kind, err)
		}
	}

	for _, id := range snap.ids {
		if _, kept := seen[id]; kept {
			continue
		}
		if err := c.kv.Delete(ctx, domain.RecordKey(key, id)); err != nil {
			return fmt.Errorf("delete %s %s: %w", c.kind, id, err)
		}
	}
	return nil
}

// Drop deletes the collection owned by eventID: every record key and the index.
func (c *Collection[T]) Drop(ctx context.Context, eventID string) error {
	key := domain.CollectionKey(c.kind, eventID)
	unlock := c.locks.lock(key)
	defer unlock()

	keys, err := c.kv.Keys(ctx, key+":")
	if err != nil {
		return fmt.Errorf("list %s records: %w", c.kind, err)
	}
	for _, k := range keys {
		if err := c.kv.Delete(ctx, k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	if err := c.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s index: %w", c.kind, err)
	}
	return nil
}

func (c *Collection[T]) indexOf(items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool { return c.idOf(item) == id })
}

func (c *Collection[T]) load(ctx context.Context, key string) (*snapshot[T], error) {
	snap := &snapshot[T]{items: []T{}, raw: map[string]string{}}
	rawIndex, found, err := c.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s index: %w", c.kind, err)
	}
	if !found {
		return snap, nil
	}
	snap.exists = true

	var ids []string
	if err := json.Unmarshal([]byte(rawIndex), &ids); err != nil {
		c.logger.WarnContext(ctx, "corrupt collection index, treating as empty", "key", key, "err", err)
		return snap, nil
	}

	for _, id := range ids {
		if _, dup := snap.raw[id]; dup {
			continue
		}
		rawItem, found, err := c.kv.Get(ctx, domain.RecordKey(key, id))
		if err != nil {
			return nil, fmt.Errorf("read %s %s: %w", c.kind, id, err)
		}
		if !found {
			c.logger.WarnContext(ctx, "missing collection record, skipping", "key", key, "id", id)
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(rawItem), &item); err != nil {
			c.logger.WarnContext(ctx, "corrupt collection record, skipping", "key", key, "id", id, "err", err)
			continue
		}
		snap.ids = append(snap.ids, id)
		snap.items = append(snap.items, item)
		snap.raw[id] = rawItem
	}
	return snap, nil
}
