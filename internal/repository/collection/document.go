package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"eventmaster/internal/domain"
)

// Document is a single event-scoped JSON value, such as the RSVP form of an event.
type Document[T any] struct {
	kv     domain.KVStore
	kind   string
	logger *slog.Logger
	locks  *keyLocks
}

// NewDocument returns a document store of the given kind.
func NewDocument[T any](kv domain.KVStore, kind string, logger *slog.Logger) *Document[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Document[T]{
		kv:     kv,
		kind:   kind,
		logger: logger.With("document", kind),
		locks:  newKeyLocks(),
	}
}

// Get returns the document owned by eventID. found is false when it is
// missing or cannot be decoded; the latter is logged.
func (d *Document[T]) Get(ctx context.Context, eventID string) (doc T, found bool, err error) {
	return d.get(ctx, domain.CollectionKey(d.kind, eventID))
}

// Put stores doc for eventID, replacing any previous value.
func (d *Document[T]) Put(ctx context.Context, eventID string, doc T) error {
	key := domain.CollectionKey(d.kind, eventID)
	unlock := d.locks.lock(key)
	defer unlock()
	return d.put(ctx, key, doc)
}

// Update loads the document, passes it to fn and stores the result.
// Calls for the same event are serialized.
func (d *Document[T]) Update(ctx context.Context, eventID string, fn func(doc T, found bool) (T, error)) (T, error) {
	key := domain.CollectionKey(d.kind, eventID)
	unlock := d.locks.lock(key)
	defer unlock()

	var zero T
	cur, found, err := d.get(ctx, key)
	if err != nil {
		return zero, err
	}
	next, err := fn(cur, found)
	if err != nil {
		return zero, err
	}
	if err := d.put(ctx, key, next); err != nil {
		return zero, err
	}
	return next, nil
}

// Delete removes the document of eventID. Deleting a missing document is not an error.
func (d *Document[T]) Delete(ctx context.Context, eventID string) error {
	key := domain.CollectionKey(d.kind, eventID)
	unlock := d.locks.lock(key)
	defer unlock()
	if err := d.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (d *Document[T]) get(ctx context.Context, key string) (T, bool, error) {
	var doc T
	raw, found, err := d.kv.Get(ctx, key)
	if err != nil {
		return doc, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return doc, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		d.logger.WarnContext(ctx, "corrupt document, treating as missing", "key", key, "err", err)
		var zero T
		return zero, false, nil
	}
	return doc, true, nil
}

func (d *Document[T]) put(ctx context.Context, key string, doc T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := d.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
