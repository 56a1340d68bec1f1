package domain

import (
	"context"
	"strings"
)

// KVStore is the durable string-keyed store every collection is persisted in.
// Get reports found=false for a missing key; Delete of a missing key is not an error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Keys returns every key starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Entity kinds. Each kind is the fixed prefix of its namespaced storage keys.
const (
	KindEvents        = "events"
	KindTasks         = "tasks"
	KindNotes         = "notes"
	KindResources     = "resources"
	KindFiles         = "files"
	KindRSVPForm      = "rsvp_form"
	KindRSVPResponses = "rsvp_responses"
)

// AppStatePrefix namespaces application state (session, preferences) away from entity data.
const AppStatePrefix = "app:"

// CollectionKey returns the namespaced key of the collection of kind owned by eventID.
// The global event list has no owner and is stored under the bare kind.
func CollectionKey(kind, eventID string) string {
	if eventID == "" {
		return kind
	}
	return kind + ":" + eventID
}

// RecordKey returns the key of a single entity inside a collection.
func RecordKey(collectionKey, id string) string {
	return collectionKey + ":" + id
}

// IsAppStateKey reports whether key belongs to the application state namespace.
func IsAppStateKey(key string) bool {
	return strings.HasPrefix(key, AppStatePrefix)
}
