package domain

import (
	"context"
	"time"
)

// Event is a planned event owned by the operator.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Venue       string    `json:"venue"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     string    `json:"ownerId"`
}

// NewEvent returns a new Event with the given fields. ID and CreatedAt are set by the service.
func NewEvent(name, description, date, eventTime, venue, ownerID string) *Event {
	return &Event{
		Name:        name,
		Description: description,
		Date:        date,
		Time:        eventTime,
		Venue:       venue,
		OwnerID:     ownerID,
	}
}

// EventPatch carries optional event field updates; nil fields are unchanged.
type EventPatch struct {
	Name        *string
	Description *string
	Date        *string
	Time        *string
	Venue       *string
}

// EventLookup resolves an event by id. Scoped services use it to reject orphans.
type EventLookup interface {
	GetEvent(ctx context.Context, eventID string) (*Event, error)
}

// EventScoped is implemented by everything that keeps per-event state.
// DropEvent removes all of it and is called when the event is deleted.
type EventScoped interface {
	DropEvent(ctx context.Context, eventID string) error
}

// EventService defines the business logic for events.
type EventService interface {
	EventLookup
	CreateEvent(ctx context.Context, event *Event) error
	ListEvents(ctx context.Context) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID string, patch EventPatch) (*Event, error)
	// DeleteEvent removes the event and cascades to every registered dependent.
	DeleteEvent(ctx context.Context, eventID string) error
	RegisterDependents(deps ...EventScoped)
}
