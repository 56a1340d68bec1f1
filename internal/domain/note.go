package domain

import (
	"context"
	"time"
)

// Note is one entry of an event's notes. The first entry of the list is the
// current note; the rest are archived versions, newest first.
// swagger:model Note
type Note struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteService defines note persistence for an event.
type NoteService interface {
	EventScoped
	// GetNotes returns the current note (nil when none) and its archived versions.
	GetNotes(ctx context.Context, eventID string) (current *Note, history []*Note, err error)
	// SaveNote stores content as the current note. saved is false when content is
	// blank or equal to the current note, in which case nothing is written.
	SaveNote(ctx context.Context, eventID, content string) (note *Note, saved bool, err error)
}

// NoteDraftService debounces note edits: a draft is persisted once the editor
// has been idle for the configured window.
type NoteDraftService interface {
	EventScoped
	Touch(eventID, content string)
	Flush(ctx context.Context, eventID string) (*Note, bool, error)
	Discard(eventID string) bool
	Pending(eventID string) (string, bool)
}
