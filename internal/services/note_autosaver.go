package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventmaster/internal/domain"
)

type draft struct {
	content string
	timer   *time.Timer
	gen     uint64
}

// NoteAutosaver debounces note edits per event. A draft is saved through the
// NoteService once no edit has arrived for the idle window.
type NoteAutosaver struct {
	notes   domain.NoteService
	idle    time.Duration
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	drafts map[string]*draft
	gen    uint64
	closed bool
	wg     sync.WaitGroup
}

// NewNoteAutosaver creates an autosaver with the given idle window.
func NewNoteAutosaver(notes domain.NoteService, idle time.Duration, logger *slog.Logger, timeout time.Duration) *NoteAutosaver {
	return &NoteAutosaver{
		notes:   notes,
		idle:    idle,
		logger:  logger,
		timeout: timeout,
		drafts:  make(map[string]*draft),
	}
}

// Touch records content as the pending draft of eventID and restarts its idle timer.
func (a *NoteAutosaver) Touch(eventID, content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if d, ok := a.drafts[eventID]; ok {
		d.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.drafts[eventID] = &draft{
		content: content,
		gen:     gen,
		timer:   time.AfterFunc(a.idle, func() { a.expire(eventID, gen) }),
	}
}

// Pending returns the unsaved draft of eventID.
func (a *NoteAutosaver) Pending(eventID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.drafts[eventID]
	if !ok {
		return "", false
	}
	return d.content, true
}

// Flush saves the pending draft of eventID now. It reports false when there was
// nothing to save or the draft matched the current note.
func (a *NoteAutosaver) Flush(ctx context.Context, eventID string) (*domain.Note, bool, error) {
	content, ok := a.take(eventID, 0)
	if !ok {
		return nil, false, nil
	}
	return a.notes.SaveNote(ctx, eventID, content)
}

// Discard drops the pending draft of eventID without saving it.
func (a *NoteAutosaver) Discard(eventID string) bool {
	_, ok := a.take(eventID, 0)
	return ok
}

// DropEvent discards any pending draft of a deleted event.
func (a *NoteAutosaver) DropEvent(_ context.Context, eventID string) error {
	a.Discard(eventID)
	return nil
}

// FlushAll saves every pending draft. It is used on shutdown.
func (a *NoteAutosaver) FlushAll(ctx context.Context) {
	a.mu.Lock()
	ids := make([]string, 0, len(a.drafts))
	for id := range a.drafts {
		ids = append(ids, id)
	}
	a.mu.Unlock()

	for _, id := range ids {
		if _, _, err := a.Flush(ctx, id); err != nil {
			a.logger.ErrorContext(ctx, "flush note draft", "event_id", id, "err", err)
		}
	}
}

// Close stops all timers without saving and waits for in-flight saves.
func (a *NoteAutosaver) Close() {
	a.mu.Lock()
	a.closed = true
	for id, d := range a.drafts {
		d.timer.Stop()
		delete(a.drafts, id)
	}
	a.mu.Unlock()
	a.wg.Wait()
}

// take removes and returns the draft of eventID. A non-zero gen only matches
// the draft created by that Touch, so a stale timer cannot take a newer draft.
func (a *NoteAutosaver) take(eventID string, gen uint64) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.drafts[eventID]
	if !ok || (gen != 0 && d.gen != gen) {
		return "", false
	}
	d.timer.Stop()
	delete(a.drafts, eventID)
	if gen != 0 {
		a.wg.Add(1)
	}
	return d.content, true
}

func (a *NoteAutosaver) expire(eventID string, gen uint64) {
	content, ok := a.take(eventID, gen)
	if !ok {
		return
	}
	defer a.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if _, _, err := a.notes.SaveNote(ctx, eventID, content); err != nil {
		a.logger.ErrorContext(ctx, "autosave note", "event_id", eventID, "err", err)
	}
}

var _ domain.NoteDraftService = (*NoteAutosaver)(nil)
