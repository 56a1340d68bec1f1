package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/collection"
)

type noteService struct {
	notes          *collection.Collection[*domain.Note]
	events         domain.EventLookup
	historyLimit   int
	contextTimeout time.Duration
	now            clock
}

// NewNoteService creates a NoteService. historyLimit caps the archived versions
// kept per event; zero or less keeps all of them.
func NewNoteService(kv domain.KVStore, events domain.EventLookup, historyLimit int, logger *slog.Logger, timeout time.Duration) domain.NoteService {
	return &noteService{
		notes:          collection.New(kv, domain.KindNotes, func(n *domain.Note) string { return n.ID }, logger),
		events:         events,
		historyLimit:   historyLimit,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *noteService) GetNotes(ctx context.Context, eventID string) (*domain.Note, []*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	notes, err := s.notes.Load(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("load notes: %w", err)
	}
	if len(notes) == 0 {
		return nil, []*domain.Note{}, nil
	}
	return notes[0], notes[1:], nil
}

// SaveNote replaces the current note. The previous current note is archived
// right after it, so the list reads newest first.
func (s *noteService) SaveNote(ctx context.Context, eventID, content string) (*domain.Note, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, false, nil
	}
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, false, err
	}

	var (
		head  *domain.Note
		saved bool
	)
	_, err := s.notes.Mutate(ctx, eventID, func(notes []*domain.Note) ([]*domain.Note, error) {
		now := s.now()
		if len(notes) == 0 {
			head = &domain.Note{ID: newID(now), EventID: eventID, Content: content, CreatedAt: now, UpdatedAt: now}
			saved = true
			return []*domain.Note{head}, nil
		}
		head = notes[0]
		if head.Content == content {
			return notes, nil
		}
		archived := *head
		archived.ID = newID(now)
		history := append([]*domain.Note{&archived}, notes[1:]...)
		if s.historyLimit > 0 && len(history) > s.historyLimit {
			history = history[:s.historyLimit]
		}
		head.Content = content
		head.UpdatedAt = now
		saved = true
		return append([]*domain.Note{head}, history...), nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("save note: %w", err)
	}
	return head, saved, nil
}

func (s *noteService) DropEvent(ctx context.Context, eventID string) error {
	if err := s.notes.Drop(ctx, eventID); err != nil {
		return fmt.Errorf("drop notes: %w", err)
	}
	return nil
}
