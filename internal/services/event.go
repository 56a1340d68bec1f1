package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/collection"
)

type eventService struct {
	events         *collection.Collection[*domain.Event]
	logger         *slog.Logger
	contextTimeout time.Duration
	now            clock

	mu         sync.RWMutex
	dependents []domain.EventScoped
}

// NewEventService creates an EventService persisting events in kv.
func NewEventService(kv domain.KVStore, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		events:         collection.New(kv, domain.KindEvents, eventID, logger),
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func eventID(e *domain.Event) string { return e.ID }

// RegisterDependents adds services whose per-event state is removed with the event.
func (s *eventService) RegisterDependents(deps ...domain.EventScoped) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dependents = append(s.dependents, deps...)
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	trimEvent(event)
	if err := validateEvent(event); err != nil {
		return err
	}
	now := s.now()
	event.ID = newID(now)
	event.CreatedAt = now

	if err := s.events.Append(ctx, "", event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.events.Get(ctx, "", eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.events.Load(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	updated, err := s.events.Update(ctx, "", eventID, func(e *domain.Event) (*domain.Event, error) {
		applyString(&e.Name, patch.Name)
		applyString(&e.Description, patch.Description)
		applyString(&e.Date, patch.Date)
		applyString(&e.Time, patch.Time)
		applyString(&e.Venue, patch.Venue)
		if err := validateEvent(e); err != nil {
			return nil, err
		}
		return e, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent removes the event, then the state every dependent keeps for it.
// Dependents are all attempted; their errors are joined.
func (s *eventService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.events.Remove(ctx, "", eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.mu.RLock()
	deps := append([]domain.EventScoped(nil), s.dependents...)
	s.mu.RUnlock()

	var errs []error
	for _, dep := range deps {
		if err := dep.DropEvent(ctx, eventID); err != nil {
			s.logger.ErrorContext(ctx, "cascade delete failed", "event_id", eventID, "err", err)
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("delete event data: %w", err)
	}
	return nil
}

func trimEvent(e *domain.Event) {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	e.Date = strings.TrimSpace(e.Date)
	e.Time = strings.TrimSpace(e.Time)
	e.Venue = strings.TrimSpace(e.Venue)
}

func validateEvent(e *domain.Event) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", e.Name},
		{"description", e.Description},
		{"date", e.Date},
		{"time", e.Time},
		{"venue", e.Venue},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// applyString sets *dst to the trimmed patch value when one is given.
func applyString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// requireEvent returns domain.ErrNotFound when eventID does not name an existing event.
func requireEvent(ctx context.Context, events domain.EventLookup, eventID string) error {
	if _, err := events.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return err
	}
	return nil
}
