package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/collection"
)

type taskService struct {
	tasks          *collection.Collection[*domain.Task]
	events         domain.EventLookup
	contextTimeout time.Duration
	now            clock
}

// NewTaskService creates a TaskService. events is used to reject tasks for unknown events.
func NewTaskService(kv domain.KVStore, events domain.EventLookup, logger *slog.Logger, timeout time.Duration) domain.TaskService {
	return &taskService{
		tasks:          collection.New(kv, domain.KindTasks, func(t *domain.Task) string { return t.ID }, logger),
		events:         events,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *taskService) CreateTask(ctx context.Context, eventID, title string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, err
	}

	now := s.now()
	task := &domain.Task{ID: newID(now), EventID: eventID, Title: title, CreatedAt: now}
	if err := s.tasks.Append(ctx, eventID, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, eventID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tasks, err := s.tasks.Load(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) UpdateTask(ctx context.Context, eventID, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	return s.update(ctx, eventID, taskID, func(t *domain.Task) {
		applyString(&t.Title, patch.Title)
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
	})
}

func (s *taskService) ToggleTask(ctx context.Context, eventID, taskID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.update(ctx, eventID, taskID, func(t *domain.Task) {
		t.Completed = !t.Completed
	})
}

func (s *taskService) DeleteTask(ctx context.Context, eventID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.tasks.Remove(ctx, eventID, taskID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *taskService) Progress(ctx context.Context, eventID string) (*domain.TaskProgress, error) {
	tasks, err := s.ListTasks(ctx, eventID)
	if err != nil {
		return nil, err
	}
	p := &domain.TaskProgress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = p.Completed * 100 / p.Total
	}
	return p, nil
}

func (s *taskService) DropEvent(ctx context.Context, eventID string) error {
	if err := s.tasks.Drop(ctx, eventID); err != nil {
		return fmt.Errorf("drop tasks: %w", err)
	}
	return nil
}

func (s *taskService) update(ctx context.Context, eventID, taskID string, fn func(*domain.Task)) (*domain.Task, error) {
	task, err := s.tasks.Update(ctx, eventID, taskID, func(t *domain.Task) (*domain.Task, error) {
		fn(t)
		return t, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}
