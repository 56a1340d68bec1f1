package domain

import (
	"context"
	"time"
)

// Task is a checklist item of an event.
// swagger:model Task
type Task struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskPatch carries optional task updates.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// TaskProgress summarizes the checklist of one event.
type TaskProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// TaskService defines the checklist operations of an event.
type TaskService interface {
	EventScoped
	CreateTask(ctx context.Context, eventID, title string) (*Task, error)
	ListTasks(ctx context.Context, eventID string) ([]*Task, error)
	UpdateTask(ctx context.Context, eventID, taskID string, patch TaskPatch) (*Task, error)
	ToggleTask(ctx context.Context, eventID, taskID string) (*Task, error)
	DeleteTask(ctx context.Context, eventID, taskID string) error
	Progress(ctx context.Context, eventID string) (*TaskProgress, error)
}
