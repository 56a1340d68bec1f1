package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

// CreateTaskRequest is the request body for POST /events/{eventID}/tasks
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// Validate implements Validator.
func (c CreateTaskRequest) Validate() []string {
	if strings.TrimSpace(c.Title) == "" {
		return []string{"title is required"}
	}
	return nil
}

// UpdateTaskRequest is the request body for PATCH /events/{eventID}/tasks/{taskID}
type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// Validate implements Validator.
func (u UpdateTaskRequest) Validate() []string {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return []string{"title must not be blank"}
	}
	return nil
}

// TaskListResponse is the data of GET /events/{eventID}/tasks.
type TaskListResponse struct {
	Tasks    []*domain.Task       `json:"tasks"`
	Progress *domain.TaskProgress `json:"progress"`
}

type TaskController struct {
	Logger  *slog.Logger
	Service domain.TaskService
}

func NewTaskController(logger *slog.Logger, svc domain.TaskService) *TaskController {
	return &TaskController{Logger: logger, Service: svc}
}

// CreateTask godoc
// @Summary Add a checklist task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body CreateTaskRequest true "Task title"
// @Success 201 {object} helpers.APIResponse "data contains the task"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/tasks [post]
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	task, err := c.Service.CreateTask(r.Context(), eventID, req.Title)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, task)
}

// ListTasks godoc
// @Summary List checklist tasks with progress
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains tasks and progress"
// @Router /events/{eventID}/tasks [get]
func (c *TaskController) ListTasks(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	tasks, err := c.Service.ListTasks(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	progress, err := c.Service.Progress(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TaskListResponse{Tasks: tasks, Progress: progress})
}

// UpdateTask godoc
// @Summary Rename or complete a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param taskID path string true "Task ID"
// @Param body body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the task"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/tasks/{taskID} [patch]
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "taskID")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	task, err := c.Service.UpdateTask(r.Context(), ids[0], ids[1], domain.TaskPatch{Title: req.Title, Completed: req.Completed})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, task)
}

// ToggleTask godoc
// @Summary Flip a task's completed flag
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param taskID path string true "Task ID"
// @Success 200 {object} helpers.APIResponse "data contains the task"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/tasks/{taskID}/toggle [post]
func (c *TaskController) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "taskID")
	if !ok {
		return
	}
	task, err := c.Service.ToggleTask(r.Context(), ids[0], ids[1])
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param taskID path string true "Task ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/tasks/{taskID} [delete]
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "taskID")
	if !ok {
		return
	}
	if err := c.Service.DeleteTask(r.Context(), ids[0], ids[1]); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
