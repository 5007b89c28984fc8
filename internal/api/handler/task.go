package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles task creation within a section, including the nested
// sub-task and label payload
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	sectionID, err := uuidParam(r, "sectionID")
	if err != nil {
		response.BadRequest(w, "invalid section ID")
		return
	}

	var input domain.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, sectionID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, task)
}

// List handles listing a section's tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	sectionID, err := uuidParam(r, "sectionID")
	if err != nil {
		response.BadRequest(w, "invalid section ID")
		return
	}

	tasks, err := h.taskService.ListBySection(r.Context(), userID, sectionID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, tasks)
}

// Get handles getting a task with its sub-tasks and labels
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	task, err := h.taskService.GetByID(r.Context(), userID, taskID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, task)
}

// Update handles task updates including label and sub-task replacement
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	var input domain.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, task)
}

// Move handles moving a task one step or to an extreme within its section
func (h *TaskHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	var input struct {
		Direction domain.MoveDirection `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !input.Direction.Valid() {
		response.BadRequest(w, "invalid move direction")
		return
	}

	if err := h.taskService.Move(r.Context(), userID, taskID, input.Direction); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// MoveAfter handles moving a task after another task, possibly into a
// different section
func (h *TaskHandler) MoveAfter(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	var input struct {
		SectionID uuid.UUID  `json:"section_id" validate:"required"`
		After     *uuid.UUID `json:"after,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.taskService.MoveAfter(r.Context(), userID, taskID, input.SectionID, input.After); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles deleting a task
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// AddLabel handles attaching a label to a task
func (h *TaskHandler) AddLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}
	labelID, err := uuidParam(r, "labelID")
	if err != nil {
		response.BadRequest(w, "invalid label ID")
		return
	}

	if err := h.taskService.AddLabel(r.Context(), userID, taskID, labelID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// RemoveLabel handles detaching a label from a task
func (h *TaskHandler) RemoveLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}
	labelID, err := uuidParam(r, "labelID")
	if err != nil {
		response.BadRequest(w, "invalid label ID")
		return
	}

	if err := h.taskService.RemoveLabel(r.Context(), userID, taskID, labelID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
