package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// SubTaskHandler handles sub-task endpoints
type SubTaskHandler struct {
	subTaskService *service.SubTaskService
}

// NewSubTaskHandler creates a new sub-task handler
func NewSubTaskHandler(subTaskService *service.SubTaskService) *SubTaskHandler {
	return &SubTaskHandler{subTaskService: subTaskService}
}

// Create handles sub-task creation within a task
func (h *SubTaskHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.SubTaskCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	subTask, err := h.subTaskService.Create(r.Context(), userID, taskID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, subTask)
}

// Update handles updating a sub-task
func (h *SubTaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	subTaskID, err := uuidParam(r, "subTaskID")
	if err != nil {
		response.BadRequest(w, "invalid sub-task ID")
		return
	}

	var input domain.SubTaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	subTask, err := h.subTaskService.Update(r.Context(), userID, subTaskID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, subTask)
}

// Move handles repositioning a sub-task within its task
func (h *SubTaskHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	subTaskID, err := uuidParam(r, "subTaskID")
	if err != nil {
		response.BadRequest(w, "invalid sub-task ID")
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

	if err := h.subTaskService.Move(r.Context(), userID, subTaskID, input.Direction); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles deleting a sub-task
func (h *SubTaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	subTaskID, err := uuidParam(r, "subTaskID")
	if err != nil {
		response.BadRequest(w, "invalid sub-task ID")
		return
	}

	if err := h.subTaskService.Delete(r.Context(), userID, subTaskID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
