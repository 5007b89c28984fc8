package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// LabelHandler handles label endpoints
type LabelHandler struct {
	labelService *service.LabelService
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(labelService *service.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// Create handles label creation within a workspace
func (h *LabelHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	var input domain.LabelCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	label, err := h.labelService.Create(r.Context(), userID, workspaceID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, label)
}

// List handles listing a workspace's labels
func (h *LabelHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	labels, err := h.labelService.ListByWorkspace(r.Context(), userID, workspaceID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, labels)
}

// Update handles updating a label
func (h *LabelHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	labelID, err := uuidParam(r, "labelID")
	if err != nil {
		response.BadRequest(w, "invalid label ID")
		return
	}

	var input domain.LabelUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	label, err := h.labelService.Update(r.Context(), userID, labelID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, label)
}

// Delete handles deleting a label
func (h *LabelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	labelID, err := uuidParam(r, "labelID")
	if err != nil {
		response.BadRequest(w, "invalid label ID")
		return
	}

	if err := h.labelService.Delete(r.Context(), userID, labelID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
