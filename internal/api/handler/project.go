package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles project creation within a workspace
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.ProjectCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	project, err := h.projectService.Create(r.Context(), userID, workspaceID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, project)
}

// List handles listing a workspace's projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
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

	includeArchived := r.URL.Query().Get("include_archived") == "true"

	projects, err := h.projectService.ListByWorkspace(r.Context(), userID, workspaceID, includeArchived)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, projects)
}

// Get handles getting a project by ID
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		response.BadRequest(w, "invalid project ID")
		return
	}

	project, err := h.projectService.GetByID(r.Context(), userID, projectID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, project)
}

// Update handles updating a project
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		response.BadRequest(w, "invalid project ID")
		return
	}

	var input domain.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	project, err := h.projectService.Update(r.Context(), userID, projectID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, project)
}

// Archive handles archiving a project
func (h *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// Unarchive handles restoring an archived project
func (h *ProjectHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *ProjectHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		response.BadRequest(w, "invalid project ID")
		return
	}

	project, err := h.projectService.SetArchived(r.Context(), userID, projectID, archived)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, project)
}

// Delete handles deleting a project
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		response.BadRequest(w, "invalid project ID")
		return
	}

	if err := h.projectService.Delete(r.Context(), userID, projectID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
