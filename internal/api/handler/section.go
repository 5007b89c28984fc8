package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// SectionHandler handles section endpoints
type SectionHandler struct {
	sectionService *service.SectionService
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(sectionService *service.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

// moveRequest asks for either an absolute position or a relative direction
type moveRequest struct {
	Position  *int                  `json:"position,omitempty"`
	Direction *domain.MoveDirection `json:"direction,omitempty"`
}

func (m moveRequest) valid() bool {
	if (m.Position == nil) == (m.Direction == nil) {
		return false
	}
	return m.Direction == nil || m.Direction.Valid()
}

// Create handles section creation within a project
func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.SectionCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	section, err := h.sectionService.Create(r.Context(), userID, projectID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, section)
}

// List handles listing a project's sections
func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
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

	sections, err := h.sectionService.ListByProject(r.Context(), userID, projectID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, sections)
}

// Get handles getting a section by ID
func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	section, err := h.sectionService.GetByID(r.Context(), userID, sectionID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, section)
}

// Update handles updating a section
func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var input domain.SectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	section, err := h.sectionService.Update(r.Context(), userID, sectionID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, section)
}

// Move handles repositioning a section within its project
func (h *SectionHandler) Move(w http.ResponseWriter, r *http.Request) {
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

	var input moveRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !input.valid() {
		response.BadRequest(w, "provide exactly one of position or direction")
		return
	}

	if input.Position != nil {
		err = h.sectionService.MoveTo(r.Context(), userID, sectionID, *input.Position)
	} else {
		err = h.sectionService.Move(r.Context(), userID, sectionID, *input.Direction)
	}
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles deleting a section
func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.sectionService.Delete(r.Context(), userID, sectionID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
