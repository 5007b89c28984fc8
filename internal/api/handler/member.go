package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// TeamMemberHandler handles team member endpoints
type TeamMemberHandler struct {
	memberService *service.TeamMemberService
}

// NewTeamMemberHandler creates a new team member handler
func NewTeamMemberHandler(memberService *service.TeamMemberService) *TeamMemberHandler {
	return &TeamMemberHandler{memberService: memberService}
}

// List handles listing a workspace's team members
func (h *TeamMemberHandler) List(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.memberService.ListByWorkspace(r.Context(), userID, workspaceID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, members)
}

// Update handles changing a member's role or job title
func (h *TeamMemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	memberID, err := uuidParam(r, "memberID")
	if err != nil {
		response.BadRequest(w, "invalid member ID")
		return
	}

	var input domain.TeamMemberUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	member, err := h.memberService.Update(r.Context(), userID, memberID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, member)
}

// Delete handles removing a member from a workspace
func (h *TeamMemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	memberID, err := uuidParam(r, "memberID")
	if err != nil {
		response.BadRequest(w, "invalid member ID")
		return
	}

	if err := h.memberService.Delete(r.Context(), userID, memberID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdatePrefs handles updating the caller's own UI preferences in a
// workspace
func (h *TeamMemberHandler) UpdatePrefs(w http.ResponseWriter, r *http.Request) {
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

	var input domain.TeamMemberPrefsUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.memberService.UpdatePrefs(r.Context(), userID, workspaceID, input); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
