package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// InviteHandler handles workspace invitation endpoints
type InviteHandler struct {
	inviteService *service.InviteService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService *service.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// Create handles inviting an email into a workspace
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.InviteCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.inviteService.Invite(r.Context(), userID, workspaceID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, result)
}

// Delete handles revoking a pending invite
func (h *InviteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	inviteID, err := uuidParam(r, "inviteID")
	if err != nil {
		response.BadRequest(w, "invalid invite ID")
		return
	}

	if err := h.inviteService.DeleteInvite(r.Context(), userID, inviteID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
