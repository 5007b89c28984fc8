package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// ChatMessageHandler handles task chat endpoints
type ChatMessageHandler struct {
	chatService *service.ChatMessageService
}

// NewChatMessageHandler creates a new chat message handler
func NewChatMessageHandler(chatService *service.ChatMessageService) *ChatMessageHandler {
	return &ChatMessageHandler{chatService: chatService}
}

// Create handles posting a chat message on a task
func (h *ChatMessageHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.ChatMessageCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	message, err := h.chatService.Create(r.Context(), userID, taskID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, message)
}

// List handles listing a task's chat messages
func (h *ChatMessageHandler) List(w http.ResponseWriter, r *http.Request) {
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

	messages, err := h.chatService.ListByTask(r.Context(), userID, taskID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, messages)
}
