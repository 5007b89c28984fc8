package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/api/response"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/service"
)

// BillingHandler handles workspace billing endpoints
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// GetCustomer handles reading the workspace's billing record
func (h *BillingHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
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

	customer, err := h.billingService.GetCustomer(r.Context(), userID, workspaceID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, customer)
}

// UpdateCustomer handles subscription-state changes
func (h *BillingHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
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

	var input domain.CustomerUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	customer, err := h.billingService.UpdateCustomer(r.Context(), userID, workspaceID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, customer)
}

// GetQuota reports the current quota state for one resource
func (h *BillingHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
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

	resource := domain.Resource(r.URL.Query().Get("resource"))
	if resource == "" {
		response.BadRequest(w, "missing resource")
		return
	}

	q, err := h.billingService.QuotaFor(r.Context(), userID, workspaceID, resource)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, q)
}
