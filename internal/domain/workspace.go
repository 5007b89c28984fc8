package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is the root tenant container. HighestTaskNumber is a monotonic
// counter tracking the largest task number ever issued in the workspace; it
// never decreases and numbers are never reused.
type Workspace struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Picture           *string   `json:"picture,omitempty"`
	HighestTaskNumber int       `json:"highest_task_number"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// WorkspaceUpdate represents workspace update data
type WorkspaceUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Picture     *string `json:"picture,omitempty"`
}

// SubscriptionStatus is the workspace customer's billing state, mutated
// asynchronously by the external billing webhook.
type SubscriptionStatus string

const (
	SubscriptionUnpaid    SubscriptionStatus = "unpaid"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionCustom    SubscriptionStatus = "custom"
)

// Customer is the 1:1 billing record for a workspace
type Customer struct {
	ID                 uuid.UUID          `json:"id"`
	WorkspaceID        uuid.UUID          `json:"workspace_id"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	Seats              int                `json:"seats"`
	StripeCustomerID   *string            `json:"stripe_customer_id,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// CustomerUpdate carries a billing-state change, typically driven by a
// Stripe webhook outside this service.
type CustomerUpdate struct {
	SubscriptionStatus *SubscriptionStatus `json:"subscription_status,omitempty"`
	Seats              *int                `json:"seats,omitempty" validate:"omitempty,min=1"`
	StripeCustomerID   *string             `json:"stripe_customer_id,omitempty"`
}
