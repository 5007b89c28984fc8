package quota

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// Class is the coarse subscription classification driving resource limits
type Class string

const (
	ClassFull  Class = "full"
	ClassTrial Class = "trial"
)

// Trial ceilings per resource kind. These are policy constants, not
// structural invariants; resources absent from the map are unlimited during
// trial as well.
var trialLimits = map[domain.Resource]int{
	domain.ResourceProjects:          10,
	domain.ResourceSections:          100,
	domain.ResourceTasks:             1000,
	domain.ResourceSubTasks:          1000,
	domain.ResourceLabels:            10,
	domain.ResourceChatMessages:      0,
	domain.ResourceMembersAndInvites: 2,
}

// SubscriptionClass maps a stored subscription status to its limit class.
// An unrecognized status is state corruption and fails loudly instead of
// defaulting to trial.
func SubscriptionClass(status domain.SubscriptionStatus) (Class, error) {
	switch status {
	case domain.SubscriptionActive, domain.SubscriptionCustom:
		return ClassFull, nil
	case domain.SubscriptionUnpaid, domain.SubscriptionCancelled:
		return ClassTrial, nil
	default:
		return "", domain.NewInternalError("unrecognized subscription status %q", status)
	}
}

// Quota is the result of a quota computation. Current and Limit are nil when
// the resource is unlimited; counting is skipped in that case.
type Quota struct {
	Current       *int `json:"current"`
	Limit         *int `json:"limit"`
	CanCreateMore bool `json:"can_create_more"`
}

// Counter reads the live count of a resource within a workspace. Inside a
// transaction the count reflects rows created earlier in the same
// transaction, which is what lets nested payloads (task plus sub-tasks plus
// labels) check each nested creation against up-to-date state.
type Counter interface {
	Count(ctx context.Context, workspaceID uuid.UUID, resource domain.Resource) (int, error)
}

// CustomerReader reads the billing record for a workspace
type CustomerReader interface {
	GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*domain.Customer, error)
}

// Engine computes creation quotas from subscription state and live counts.
//
// Quota checks deliberately take no locks: two concurrent requests can both
// observe "1 of 2 used" and both create, transiently landing one over the
// limit. That soft-limit race is accepted; serializing it would serialize
// every create in the workspace.
type Engine struct {
	counter   Counter
	customers CustomerReader
}

// NewEngine creates a quota engine
func NewEngine(counter Counter, customers CustomerReader) *Engine {
	return &Engine{counter: counter, customers: customers}
}

// Limit returns the creation ceiling for a resource, or nil when unlimited
func (e *Engine) Limit(ctx context.Context, workspaceID uuid.UUID, resource domain.Resource) (*int, error) {
	customer, err := e.customers.GetByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, domain.NewInternalError("workspace %s has no billing record", workspaceID)
	}

	class, err := SubscriptionClass(customer.SubscriptionStatus)
	if err != nil {
		return nil, err
	}

	if class == ClassFull {
		// Full subscriptions are unlimited except for purchased seats.
		if resource == domain.ResourceMembersAndInvites {
			seats := customer.Seats
			return &seats, nil
		}
		return nil, nil
	}

	limit, ok := trialLimits[resource]
	if !ok {
		return nil, nil
	}
	return &limit, nil
}

// Quota computes (current, limit, can_create_more) for one resource
func (e *Engine) Quota(ctx context.Context, workspaceID uuid.UUID, resource domain.Resource) (Quota, error) {
	limit, err := e.Limit(ctx, workspaceID, resource)
	if err != nil {
		return Quota{}, err
	}
	if limit == nil {
		return Quota{CanCreateMore: true}, nil
	}

	current, err := e.counter.Count(ctx, workspaceID, resource)
	if err != nil {
		return Quota{}, fmt.Errorf("failed to count %s: %w", resource, err)
	}

	return Quota{
		Current:       &current,
		Limit:         limit,
		CanCreateMore: current < *limit,
	}, nil
}
