package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/quota"
)

// BillingService reads and mutates the workspace's billing record. Status
// changes take effect on the next quota evaluation; nothing is recomputed
// eagerly.
type BillingService struct {
	store domain.Store
}

// NewBillingService creates a new billing service
func NewBillingService(store domain.Store) *BillingService {
	return &BillingService{store: store}
}

// GetCustomer retrieves the workspace's billing record (owner only)
func (s *BillingService) GetCustomer(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Customer, error) {
	if _, err := authorize(ctx, s.store, workspaceID, userID, authz.ReadCustomer, "workspace"); err != nil {
		return nil, err
	}

	customer, err := s.store.Customers().GetByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, domain.NewInternalError("workspace %s has no billing record", workspaceID)
	}
	return customer, nil
}

// UpdateCustomer applies a subscription-state change, the entry point the
// external billing webhook would call
func (s *BillingService) UpdateCustomer(ctx context.Context, userID, workspaceID uuid.UUID, input domain.CustomerUpdate) (*domain.Customer, error) {
	if input.SubscriptionStatus != nil {
		if _, err := quota.SubscriptionClass(*input.SubscriptionStatus); err != nil {
			return nil, domain.NewValidationError("unknown subscription status %q", *input.SubscriptionStatus)
		}
	}

	var customer *domain.Customer
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateCustomer, "workspace"); err != nil {
			return err
		}
		if err := tx.Customers().Update(ctx, workspaceID, &input); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}

		var err error
		customer, err = tx.Customers().GetByWorkspace(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to get customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// QuotaFor reports (current, limit, can-create-more) for one resource in
// the workspace, as the permission engine would see it right now
func (s *BillingService) QuotaFor(ctx context.Context, userID, workspaceID uuid.UUID, resource domain.Resource) (quota.Quota, error) {
	if _, err := memberOf(ctx, s.store, workspaceID, userID, "workspace"); err != nil {
		return quota.Quota{}, err
	}

	engine := quota.NewEngine(s.store.Quotas(), s.store.Customers())
	return engine.Quota(ctx, workspaceID, resource)
}
