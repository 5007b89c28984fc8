package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// WorkspaceService handles workspace operations
type WorkspaceService struct {
	store domain.Store
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(store domain.Store) *WorkspaceService {
	return &WorkspaceService{store: store}
}

// Create creates a workspace with the creator as its Owner member and a
// fresh billing record in the unpaid (trial) state.
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	now := time.Now()
	workspace := &domain.Workspace{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		if err := tx.Workspaces().Create(ctx, workspace); err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}

		member := &domain.TeamMember{
			ID:          uuid.New(),
			WorkspaceID: workspace.ID,
			UserID:      userID,
			Role:        domain.RoleOwner,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.TeamMembers().Create(ctx, member); err != nil {
			return fmt.Errorf("failed to add owner member: %w", err)
		}

		customer := &domain.Customer{
			ID:                 uuid.New(),
			WorkspaceID:        workspace.ID,
			SubscriptionStatus: domain.SubscriptionUnpaid,
			Seats:              1,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.Customers().Create(ctx, customer); err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return workspace, nil
}

// GetByID retrieves a workspace visible to the user
func (s *WorkspaceService) GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	if _, err := memberOf(ctx, s.store, workspaceID, userID, "workspace"); err != nil {
		return nil, err
	}

	workspace, err := s.store.Workspaces().GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.NewNotFoundError("workspace")
	}
	return workspace, nil
}

// ListForUser retrieves all workspaces the user is a member of
func (s *WorkspaceService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	workspaces, err := s.store.Workspaces().ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// Update updates workspace metadata (owner only)
func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID uuid.UUID, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	var workspace *domain.Workspace
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateWorkspace, "workspace"); err != nil {
			return err
		}
		if err := tx.Workspaces().Update(ctx, workspaceID, &input); err != nil {
			return fmt.Errorf("failed to update workspace: %w", err)
		}

		var err error
		workspace, err = tx.Workspaces().GetByID(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to get workspace: %w", err)
		}
		if workspace == nil {
			return domain.NewNotFoundError("workspace")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return workspace, nil
}

// Delete deletes a workspace. The workspace must already be reduced to its
// last team member, with no unredeemed invites and no projects; each
// precondition is reported on its own so the caller can resolve them one at
// a time.
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.DeleteWorkspace, "workspace"); err != nil {
			return err
		}

		members, err := tx.TeamMembers().CountByWorkspace(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to count team members: %w", err)
		}
		if members > 1 {
			return domain.NewValidationError(
				"cannot delete workspace: remove the other team members first")
		}

		invites, err := tx.Invites().CountPendingByWorkspace(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to count invites: %w", err)
		}
		if invites > 0 {
			return domain.NewValidationError(
				"cannot delete workspace: revoke the outstanding invites first")
		}

		projects, err := tx.Projects().CountByWorkspace(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to count projects: %w", err)
		}
		if projects > 0 {
			return domain.NewValidationError(
				"cannot delete workspace: delete the projects first")
		}

		if err := tx.Workspaces().Delete(ctx, workspaceID); err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}
		return nil
	})
}
