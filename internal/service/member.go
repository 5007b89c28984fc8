package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// TeamMemberService handles workspace membership operations
type TeamMemberService struct {
	store domain.Store
}

// NewTeamMemberService creates a new team member service
func NewTeamMemberService(store domain.Store) *TeamMemberService {
	return &TeamMemberService{store: store}
}

// ListByWorkspace lists a workspace's team members
func (s *TeamMemberService) ListByWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) ([]domain.TeamMember, error) {
	if _, err := memberOf(ctx, s.store, workspaceID, userID, "workspace"); err != nil {
		return nil, err
	}

	members, err := s.store.TeamMembers().ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

// Update changes a member's role or job title (owner only)
func (s *TeamMemberService) Update(ctx context.Context, userID, memberID uuid.UUID, input domain.TeamMemberUpdate) (*domain.TeamMember, error) {
	if input.Role != nil && !input.Role.Valid() {
		return nil, domain.NewValidationError("unknown role %q", *input.Role)
	}

	var member *domain.TeamMember
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		target, err := s.visibleMember(ctx, tx, userID, memberID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, target.WorkspaceID, userID, authz.UpdateTeamMember, "team member"); err != nil {
			return err
		}
		if err := tx.TeamMembers().Update(ctx, memberID, &input); err != nil {
			return fmt.Errorf("failed to update team member: %w", err)
		}

		member, err = tx.TeamMembers().GetByID(ctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to get team member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a member from a workspace. Removing yourself is always
// denied, even for owners, and the last remaining member can never be
// removed. Chat messages authored by the removed member survive with a
// nulled author.
func (s *TeamMemberService) Delete(ctx context.Context, userID, memberID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		target, err := s.visibleMember(ctx, tx, userID, memberID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, target.WorkspaceID, userID, authz.DeleteTeamMember, "team member"); err != nil {
			return err
		}

		if target.UserID == userID {
			return domain.NewValidationError("you cannot remove yourself from the workspace")
		}

		count, err := tx.TeamMembers().CountByWorkspace(ctx, target.WorkspaceID)
		if err != nil {
			return fmt.Errorf("failed to count team members: %w", err)
		}
		if count <= 1 {
			return domain.NewValidationError("cannot remove the last team member")
		}

		if err := tx.TeamMembers().Delete(ctx, memberID); err != nil {
			return fmt.Errorf("failed to delete team member: %w", err)
		}
		return nil
	})
}

// UpdatePrefs updates the caller's own UI preference state in a workspace
func (s *TeamMemberService) UpdatePrefs(ctx context.Context, userID, workspaceID uuid.UUID, prefs domain.TeamMemberPrefsUpdate) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		member, err := memberOf(ctx, tx, workspaceID, userID, "workspace")
		if err != nil {
			return err
		}

		if prefs.LastVisitedProjectID != nil {
			project, err := tx.Projects().GetByID(ctx, *prefs.LastVisitedProjectID)
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}
			if project == nil || project.WorkspaceID != workspaceID {
				return domain.NewNotFoundError("project")
			}
		}

		if err := tx.TeamMembers().UpdatePrefs(ctx, member.ID, &prefs); err != nil {
			return fmt.Errorf("failed to update preferences: %w", err)
		}
		return nil
	})
}

func (s *TeamMemberService) visibleMember(ctx context.Context, store domain.Store, userID, memberID uuid.UUID) (*domain.TeamMember, error) {
	member, err := store.TeamMembers().GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}
	if member == nil {
		return nil, domain.NewNotFoundError("team member")
	}
	if _, err := memberOf(ctx, store, member.WorkspaceID, userID, "team member"); err != nil {
		return nil, err
	}
	return member, nil
}
