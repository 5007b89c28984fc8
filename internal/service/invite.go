package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/notify"
)

// InviteService handles workspace invitations
type InviteService struct {
	store    domain.Store
	notifier notify.Notifier
}

// NewInviteService creates a new invite service
func NewInviteService(store domain.Store, notifier notify.Notifier) *InviteService {
	return &InviteService{store: store, notifier: notifier}
}

// InviteResult is the outcome of an invitation request: either a direct
// membership (the email already had an account) or a pending invite.
type InviteResult struct {
	Member *domain.TeamMember      `json:"member,omitempty"`
	Invite *domain.TeamMemberInvite `json:"invite,omitempty"`
}

// Invite invites an email address into a workspace. If the email belongs to
// an existing user who is not yet a member, they become an Observer member
// immediately. Otherwise a pending invite is recorded and redeemed when a
// matching account registers. Inviting a current member or an already
// invited email is an error.
func (s *InviteService) Invite(ctx context.Context, userID, workspaceID uuid.UUID, input domain.InviteCreate) (*InviteResult, error) {
	var (
		result    InviteResult
		workspace *domain.Workspace
	)
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.CreateTeamMemberInvite, "workspace"); err != nil {
			return err
		}

		var err error
		workspace, err = tx.Workspaces().GetByID(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to get workspace: %w", err)
		}
		if workspace == nil {
			return domain.NewNotFoundError("workspace")
		}

		user, err := tx.Users().GetByEmail(ctx, input.Email)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user != nil {
			existing, err := tx.TeamMembers().GetByWorkspaceAndUser(ctx, workspaceID, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get team member: %w", err)
			}
			if existing != nil {
				return domain.NewValidationError("user is already a member of this workspace")
			}

			now := time.Now()
			member := &domain.TeamMember{
				ID:          uuid.New(),
				WorkspaceID: workspaceID,
				UserID:      user.ID,
				Role:        domain.RoleObserver,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.TeamMembers().Create(ctx, member); err != nil {
				return err
			}
			result.Member = member
			return nil
		}

		pending, err := tx.Invites().GetPendingByWorkspaceAndEmail(ctx, workspaceID, input.Email)
		if err != nil {
			return fmt.Errorf("failed to get invite: %w", err)
		}
		if pending != nil {
			return domain.NewValidationError("user has already been invited to this workspace")
		}

		userInvite, err := tx.Invites().GetUserInviteByEmail(ctx, input.Email)
		if err != nil {
			return fmt.Errorf("failed to get user invite: %w", err)
		}
		now := time.Now()
		if userInvite == nil {
			userInvite = &domain.UserInvite{
				ID:        uuid.New(),
				Email:     input.Email,
				CreatedAt: now,
			}
			if err := tx.Invites().CreateUserInvite(ctx, userInvite); err != nil {
				return fmt.Errorf("failed to create user invite: %w", err)
			}
		}

		invite := &domain.TeamMemberInvite{
			ID:           uuid.New(),
			WorkspaceID:  workspaceID,
			UserInviteID: userInvite.ID,
			Email:        input.Email,
			CreatedAt:    now,
		}
		if err := tx.Invites().CreateTeamMemberInvite(ctx, invite); err != nil {
			return err
		}
		result.Invite = invite
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Invite != nil {
		s.notifier.InviteSent(ctx, input.Email, workspace.Title)
	}
	return &result, nil
}

// DeleteInvite revokes a pending invite
func (s *InviteService) DeleteInvite(ctx context.Context, userID, inviteID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		invite, err := tx.Invites().GetByID(ctx, inviteID)
		if err != nil {
			return fmt.Errorf("failed to get invite: %w", err)
		}
		if invite == nil {
			return domain.NewNotFoundError("invite")
		}
		if _, err := authorize(ctx, tx, invite.WorkspaceID, userID, authz.DeleteTeamMemberInvite, "invite"); err != nil {
			return err
		}
		if invite.Redeemed {
			return domain.NewValidationError("invite has already been redeemed")
		}
		if err := tx.Invites().Delete(ctx, inviteID); err != nil {
			return fmt.Errorf("failed to delete invite: %w", err)
		}
		return nil
	})
}

// redeemInvitesForUser promotes every pending invite matching the user's
// email into an Observer membership. The SQL-level redeemed guard makes each
// redemption exactly-once even under concurrent registration attempts; an
// invite that lost the race is skipped.
func redeemInvitesForUser(ctx context.Context, tx domain.Store, user *domain.User) error {
	invites, err := tx.Invites().ListPendingByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("failed to list invites: %w", err)
	}

	now := time.Now()
	for _, invite := range invites {
		redeemed, err := tx.Invites().Redeem(ctx, invite.ID, now)
		if err != nil {
			return fmt.Errorf("failed to redeem invite: %w", err)
		}
		if !redeemed {
			continue
		}

		member := &domain.TeamMember{
			ID:          uuid.New(),
			WorkspaceID: invite.WorkspaceID,
			UserID:      user.ID,
			Role:        domain.RoleObserver,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.TeamMembers().Create(ctx, member); err != nil {
			return err
		}
	}
	return nil
}
