package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures invite notifications for assertions
type recordingNotifier struct {
	emails []string
	titles []string
}

func (n *recordingNotifier) InviteSent(ctx context.Context, email, workspaceTitle string) {
	n.emails = append(n.emails, email)
	n.titles = append(n.titles, workspaceTitle)
}

func inviteFixture(t *testing.T) (*mockStore, *recordingNotifier, *InviteService, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := newMockStore()
	notifier := &recordingNotifier{}
	svc := NewInviteService(store, notifier)
	workspaceID, userID := uuid.New(), uuid.New()
	grant(store, workspaceID, userID, domain.RoleOwner)
	withCustomer(store, workspaceID, domain.SubscriptionActive, 10)
	store.quotas.On("Count", mock.Anything, workspaceID, domain.ResourceMembersAndInvites).Return(1, nil)
	store.workspaces.On("GetByID", mock.Anything, workspaceID).Return(&domain.Workspace{
		ID:    workspaceID,
		Title: "Acme",
	}, nil)
	return store, notifier, svc, workspaceID, userID
}

func TestInviteService_Invite(t *testing.T) {
	ctx := context.Background()

	t.Run("existing member is rejected", func(t *testing.T) {
		store, notifier, svc, workspaceID, userID := inviteFixture(t)

		existing := &domain.User{ID: uuid.New(), Email: "taken@example.com"}
		store.users.On("GetByEmail", ctx, existing.Email).Return(existing, nil)
		store.teamMembers.On("GetByWorkspaceAndUser", ctx, workspaceID, existing.ID).Return(&domain.TeamMember{
			ID:          uuid.New(),
			WorkspaceID: workspaceID,
			UserID:      existing.ID,
			Role:        domain.RoleContributor,
		}, nil)

		_, err := svc.Invite(ctx, userID, workspaceID, domain.InviteCreate{Email: existing.Email})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "already a member")
		assert.Empty(t, notifier.emails)
	})

	t.Run("existing user becomes an observer immediately", func(t *testing.T) {
		store, notifier, svc, workspaceID, userID := inviteFixture(t)

		user := &domain.User{ID: uuid.New(), Email: "newhire@example.com"}
		store.users.On("GetByEmail", ctx, user.Email).Return(user, nil)
		store.teamMembers.On("GetByWorkspaceAndUser", ctx, workspaceID, user.ID).Return(nil, nil)
		store.teamMembers.On("Create", ctx, mock.MatchedBy(func(m *domain.TeamMember) bool {
			return m.UserID == user.ID && m.Role == domain.RoleObserver
		})).Return(nil)

		result, err := svc.Invite(ctx, userID, workspaceID, domain.InviteCreate{Email: user.Email})
		require.NoError(t, err)
		require.NotNil(t, result.Member)
		assert.Nil(t, result.Invite)
		assert.Empty(t, notifier.emails, "direct membership sends no invite mail")
	})

	t.Run("already invited email is rejected", func(t *testing.T) {
		store, notifier, svc, workspaceID, userID := inviteFixture(t)

		email := "pending@example.com"
		store.users.On("GetByEmail", ctx, email).Return(nil, nil)
		store.invites.On("GetPendingByWorkspaceAndEmail", ctx, workspaceID, email).Return(&domain.TeamMemberInvite{
			ID:          uuid.New(),
			WorkspaceID: workspaceID,
			Email:       email,
		}, nil)

		_, err := svc.Invite(ctx, userID, workspaceID, domain.InviteCreate{Email: email})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "already been invited")
		assert.Empty(t, notifier.emails)
	})

	t.Run("unknown email gets a pending invite and a notification", func(t *testing.T) {
		store, notifier, svc, workspaceID, userID := inviteFixture(t)

		email := "stranger@example.com"
		store.users.On("GetByEmail", ctx, email).Return(nil, nil)
		store.invites.On("GetPendingByWorkspaceAndEmail", ctx, workspaceID, email).Return(nil, nil)
		store.invites.On("GetUserInviteByEmail", ctx, email).Return(nil, nil)
		store.invites.On("CreateUserInvite", ctx, mock.AnythingOfType("*domain.UserInvite")).Return(nil)
		store.invites.On("CreateTeamMemberInvite", ctx, mock.MatchedBy(func(i *domain.TeamMemberInvite) bool {
			return i.WorkspaceID == workspaceID && i.Email == email
		})).Return(nil)

		result, err := svc.Invite(ctx, userID, workspaceID, domain.InviteCreate{Email: email})
		require.NoError(t, err)
		assert.Nil(t, result.Member)
		require.NotNil(t, result.Invite)

		require.Len(t, notifier.emails, 1)
		assert.Equal(t, email, notifier.emails[0])
		assert.Equal(t, "Acme", notifier.titles[0])
	})

	t.Run("reuses an existing user invite", func(t *testing.T) {
		store, _, svc, workspaceID, userID := inviteFixture(t)

		email := "known-elsewhere@example.com"
		userInvite := &domain.UserInvite{ID: uuid.New(), Email: email}
		store.users.On("GetByEmail", ctx, email).Return(nil, nil)
		store.invites.On("GetPendingByWorkspaceAndEmail", ctx, workspaceID, email).Return(nil, nil)
		store.invites.On("GetUserInviteByEmail", ctx, email).Return(userInvite, nil)
		store.invites.On("CreateTeamMemberInvite", ctx, mock.MatchedBy(func(i *domain.TeamMemberInvite) bool {
			return i.UserInviteID == userInvite.ID
		})).Return(nil)

		_, err := svc.Invite(ctx, userID, workspaceID, domain.InviteCreate{Email: email})
		require.NoError(t, err)
		store.invites.AssertNotCalled(t, "CreateUserInvite", mock.Anything, mock.Anything)
	})
}

func TestInviteService_DeleteInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("redeemed invite cannot be revoked", func(t *testing.T) {
		store := newMockStore()
		svc := NewInviteService(store, &recordingNotifier{})
		workspaceID, userID := uuid.New(), uuid.New()
		grant(store, workspaceID, userID, domain.RoleOwner)

		invite := &domain.TeamMemberInvite{
			ID:          uuid.New(),
			WorkspaceID: workspaceID,
			Redeemed:    true,
		}
		store.invites.On("GetByID", ctx, invite.ID).Return(invite, nil)

		err := svc.DeleteInvite(ctx, userID, invite.ID)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "already been redeemed")
	})

	t.Run("pending invite is revoked", func(t *testing.T) {
		store := newMockStore()
		svc := NewInviteService(store, &recordingNotifier{})
		workspaceID, userID := uuid.New(), uuid.New()
		grant(store, workspaceID, userID, domain.RoleOwner)

		invite := &domain.TeamMemberInvite{ID: uuid.New(), WorkspaceID: workspaceID}
		store.invites.On("GetByID", ctx, invite.ID).Return(invite, nil)
		store.invites.On("Delete", ctx, invite.ID).Return(nil)

		require.NoError(t, svc.DeleteInvite(ctx, userID, invite.ID))
		store.invites.AssertExpectations(t)
	})
}

func TestRedeemInvitesForUser(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()

	user := &domain.User{ID: uuid.New(), Email: "winner@example.com"}
	won := domain.TeamMemberInvite{ID: uuid.New(), WorkspaceID: uuid.New(), Email: user.Email}
	lost := domain.TeamMemberInvite{ID: uuid.New(), WorkspaceID: uuid.New(), Email: user.Email}

	store.invites.On("ListPendingByEmail", ctx, user.Email).Return([]domain.TeamMemberInvite{won, lost}, nil)
	store.invites.On("Redeem", ctx, won.ID, mock.AnythingOfType("time.Time")).Return(true, nil)
	store.invites.On("Redeem", ctx, lost.ID, mock.AnythingOfType("time.Time")).Return(false, nil)
	store.teamMembers.On("Create", ctx, mock.MatchedBy(func(m *domain.TeamMember) bool {
		return m.WorkspaceID == won.WorkspaceID && m.UserID == user.ID && m.Role == domain.RoleObserver
	})).Return(nil)

	require.NoError(t, redeemInvitesForUser(ctx, store, user))

	// Only the won redemption creates a membership
	store.teamMembers.AssertNumberOfCalls(t, "Create", 1)
}
