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

// grant registers a membership lookup on the mock store
func grant(store *mockStore, workspaceID, userID uuid.UUID, role domain.Role) *domain.TeamMember {
	member := &domain.TeamMember{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
	}
	store.teamMembers.On("GetByWorkspaceAndUser", mock.Anything, workspaceID, userID).Return(member, nil)
	return member
}

// withCustomer registers the workspace's billing record on the mock store
func withCustomer(store *mockStore, workspaceID uuid.UUID, status domain.SubscriptionStatus, seats int) {
	store.customers.On("GetByWorkspace", mock.Anything, workspaceID).Return(&domain.Customer{
		ID:                 uuid.New(),
		WorkspaceID:        workspaceID,
		SubscriptionStatus: status,
		Seats:              seats,
	}, nil)
}

func TestWorkspaceService_Create(t *testing.T) {
	store := newMockStore()
	svc := NewWorkspaceService(store)

	ctx := context.Background()
	userID := uuid.New()

	store.workspaces.On("Create", ctx, mock.AnythingOfType("*domain.Workspace")).Return(nil)
	store.teamMembers.On("Create", ctx, mock.MatchedBy(func(m *domain.TeamMember) bool {
		return m.UserID == userID && m.Role == domain.RoleOwner
	})).Return(nil)
	store.customers.On("Create", ctx, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.SubscriptionStatus == domain.SubscriptionUnpaid && c.Seats == 1
	})).Return(nil)

	workspace, err := svc.Create(ctx, userID, domain.WorkspaceCreate{Title: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", workspace.Title)

	store.workspaces.AssertExpectations(t)
	store.teamMembers.AssertExpectations(t)
	store.customers.AssertExpectations(t)
}

func TestWorkspaceService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("other members still present", func(t *testing.T) {
		store := newMockStore()
		svc := NewWorkspaceService(store)
		workspaceID, userID := uuid.New(), uuid.New()
		grant(store, workspaceID, userID, domain.RoleOwner)
		store.teamMembers.On("CountByWorkspace", ctx, workspaceID).Return(3, nil)

		err := svc.Delete(ctx, userID, workspaceID)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "remove the other team members")
	})

	t.Run("pending invites still present", func(t *testing.T) {
		store := newMockStore()
		svc := NewWorkspaceService(store)
		workspaceID, userID := uuid.New(), uuid.New()
		grant(store, workspaceID, userID, domain.RoleOwner)
		store.teamMembers.On("CountByWorkspace", ctx, workspaceID).Return(1, nil)
		store.invites.On("CountPendingByWorkspace", ctx, workspaceID).Return(2, nil)

		err := svc.Delete(ctx, userID, workspaceID)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "revoke the outstanding invites")
	})

	t.Run("projects still present", func(t *testing.T) {
		store := newMockStore()
		svc := NewWorkspaceService(store)
		workspaceID, userID := uuid.New(), uuid.New()
		grant(store, workspaceID, userID, domain.RoleOwner)
		store.teamMembers.On("CountByWorkspace", ctx, workspaceID).Return(1, nil)
		store.invites.On("CountPendingByWorkspace", ctx, workspaceID).Return(0, nil)
		store.projects.On("CountByWorkspace", ctx, workspaceID).Return(1, nil)

		err := svc.Delete(ctx, userID, workspaceID)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "delete the projects")
	})

	t.Run("empty workspace is deleted", func(t *testing.T) {
		store := newMockStore()
		svc := NewWorkspaceService(store)
		workspaceID, userID := uuid.New(), uuid.New()
		grant(store, workspaceID, userID, domain.RoleOwner)
		store.teamMembers.On("CountByWorkspace", ctx, workspaceID).Return(1, nil)
		store.invites.On("CountPendingByWorkspace", ctx, workspaceID).Return(0, nil)
		store.projects.On("CountByWorkspace", ctx, workspaceID).Return(0, nil)
		store.workspaces.On("Delete", ctx, workspaceID).Return(nil)

		require.NoError(t, svc.Delete(ctx, userID, workspaceID))
		store.workspaces.AssertExpectations(t)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		store := newMockStore()
		svc := NewWorkspaceService(store)
		workspaceID, userID := uuid.New(), uuid.New()
		grant(store, workspaceID, userID, domain.RoleMaintainer)

		err := svc.Delete(ctx, userID, workspaceID)
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("non-member sees not found", func(t *testing.T) {
		store := newMockStore()
		svc := NewWorkspaceService(store)
		workspaceID, userID := uuid.New(), uuid.New()
		store.teamMembers.On("GetByWorkspaceAndUser", ctx, workspaceID, userID).Return(nil, nil)

		err := svc.Delete(ctx, userID, workspaceID)
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestWorkspaceService_GetByID_HidesFromNonMembers(t *testing.T) {
	store := newMockStore()
	svc := NewWorkspaceService(store)

	ctx := context.Background()
	workspaceID, userID := uuid.New(), uuid.New()
	store.teamMembers.On("GetByWorkspaceAndUser", ctx, workspaceID, userID).Return(nil, nil)

	_, err := svc.GetByID(ctx, userID, workspaceID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	store.workspaces.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
