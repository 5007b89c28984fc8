package authz_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts map[domain.Resource]int
}

func (f *fakeCounter) Count(ctx context.Context, workspaceID uuid.UUID, resource domain.Resource) (int, error) {
	return f.counts[resource], nil
}

type fakeCustomers struct {
	customer *domain.Customer
}

func (f *fakeCustomers) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*domain.Customer, error) {
	return f.customer, nil
}

func newChecker(status domain.SubscriptionStatus, seats int, counts map[domain.Resource]int) *authz.Checker {
	engine := quota.NewEngine(
		&fakeCounter{counts: counts},
		&fakeCustomers{customer: &domain.Customer{
			SubscriptionStatus: status,
			Seats:              seats,
		}},
	)
	return authz.NewChecker(engine)
}

func member(role domain.Role) *domain.TeamMember {
	return &domain.TeamMember{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		UserID:      uuid.New(),
		Role:        role,
	}
}

func TestChecker_RoleFloor(t *testing.T) {
	ctx := context.Background()
	checker := newChecker(domain.SubscriptionActive, 10, nil)

	cases := []struct {
		name    string
		role    domain.Role
		perm    authz.Permission
		allowed bool
	}{
		{"observer reads workspace", domain.RoleObserver, authz.ReadWorkspace, true},
		{"observer cannot create task", domain.RoleObserver, authz.CreateTask, false},
		{"contributor creates task", domain.RoleContributor, authz.CreateTask, true},
		{"contributor cannot delete task", domain.RoleContributor, authz.DeleteTask, false},
		{"maintainer deletes task", domain.RoleMaintainer, authz.DeleteTask, true},
		{"maintainer cannot update workspace", domain.RoleMaintainer, authz.UpdateWorkspace, false},
		{"owner updates workspace", domain.RoleOwner, authz.UpdateWorkspace, true},
		{"maintainer cannot invite", domain.RoleMaintainer, authz.CreateTeamMemberInvite, false},
		{"owner reads customer", domain.RoleOwner, authz.ReadCustomer, true},
		{"contributor creates sub-task", domain.RoleContributor, authz.CreateSubTask, true},
		{"contributor cannot create section", domain.RoleContributor, authz.CreateSection, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checker.Validate(ctx, member(tc.role), tc.perm)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				var authErr *domain.AuthorizationError
				assert.ErrorAs(t, err, &authErr)
			}
		})
	}
}

func TestChecker_NilMemberDenied(t *testing.T) {
	checker := newChecker(domain.SubscriptionActive, 10, nil)

	err := checker.Validate(context.Background(), nil, authz.ReadWorkspace)
	var authErr *domain.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestChecker_UnknownPermissionFailsClosed(t *testing.T) {
	checker := newChecker(domain.SubscriptionActive, 10, nil)

	err := checker.Validate(context.Background(), member(domain.RoleOwner), authz.Permission(9999))
	var authErr *domain.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestChecker_QuotaGate(t *testing.T) {
	ctx := context.Background()

	t.Run("trial project limit reached", func(t *testing.T) {
		checker := newChecker(domain.SubscriptionUnpaid, 1, map[domain.Resource]int{
			domain.ResourceProjects: 10,
		})
		err := checker.Validate(ctx, member(domain.RoleMaintainer), authz.CreateProject)
		var authErr *domain.AuthorizationError
		require.ErrorAs(t, err, &authErr)
	})

	t.Run("trial project limit not reached", func(t *testing.T) {
		checker := newChecker(domain.SubscriptionUnpaid, 1, map[domain.Resource]int{
			domain.ResourceProjects: 3,
		})
		assert.NoError(t, checker.Validate(ctx, member(domain.RoleMaintainer), authz.CreateProject))
	})

	t.Run("seat limit gates invites on full plans", func(t *testing.T) {
		checker := newChecker(domain.SubscriptionActive, 2, map[domain.Resource]int{
			domain.ResourceMembersAndInvites: 2,
		})
		err := checker.Validate(ctx, member(domain.RoleOwner), authz.CreateTeamMemberInvite)
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("non-gated update skips counting", func(t *testing.T) {
		checker := newChecker(domain.SubscriptionUnpaid, 1, map[domain.Resource]int{
			domain.ResourceTasks: 1000,
		})
		assert.NoError(t, checker.Validate(ctx, member(domain.RoleContributor), authz.UpdateTask))
	})
}
