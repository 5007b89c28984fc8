// Package service implements the mutation and query services. Every mutator
// runs inside store.Atomic and validates its permission against live state
// before touching anything, so a committed transaction is always a fully
// authorized, fully applied mutation.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/quota"
)

// checkerFor builds a permission checker bound to s. Inside Atomic the
// quota counts read through the transaction, so nested creations in one
// request are checked against up-to-date state.
func checkerFor(s domain.Store) *authz.Checker {
	return authz.NewChecker(quota.NewEngine(s.Quotas(), s.Customers()))
}

// memberOf resolves the acting user's membership in workspaceID. A missing
// membership is reported as the target resource being not found, so
// non-members cannot probe for existence.
func memberOf(ctx context.Context, s domain.Store, workspaceID, userID uuid.UUID, resource string) (*domain.TeamMember, error) {
	member, err := s.TeamMembers().GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}
	if member == nil {
		return nil, domain.NewNotFoundError(resource)
	}
	return member, nil
}

// authorize combines the membership lookup and the permission check
func authorize(ctx context.Context, s domain.Store, workspaceID, userID uuid.UUID, perm authz.Permission, resource string) (*domain.TeamMember, error) {
	member, err := memberOf(ctx, s, workspaceID, userID, resource)
	if err != nil {
		return nil, err
	}
	if err := checkerFor(s).Validate(ctx, member, perm); err != nil {
		return nil, err
	}
	return member, nil
}
