package authz

import (
	"context"

	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/quota"
)

// Checker evaluates named permissions against a member's role and the
// workspace's live quotas. It is a pure read/compute component; it never
// persists anything.
type Checker struct {
	quotas *quota.Engine
}

// NewChecker creates a permission checker
func NewChecker(quotas *quota.Engine) *Checker {
	return &Checker{quotas: quotas}
}

// Validate answers "may this member perform perm in their workspace". A nil
// member means the acting user has no membership in the target workspace and
// is always denied. Quota-gated permissions are evaluated against database
// state as of this call, never cached, so repeated checks within one request
// see the effect of earlier creations.
func (c *Checker) Validate(ctx context.Context, member *domain.TeamMember, perm Permission) error {
	req, ok := requirements[perm]
	if !ok {
		// Fail closed: an unknown permission is never an implicit allow.
		return domain.NewAuthorizationError("unknown permission %q", perm)
	}

	if member == nil {
		return domain.NewAuthorizationError("no workspace membership")
	}
	if !member.Role.AtLeast(req.minRole) {
		return domain.NewAuthorizationError(
			"%s requires at least the %s role", perm, req.minRole)
	}

	if req.gated {
		q, err := c.quotas.Quota(ctx, member.WorkspaceID, req.resource)
		if err != nil {
			return err
		}
		if !q.CanCreateMore {
			return domain.NewAuthorizationError(
				"%s quota reached for this workspace", req.resource)
		}
	}

	return nil
}
