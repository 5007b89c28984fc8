package domain

// Role is a team member's role within one workspace. Roles form a strict
// total order: Observer < Contributor < Maintainer < Owner.
type Role string

const (
	RoleObserver    Role = "observer"
	RoleContributor Role = "contributor"
	RoleMaintainer  Role = "maintainer"
	RoleOwner       Role = "owner"
)

var roleRank = map[Role]int{
	RoleObserver:    0,
	RoleContributor: 1,
	RoleMaintainer:  2,
	RoleOwner:       3,
}

// Valid reports whether r is one of the four known roles
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks at or above min in the role order.
// Unknown roles never satisfy any requirement.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	minRank, ok := roleRank[min]
	if !ok {
		return false
	}
	return rank >= minRank
}
