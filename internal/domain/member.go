package domain

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember binds a user to a workspace with a role. Unique per
// (workspace, user).
type TeamMember struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        Role      `json:"role"`
	JobTitle    string    `json:"job_title,omitempty"`

	// UI preference state carried per member.
	LastVisitedProjectID *uuid.UUID `json:"last_visited_project_id,omitempty"`
	LastVisitedAt        *time.Time `json:"last_visited_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamMemberUpdate represents a role or profile change for a member
type TeamMemberUpdate struct {
	Role     *Role   `json:"role,omitempty"`
	JobTitle *string `json:"job_title,omitempty" validate:"omitempty,max=255"`
}

// TeamMemberPrefsUpdate updates a member's own UI preference flags
type TeamMemberPrefsUpdate struct {
	LastVisitedProjectID *uuid.UUID `json:"last_visited_project_id,omitempty"`
}

// UserInvite is a platform-wide invitation for an email address that has no
// user account yet. One per email; reused across workspaces.
type UserInvite struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMemberInvite is a pending invitation binding a UserInvite to one
// workspace. Redemption happens when a user account matching the invited
// email is created; it promotes the invite into an Observer membership and
// flips Redeemed exactly once.
type TeamMemberInvite struct {
	ID           uuid.UUID  `json:"id"`
	WorkspaceID  uuid.UUID  `json:"workspace_id"`
	UserInviteID uuid.UUID  `json:"user_invite_id"`
	Email        string     `json:"email"`
	Redeemed     bool       `json:"redeemed"`
	RedeemedWhen *time.Time `json:"redeemed_when,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// InviteCreate represents an invitation request
type InviteCreate struct {
	Email string `json:"email" validate:"required,email,max=255"`
}
