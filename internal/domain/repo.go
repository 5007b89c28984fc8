package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store bundles the repositories over one database handle. Atomic runs fn
// against a transaction-bound Store: every repository obtained inside fn
// reads and writes through the same transaction, which commits when fn
// returns nil and rolls back otherwise. Mutation services run entirely
// inside one Atomic call so partial application is never observable.
type Store interface {
	Atomic(ctx context.Context, fn func(Store) error) error

	Users() UserRepository
	Workspaces() WorkspaceRepository
	Customers() CustomerRepository
	TeamMembers() TeamMemberRepository
	Invites() InviteRepository
	Projects() ProjectRepository
	Sections() SectionRepository
	Tasks() TaskRepository
	SubTasks() SubTaskRepository
	Labels() LabelRepository
	ChatMessages() ChatMessageRepository
	Quotas() QuotaRepository
}

// UserRepository persists platform users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// WorkspaceRepository persists workspaces
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]Workspace, error)
	Update(ctx context.Context, id uuid.UUID, update *WorkspaceUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextTaskNumber bumps the workspace's highest issued task number and
	// returns the new value. The row update serializes concurrent callers.
	NextTaskNumber(ctx context.Context, id uuid.UUID) (int, error)
}

// CustomerRepository persists the 1:1 billing record
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*Customer, error)
	Update(ctx context.Context, workspaceID uuid.UUID, update *CustomerUpdate) error
}

// TeamMemberRepository persists workspace memberships
type TeamMemberRepository interface {
	Create(ctx context.Context, member *TeamMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*TeamMember, error)
	GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*TeamMember, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]TeamMember, error)
	Update(ctx context.Context, id uuid.UUID, update *TeamMemberUpdate) error
	UpdatePrefs(ctx context.Context, id uuid.UUID, prefs *TeamMemberPrefsUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error)
}

// InviteRepository persists platform user invites and per-workspace team
// member invites
type InviteRepository interface {
	GetUserInviteByEmail(ctx context.Context, email string) (*UserInvite, error)
	CreateUserInvite(ctx context.Context, invite *UserInvite) error
	CreateTeamMemberInvite(ctx context.Context, invite *TeamMemberInvite) error
	GetByID(ctx context.Context, id uuid.UUID) (*TeamMemberInvite, error)
	GetPendingByWorkspaceAndEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*TeamMemberInvite, error)
	ListPendingByEmail(ctx context.Context, email string) ([]TeamMemberInvite, error)
	CountPendingByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Redeem flips the redeemed flag exactly once; it reports false when the
	// invite was already redeemed.
	Redeem(ctx context.Context, id uuid.UUID, when time.Time) (bool, error)
}

// ProjectRepository persists projects
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, includeArchived bool) ([]Project, error)
	Update(ctx context.Context, id uuid.UUID, update *ProjectUpdate) error
	SetArchived(ctx context.Context, id uuid.UUID, archived *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error)
}

// SectionRepository persists sections. The sibling-scope methods implement
// the ordering store contract with the project as parent.
type SectionRepository interface {
	Create(ctx context.Context, section *Section) error
	GetByID(ctx context.Context, id uuid.UUID) (*Section, error)
	GetWorkspaceID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Section, error)
	Update(ctx context.Context, id uuid.UUID, update *SectionUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error

	LockSiblings(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
	SetPositions(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error
	SetParent(ctx context.Context, id, projectID uuid.UUID) error
}

// TaskRepository persists tasks. The sibling-scope methods implement the
// ordering store contract with the section as parent.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	GetWorkspaceID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ListBySection(ctx context.Context, sectionID uuid.UUID) ([]Task, error)
	Update(ctx context.Context, id uuid.UUID, update *TaskUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddLabel(ctx context.Context, taskID, labelID uuid.UUID) error
	RemoveLabel(ctx context.Context, taskID, labelID uuid.UUID) error
	ListLabels(ctx context.Context, taskID uuid.UUID) ([]Label, error)

	LockSiblings(ctx context.Context, sectionID uuid.UUID) ([]uuid.UUID, error)
	SetPositions(ctx context.Context, sectionID uuid.UUID, ids []uuid.UUID) error
	SetParent(ctx context.Context, id, sectionID uuid.UUID) error
}

// SubTaskRepository persists sub-tasks. The sibling-scope methods implement
// the ordering store contract with the task as parent.
type SubTaskRepository interface {
	Create(ctx context.Context, subTask *SubTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*SubTask, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]SubTask, error)
	Update(ctx context.Context, id uuid.UUID, update *SubTaskUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Bulk replace-on-update support. New entries are created singly so each
	// passes its own quota check.
	DeleteNotIn(ctx context.Context, taskID uuid.UUID, keep []uuid.UUID) (int64, error)
	BulkUpdate(ctx context.Context, subTasks []SubTask) error

	LockSiblings(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)
	SetPositions(ctx context.Context, taskID uuid.UUID, ids []uuid.UUID) error
	SetParent(ctx context.Context, id, taskID uuid.UUID) error
}

// LabelRepository persists labels
type LabelRepository interface {
	Create(ctx context.Context, label *Label) error
	GetByID(ctx context.Context, id uuid.UUID) (*Label, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Label, error)
	// ListByIDsInWorkspace returns only the requested labels that belong to
	// the workspace; ids from other workspaces are silently absent.
	ListByIDsInWorkspace(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]Label, error)
	Update(ctx context.Context, id uuid.UUID, update *LabelUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChatMessageRepository persists task chat messages
type ChatMessageRepository interface {
	Create(ctx context.Context, message *ChatMessage) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]ChatMessage, error)
}

// QuotaRepository reads live resource counts for quota evaluation
type QuotaRepository interface {
	Count(ctx context.Context, workspaceID uuid.UUID, resource Resource) (int, error)
}
