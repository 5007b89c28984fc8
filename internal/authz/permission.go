package authz

import (
	"github.com/jwpconsulting/projectify/internal/domain"
)

// Permission is a closed enum of the mutations and reads the permission
// engine knows about. Anything outside this table fails closed.
type Permission int

const (
	ReadWorkspace Permission = iota
	UpdateWorkspace
	DeleteWorkspace

	CreateProject
	UpdateProject
	DeleteProject

	CreateSection
	UpdateSection
	DeleteSection

	CreateTask
	UpdateTask
	DeleteTask

	CreateSubTask
	UpdateSubTask
	DeleteSubTask

	CreateLabel
	UpdateLabel
	DeleteLabel

	CreateTaskLabel
	DeleteTaskLabel

	CreateChatMessage

	CreateTeamMember
	UpdateTeamMember
	DeleteTeamMember

	CreateTeamMemberInvite
	DeleteTeamMemberInvite

	ReadCustomer
	UpdateCustomer
)

var permissionNames = map[Permission]string{
	ReadWorkspace:          "read_workspace",
	UpdateWorkspace:        "update_workspace",
	DeleteWorkspace:        "delete_workspace",
	CreateProject:          "create_project",
	UpdateProject:          "update_project",
	DeleteProject:          "delete_project",
	CreateSection:          "create_section",
	UpdateSection:          "update_section",
	DeleteSection:          "delete_section",
	CreateTask:             "create_task",
	UpdateTask:             "update_task",
	DeleteTask:             "delete_task",
	CreateSubTask:          "create_sub_task",
	UpdateSubTask:          "update_sub_task",
	DeleteSubTask:          "delete_sub_task",
	CreateLabel:            "create_label",
	UpdateLabel:            "update_label",
	DeleteLabel:            "delete_label",
	CreateTaskLabel:        "create_task_label",
	DeleteTaskLabel:        "delete_task_label",
	CreateChatMessage:      "create_chat_message",
	CreateTeamMember:       "create_team_member",
	UpdateTeamMember:       "update_team_member",
	DeleteTeamMember:       "delete_team_member",
	CreateTeamMemberInvite: "create_team_member_invite",
	DeleteTeamMemberInvite: "delete_team_member_invite",
	ReadCustomer:           "read_customer",
	UpdateCustomer:         "update_customer",
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return "unknown_permission"
}

// requirement binds a permission to its minimum role and, for creations, the
// resource whose quota must admit one more instance.
type requirement struct {
	minRole  domain.Role
	resource domain.Resource
	gated    bool
}

func roleOnly(min domain.Role) requirement {
	return requirement{minRole: min}
}

func roleAndQuota(min domain.Role, r domain.Resource) requirement {
	return requirement{minRole: min, resource: r, gated: true}
}

// The permission table. Compile-time data, not a runtime registry.
var requirements = map[Permission]requirement{
	ReadWorkspace:   roleOnly(domain.RoleObserver),
	UpdateWorkspace: roleOnly(domain.RoleOwner),
	DeleteWorkspace: roleOnly(domain.RoleOwner),

	CreateProject: roleAndQuota(domain.RoleMaintainer, domain.ResourceProjects),
	UpdateProject: roleOnly(domain.RoleMaintainer),
	DeleteProject: roleOnly(domain.RoleMaintainer),

	CreateSection: roleAndQuota(domain.RoleMaintainer, domain.ResourceSections),
	UpdateSection: roleOnly(domain.RoleMaintainer),
	DeleteSection: roleOnly(domain.RoleMaintainer),

	CreateTask: roleAndQuota(domain.RoleContributor, domain.ResourceTasks),
	UpdateTask: roleOnly(domain.RoleContributor),
	DeleteTask: roleOnly(domain.RoleMaintainer),

	CreateSubTask: roleAndQuota(domain.RoleContributor, domain.ResourceSubTasks),
	UpdateSubTask: roleOnly(domain.RoleContributor),
	DeleteSubTask: roleOnly(domain.RoleContributor),

	CreateLabel: roleAndQuota(domain.RoleMaintainer, domain.ResourceLabels),
	UpdateLabel: roleOnly(domain.RoleMaintainer),
	DeleteLabel: roleOnly(domain.RoleMaintainer),

	CreateTaskLabel: roleAndQuota(domain.RoleContributor, domain.ResourceTaskLabels),
	DeleteTaskLabel: roleOnly(domain.RoleContributor),

	CreateChatMessage: roleAndQuota(domain.RoleContributor, domain.ResourceChatMessages),

	CreateTeamMember: roleAndQuota(domain.RoleOwner, domain.ResourceMembersAndInvites),
	UpdateTeamMember: roleOnly(domain.RoleOwner),
	DeleteTeamMember: roleOnly(domain.RoleOwner),

	CreateTeamMemberInvite: roleAndQuota(domain.RoleOwner, domain.ResourceMembersAndInvites),
	DeleteTeamMemberInvite: roleOnly(domain.RoleOwner),

	ReadCustomer:   roleOnly(domain.RoleOwner),
	UpdateCustomer: roleOnly(domain.RoleOwner),
}
