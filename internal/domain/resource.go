package domain

// Resource is a countable, quota-gated resource kind within a workspace
type Resource string

const (
	ResourceProjects          Resource = "projects"
	ResourceSections          Resource = "sections"
	ResourceTasks             Resource = "tasks"
	ResourceSubTasks          Resource = "sub_tasks"
	ResourceLabels            Resource = "labels"
	ResourceTaskLabels        Resource = "task_labels"
	ResourceChatMessages      Resource = "chat_messages"
	ResourceMembersAndInvites Resource = "members_and_invites"
)
