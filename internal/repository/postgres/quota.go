package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// QuotaRepository implements domain.QuotaRepository with live counts. Counts
// are workspace-wide, so nested resources join up to their project's
// workspace.
type QuotaRepository struct {
	q Querier
}

// NewQuotaRepository creates a new quota repository
func NewQuotaRepository(q Querier) *QuotaRepository {
	return &QuotaRepository{q: q}
}

const (
	countProjectsQuery = `SELECT COUNT(*) FROM projects WHERE workspace_id = $1`

	countSectionsQuery = `
		SELECT COUNT(*)
		FROM sections s
		JOIN projects p ON p.id = s.project_id
		WHERE p.workspace_id = $1
	`

	countTasksQuery = `
		SELECT COUNT(*)
		FROM tasks t
		JOIN sections s ON s.id = t.section_id
		JOIN projects p ON p.id = s.project_id
		WHERE p.workspace_id = $1
	`

	countSubTasksQuery = `
		SELECT COUNT(*)
		FROM sub_tasks st
		JOIN tasks t ON t.id = st.task_id
		JOIN sections s ON s.id = t.section_id
		JOIN projects p ON p.id = s.project_id
		WHERE p.workspace_id = $1
	`

	countLabelsQuery = `SELECT COUNT(*) FROM labels WHERE workspace_id = $1`

	countTaskLabelsQuery = `
		SELECT COUNT(*)
		FROM task_labels tl
		JOIN tasks t ON t.id = tl.task_id
		JOIN sections s ON s.id = t.section_id
		JOIN projects p ON p.id = s.project_id
		WHERE p.workspace_id = $1
	`

	countChatMessagesQuery = `
		SELECT COUNT(*)
		FROM chat_messages cm
		JOIN tasks t ON t.id = cm.task_id
		JOIN sections s ON s.id = t.section_id
		JOIN projects p ON p.id = s.project_id
		WHERE p.workspace_id = $1
	`

	// Memberships and unredeemed invites share one budget.
	countMembersAndInvitesQuery = `
		SELECT (SELECT COUNT(*) FROM team_members WHERE workspace_id = $1)
		     + (SELECT COUNT(*) FROM team_member_invites WHERE workspace_id = $1 AND NOT redeemed)
	`
)

func (r *QuotaRepository) Count(ctx context.Context, workspaceID uuid.UUID, resource domain.Resource) (int, error) {
	var query string
	switch resource {
	case domain.ResourceProjects:
		query = countProjectsQuery
	case domain.ResourceSections:
		query = countSectionsQuery
	case domain.ResourceTasks:
		query = countTasksQuery
	case domain.ResourceSubTasks:
		query = countSubTasksQuery
	case domain.ResourceLabels:
		query = countLabelsQuery
	case domain.ResourceTaskLabels:
		query = countTaskLabelsQuery
	case domain.ResourceChatMessages:
		query = countChatMessagesQuery
	case domain.ResourceMembersAndInvites:
		query = countMembersAndInvitesQuery
	default:
		return 0, domain.NewInternalError("unknown quota resource %q", resource)
	}

	var count int
	if err := r.q.QueryRow(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", resource, err)
	}
	return count, nil
}
