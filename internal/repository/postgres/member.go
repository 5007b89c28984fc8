package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

const teamMemberColumns = `id, workspace_id, user_id, role, job_title, last_visited_project_id, last_visited_at, created_at, updated_at`

// TeamMemberRepository implements domain.TeamMemberRepository
type TeamMemberRepository struct {
	q Querier
}

// NewTeamMemberRepository creates a new team member repository
func NewTeamMemberRepository(q Querier) *TeamMemberRepository {
	return &TeamMemberRepository{q: q}
}

func scanTeamMember(row pgx.Row) (*domain.TeamMember, error) {
	var m domain.TeamMember
	err := row.Scan(
		&m.ID,
		&m.WorkspaceID,
		&m.UserID,
		&m.Role,
		&m.JobTitle,
		&m.LastVisitedProjectID,
		&m.LastVisitedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TeamMemberRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	query := `
		INSERT INTO team_members (id, workspace_id, user_id, role, job_title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.Exec(ctx, query,
		member.ID,
		member.WorkspaceID,
		member.UserID,
		member.Role,
		member.JobTitle,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "team_members_workspace_id_user_id_key") {
			return domain.NewValidationError("user is already a member of this workspace")
		}
		return fmt.Errorf("failed to create team member: %w", err)
	}
	return nil
}

func (r *TeamMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE id = $1`

	m, err := scanTeamMember(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}
	return m, nil
}

func (r *TeamMemberRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE workspace_id = $1 AND user_id = $2`

	m, err := scanTeamMember(r.q.QueryRow(ctx, query, workspaceID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}
	return m, nil
}

func (r *TeamMemberRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE workspace_id = $1 ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *TeamMemberRepository) Update(ctx context.Context, id uuid.UUID, update *domain.TeamMemberUpdate) error {
	query := `
		UPDATE team_members
		SET role = COALESCE($2, role),
		    job_title = COALESCE($3, job_title),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, query, id, update.Role, update.JobTitle); err != nil {
		return fmt.Errorf("failed to update team member: %w", err)
	}
	return nil
}

func (r *TeamMemberRepository) UpdatePrefs(ctx context.Context, id uuid.UUID, prefs *domain.TeamMemberPrefsUpdate) error {
	query := `
		UPDATE team_members
		SET last_visited_project_id = $2,
		    last_visited_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, query, id, prefs.LastVisitedProjectID); err != nil {
		return fmt.Errorf("failed to update team member prefs: %w", err)
	}
	return nil
}

func (r *TeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM team_members WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}
	return nil
}

func (r *TeamMemberRepository) CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM team_members WHERE workspace_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", err)
	}
	return count, nil
}
