package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

const projectColumns = `id, workspace_id, title, description, due_date, archived, created_at, updated_at`

// ProjectRepository implements domain.ProjectRepository
type ProjectRepository struct {
	q Querier
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(q Querier) *ProjectRepository {
	return &ProjectRepository{q: q}
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID,
		&p.WorkspaceID,
		&p.Title,
		&p.Description,
		&p.DueDate,
		&p.Archived,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, workspace_id, title, description, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.Exec(ctx, query,
		project.ID,
		project.WorkspaceID,
		project.Title,
		project.Description,
		project.DueDate,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, includeArchived bool) ([]domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE workspace_id = $1 AND ($2 OR archived IS NULL)
		ORDER BY created_at
	`
	rows, err := r.q.Query(ctx, query, workspaceID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, update *domain.ProjectUpdate) error {
	query := `
		UPDATE projects
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    due_date = COALESCE($4, due_date),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, query, id, update.Title, update.Description, update.DueDate); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) SetArchived(ctx context.Context, id uuid.UUID, archived *time.Time) error {
	query := `UPDATE projects SET archived = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id, archived); err != nil {
		return fmt.Errorf("failed to set project archived: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM projects WHERE workspace_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}
