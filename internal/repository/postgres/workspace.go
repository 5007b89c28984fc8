package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// WorkspaceRepository implements domain.WorkspaceRepository
type WorkspaceRepository struct {
	q Querier
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(q Querier) *WorkspaceRepository {
	return &WorkspaceRepository{q: q}
}

func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	query := `
		INSERT INTO workspaces (id, title, description, picture, highest_task_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.Exec(ctx, query,
		workspace.ID,
		workspace.Title,
		workspace.Description,
		workspace.Picture,
		workspace.HighestTaskNumber,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	query := `
		SELECT id, title, description, picture, highest_task_number, created_at, updated_at
		FROM workspaces
		WHERE id = $1
	`
	var w domain.Workspace
	err := r.q.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Title,
		&w.Description,
		&w.Picture,
		&w.HighestTaskNumber,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &w, nil
}

func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	query := `
		SELECT w.id, w.title, w.description, w.picture, w.highest_task_number, w.created_at, w.updated_at
		FROM workspaces w
		INNER JOIN team_members tm ON w.id = tm.workspace_id
		WHERE tm.user_id = $1
		ORDER BY w.created_at DESC
	`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		var w domain.Workspace
		if err := rows.Scan(
			&w.ID,
			&w.Title,
			&w.Description,
			&w.Picture,
			&w.HighestTaskNumber,
			&w.CreatedAt,
			&w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	query := `
		UPDATE workspaces
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    picture = COALESCE($4, picture),
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, query, id, update.Title, update.Description, update.Picture)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspaces WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) NextTaskNumber(ctx context.Context, id uuid.UUID) (int, error) {
	// The row update takes a lock on the workspace row, so concurrent task
	// creations hand out distinct, strictly increasing numbers.
	query := `
		UPDATE workspaces
		SET highest_task_number = highest_task_number + 1
		WHERE id = $1
		RETURNING highest_task_number
	`
	var number int
	if err := r.q.QueryRow(ctx, query, id).Scan(&number); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewNotFoundError("workspace")
		}
		return 0, fmt.Errorf("failed to issue task number: %w", err)
	}
	return number, nil
}
