package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

const sectionColumns = `id, project_id, title, description, position, created_at, updated_at`

// SectionRepository implements domain.SectionRepository
type SectionRepository struct {
	q Querier
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(q Querier) *SectionRepository {
	return &SectionRepository{q: q}
}

func scanSection(row pgx.Row) (*domain.Section, error) {
	var s domain.Section
	err := row.Scan(
		&s.ID,
		&s.ProjectID,
		&s.Title,
		&s.Description,
		&s.Position,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SectionRepository) Create(ctx context.Context, section *domain.Section) error {
	query := `
		INSERT INTO sections (id, project_id, title, description, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.Exec(ctx, query,
		section.ID,
		section.ProjectID,
		section.Title,
		section.Description,
		section.Position,
		section.CreatedAt,
		section.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

func (r *SectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE id = $1`

	s, err := scanSection(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return s, nil
}

func (r *SectionRepository) GetWorkspaceID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	query := `
		SELECT p.workspace_id
		FROM sections s
		INNER JOIN projects p ON p.id = s.project_id
		WHERE s.id = $1
	`
	var workspaceID uuid.UUID
	if err := r.q.QueryRow(ctx, query, id).Scan(&workspaceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.NewNotFoundError("section")
		}
		return uuid.Nil, fmt.Errorf("failed to resolve section workspace: %w", err)
	}
	return workspaceID, nil
}

func (r *SectionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE project_id = $1 ORDER BY position`

	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, *s)
	}
	return sections, rows.Err()
}

func (r *SectionRepository) Update(ctx context.Context, id uuid.UUID, update *domain.SectionUpdate) error {
	query := `
		UPDATE sections
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, query, id, update.Title, update.Description); err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	return nil
}

func (r *SectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sections WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	return nil
}

func (r *SectionRepository) LockSiblings(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM sections WHERE project_id = $1 ORDER BY position FOR UPDATE`

	return lockSiblingIDs(ctx, r.q, query, projectID)
}

func (r *SectionRepository) SetPositions(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	query := `
		UPDATE sections s
		SET position = u.ord - 1, updated_at = NOW()
		FROM unnest($2::uuid[]) WITH ORDINALITY AS u(id, ord)
		WHERE s.id = u.id AND s.project_id = $1
	`
	return setSiblingPositions(ctx, r.q, query, projectID, ids)
}

func (r *SectionRepository) SetParent(ctx context.Context, id, projectID uuid.UUID) error {
	query := `UPDATE sections SET project_id = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id, projectID); err != nil {
		return fmt.Errorf("failed to re-parent section: %w", err)
	}
	return nil
}
