package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

const labelColumns = `id, workspace_id, name, color, created_at, updated_at`

// LabelRepository implements domain.LabelRepository
type LabelRepository struct {
	q Querier
}

// NewLabelRepository creates a new label repository
func NewLabelRepository(q Querier) *LabelRepository {
	return &LabelRepository{q: q}
}

func scanLabel(row pgx.Row) (*domain.Label, error) {
	var l domain.Label
	err := row.Scan(
		&l.ID,
		&l.WorkspaceID,
		&l.Name,
		&l.Color,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LabelRepository) Create(ctx context.Context, label *domain.Label) error {
	query := `
		INSERT INTO labels (id, workspace_id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.Exec(ctx, query,
		label.ID,
		label.WorkspaceID,
		label.Name,
		label.Color,
		label.CreatedAt,
		label.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "labels_workspace_id_name_key") {
			return domain.NewValidationError("You can only create one label with this name")
		}
		return fmt.Errorf("failed to create label: %w", err)
	}
	return nil
}

func (r *LabelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	query := `SELECT ` + labelColumns + ` FROM labels WHERE id = $1`

	l, err := scanLabel(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	return l, nil
}

func (r *LabelRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Label, error) {
	query := `SELECT ` + labelColumns + ` FROM labels WHERE workspace_id = $1 ORDER BY name`

	return r.queryLabels(ctx, query, workspaceID)
}

func (r *LabelRepository) ListByIDsInWorkspace(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]domain.Label, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + labelColumns + ` FROM labels WHERE workspace_id = $1 AND id = ANY($2) ORDER BY name`

	return r.queryLabels(ctx, query, workspaceID, ids)
}

func (r *LabelRepository) queryLabels(ctx context.Context, query string, args ...any) ([]domain.Label, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, *l)
	}
	return labels, rows.Err()
}

func (r *LabelRepository) Update(ctx context.Context, id uuid.UUID, update *domain.LabelUpdate) error {
	query := `
		UPDATE labels
		SET name = COALESCE($2, name),
		    color = COALESCE($3, color),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, query, id, update.Name, update.Color); err != nil {
		if isUniqueViolation(err, "labels_workspace_id_name_key") {
			return domain.NewValidationError("You can only create one label with this name")
		}
		return fmt.Errorf("failed to update label: %w", err)
	}
	return nil
}

func (r *LabelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM labels WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}
