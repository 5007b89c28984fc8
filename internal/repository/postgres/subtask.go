package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

const subTaskColumns = `id, task_id, title, description, done, position, created_at, updated_at`

// SubTaskRepository implements domain.SubTaskRepository
type SubTaskRepository struct {
	q Querier
}

// NewSubTaskRepository creates a new sub-task repository
func NewSubTaskRepository(q Querier) *SubTaskRepository {
	return &SubTaskRepository{q: q}
}

func scanSubTask(row pgx.Row) (*domain.SubTask, error) {
	var st domain.SubTask
	err := row.Scan(
		&st.ID,
		&st.TaskID,
		&st.Title,
		&st.Description,
		&st.Done,
		&st.Position,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *SubTaskRepository) Create(ctx context.Context, subTask *domain.SubTask) error {
	query := `
		INSERT INTO sub_tasks (id, task_id, title, description, done, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.Exec(ctx, query,
		subTask.ID,
		subTask.TaskID,
		subTask.Title,
		subTask.Description,
		subTask.Done,
		subTask.Position,
		subTask.CreatedAt,
		subTask.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sub-task: %w", err)
	}
	return nil
}

func (r *SubTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SubTask, error) {
	query := `SELECT ` + subTaskColumns + ` FROM sub_tasks WHERE id = $1`

	st, err := scanSubTask(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sub-task: %w", err)
	}
	return st, nil
}

func (r *SubTaskRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]domain.SubTask, error) {
	query := `SELECT ` + subTaskColumns + ` FROM sub_tasks WHERE task_id = $1 ORDER BY position`

	rows, err := r.q.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-tasks: %w", err)
	}
	defer rows.Close()

	var subTasks []domain.SubTask
	for rows.Next() {
		st, err := scanSubTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sub-task: %w", err)
		}
		subTasks = append(subTasks, *st)
	}
	return subTasks, rows.Err()
}

func (r *SubTaskRepository) Update(ctx context.Context, id uuid.UUID, update *domain.SubTaskUpdate) error {
	query := `
		UPDATE sub_tasks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    done = COALESCE($4, done),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, query, id, update.Title, update.Description, update.Done); err != nil {
		return fmt.Errorf("failed to update sub-task: %w", err)
	}
	return nil
}

func (r *SubTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sub_tasks WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete sub-task: %w", err)
	}
	return nil
}

func (r *SubTaskRepository) DeleteNotIn(ctx context.Context, taskID uuid.UUID, keep []uuid.UUID) (int64, error) {
	// An empty keep list must not reach ANY($2): a nil slice encodes as SQL
	// NULL and NOT (id = ANY(NULL)) matches no rows at all.
	if len(keep) == 0 {
		tag, err := r.q.Exec(ctx, `DELETE FROM sub_tasks WHERE task_id = $1`, taskID)
		if err != nil {
			return 0, fmt.Errorf("failed to delete replaced sub-tasks: %w", err)
		}
		return tag.RowsAffected(), nil
	}

	query := `DELETE FROM sub_tasks WHERE task_id = $1 AND NOT (id = ANY($2))`

	tag, err := r.q.Exec(ctx, query, taskID, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to delete replaced sub-tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SubTaskRepository) BulkUpdate(ctx context.Context, subTasks []domain.SubTask) error {
	if len(subTasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(subTasks))
	titles := make([]string, len(subTasks))
	descriptions := make([]string, len(subTasks))
	dones := make([]bool, len(subTasks))
	positions := make([]int, len(subTasks))
	for i, st := range subTasks {
		ids[i] = st.ID
		titles[i] = st.Title
		descriptions[i] = st.Description
		dones[i] = st.Done
		positions[i] = st.Position
	}

	query := `
		UPDATE sub_tasks st
		SET title = u.title,
		    description = u.description,
		    done = u.done,
		    position = u.position,
		    updated_at = NOW()
		FROM (
			SELECT unnest($1::uuid[]) AS id,
			       unnest($2::text[]) AS title,
			       unnest($3::text[]) AS description,
			       unnest($4::boolean[]) AS done,
			       unnest($5::int[]) AS position
		) u
		WHERE st.id = u.id
	`
	tag, err := r.q.Exec(ctx, query, ids, titles, descriptions, dones, positions)
	if err != nil {
		return fmt.Errorf("failed to bulk update sub-tasks: %w", err)
	}
	if tag.RowsAffected() != int64(len(subTasks)) {
		return domain.NewInternalError(
			"bulk update touched %d of %d sub-tasks", tag.RowsAffected(), len(subTasks))
	}
	return nil
}

func (r *SubTaskRepository) LockSiblings(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM sub_tasks WHERE task_id = $1 ORDER BY position FOR UPDATE`

	return lockSiblingIDs(ctx, r.q, query, taskID)
}

func (r *SubTaskRepository) SetPositions(ctx context.Context, taskID uuid.UUID, ids []uuid.UUID) error {
	query := `
		UPDATE sub_tasks st
		SET position = u.ord - 1, updated_at = NOW()
		FROM unnest($2::uuid[]) WITH ORDINALITY AS u(id, ord)
		WHERE st.id = u.id AND st.task_id = $1
	`
	return setSiblingPositions(ctx, r.q, query, taskID, ids)
}

func (r *SubTaskRepository) SetParent(ctx context.Context, id, taskID uuid.UUID) error {
	query := `UPDATE sub_tasks SET task_id = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id, taskID); err != nil {
		return fmt.Errorf("failed to re-parent sub-task: %w", err)
	}
	return nil
}
