package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

const taskColumns = `id, section_id, title, description, due_date, position, number, assignee_id, done, created_at, updated_at`

// TaskRepository implements domain.TaskRepository
type TaskRepository struct {
	q Querier
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(q Querier) *TaskRepository {
	return &TaskRepository{q: q}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID,
		&t.SectionID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Position,
		&t.Number,
		&t.AssigneeID,
		&t.Done,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, section_id, title, description, due_date, position, number, assignee_id, done, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.Exec(ctx, query,
		task.ID,
		task.SectionID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Position,
		task.Number,
		task.AssigneeID,
		task.Done,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) GetWorkspaceID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	query := `
		SELECT p.workspace_id
		FROM tasks t
		INNER JOIN sections s ON s.id = t.section_id
		INNER JOIN projects p ON p.id = s.project_id
		WHERE t.id = $1
	`
	var workspaceID uuid.UUID
	if err := r.q.QueryRow(ctx, query, id).Scan(&workspaceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.NewNotFoundError("task")
		}
		return uuid.Nil, fmt.Errorf("failed to resolve task workspace: %w", err)
	}
	return workspaceID, nil
}

func (r *TaskRepository) ListBySection(ctx context.Context, sectionID uuid.UUID) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE section_id = $1 ORDER BY position`

	rows, err := r.q.Query(ctx, query, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, update *domain.TaskUpdate) error {
	// Done and AssigneeID are genuinely nullable, so a COALESCE "absent
	// means keep" update cannot clear them; the service resolves the final
	// values and passes them through unconditionally.
	query := `
		UPDATE tasks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    due_date = COALESCE($4, due_date),
		    assignee_id = $5,
		    done = $6,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, query, id,
		update.Title,
		update.Description,
		update.DueDate,
		update.AssigneeID,
		update.Done,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) AddLabel(ctx context.Context, taskID, labelID uuid.UUID) error {
	// Adding twice is a no-op.
	query := `
		INSERT INTO task_labels (task_id, label_id)
		VALUES ($1, $2)
		ON CONFLICT (task_id, label_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, query, taskID, labelID); err != nil {
		return fmt.Errorf("failed to add task label: %w", err)
	}
	return nil
}

func (r *TaskRepository) RemoveLabel(ctx context.Context, taskID, labelID uuid.UUID) error {
	// Removing twice is a no-op.
	query := `DELETE FROM task_labels WHERE task_id = $1 AND label_id = $2`

	if _, err := r.q.Exec(ctx, query, taskID, labelID); err != nil {
		return fmt.Errorf("failed to remove task label: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListLabels(ctx context.Context, taskID uuid.UUID) ([]domain.Label, error) {
	query := `
		SELECT l.id, l.workspace_id, l.name, l.color, l.created_at, l.updated_at
		FROM labels l
		INNER JOIN task_labels tl ON tl.label_id = l.id
		WHERE tl.task_id = $1
		ORDER BY l.name
	`
	rows, err := r.q.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		var l domain.Label
		if err := rows.Scan(&l.ID, &l.WorkspaceID, &l.Name, &l.Color, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *TaskRepository) LockSiblings(ctx context.Context, sectionID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM tasks WHERE section_id = $1 ORDER BY position FOR UPDATE`

	return lockSiblingIDs(ctx, r.q, query, sectionID)
}

func (r *TaskRepository) SetPositions(ctx context.Context, sectionID uuid.UUID, ids []uuid.UUID) error {
	query := `
		UPDATE tasks t
		SET position = u.ord - 1, updated_at = NOW()
		FROM unnest($2::uuid[]) WITH ORDINALITY AS u(id, ord)
		WHERE t.id = u.id AND t.section_id = $1
	`
	return setSiblingPositions(ctx, r.q, query, sectionID, ids)
}

func (r *TaskRepository) SetParent(ctx context.Context, id, sectionID uuid.UUID) error {
	query := `UPDATE tasks SET section_id = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id, sectionID); err != nil {
		return fmt.Errorf("failed to re-parent task: %w", err)
	}
	return nil
}
