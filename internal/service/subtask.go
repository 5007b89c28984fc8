package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/ordering"
)

// SubTaskService handles standalone sub-task operations. Bulk replacement
// on task update lives in TaskService.
type SubTaskService struct {
	store domain.Store
}

// NewSubTaskService creates a new sub-task service
func NewSubTaskService(store domain.Store) *SubTaskService {
	return &SubTaskService{store: store}
}

// Create appends a sub-task at the end of the task's list
func (s *SubTaskService) Create(ctx context.Context, userID, taskID uuid.UUID, input domain.SubTaskCreate) (*domain.SubTask, error) {
	now := time.Now()
	subTask := &domain.SubTask{
		ID:          uuid.New(),
		TaskID:      taskID,
		Title:       input.Title,
		Description: input.Description,
		Done:        input.Done,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		workspaceID, err := tx.Tasks().GetWorkspaceID(ctx, taskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.CreateSubTask, "task"); err != nil {
			return err
		}

		position, err := ordering.NewManager(tx.SubTasks()).InsertAtEnd(ctx, taskID)
		if err != nil {
			return err
		}
		subTask.Position = position

		if err := tx.SubTasks().Create(ctx, subTask); err != nil {
			return fmt.Errorf("failed to create sub-task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subTask, nil
}

// Update updates a sub-task's title, description or done flag
func (s *SubTaskService) Update(ctx context.Context, userID, subTaskID uuid.UUID, input domain.SubTaskUpdate) (*domain.SubTask, error) {
	var subTask *domain.SubTask
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		existing, workspaceID, err := s.visibleSubTask(ctx, tx, userID, subTaskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateSubTask, "sub-task"); err != nil {
			return err
		}
		if err := tx.SubTasks().Update(ctx, existing.ID, &input); err != nil {
			return fmt.Errorf("failed to update sub-task: %w", err)
		}

		subTask, err = tx.SubTasks().GetByID(ctx, subTaskID)
		if err != nil {
			return fmt.Errorf("failed to get sub-task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subTask, nil
}

// Move moves a sub-task one step or to an extreme within its task
func (s *SubTaskService) Move(ctx context.Context, userID, subTaskID uuid.UUID, dir domain.MoveDirection) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		subTask, workspaceID, err := s.visibleSubTask(ctx, tx, userID, subTaskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateSubTask, "sub-task"); err != nil {
			return err
		}
		return ordering.NewManager(tx.SubTasks()).MoveInDirection(ctx, subTask.TaskID, subTaskID, dir)
	})
}

// Delete deletes a sub-task and renumbers the remaining siblings
func (s *SubTaskService) Delete(ctx context.Context, userID, subTaskID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		subTask, workspaceID, err := s.visibleSubTask(ctx, tx, userID, subTaskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.DeleteSubTask, "sub-task"); err != nil {
			return err
		}
		if err := ordering.NewManager(tx.SubTasks()).Remove(ctx, subTask.TaskID, subTaskID); err != nil {
			return err
		}
		if err := tx.SubTasks().Delete(ctx, subTaskID); err != nil {
			return fmt.Errorf("failed to delete sub-task: %w", err)
		}
		return nil
	})
}

func (s *SubTaskService) visibleSubTask(ctx context.Context, store domain.Store, userID, subTaskID uuid.UUID) (*domain.SubTask, uuid.UUID, error) {
	subTask, err := store.SubTasks().GetByID(ctx, subTaskID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to get sub-task: %w", err)
	}
	if subTask == nil {
		return nil, uuid.Nil, domain.NewNotFoundError("sub-task")
	}

	workspaceID, err := store.Tasks().GetWorkspaceID(ctx, subTask.TaskID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if _, err := memberOf(ctx, store, workspaceID, userID, "sub-task"); err != nil {
		return nil, uuid.Nil, err
	}
	return subTask, workspaceID, nil
}
