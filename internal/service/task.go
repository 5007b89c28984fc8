package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/ordering"
)

// TaskService handles task and nested sub-task/label operations
type TaskService struct {
	store domain.Store
}

// NewTaskService creates a new task service
func NewTaskService(store domain.Store) *TaskService {
	return &TaskService{store: store}
}

// Create creates a task at the end of the section, assigns it the next
// workspace-scoped task number, and applies the nested label and sub-task
// payload in the same transaction. Labels outside the workspace are silently
// dropped; an assignee outside the workspace is an error.
func (s *TaskService) Create(ctx context.Context, userID, sectionID uuid.UUID, input domain.TaskCreate) (*domain.Task, error) {
	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New(),
		SectionID:   sectionID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		section, err := tx.Sections().GetByID(ctx, sectionID)
		if err != nil {
			return fmt.Errorf("failed to get section: %w", err)
		}
		if section == nil {
			return domain.NewNotFoundError("section")
		}
		workspaceID, err := tx.Sections().GetWorkspaceID(ctx, sectionID)
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}

		member, err := authorize(ctx, tx, workspaceID, userID, authz.CreateTask, "section")
		if err != nil {
			return err
		}

		if err := s.checkAssignee(ctx, tx, workspaceID, input.AssigneeID); err != nil {
			return err
		}

		number, err := tx.Workspaces().NextTaskNumber(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to issue task number: %w", err)
		}
		task.Number = number

		position, err := ordering.NewManager(tx.Tasks()).InsertAtEnd(ctx, sectionID)
		if err != nil {
			return err
		}
		task.Position = position

		if err := tx.Tasks().Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		labels, err := s.attachLabels(ctx, tx, member, workspaceID, task.ID, input.LabelIDs)
		if err != nil {
			return err
		}
		task.Labels = labels

		checker := checkerFor(tx)
		for i, stc := range input.SubTasks {
			if err := checker.Validate(ctx, member, authz.CreateSubTask); err != nil {
				return err
			}
			subTask := &domain.SubTask{
				ID:          uuid.New(),
				TaskID:      task.ID,
				Title:       stc.Title,
				Description: stc.Description,
				Done:        stc.Done,
				Position:    i,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.SubTasks().Create(ctx, subTask); err != nil {
				return fmt.Errorf("failed to create sub-task: %w", err)
			}
			task.SubTasks = append(task.SubTasks, *subTask)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetByID retrieves a task with its sub-tasks and labels
func (s *TaskService) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, _, err := s.visibleTask(ctx, s.store, userID, taskID)
	if err != nil {
		return nil, err
	}

	subTasks, err := s.store.SubTasks().ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-tasks: %w", err)
	}
	task.SubTasks = subTasks

	labels, err := s.store.Tasks().ListLabels(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task labels: %w", err)
	}
	task.Labels = labels

	return task, nil
}

// ListBySection lists a section's tasks in position order
func (s *TaskService) ListBySection(ctx context.Context, userID, sectionID uuid.UUID) ([]domain.Task, error) {
	workspaceID, err := s.store.Sections().GetWorkspaceID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if _, err := memberOf(ctx, s.store, workspaceID, userID, "section"); err != nil {
		return nil, err
	}

	tasks, err := s.store.Tasks().ListBySection(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update updates a task. A non-nil LabelIDs replaces the label set (silently
// filtered to the workspace); a non-nil SubTasks replaces the whole sub-task
// list.
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, input domain.TaskUpdate) (*domain.Task, error) {
	var task *domain.Task
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		existing, workspaceID, err := s.visibleTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		member, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateTask, "task")
		if err != nil {
			return err
		}

		// The repository writes assignee and done unconditionally, so the
		// final values are resolved here: absent means keep, the clear
		// flags mean null.
		switch {
		case input.ClearAssignee:
			input.AssigneeID = nil
		case input.AssigneeID == nil:
			input.AssigneeID = existing.AssigneeID
		}
		switch {
		case input.ClearDone:
			input.Done = nil
		case input.Done == nil:
			input.Done = existing.Done
		}

		if err := s.checkAssignee(ctx, tx, workspaceID, input.AssigneeID); err != nil {
			return err
		}

		if err := tx.Tasks().Update(ctx, taskID, &input); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if input.LabelIDs != nil {
			if err := s.replaceLabels(ctx, tx, member, workspaceID, taskID, *input.LabelIDs); err != nil {
				return err
			}
		}

		if input.SubTasks != nil {
			if err := s.replaceSubTasks(ctx, tx, member, existing.ID, *input.SubTasks); err != nil {
				return err
			}
		}

		task, err = tx.Tasks().GetByID(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		task.SubTasks, err = tx.SubTasks().ListByTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to list sub-tasks: %w", err)
		}
		task.Labels, err = tx.Tasks().ListLabels(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to list task labels: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Move moves a task one step or to an extreme within its section
func (s *TaskService) Move(ctx context.Context, userID, taskID uuid.UUID, dir domain.MoveDirection) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		task, workspaceID, err := s.visibleTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateTask, "task"); err != nil {
			return err
		}
		return ordering.NewManager(tx.Tasks()).MoveInDirection(ctx, task.SectionID, taskID, dir)
	})
}

// MoveAfter moves a task to follow after within the destination section,
// possibly a different section of the same workspace. A nil after puts the
// task at the front of the destination.
func (s *TaskService) MoveAfter(ctx context.Context, userID, taskID, sectionID uuid.UUID, after *uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		task, workspaceID, err := s.visibleTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateTask, "task"); err != nil {
			return err
		}

		dstWorkspaceID, err := tx.Sections().GetWorkspaceID(ctx, sectionID)
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}
		if dstWorkspaceID != workspaceID {
			// Covers both unknown sections and sections of foreign
			// workspaces.
			return domain.NewNotFoundError("section")
		}

		return ordering.NewManager(tx.Tasks()).MoveAfter(ctx, task.SectionID, sectionID, taskID, after)
	})
}

// Delete deletes a task and renumbers the remaining siblings
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		task, workspaceID, err := s.visibleTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.DeleteTask, "task"); err != nil {
			return err
		}
		if err := ordering.NewManager(tx.Tasks()).Remove(ctx, task.SectionID, taskID); err != nil {
			return err
		}
		if err := tx.Tasks().Delete(ctx, taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

// AddLabel attaches a label to a task. Idempotent.
func (s *TaskService) AddLabel(ctx context.Context, userID, taskID, labelID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		_, workspaceID, err := s.visibleTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.CreateTaskLabel, "task"); err != nil {
			return err
		}

		label, err := tx.Labels().GetByID(ctx, labelID)
		if err != nil {
			return fmt.Errorf("failed to get label: %w", err)
		}
		if label == nil || label.WorkspaceID != workspaceID {
			return domain.NewNotFoundError("label")
		}
		if err := tx.Tasks().AddLabel(ctx, taskID, labelID); err != nil {
			return fmt.Errorf("failed to add task label: %w", err)
		}
		return nil
	})
}

// RemoveLabel detaches a label from a task. Idempotent.
func (s *TaskService) RemoveLabel(ctx context.Context, userID, taskID, labelID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		_, workspaceID, err := s.visibleTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.DeleteTaskLabel, "task"); err != nil {
			return err
		}
		if err := tx.Tasks().RemoveLabel(ctx, taskID, labelID); err != nil {
			return fmt.Errorf("failed to remove task label: %w", err)
		}
		return nil
	})
}

// checkAssignee verifies a non-nil assignee is a team member of the task's
// workspace. Unlike labels, a bad assignee is never silently dropped.
func (s *TaskService) checkAssignee(ctx context.Context, store domain.Store, workspaceID uuid.UUID, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	assignee, err := store.TeamMembers().GetByID(ctx, *assigneeID)
	if err != nil {
		return fmt.Errorf("failed to get assignee: %w", err)
	}
	if assignee == nil || assignee.WorkspaceID != workspaceID {
		return domain.NewValidationError("assignee is not a member of this workspace")
	}
	return nil
}

// attachLabels filters labelIDs to those belonging to the workspace and
// attaches them
func (s *TaskService) attachLabels(ctx context.Context, tx domain.Store, member *domain.TeamMember, workspaceID, taskID uuid.UUID, labelIDs []uuid.UUID) ([]domain.Label, error) {
	if len(labelIDs) == 0 {
		return nil, nil
	}
	if err := checkerFor(tx).Validate(ctx, member, authz.CreateTaskLabel); err != nil {
		return nil, err
	}

	labels, err := tx.Labels().ListByIDsInWorkspace(ctx, workspaceID, labelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve labels: %w", err)
	}
	for _, label := range labels {
		if err := tx.Tasks().AddLabel(ctx, taskID, label.ID); err != nil {
			return nil, fmt.Errorf("failed to add task label: %w", err)
		}
	}
	return labels, nil
}

// replaceLabels reconciles the task's label set against the requested one
func (s *TaskService) replaceLabels(ctx context.Context, tx domain.Store, member *domain.TeamMember, workspaceID, taskID uuid.UUID, labelIDs []uuid.UUID) error {
	desired, err := tx.Labels().ListByIDsInWorkspace(ctx, workspaceID, labelIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve labels: %w", err)
	}
	desiredSet := make(map[uuid.UUID]bool, len(desired))
	for _, label := range desired {
		desiredSet[label.ID] = true
	}

	current, err := tx.Tasks().ListLabels(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to list task labels: %w", err)
	}
	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, label := range current {
		currentSet[label.ID] = true
	}

	checker := checkerFor(tx)
	for _, label := range current {
		if desiredSet[label.ID] {
			continue
		}
		if err := checker.Validate(ctx, member, authz.DeleteTaskLabel); err != nil {
			return err
		}
		if err := tx.Tasks().RemoveLabel(ctx, taskID, label.ID); err != nil {
			return fmt.Errorf("failed to remove task label: %w", err)
		}
	}
	for _, label := range desired {
		if currentSet[label.ID] {
			continue
		}
		if err := checker.Validate(ctx, member, authz.CreateTaskLabel); err != nil {
			return err
		}
		if err := tx.Tasks().AddLabel(ctx, taskID, label.ID); err != nil {
			return fmt.Errorf("failed to add task label: %w", err)
		}
	}
	return nil
}

// replaceSubTasks applies a full replacement of the task's sub-task list:
// sub-tasks absent from the request are deleted (with a hard count check),
// retained ones are updated in bulk, new ones are created one at a time so
// each passes its own quota check. Positions are reassigned 0..n-1 in the
// request's order regardless of the positions sent.
func (s *TaskService) replaceSubTasks(ctx context.Context, tx domain.Store, member *domain.TeamMember, taskID uuid.UUID, replacements []domain.SubTaskReplace) error {
	existing, err := tx.SubTasks().LockSiblings(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to lock sub-tasks: %w", err)
	}
	existingSet := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		existingSet[id] = true
	}

	ordered := make([]domain.SubTaskReplace, len(replacements))
	copy(ordered, replacements)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	keep := make([]uuid.UUID, 0, len(ordered))
	for _, r := range ordered {
		if r.ID == nil {
			continue
		}
		if !existingSet[*r.ID] {
			return domain.NewNotFoundError("sub-task")
		}
		keep = append(keep, *r.ID)
	}

	deleted, err := tx.SubTasks().DeleteNotIn(ctx, taskID, keep)
	if err != nil {
		return err
	}
	if want := int64(len(existing) - len(keep)); deleted != want {
		return domain.NewInternalError(
			"sub-task replacement deleted %d rows, expected %d", deleted, want)
	}

	var updates []domain.SubTask
	checker := checkerFor(tx)
	now := time.Now()
	for i, r := range ordered {
		if r.ID != nil {
			updates = append(updates, domain.SubTask{
				ID:          *r.ID,
				TaskID:      taskID,
				Title:       r.Title,
				Description: r.Description,
				Done:        r.Done,
				Position:    i,
			})
			continue
		}
		if err := checker.Validate(ctx, member, authz.CreateSubTask); err != nil {
			return err
		}
		subTask := &domain.SubTask{
			ID:          uuid.New(),
			TaskID:      taskID,
			Title:       r.Title,
			Description: r.Description,
			Done:        r.Done,
			Position:    i,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.SubTasks().Create(ctx, subTask); err != nil {
			return fmt.Errorf("failed to create sub-task: %w", err)
		}
	}
	if err := tx.SubTasks().BulkUpdate(ctx, updates); err != nil {
		return err
	}
	return nil
}

// visibleTask loads a task and its workspace, verifying the user can see it
func (s *TaskService) visibleTask(ctx context.Context, store domain.Store, userID, taskID uuid.UUID) (*domain.Task, uuid.UUID, error) {
	task, err := store.Tasks().GetByID(ctx, taskID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, uuid.Nil, domain.NewNotFoundError("task")
	}

	workspaceID, err := store.Tasks().GetWorkspaceID(ctx, taskID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	if _, err := memberOf(ctx, store, workspaceID, userID, "task"); err != nil {
		return nil, uuid.Nil, err
	}
	return task, workspaceID, nil
}
