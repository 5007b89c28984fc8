package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func taskFixture(t *testing.T) (*mockStore, *TaskService, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := newMockStore()
	svc := NewTaskService(store)
	workspaceID, userID := uuid.New(), uuid.New()
	grant(store, workspaceID, userID, domain.RoleContributor)
	withCustomer(store, workspaceID, domain.SubscriptionActive, 10)
	return store, svc, workspaceID, userID
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers and positions the task", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)

		sectionID := uuid.New()
		store.sections.On("GetByID", ctx, sectionID).Return(&domain.Section{ID: sectionID}, nil)
		store.sections.On("GetWorkspaceID", ctx, sectionID).Return(workspaceID, nil)
		store.workspaces.On("NextTaskNumber", ctx, workspaceID).Return(42, nil)
		store.tasks.On("LockSiblings", ctx, sectionID).Return([]uuid.UUID{uuid.New(), uuid.New()}, nil)
		store.tasks.On("Create", ctx, mock.MatchedBy(func(task *domain.Task) bool {
			return task.Number == 42 && task.Position == 2 && task.SectionID == sectionID
		})).Return(nil)

		task, err := svc.Create(ctx, userID, sectionID, domain.TaskCreate{Title: "Ship it"})
		require.NoError(t, err)
		assert.Equal(t, 42, task.Number)
		assert.Equal(t, 2, task.Position)
		store.tasks.AssertExpectations(t)
	})

	t.Run("assignee outside the workspace is rejected", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)

		sectionID := uuid.New()
		store.sections.On("GetByID", ctx, sectionID).Return(&domain.Section{ID: sectionID}, nil)
		store.sections.On("GetWorkspaceID", ctx, sectionID).Return(workspaceID, nil)

		assigneeID := uuid.New()
		store.teamMembers.On("GetByID", ctx, assigneeID).Return(&domain.TeamMember{
			ID:          assigneeID,
			WorkspaceID: uuid.New(),
		}, nil)

		_, err := svc.Create(ctx, userID, sectionID, domain.TaskCreate{
			Title:      "Ship it",
			AssigneeID: &assigneeID,
		})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "assignee is not a member")
		store.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("labels outside the workspace are silently dropped", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)

		sectionID := uuid.New()
		store.sections.On("GetByID", ctx, sectionID).Return(&domain.Section{ID: sectionID}, nil)
		store.sections.On("GetWorkspaceID", ctx, sectionID).Return(workspaceID, nil)
		store.workspaces.On("NextTaskNumber", ctx, workspaceID).Return(1, nil)
		store.tasks.On("LockSiblings", ctx, sectionID).Return([]uuid.UUID{}, nil)
		store.tasks.On("Create", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)

		mine := domain.Label{ID: uuid.New(), WorkspaceID: workspaceID, Name: "bug"}
		foreign := uuid.New()
		store.labels.On("ListByIDsInWorkspace", ctx, workspaceID, []uuid.UUID{mine.ID, foreign}).
			Return([]domain.Label{mine}, nil)
		store.tasks.On("AddLabel", ctx, mock.Anything, mine.ID).Return(nil)

		task, err := svc.Create(ctx, userID, sectionID, domain.TaskCreate{
			Title:    "Ship it",
			LabelIDs: []uuid.UUID{mine.ID, foreign},
		})
		require.NoError(t, err)
		require.Len(t, task.Labels, 1)
		assert.Equal(t, mine.ID, task.Labels[0].ID)
		store.tasks.AssertNumberOfCalls(t, "AddLabel", 1)
	})

	t.Run("unknown section", func(t *testing.T) {
		store, svc, _, userID := taskFixture(t)

		sectionID := uuid.New()
		store.sections.On("GetByID", ctx, sectionID).Return(nil, nil)

		_, err := svc.Create(ctx, userID, sectionID, domain.TaskCreate{Title: "Ship it"})
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestTaskService_Update_ReplacesSubTasks(t *testing.T) {
	ctx := context.Background()

	setupVisibleTask := func(store *mockStore, workspaceID uuid.UUID) *domain.Task {
		task := &domain.Task{ID: uuid.New(), SectionID: uuid.New(), Title: "Ship it"}
		store.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
		store.tasks.On("GetWorkspaceID", ctx, task.ID).Return(workspaceID, nil)
		return task
	}

	t.Run("unknown retained id is not found", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)
		task := setupVisibleTask(store, workspaceID)
		store.tasks.On("Update", ctx, task.ID, mock.AnythingOfType("*domain.TaskUpdate")).Return(nil)

		store.subTasks.On("LockSiblings", ctx, task.ID).Return([]uuid.UUID{uuid.New()}, nil)

		strangerID := uuid.New()
		replacements := []domain.SubTaskReplace{{ID: &strangerID, Title: "kept"}}
		_, err := svc.Update(ctx, userID, task.ID, domain.TaskUpdate{SubTasks: &replacements})
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("delete count mismatch fails the transaction", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)
		task := setupVisibleTask(store, workspaceID)
		store.tasks.On("Update", ctx, task.ID, mock.AnythingOfType("*domain.TaskUpdate")).Return(nil)

		keep := uuid.New()
		dropped := uuid.New()
		store.subTasks.On("LockSiblings", ctx, task.ID).Return([]uuid.UUID{keep, dropped}, nil)
		store.subTasks.On("DeleteNotIn", ctx, task.ID, []uuid.UUID{keep}).Return(int64(0), nil)

		replacements := []domain.SubTaskReplace{{ID: &keep, Title: "kept"}}
		_, err := svc.Update(ctx, userID, task.ID, domain.TaskUpdate{SubTasks: &replacements})
		var internal *domain.InternalError
		assert.ErrorAs(t, err, &internal)
	})

	t.Run("all-new replacement deletes every existing sub-task", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)
		task := setupVisibleTask(store, workspaceID)
		store.tasks.On("Update", ctx, task.ID, mock.AnythingOfType("*domain.TaskUpdate")).Return(nil)

		old1, old2 := uuid.New(), uuid.New()
		store.subTasks.On("LockSiblings", ctx, task.ID).Return([]uuid.UUID{old1, old2}, nil)
		// The keep list must stay a non-nil empty slice; nil would encode as
		// SQL NULL and the delete would match nothing.
		store.subTasks.On("DeleteNotIn", ctx, task.ID, mock.MatchedBy(func(keep []uuid.UUID) bool {
			return keep != nil && len(keep) == 0
		})).Return(int64(2), nil)
		store.subTasks.On("Create", ctx, mock.AnythingOfType("*domain.SubTask")).Return(nil)
		store.subTasks.On("BulkUpdate", ctx, mock.MatchedBy(func(updates []domain.SubTask) bool {
			return len(updates) == 0
		})).Return(nil)

		store.tasks.On("ListLabels", ctx, task.ID).Return([]domain.Label{}, nil)
		store.subTasks.On("ListByTask", ctx, task.ID).Return([]domain.SubTask{}, nil)

		replacements := []domain.SubTaskReplace{
			{Title: "fresh one"},
			{Title: "fresh two", Position: 1},
		}
		_, err := svc.Update(ctx, userID, task.ID, domain.TaskUpdate{SubTasks: &replacements})
		require.NoError(t, err)
		store.subTasks.AssertNumberOfCalls(t, "Create", 2)
		store.subTasks.AssertExpectations(t)
	})

	t.Run("renumbers by requested position order", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)
		task := setupVisibleTask(store, workspaceID)
		store.tasks.On("Update", ctx, task.ID, mock.AnythingOfType("*domain.TaskUpdate")).Return(nil)

		first, second := uuid.New(), uuid.New()
		store.subTasks.On("LockSiblings", ctx, task.ID).Return([]uuid.UUID{first, second}, nil)
		store.subTasks.On("DeleteNotIn", ctx, task.ID, []uuid.UUID{second, first}).Return(int64(0), nil)
		store.subTasks.On("BulkUpdate", ctx, mock.MatchedBy(func(updates []domain.SubTask) bool {
			return len(updates) == 2 &&
				updates[0].ID == second && updates[0].Position == 0 &&
				updates[1].ID == first && updates[1].Position == 1
		})).Return(nil)

		store.tasks.On("ListLabels", ctx, task.ID).Return([]domain.Label{}, nil)
		store.subTasks.On("ListByTask", ctx, task.ID).Return([]domain.SubTask{}, nil)

		// Positions arrive sparse and out of order; the service renumbers 0..n-1.
		replacements := []domain.SubTaskReplace{
			{ID: &first, Title: "b", Position: 7},
			{ID: &second, Title: "a", Position: 3},
		}
		_, err := svc.Update(ctx, userID, task.ID, domain.TaskUpdate{SubTasks: &replacements})
		require.NoError(t, err)
		store.subTasks.AssertExpectations(t)
	})
}

func TestTaskService_Update_PatchSemantics(t *testing.T) {
	ctx := context.Background()

	setupAssignedTask := func(store *mockStore, workspaceID uuid.UUID, assigneeID uuid.UUID, done time.Time) *domain.Task {
		task := &domain.Task{
			ID:         uuid.New(),
			SectionID:  uuid.New(),
			Title:      "Ship it",
			AssigneeID: &assigneeID,
			Done:       &done,
		}
		store.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
		store.tasks.On("GetWorkspaceID", ctx, task.ID).Return(workspaceID, nil)
		store.tasks.On("ListLabels", ctx, task.ID).Return([]domain.Label{}, nil)
		store.subTasks.On("ListByTask", ctx, task.ID).Return([]domain.SubTask{}, nil)
		return task
	}

	t.Run("title-only update keeps assignee and done", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)
		assigneeID := uuid.New()
		done := time.Now()
		task := setupAssignedTask(store, workspaceID, assigneeID, done)

		store.teamMembers.On("GetByID", ctx, assigneeID).Return(&domain.TeamMember{
			ID:          assigneeID,
			WorkspaceID: workspaceID,
		}, nil)
		store.tasks.On("Update", ctx, task.ID, mock.MatchedBy(func(u *domain.TaskUpdate) bool {
			return u.AssigneeID != nil && *u.AssigneeID == assigneeID &&
				u.Done != nil && u.Done.Equal(done)
		})).Return(nil)

		title := "Renamed"
		_, err := svc.Update(ctx, userID, task.ID, domain.TaskUpdate{Title: &title})
		require.NoError(t, err)
		store.tasks.AssertExpectations(t)
	})

	t.Run("clear flags null out assignee and done", func(t *testing.T) {
		store, svc, workspaceID, userID := taskFixture(t)
		task := setupAssignedTask(store, workspaceID, uuid.New(), time.Now())

		store.tasks.On("Update", ctx, task.ID, mock.MatchedBy(func(u *domain.TaskUpdate) bool {
			return u.AssigneeID == nil && u.Done == nil
		})).Return(nil)

		_, err := svc.Update(ctx, userID, task.ID, domain.TaskUpdate{
			ClearAssignee: true,
			ClearDone:     true,
		})
		require.NoError(t, err)
		store.teamMembers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		store.tasks.AssertExpectations(t)
	})
}

func TestTaskService_MoveAfter_ForeignSection(t *testing.T) {
	ctx := context.Background()
	store, svc, workspaceID, userID := taskFixture(t)

	task := &domain.Task{ID: uuid.New(), SectionID: uuid.New()}
	store.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
	store.tasks.On("GetWorkspaceID", ctx, task.ID).Return(workspaceID, nil)

	dstSection := uuid.New()
	store.sections.On("GetWorkspaceID", ctx, dstSection).Return(uuid.New(), nil)

	err := svc.MoveAfter(ctx, userID, task.ID, dstSection, nil)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	store.tasks.AssertNotCalled(t, "SetParent", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_AddLabel_ForeignLabel(t *testing.T) {
	ctx := context.Background()
	store, svc, workspaceID, userID := taskFixture(t)

	task := &domain.Task{ID: uuid.New(), SectionID: uuid.New()}
	store.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
	store.tasks.On("GetWorkspaceID", ctx, task.ID).Return(workspaceID, nil)

	labelID := uuid.New()
	store.labels.On("GetByID", ctx, labelID).Return(&domain.Label{
		ID:          labelID,
		WorkspaceID: uuid.New(),
	}, nil)

	err := svc.AddLabel(ctx, userID, task.ID, labelID)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	store.tasks.AssertNotCalled(t, "AddLabel", mock.Anything, mock.Anything, mock.Anything)
}
