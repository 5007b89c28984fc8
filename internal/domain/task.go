package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task belongs to a section. Number is a workspace-scoped monotonically
// increasing integer assigned at creation and never reused; the workspace's
// HighestTaskNumber tracks the maximum ever issued. AssigneeID references a
// team member of the same workspace.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	SectionID   uuid.UUID  `json:"section_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Position    int        `json:"position"`
	Number      int        `json:"number"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	Done        *time.Time `json:"done,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Populated on detail reads, nil otherwise.
	SubTasks []SubTask `json:"sub_tasks,omitempty"`
	Labels   []Label   `json:"labels,omitempty"`
}

// TaskCreate represents a task creation payload. Nested sub-tasks and labels
// are created/attached in the same transaction as the task; each nested
// collection passes its own quota check at its own creation time.
type TaskCreate struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=4000"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	AssigneeID  *uuid.UUID      `json:"assignee_id,omitempty"`
	LabelIDs    []uuid.UUID     `json:"label_ids,omitempty"`
	SubTasks    []SubTaskCreate `json:"sub_tasks,omitempty" validate:"dive"`
}

// TaskUpdate represents a task update payload. A non-nil SubTasks slice is a
// full replacement of the task's sub-task list (see SubTaskReplace). Absent
// fields keep their current value; the nullable assignee and done timestamp
// are cleared through the explicit flags, which win over any value sent
// alongside them.
type TaskUpdate struct {
	Title         *string           `json:"title,omitempty" validate:"omitempty,max=255"`
	Description   *string           `json:"description,omitempty" validate:"omitempty,max=4000"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	AssigneeID    *uuid.UUID        `json:"assignee_id,omitempty"`
	ClearAssignee bool              `json:"clear_assignee,omitempty"`
	Done          *time.Time        `json:"done,omitempty"`
	ClearDone     bool              `json:"clear_done,omitempty"`
	LabelIDs      *[]uuid.UUID      `json:"label_ids,omitempty"`
	SubTasks      *[]SubTaskReplace `json:"sub_tasks,omitempty" validate:"omitempty,dive"`
}

// SubTask belongs to a task
type SubTask struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Done        bool      `json:"done"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubTaskCreate represents sub-task creation data
type SubTaskCreate struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Done        bool   `json:"done"`
}

// SubTaskUpdate represents sub-task update data
type SubTaskUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Done        *bool   `json:"done,omitempty"`
}

// SubTaskReplace is one element of a full sub-task replacement list on task
// update. A nil ID marks a new sub-task; existing sub-tasks absent from the
// list are deleted.
type SubTaskReplace struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	Done        bool       `json:"done"`
	Position    int        `json:"position" validate:"min=0"`
}
