package domain

import (
	"time"

	"github.com/google/uuid"
)

// LabelColorMax is the largest valid label color code (inclusive)
const LabelColorMax = 7

// Label belongs to a workspace. Name is unique within the workspace; Color
// is an integer code in 0..LabelColorMax.
type Label struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	Color       int       `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LabelCreate represents label creation data
type LabelCreate struct {
	Name  string `json:"name" validate:"required,max=255"`
	Color int    `json:"color" validate:"min=0,max=7"`
}

// LabelUpdate represents label update data
type LabelUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Color *int    `json:"color,omitempty" validate:"omitempty,min=0,max=7"`
}
