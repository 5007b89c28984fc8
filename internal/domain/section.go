package domain

import (
	"time"

	"github.com/google/uuid"
)

// Section belongs to a project. Position is the zero-based rank among the
// project's sections; positions of siblings are always a contiguous
// permutation of 0..n-1 after any committed operation.
type Section struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SectionCreate represents section creation data
type SectionCreate struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// SectionUpdate represents section update data
type SectionUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// MoveDirection is a relative reorder request for an ordered sibling
type MoveDirection string

const (
	MoveUp     MoveDirection = "up"
	MoveDown   MoveDirection = "down"
	MoveTop    MoveDirection = "top"
	MoveBottom MoveDirection = "bottom"
)

// Valid reports whether d is a known direction
func (d MoveDirection) Valid() bool {
	switch d {
	case MoveUp, MoveDown, MoveTop, MoveBottom:
		return true
	}
	return false
}
