package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage belongs to a task. AuthorID references the authoring team
// member and becomes nil when that membership is removed; the message itself
// persists.
type ChatMessage struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    uuid.UUID  `json:"task_id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

// ChatMessageCreate represents chat message creation data
type ChatMessageCreate struct {
	Text string `json:"text" validate:"required,max=4000"`
}
