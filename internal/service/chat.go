package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// ChatMessageService handles task chat
type ChatMessageService struct {
	store domain.Store
}

// NewChatMessageService creates a new chat message service
func NewChatMessageService(store domain.Store) *ChatMessageService {
	return &ChatMessageService{store: store}
}

// Create posts a chat message on a task, authored by the caller's
// membership
func (s *ChatMessageService) Create(ctx context.Context, userID, taskID uuid.UUID, input domain.ChatMessageCreate) (*domain.ChatMessage, error) {
	var message *domain.ChatMessage
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		workspaceID, err := tx.Tasks().GetWorkspaceID(ctx, taskID)
		if err != nil {
			return err
		}
		member, err := authorize(ctx, tx, workspaceID, userID, authz.CreateChatMessage, "task")
		if err != nil {
			return err
		}

		authorID := member.ID
		message = &domain.ChatMessage{
			ID:        uuid.New(),
			TaskID:    taskID,
			AuthorID:  &authorID,
			Text:      input.Text,
			CreatedAt: time.Now(),
		}
		if err := tx.ChatMessages().Create(ctx, message); err != nil {
			return fmt.Errorf("failed to create chat message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// ListByTask lists a task's chat messages oldest first
func (s *ChatMessageService) ListByTask(ctx context.Context, userID, taskID uuid.UUID) ([]domain.ChatMessage, error) {
	workspaceID, err := s.store.Tasks().GetWorkspaceID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := memberOf(ctx, s.store, workspaceID, userID, "task"); err != nil {
		return nil, err
	}

	messages, err := s.store.ChatMessages().ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
