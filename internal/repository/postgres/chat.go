package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// ChatMessageRepository implements domain.ChatMessageRepository
type ChatMessageRepository struct {
	q Querier
}

// NewChatMessageRepository creates a new chat message repository
func NewChatMessageRepository(q Querier) *ChatMessageRepository {
	return &ChatMessageRepository{q: q}
}

func scanChatMessage(row pgx.Row) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	err := row.Scan(
		&m.ID,
		&m.TaskID,
		&m.AuthorID,
		&m.Text,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ChatMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, task_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.Exec(ctx, query,
		message.ID,
		message.TaskID,
		message.AuthorID,
		message.Text,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *ChatMessageRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]domain.ChatMessage, error) {
	query := `
		SELECT id, task_id, author_id, text, created_at
		FROM chat_messages
		WHERE task_id = $1
		ORDER BY created_at
	`
	rows, err := r.q.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}
