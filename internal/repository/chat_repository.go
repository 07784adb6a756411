package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zigger-app/gig-backend/internal/models"
)

// ChatRepository отвечает за сообщения чатов заданий.
type ChatRepository struct {
	db *sqlx.DB
}

// NewChatRepository создаёт экземпляр репозитория.
func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create сохраняет сообщение.
func (r *ChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	err := r.db.GetContext(ctx, msg, `
		INSERT INTO chat_messages (gig_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING *
	`, msg.GigID, msg.SenderID, msg.Content)
	if err != nil {
		return fmt.Errorf("chat repository: create %w", err)
	}
	return nil
}

// ListByGig возвращает историю чата задания в хронологическом порядке.
func (r *ChatRepository) ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM chat_messages WHERE gig_id = $1 ORDER BY created_at
	`, gigID)
	if err != nil {
		return nil, fmt.Errorf("chat repository: list by gig %w", err)
	}
	return messages, nil
}
