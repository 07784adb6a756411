package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification — уведомление пользователя.
type Notification struct {
	ID          uuid.UUID `db:"id" json:"id"`
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	Title       string    `db:"title" json:"title"`
	Message     string    `db:"message" json:"message"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ChatMessage — сообщение в чате задания между работодателем и исполнителем.
type ChatMessage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GigID     uuid.UUID `db:"gig_id" json:"gig_id"`
	SenderID  uuid.UUID `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Review — отзыв участника о контрагенте после завершения задания.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	GigID      uuid.UUID `db:"gig_id" json:"gig_id"`
	ReviewerID uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	RevieweeID uuid.UUID `db:"reviewee_id" json:"reviewee_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
