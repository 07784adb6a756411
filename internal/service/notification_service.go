package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/logger"
	"github.com/zigger-app/gig-backend/internal/models"
)

// NotificationRepo описывает зависимости NotificationService от слоя хранилища.
type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

// NotificationPusher доставляет уведомление по открытым WebSocket соединениям.
type NotificationPusher interface {
	PushToUser(userID uuid.UUID, payload interface{})
}

// NotificationService сохраняет уведомления и пушит их подключённым клиентам.
type NotificationService struct {
	repo   NotificationRepo
	pusher NotificationPusher
}

// NewNotificationService создаёт сервис уведомлений.
func NewNotificationService(repo NotificationRepo, pusher NotificationPusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// Notify сохраняет уведомление и доставляет его онлайн-получателю.
// Ошибка сохранения логируется и не пробрасывается: уведомления — побочный
// эффект, который не должен ломать основную операцию.
func (s *NotificationService) Notify(ctx context.Context, recipientID uuid.UUID, title, message string) {
	n := &models.Notification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"recipient_id": recipientID,
			"error":        err.Error(),
		}).Warn("notification service: не удалось сохранить уведомление")
		return
	}

	if s.pusher != nil {
		s.pusher.PushToUser(recipientID, n)
	}
}

// List возвращает уведомления пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.repo.ListByRecipient(ctx, userID)
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead помечает уведомление прочитанным.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
