package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
	"github.com/zigger-app/gig-backend/internal/validation"
)

// ChatRepo описывает зависимости ChatService от слоя хранилища.
type ChatRepo interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.ChatMessage, error)
}

// ChatGigRepo даёт доступ к заданию для проверки участия в чате.
type ChatGigRepo interface {
	GetByID(ctx context.Context, gigID uuid.UUID) (*models.Gig, error)
}

// ChatService — чат задания между работодателем и назначенным исполнителем.
type ChatService struct {
	repo   ChatRepo
	gigs   ChatGigRepo
	pusher NotificationPusher
}

// NewChatService создаёт сервис чата.
func NewChatService(repo ChatRepo, gigs ChatGigRepo, pusher NotificationPusher) *ChatService {
	return &ChatService{repo: repo, gigs: gigs, pusher: pusher}
}

// SendMessage сохраняет сообщение и пушит его второму участнику.
// Писать в чат могут только автор задания и назначенный исполнитель.
func (s *ChatService) SendMessage(ctx context.Context, senderID, gigID uuid.UUID, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if err := validation.ValidateLength("сообщение", content, 1, validation.MaxChatMessageLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(gig, senderID) {
		return nil, apperror.ErrNotGigParticipant
	}

	msg := &models.ChatMessage{
		GigID:    gigID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		if recipient := counterparty(gig, senderID); recipient != nil {
			s.pusher.PushToUser(*recipient, msg)
		}
	}

	return msg, nil
}

// ListMessages возвращает историю чата задания. Доступно участникам.
func (s *ChatService) ListMessages(ctx context.Context, userID, gigID uuid.UUID) ([]models.ChatMessage, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(gig, userID) {
		return nil, apperror.ErrNotGigParticipant
	}
	return s.repo.ListByGig(ctx, gigID)
}

// counterparty возвращает второго участника задания относительно userID.
func counterparty(gig *models.Gig, userID uuid.UUID) *uuid.UUID {
	if gig.CreatedBy == userID {
		return gig.AssignedTo
	}
	employerID := gig.CreatedBy
	return &employerID
}
