package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
	"github.com/zigger-app/gig-backend/internal/validation"
)

// ReviewRepo описывает зависимости ReviewService от слоя хранилища.
type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review) error
	ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error)
	AverageRating(ctx context.Context, revieweeID uuid.UUID) (float64, int, error)
}

// ReviewGigRepo даёт доступ к заданию для проверки права на отзыв.
type ReviewGigRepo interface {
	GetByID(ctx context.Context, gigID uuid.UUID) (*models.Gig, error)
}

// RatingSummary агрегирует отзывы о пользователе.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ReviewService — отзывы участников друг о друге по завершённым заданиям.
type ReviewService struct {
	repo ReviewRepo
	gigs ReviewGigRepo
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(repo ReviewRepo, gigs ReviewGigRepo) *ReviewService {
	return &ReviewService{repo: repo, gigs: gigs}
}

// CreateReview сохраняет отзыв. Отзыв оставляет участник завершённого задания,
// получателем всегда выступает его контрагент.
func (s *ReviewService) CreateReview(ctx context.Context, reviewerID, gigID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(gig, reviewerID) {
		return nil, apperror.ErrNotGigParticipant
	}
	if gig.Status != models.GigStatusCompleted {
		return nil, apperror.ErrGigNotCompleted
	}

	reviewee := counterparty(gig, reviewerID)
	if reviewee == nil {
		return nil, apperror.ErrNoWorkerAssigned
	}

	review := &models.Review{
		GigID:      gigID,
		ReviewerID: reviewerID,
		RevieweeID: *reviewee,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews возвращает отзывы о пользователе.
func (s *ReviewService) ListReviews(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	return s.repo.ListByReviewee(ctx, revieweeID)
}

// GetRatingSummary возвращает среднюю оценку и число отзывов.
func (s *ReviewService) GetRatingSummary(ctx context.Context, revieweeID uuid.UUID) (*RatingSummary, error) {
	average, count, err := s.repo.AverageRating(ctx, revieweeID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{Average: average, Count: count}, nil
}
