package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

// ReviewRepository отвечает за отзывы по завершённым заданиям.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт экземпляр репозитория.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв. Один автор оставляет по заданию не более одного
// отзыва, это гарантирует уникальный индекс (gig_id, reviewer_id).
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.GetContext(ctx, review, `
		INSERT INTO reviews (gig_id, reviewer_id, reviewee_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, review.GigID, review.ReviewerID, review.RevieweeID, review.Rating, review.Comment)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperror.ErrAlreadyReviewed
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// ListByReviewee возвращает отзывы о пользователе, новые первыми.
func (r *ReviewRepository) ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE reviewee_id = $1 ORDER BY created_at DESC
	`, revieweeID)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by reviewee %w", err)
	}
	return reviews, nil
}

// AverageRating возвращает среднюю оценку пользователя и число отзывов.
func (r *ReviewRepository) AverageRating(ctx context.Context, revieweeID uuid.UUID) (float64, int, error) {
	var row struct {
		Average float64 `db:"average"`
		Count   int     `db:"count"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count
		FROM reviews WHERE reviewee_id = $1
	`, revieweeID)
	if err != nil {
		return 0, 0, fmt.Errorf("review repository: average rating %w", err)
	}
	return row.Average, row.Count, nil
}
