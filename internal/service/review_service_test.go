package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	args := m.Called(ctx, revieweeID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) AverageRating(ctx context.Context, revieweeID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, revieweeID)
	return args.Get(0).(float64), args.Get(1).(int), args.Error(2)
}

func completedGig(employerID, workerID uuid.UUID) *models.Gig {
	return &models.Gig{
		ID:         uuid.New(),
		CreatedBy:  employerID,
		AssignedTo: &workerID,
		Status:     models.GigStatusCompleted,
	}
}

func TestReviewService_CreateReview_EmployerReviewsWorker(t *testing.T) {
	repo := new(mockReviewRepo)
	gigs := new(mockGigRepo)
	svc := NewReviewService(repo, gigs)
	ctx := context.Background()

	employerID := uuid.New()
	workerID := uuid.New()
	gig := completedGig(employerID, workerID)

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	review, err := svc.CreateReview(ctx, employerID, gig.ID, 5, nil)
	assert.NoError(t, err)
	assert.Equal(t, workerID, review.RevieweeID)
	assert.Equal(t, employerID, review.ReviewerID)
	repo.AssertExpectations(t)
}

func TestReviewService_CreateReview_WorkerReviewsEmployer(t *testing.T) {
	repo := new(mockReviewRepo)
	gigs := new(mockGigRepo)
	svc := NewReviewService(repo, gigs)
	ctx := context.Background()

	employerID := uuid.New()
	workerID := uuid.New()
	gig := completedGig(employerID, workerID)

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	comment := "Всё чётко, оплата без задержек"
	review, err := svc.CreateReview(ctx, workerID, gig.ID, 4, &comment)
	assert.NoError(t, err)
	assert.Equal(t, employerID, review.RevieweeID)
	assert.Equal(t, &comment, review.Comment)
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	repo := new(mockReviewRepo)
	gigs := new(mockGigRepo)
	svc := NewReviewService(repo, gigs)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, uuid.New(), uuid.New(), 0, nil)
	assert.Error(t, err)

	_, err = svc.CreateReview(ctx, uuid.New(), uuid.New(), 6, nil)
	assert.Error(t, err)

	gigs.AssertNotCalled(t, "GetByID")
	repo.AssertNotCalled(t, "Create")
}

func TestReviewService_CreateReview_NotParticipant(t *testing.T) {
	repo := new(mockReviewRepo)
	gigs := new(mockGigRepo)
	svc := NewReviewService(repo, gigs)
	ctx := context.Background()

	gig := completedGig(uuid.New(), uuid.New())
	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.CreateReview(ctx, uuid.New(), gig.ID, 5, nil)
	assert.ErrorIs(t, err, apperror.ErrNotGigParticipant)
	repo.AssertNotCalled(t, "Create")
}

func TestReviewService_CreateReview_GigNotCompleted(t *testing.T) {
	repo := new(mockReviewRepo)
	gigs := new(mockGigRepo)
	svc := NewReviewService(repo, gigs)
	ctx := context.Background()

	employerID := uuid.New()
	workerID := uuid.New()
	gig := completedGig(employerID, workerID)
	gig.Status = models.GigStatusInProgress

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.CreateReview(ctx, employerID, gig.ID, 5, nil)
	assert.ErrorIs(t, err, apperror.ErrGigNotCompleted)
	repo.AssertNotCalled(t, "Create")
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	repo := new(mockReviewRepo)
	gigs := new(mockGigRepo)
	svc := NewReviewService(repo, gigs)
	ctx := context.Background()

	employerID := uuid.New()
	gig := completedGig(employerID, uuid.New())

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(apperror.ErrAlreadyReviewed)

	_, err := svc.CreateReview(ctx, employerID, gig.ID, 5, nil)
	assert.ErrorIs(t, err, apperror.ErrAlreadyReviewed)
}

func TestReviewService_GetRatingSummary(t *testing.T) {
	repo := new(mockReviewRepo)
	gigs := new(mockGigRepo)
	svc := NewReviewService(repo, gigs)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("AverageRating", ctx, userID).Return(4.5, 12, nil)

	summary, err := svc.GetRatingSummary(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 4.5, summary.Average)
	assert.Equal(t, 12, summary.Count)
}
