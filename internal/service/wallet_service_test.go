package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) Deposit(ctx context.Context, userID uuid.UUID, amount float64, description string) (*models.WalletTransaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTransaction), args.Error(1)
}

func (m *mockWalletRepo) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockWalletRepo) GetEscrowByGigID(ctx context.Context, gigID uuid.UUID) (*models.EscrowTransaction, error) {
	args := m.Called(ctx, gigID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowTransaction), args.Error(1)
}

func (m *mockWalletRepo) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.WalletTransaction), args.Error(1)
}

func TestWalletService_Deposit_Success(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	expected := &models.WalletTransaction{ID: uuid.New(), Amount: 1000, Type: models.WalletTransactionCredit}
	repo.On("Deposit", ctx, userID, float64(1000), "Пополнение баланса").Return(expected, nil)

	tx, err := svc.Deposit(ctx, userID, 1000)
	assert.NoError(t, err)
	assert.Equal(t, expected, tx)
	repo.AssertExpectations(t)
}

func TestWalletService_Deposit_InvalidAmount(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, uuid.New(), 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)

	_, err = svc.Deposit(ctx, uuid.New(), -100)
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)

	repo.AssertNotCalled(t, "Deposit")
}

func TestWalletService_GetBalance(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("GetBalance", ctx, userID).Return(float64(2500), nil)

	balance, err := svc.GetBalance(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, float64(2500), balance)
}

func TestWalletService_ListTransactions(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	expected := []models.WalletTransaction{{ID: uuid.New()}, {ID: uuid.New()}}
	repo.On("ListTransactions", ctx, userID).Return(expected, nil)

	txs, err := svc.ListTransactions(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestWalletService_GetEscrowByGig_Participant(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()

	employerID := uuid.New()
	workerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), CreatedBy: employerID, AssignedTo: &workerID}

	expected := &models.EscrowTransaction{ID: uuid.New(), GigID: gig.ID, Status: models.EscrowStatusHeld}
	repo.On("GetEscrowByGigID", ctx, gig.ID).Return(expected, nil)

	escrow, err := svc.GetEscrowByGig(ctx, employerID, gig)
	assert.NoError(t, err)
	assert.Equal(t, expected, escrow)

	escrow, err = svc.GetEscrowByGig(ctx, workerID, gig)
	assert.NoError(t, err)
	assert.Equal(t, expected, escrow)
}

func TestWalletService_GetEscrowByGig_Outsider(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()

	gig := &models.Gig{ID: uuid.New(), CreatedBy: uuid.New()}

	_, err := svc.GetEscrowByGig(ctx, uuid.New(), gig)
	assert.ErrorIs(t, err, apperror.ErrNotGigParticipant)
	repo.AssertNotCalled(t, "GetEscrowByGigID")
}

func TestWalletService_GetEscrowByGig_NotFound(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()

	employerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), CreatedBy: employerID}

	repo.On("GetEscrowByGigID", ctx, gig.ID).Return(nil, apperror.ErrEscrowNotFound)

	_, err := svc.GetEscrowByGig(ctx, employerID, gig)
	assert.True(t, errors.Is(err, apperror.ErrEscrowNotFound))
}
