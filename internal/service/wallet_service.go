package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

// WalletRepo описывает зависимости WalletService от слоя хранилища.
type WalletRepo interface {
	Deposit(ctx context.Context, userID uuid.UUID, amount float64, description string) (*models.WalletTransaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (float64, error)
	GetEscrowByGigID(ctx context.Context, gigID uuid.UUID) (*models.EscrowTransaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error)
}

// WalletService инкапсулирует операции кошелька, доступные пользователю напрямую.
// Блокировка, выплата и возврат средств вызываются только жизненным циклом
// задания и наружу этим сервисом не выставляются.
type WalletService struct {
	repo WalletRepo
}

// NewWalletService создаёт сервис кошелька.
func NewWalletService(repo WalletRepo) *WalletService {
	return &WalletService{repo: repo}
}

// Deposit пополняет баланс пользователя.
func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amount float64) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount
	}
	return s.repo.Deposit(ctx, userID, amount, "Пополнение баланса")
}

// GetBalance возвращает текущий баланс пользователя.
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// ListTransactions возвращает журнал операций пользователя.
func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	return s.repo.ListTransactions(ctx, userID)
}

// GetEscrowByGig возвращает escrow по заданию. Доступно только участникам задания.
func (s *WalletService) GetEscrowByGig(ctx context.Context, userID uuid.UUID, gig *models.Gig) (*models.EscrowTransaction, error) {
	if gig.CreatedBy != userID && (gig.AssignedTo == nil || *gig.AssignedTo != userID) {
		return nil, apperror.ErrNotGigParticipant
	}
	return s.repo.GetEscrowByGigID(ctx, gig.ID)
}
