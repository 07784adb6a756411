package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

// AdminProfileRepo описывает зависимости AdminService от хранилища профилей.
type AdminProfileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateKycStatus(ctx context.Context, id uuid.UUID, status string) (*models.Profile, error)
	ListPendingKyc(ctx context.Context) ([]models.Profile, error)
	ListAll(ctx context.Context) ([]models.Profile, error)
}

// AdminGigRepo описывает зависимости AdminService от хранилища заданий.
type AdminGigRepo interface {
	ListAll(ctx context.Context) ([]models.Gig, error)
}

// AdminWalletRepo описывает зависимости AdminService от хранилища кошельков.
type AdminWalletRepo interface {
	ListAllTransactions(ctx context.Context) ([]models.WalletTransaction, error)
}

// AdminService — операции администратора: обзор платформы и решения по KYC.
type AdminService struct {
	profiles AdminProfileRepo
	gigs     AdminGigRepo
	wallets  AdminWalletRepo
	notifier Notifier
}

// NewAdminService создаёт сервис администратора.
func NewAdminService(profiles AdminProfileRepo, gigs AdminGigRepo, wallets AdminWalletRepo, notifier Notifier) *AdminService {
	return &AdminService{
		profiles: profiles,
		gigs:     gigs,
		wallets:  wallets,
		notifier: notifier,
	}
}

// ListProfiles возвращает все профили платформы.
func (s *AdminService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return s.profiles.ListAll(ctx)
}

// ListGigs возвращает все задания платформы.
func (s *AdminService) ListGigs(ctx context.Context) ([]models.Gig, error) {
	return s.gigs.ListAll(ctx)
}

// ListWalletTransactions возвращает весь журнал движений средств.
func (s *AdminService) ListWalletTransactions(ctx context.Context) ([]models.WalletTransaction, error) {
	return s.wallets.ListAllTransactions(ctx)
}

// ListPendingKyc возвращает профили, ожидающие проверки документов.
func (s *AdminService) ListPendingKyc(ctx context.Context) ([]models.Profile, error) {
	return s.profiles.ListPendingKyc(ctx)
}

// AdjudicateKyc утверждает или отклоняет верификацию пользователя.
func (s *AdminService) AdjudicateKyc(ctx context.Context, userID uuid.UUID, approve bool) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.KycStatus != models.KycStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "верификация не ожидает решения")
	}

	status := models.KycStatusApproved
	title := "Верификация пройдена"
	message := "Ваши документы проверены и подтверждены"
	if !approve {
		status = models.KycStatusRejected
		title = "Верификация отклонена"
		message = "Ваши документы не прошли проверку, загрузите их заново"
	}

	updated, err := s.profiles.UpdateKycStatus(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("admin service: решение по kyc %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, title, message)
	}

	return updated, nil
}
