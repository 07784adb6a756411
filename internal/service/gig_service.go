package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/goroutine"
	"github.com/zigger-app/gig-backend/internal/logger"
	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
	"github.com/zigger-app/gig-backend/internal/validation"
)

// GigRepo описывает зависимости GigService от слоя хранилища.
type GigRepo interface {
	CreateWithEscrow(ctx context.Context, gig *models.Gig) error
	GetByID(ctx context.Context, gigID uuid.UUID) (*models.Gig, error)
	ListOpen(ctx context.Context) ([]models.Gig, error)
	ListNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.Gig, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Gig, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Gig, error)
	Apply(ctx context.Context, app *models.GigApplication) error
	ListApplications(ctx context.Context, gigID uuid.UUID) ([]models.GigApplication, error)
	ListWorkerApplications(ctx context.Context, workerID uuid.UUID) ([]models.GigApplication, error)
	GetWorkerApplication(ctx context.Context, gigID, workerID uuid.UUID) (*models.GigApplication, error)
	AssignWorker(ctx context.Context, employerID, gigID, workerID uuid.UUID) (*models.Gig, error)
	Start(ctx context.Context, workerID, gigID uuid.UUID) (*models.Gig, error)
	SaveProof(ctx context.Context, workerID, gigID uuid.UUID, photoURL string) (*models.Gig, error)
	ListProgressPhotos(ctx context.Context, gigID uuid.UUID) ([]models.GigProgressPhoto, error)
	UpdateLiveLocation(ctx context.Context, workerID, gigID uuid.UUID, lat, lng float64) error
	CompleteAndRelease(ctx context.Context, workerID, gigID uuid.UUID) (*models.Gig, error)
	CancelAndRefund(ctx context.Context, employerID, gigID uuid.UUID) (*models.Gig, error)
}

// GigProfileRepo даёт доступ к профилям для проверки ролей.
type GigProfileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Notifier доставляет уведомления участникам. Сохраняет в БД и пушит по WebSocket.
type Notifier interface {
	Notify(ctx context.Context, recipientID uuid.UUID, title, message string)
}

// CreateGigInput содержит данные нового задания.
type CreateGigInput struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	LocationName   string     `json:"location_name"`
	GeoLat         float64    `json:"geo_lat"`
	GeoLng         float64    `json:"geo_lng"`
	Payout         float64    `json:"payout"`
	Currency       string     `json:"currency"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	EstimatedHours *float64   `json:"estimated_hours"`
}

// ApplyInput содержит данные отклика на задание.
type ApplyInput struct {
	BidAmount    *float64 `json:"bid_amount"`
	PitchMessage *string  `json:"pitch_message"`
}

// GigService инкапсулирует жизненный цикл заданий: создание с блокировкой
// средств, отклики, назначение, выполнение и расчёт через escrow.
type GigService struct {
	repo     GigRepo
	profiles GigProfileRepo
	notifier Notifier
}

// NewGigService создаёт сервис заданий.
func NewGigService(repo GigRepo, profiles GigProfileRepo, notifier Notifier) *GigService {
	return &GigService{
		repo:     repo,
		profiles: profiles,
		notifier: notifier,
	}
}

// CreateGig создаёт задание от имени работодателя или администратора.
// Средства на выплату блокируются сразу, в той же транзакции.
func (s *GigService) CreateGig(ctx context.Context, employerID uuid.UUID, in CreateGigInput) (*models.Gig, error) {
	employer, err := s.profiles.GetByID(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if employer.Role != models.RoleEmployer && employer.Role != models.RoleAdmin {
		return nil, apperror.ErrNotAuthorized
	}

	if err := validation.ValidateLength("заголовок", in.Title, validation.MinGigTitleLength, validation.MaxGigTitleLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Description != nil {
		if err := validation.ValidateLength("описание", *in.Description, 0, validation.MaxGigDescriptionLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := validation.ValidateLength("место", in.LocationName, 1, validation.MaxLocationNameLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCoordinates(in.GeoLat, in.GeoLng); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Payout <= 0 || in.Payout > validation.MaxPayout {
		return nil, apperror.ErrInvalidAmount
	}

	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	gig := &models.Gig{
		Title:          in.Title,
		Description:    in.Description,
		LocationName:   in.LocationName,
		GeoLat:         in.GeoLat,
		GeoLng:         in.GeoLng,
		Payout:         in.Payout,
		Currency:       currency,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		EstimatedHours: in.EstimatedHours,
		CreatedBy:      employerID,
	}

	if err := s.repo.CreateWithEscrow(ctx, gig); err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"gig_id":      gig.ID,
		"employer_id": employerID,
		"payout":      gig.Payout,
	}).Info("gig service: задание создано, средства заблокированы")

	return gig, nil
}

// GetGig возвращает задание по ID.
func (s *GigService) GetGig(ctx context.Context, gigID uuid.UUID) (*models.Gig, error) {
	return s.repo.GetByID(ctx, gigID)
}

// ListOpenGigs возвращает открытые задания.
func (s *GigService) ListOpenGigs(ctx context.Context) ([]models.Gig, error) {
	return s.repo.ListOpen(ctx)
}

// ListNearbyGigs возвращает открытые задания рядом с точкой.
func (s *GigService) ListNearbyGigs(ctx context.Context, lat, lng, radiusKm float64) ([]models.Gig, error) {
	if err := validation.ValidateCoordinates(lat, lng); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if radiusKm <= 0 || radiusKm > validation.MaxSearchRadiusKm {
		radiusKm = validation.DefaultSearchRadiusKm
	}
	return s.repo.ListNearby(ctx, lat, lng, radiusKm)
}

// ListMyGigs возвращает задания пользователя: созданные для работодателя,
// назначенные для исполнителя.
func (s *GigService) ListMyGigs(ctx context.Context, userID uuid.UUID) ([]models.Gig, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Role == models.RoleEmployer {
		return s.repo.ListByEmployer(ctx, userID)
	}
	return s.repo.ListByWorker(ctx, userID)
}

// Apply создаёт отклик исполнителя на открытое задание.
func (s *GigService) Apply(ctx context.Context, workerID, gigID uuid.UUID, in ApplyInput) (*models.GigApplication, error) {
	worker, err := s.profiles.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker.Role != models.RoleWorker {
		return nil, apperror.ErrNotAuthorized
	}

	if in.PitchMessage != nil {
		if err := validation.ValidateLength("сопроводительное сообщение", *in.PitchMessage, 0, validation.MaxPitchMessageLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if in.BidAmount != nil && *in.BidAmount <= 0 {
		return nil, apperror.ErrInvalidAmount
	}

	gig, err := s.repo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	app := &models.GigApplication{
		GigID:        gigID,
		WorkerID:     workerID,
		BidAmount:    in.BidAmount,
		PitchMessage: in.PitchMessage,
	}
	if err := s.repo.Apply(ctx, app); err != nil {
		return nil, err
	}

	s.notifyAsync(gig.CreatedBy, "Новый отклик",
		fmt.Sprintf("На задание «%s» поступил новый отклик", gig.Title))

	return app, nil
}

// ListApplications возвращает отклики на задание. Доступно только его автору.
func (s *GigService) ListApplications(ctx context.Context, employerID, gigID uuid.UUID) ([]models.GigApplication, error) {
	gig, err := s.repo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.CreatedBy != employerID {
		return nil, apperror.ErrNotAuthorized
	}
	return s.repo.ListApplications(ctx, gigID)
}

// ListMyApplications возвращает отклики исполнителя.
func (s *GigService) ListMyApplications(ctx context.Context, workerID uuid.UUID) ([]models.GigApplication, error) {
	return s.repo.ListWorkerApplications(ctx, workerID)
}

// GetMyApplication возвращает отклик пользователя на конкретное задание.
func (s *GigService) GetMyApplication(ctx context.Context, workerID, gigID uuid.UUID) (*models.GigApplication, error) {
	return s.repo.GetWorkerApplication(ctx, gigID, workerID)
}

// AssignWorker назначает исполнителя на задание. Уведомляются обе стороны.
func (s *GigService) AssignWorker(ctx context.Context, employerID, gigID, workerID uuid.UUID) (*models.Gig, error) {
	gig, err := s.repo.AssignWorker(ctx, employerID, gigID, workerID)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(workerID, "Вас выбрали исполнителем",
		fmt.Sprintf("Вы назначены на задание «%s»", gig.Title))
	s.notifyAsync(employerID, "Исполнитель назначен",
		fmt.Sprintf("Исполнитель назначен на задание «%s»", gig.Title))

	return gig, nil
}

// StartGig отмечает начало работы назначенным исполнителем.
func (s *GigService) StartGig(ctx context.Context, workerID, gigID uuid.UUID) (*models.Gig, error) {
	gig, err := s.repo.Start(ctx, workerID, gigID)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(gig.CreatedBy, "Работа началась",
		fmt.Sprintf("Исполнитель приступил к заданию «%s»", gig.Title))

	return gig, nil
}

// UploadProof сохраняет фото-подтверждение выполнения.
func (s *GigService) UploadProof(ctx context.Context, workerID, gigID uuid.UUID, photoURL string) (*models.Gig, error) {
	gig, err := s.repo.SaveProof(ctx, workerID, gigID, photoURL)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(gig.CreatedBy, "Фотоотчёт по заданию",
		fmt.Sprintf("По заданию «%s» загружено фото выполнения", gig.Title))

	return gig, nil
}

// ListProgressPhotos возвращает фотоотчёты задания. Доступно участникам.
func (s *GigService) ListProgressPhotos(ctx context.Context, userID, gigID uuid.UUID) ([]models.GigProgressPhoto, error) {
	gig, err := s.repo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(gig, userID) {
		return nil, apperror.ErrNotGigParticipant
	}
	return s.repo.ListProgressPhotos(ctx, gigID)
}

// UpdateLiveLocation обновляет позицию исполнителя по ходу работы.
func (s *GigService) UpdateLiveLocation(ctx context.Context, workerID, gigID uuid.UUID, lat, lng float64) error {
	if err := validation.ValidateCoordinates(lat, lng); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return s.repo.UpdateLiveLocation(ctx, workerID, gigID, lat, lng)
}

// CompleteGig завершает задание и выплачивает escrow исполнителю.
func (s *GigService) CompleteGig(ctx context.Context, workerID, gigID uuid.UUID) (*models.Gig, error) {
	gig, err := s.repo.CompleteAndRelease(ctx, workerID, gigID)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(gig.CreatedBy, "Задание завершено",
		fmt.Sprintf("Задание «%s» завершено, оплата переведена исполнителю", gig.Title))
	s.notifyAsync(workerID, "Оплата зачислена",
		fmt.Sprintf("Оплата за задание «%s» зачислена на ваш баланс", gig.Title))

	logger.Log.WithFields(map[string]interface{}{
		"gig_id":    gigID,
		"worker_id": workerID,
		"payout":    gig.Payout,
	}).Info("gig service: задание завершено, escrow выплачен")

	return gig, nil
}

// CancelGig отменяет задание и возвращает средства работодателю.
func (s *GigService) CancelGig(ctx context.Context, employerID, gigID uuid.UUID) (*models.Gig, error) {
	gig, err := s.repo.CancelAndRefund(ctx, employerID, gigID)
	if err != nil {
		return nil, err
	}

	if gig.AssignedTo != nil {
		s.notifyAsync(*gig.AssignedTo, "Задание отменено",
			fmt.Sprintf("Задание «%s» отменено работодателем", gig.Title))
	}

	logger.Log.WithFields(map[string]interface{}{
		"gig_id":      gigID,
		"employer_id": employerID,
	}).Info("gig service: задание отменено, средства возвращены")

	return gig, nil
}

// notifyAsync отправляет уведомление в фоне: сбой доставки не откатывает
// уже зафиксированную операцию.
func (s *GigService) notifyAsync(recipientID uuid.UUID, title, message string) {
	if s.notifier == nil {
		return
	}
	goroutine.SafeGo(func() {
		s.notifier.Notify(context.Background(), recipientID, title, message)
	})
}

func isParticipant(gig *models.Gig, userID uuid.UUID) bool {
	return gig.CreatedBy == userID || (gig.AssignedTo != nil && *gig.AssignedTo == userID)
}
