package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
	"github.com/zigger-app/gig-backend/internal/validation"
)

// ProfileRepo описывает зависимости ProfileService от слоя хранилища.
type ProfileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.Profile, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) error
}

// UpdateProfileInput содержит общие редактируемые поля профиля.
type UpdateProfileInput struct {
	FullName        *string    `json:"full_name"`
	Email           *string    `json:"email"`
	DOB             *time.Time `json:"dob"`
	Gender          *string    `json:"gender"`
	Address         *string    `json:"address"`
	City            *string    `json:"city"`
	State           *string    `json:"state"`
	Pincode         *string    `json:"pincode"`
	ProfilePhotoURL *string    `json:"profile_photo_url"`
}

// SubmitKycInput содержит документы и реквизиты для верификации.
type SubmitKycInput struct {
	IDType         *string `json:"id_type"`
	IDCardNumber   *string `json:"id_card_number"`
	IDCardFrontURL *string `json:"id_card_front_url"`
	IDCardBackURL  *string `json:"id_card_back_url"`
	SelfieURL      *string `json:"selfie_url"`

	BankAccountName   *string  `json:"bank_account_name"`
	BankAccountNumber *string  `json:"bank_account_number"`
	BankIFSC          *string  `json:"bank_ifsc"`
	UPIID             *string  `json:"upi_id"`
	GigTypes          *string  `json:"gig_types"`
	WorkRadius        *float64 `json:"work_radius"`

	EmployerType    *string `json:"employer_type"`
	BusinessName    *string `json:"business_name"`
	NatureOfWork    *string `json:"nature_of_work"`
	BusinessAddress *string `json:"business_address"`
	GSTNumber       *string `json:"gst_number"`
}

// ProfileService инкапсулирует работу с профилем, ролями и верификацией KYC.
type ProfileService struct {
	repo ProfileRepo
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(repo ProfileRepo) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile возвращает профиль пользователя.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile сохраняет редактируемые поля профиля. Непереданные поля
// не затираются.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		profile.FullName = in.FullName
	}
	if in.Email != nil {
		profile.Email = in.Email
	}
	if in.DOB != nil {
		profile.DOB = in.DOB
	}
	if in.Gender != nil {
		profile.Gender = in.Gender
	}
	if in.Address != nil {
		profile.Address = in.Address
	}
	if in.City != nil {
		profile.City = in.City
	}
	if in.State != nil {
		profile.State = in.State
	}
	if in.Pincode != nil {
		profile.Pincode = in.Pincode
	}
	if in.ProfilePhotoURL != nil {
		profile.ProfilePhotoURL = in.ProfilePhotoURL
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateRole меняет роль пользователя. Назначить себе admin нельзя.
func (s *ProfileService) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*models.Profile, error) {
	if role != models.RoleWorker && role != models.RoleEmployer {
		return nil, apperror.New(apperror.ErrCodeValidation, "роль должна быть worker или employer")
	}
	return s.repo.UpdateRole(ctx, userID, role)
}

// SubmitKyc сохраняет документы и переводит профиль в статус pending.
func (s *ProfileService) SubmitKyc(ctx context.Context, userID uuid.UUID, in SubmitKycInput) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.IDType != nil {
		profile.IDType = in.IDType
	}
	if in.IDCardNumber != nil {
		profile.IDCardNumber = in.IDCardNumber
	}
	if in.IDCardFrontURL != nil {
		profile.IDCardFrontURL = in.IDCardFrontURL
	}
	if in.IDCardBackURL != nil {
		profile.IDCardBackURL = in.IDCardBackURL
	}
	if in.SelfieURL != nil {
		profile.SelfieURL = in.SelfieURL
	}
	if in.BankAccountName != nil {
		profile.BankAccountName = in.BankAccountName
	}
	if in.BankAccountNumber != nil {
		profile.BankAccountNumber = in.BankAccountNumber
	}
	if in.BankIFSC != nil {
		profile.BankIFSC = in.BankIFSC
	}
	if in.UPIID != nil {
		profile.UPIID = in.UPIID
	}
	if in.GigTypes != nil {
		profile.GigTypes = in.GigTypes
	}
	if in.WorkRadius != nil {
		profile.WorkRadius = in.WorkRadius
	}
	if in.EmployerType != nil {
		profile.EmployerType = in.EmployerType
	}
	if in.BusinessName != nil {
		profile.BusinessName = in.BusinessName
	}
	if in.NatureOfWork != nil {
		profile.NatureOfWork = in.NatureOfWork
	}
	if in.BusinessAddress != nil {
		profile.BusinessAddress = in.BusinessAddress
	}
	if in.GSTNumber != nil {
		profile.GSTNumber = in.GSTNumber
	}

	profile.KycStatus = models.KycStatusPending

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateLocation сохраняет текущую позицию пользователя.
func (s *ProfileService) UpdateLocation(ctx context.Context, userID uuid.UUID, lat, lng float64) error {
	if err := validation.ValidateCoordinates(lat, lng); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return s.repo.UpdateLocation(ctx, userID, lat, lng)
}
