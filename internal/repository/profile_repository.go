package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
	"github.com/zigger-app/gig-backend/internal/repository/common"
)

// ProfileRepository отвечает за профили пользователей и их KYC данные.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository создаёт экземпляр репозитория.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID возвращает профиль по ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return common.GetByID[models.Profile](ctx, r.db, "profiles", id, apperror.ErrProfileNotFound)
}

// GetOrCreateByMobile возвращает профиль по номеру телефона, создавая его
// при первом входе. Гонка двух одновременных первых входов разрешается
// через ON CONFLICT: оба запроса получат одну и ту же строку.
func (r *ProfileRepository) GetOrCreateByMobile(ctx context.Context, mobile string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `
		INSERT INTO profiles (mobile, role, trust_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (mobile) DO UPDATE SET updated_at = NOW()
		RETURNING *
	`, mobile, models.RoleWorker, models.DefaultTrustScore)
	if err != nil {
		return nil, fmt.Errorf("profile repository: get or create %w", err)
	}
	return &profile, nil
}

// Update сохраняет изменяемые поля профиля.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	err := r.db.GetContext(ctx, profile, `
		UPDATE profiles SET
			full_name = $2, email = $3, dob = $4, gender = $5, profile_photo_url = $6,
			address = $7, city = $8, state = $9, pincode = $10,
			id_type = $11, id_card_number = $12, id_card_front_url = $13, id_card_back_url = $14, selfie_url = $15,
			bank_account_name = $16, bank_account_number = $17, bank_ifsc = $18, upi_id = $19,
			gig_types = $20, work_radius = $21,
			employer_type = $22, business_name = $23, nature_of_work = $24, business_address = $25, gst_number = $26,
			kyc_status = $27, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, profile.ID,
		profile.FullName, profile.Email, profile.DOB, profile.Gender, profile.ProfilePhotoURL,
		profile.Address, profile.City, profile.State, profile.Pincode,
		profile.IDType, profile.IDCardNumber, profile.IDCardFrontURL, profile.IDCardBackURL, profile.SelfieURL,
		profile.BankAccountName, profile.BankAccountNumber, profile.BankIFSC, profile.UPIID,
		profile.GigTypes, profile.WorkRadius,
		profile.EmployerType, profile.BusinessName, profile.NatureOfWork, profile.BusinessAddress, profile.GSTNumber,
		profile.KycStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrProfileNotFound
		}
		return fmt.Errorf("profile repository: update %w", err)
	}
	return nil
}

// UpdateRole меняет роль пользователя.
func (r *ProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `
		UPDATE profiles SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository: update role %w", err)
	}
	return &profile, nil
}

// UpdateKycStatus меняет статус KYC пользователя (решение администратора).
func (r *ProfileRepository) UpdateKycStatus(ctx context.Context, id uuid.UUID, status string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `
		UPDATE profiles SET kyc_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository: update kyc status %w", err)
	}
	return &profile, nil
}

// UpdateLocation сохраняет текущую позицию пользователя.
func (r *ProfileRepository) UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET current_lat = $2, current_lng = $3, last_location_update = NOW(), updated_at = NOW()
		WHERE id = $1
	`, id, lat, lng)
	if err != nil {
		return fmt.Errorf("profile repository: update location %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("profile repository: update location rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrProfileNotFound
	}
	return nil
}

// ListPendingKyc возвращает профили, ожидающие проверки KYC.
func (r *ProfileRepository) ListPendingKyc(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	err := r.db.SelectContext(ctx, &profiles, `
		SELECT * FROM profiles WHERE kyc_status = $1 ORDER BY updated_at
	`, models.KycStatusPending)
	if err != nil {
		return nil, fmt.Errorf("profile repository: list pending kyc %w", err)
	}
	return profiles, nil
}

// ListAll возвращает все профили (админский обзор).
func (r *ProfileRepository) ListAll(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	err := r.db.SelectContext(ctx, &profiles, `SELECT * FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("profile repository: list all %w", err)
	}
	return profiles, nil
}
