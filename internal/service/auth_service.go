package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/logger"
	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
	"github.com/zigger-app/gig-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetOrCreateByMobile(ctx context.Context, mobile string) (*models.Profile, error)
}

// SMSSender отправляет одноразовый код на номер телефона.
type SMSSender interface {
	SendOTP(ctx context.Context, mobile, code string) error
}

// LogSMSSender пишет код в лог вместо отправки SMS. Используется в development,
// пока не подключён реальный SMS-шлюз.
type LogSMSSender struct{}

func (LogSMSSender) SendOTP(_ context.Context, mobile, code string) error {
	logger.Log.WithFields(map[string]interface{}{
		"mobile": mobile,
		"code":   code,
	}).Info("auth service: отправка OTP (dev режим)")
	return nil
}

// AuthService инкапсулирует вход по номеру телефона с одноразовым кодом.
type AuthService struct {
	repo         AuthRepository
	otpStore     OTPStore
	smsSender    SMSSender
	tokenManager *TokenManager
	otpTTL       time.Duration
}

// AuthResult возвращает итог авторизации.
type AuthResult struct {
	Profile   *models.Profile
	TokenPair *TokenPair
	IsNewUser bool
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, otpStore OTPStore, smsSender SMSSender, tokenManager *TokenManager, otpTTL time.Duration) *AuthService {
	return &AuthService{
		repo:         repo,
		otpStore:     otpStore,
		smsSender:    smsSender,
		tokenManager: tokenManager,
		otpTTL:       otpTTL,
	}
}

// SendOtp генерирует одноразовый код и отправляет его на номер.
// Повторный запрос заменяет предыдущий код.
func (s *AuthService) SendOtp(ctx context.Context, mobile string) error {
	if err := validation.ValidateMobile(mobile); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	mobile = validation.NormalizeMobile(mobile)

	code, err := GenerateOTPCode()
	if err != nil {
		return err
	}

	if err := s.otpStore.Save(ctx, mobile, code, s.otpTTL); err != nil {
		return err
	}

	return s.smsSender.SendOTP(ctx, mobile, code)
}

// VerifyOtp проверяет код и возвращает пару токенов. При первом входе
// профиль создаётся автоматически с ролью worker.
func (s *AuthService) VerifyOtp(ctx context.Context, mobile, code string) (*AuthResult, error) {
	if err := validation.ValidateMobile(mobile); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOTP(code); err != nil {
		return nil, apperror.ErrInvalidOtp
	}
	mobile = validation.NormalizeMobile(mobile)

	ok, err := s.otpStore.Verify(ctx, mobile, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInvalidOtp
	}

	profile, err := s.repo.GetOrCreateByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}

	tokenPair, _, _, err := s.tokenManager.GeneratePair(profile)
	if err != nil {
		return nil, err
	}

	isNew := time.Since(profile.CreatedAt) < time.Minute && profile.FullName == nil

	return &AuthResult{
		Profile:   profile,
		TokenPair: tokenPair,
		IsNewUser: isNew,
	}, nil
}

// Refresh выпускает новую пару токенов по refresh токену.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeNotAuthorized, "refresh токен невалиден")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeNotAuthorized, "некорректный subject токена")
	}

	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tokenPair, _, _, err := s.tokenManager.GeneratePair(profile)
	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}
