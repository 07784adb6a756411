package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockAuthRepo) GetOrCreateByMobile(ctx context.Context, mobile string) (*models.Profile, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// memoryOTPStore — in-memory замена Redis для тестов, с одноразовым
// использованием кода как у боевого стора.
type memoryOTPStore struct {
	codes map[string]string
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{codes: make(map[string]string)}
}

func (s *memoryOTPStore) Save(_ context.Context, mobile, code string, _ time.Duration) error {
	s.codes[mobile] = code
	return nil
}

func (s *memoryOTPStore) Verify(_ context.Context, mobile, code string) (bool, error) {
	stored, ok := s.codes[mobile]
	if !ok || stored != code {
		return false, nil
	}
	delete(s.codes, mobile)
	return true, nil
}

type recordingSMSSender struct {
	mobile string
	code   string
}

func (s *recordingSMSSender) SendOTP(_ context.Context, mobile, code string) error {
	s.mobile = mobile
	s.code = code
	return nil
}

func newTestTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)
}

func TestAuthService_SendOtp_InvalidMobile(t *testing.T) {
	repo := new(mockAuthRepo)
	store := newMemoryOTPStore()
	sender := &recordingSMSSender{}
	svc := NewAuthService(repo, store, sender, newTestTokenManager(), 5*time.Minute)

	err := svc.SendOtp(context.Background(), "abc")
	assert.Error(t, err)
	assert.Empty(t, sender.code)
}

func TestAuthService_SendOtp_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	store := newMemoryOTPStore()
	sender := &recordingSMSSender{}
	svc := NewAuthService(repo, store, sender, newTestTokenManager(), 5*time.Minute)

	err := svc.SendOtp(context.Background(), "+79991234567")
	assert.NoError(t, err)
	assert.Equal(t, "+79991234567", sender.mobile)
	assert.Len(t, sender.code, 6)
	assert.Equal(t, sender.code, store.codes["+79991234567"])
}

func TestAuthService_VerifyOtp_WrongCode(t *testing.T) {
	repo := new(mockAuthRepo)
	store := newMemoryOTPStore()
	sender := &recordingSMSSender{}
	svc := NewAuthService(repo, store, sender, newTestTokenManager(), 5*time.Minute)
	ctx := context.Background()

	assert.NoError(t, svc.SendOtp(ctx, "+79991234567"))

	wrong := "000000"
	if sender.code == wrong {
		wrong = "000001"
	}

	_, err := svc.VerifyOtp(ctx, "+79991234567", wrong)
	assert.ErrorIs(t, err, apperror.ErrInvalidOtp)
	repo.AssertNotCalled(t, "GetOrCreateByMobile")
}

func TestAuthService_VerifyOtp_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	store := newMemoryOTPStore()
	sender := &recordingSMSSender{}
	svc := NewAuthService(repo, store, sender, newTestTokenManager(), 5*time.Minute)
	ctx := context.Background()

	profile := &models.Profile{
		ID:        uuid.New(),
		Mobile:    "+79991234567",
		Role:      models.RoleWorker,
		CreatedAt: time.Now(),
	}
	repo.On("GetOrCreateByMobile", ctx, "+79991234567").Return(profile, nil)

	assert.NoError(t, svc.SendOtp(ctx, "+79991234567"))

	result, err := svc.VerifyOtp(ctx, "+79991234567", sender.code)
	assert.NoError(t, err)
	assert.Equal(t, profile.ID, result.Profile.ID)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	assert.True(t, result.IsNewUser)
	repo.AssertExpectations(t)
}

func TestAuthService_VerifyOtp_SingleUse(t *testing.T) {
	repo := new(mockAuthRepo)
	store := newMemoryOTPStore()
	sender := &recordingSMSSender{}
	svc := NewAuthService(repo, store, sender, newTestTokenManager(), 5*time.Minute)
	ctx := context.Background()

	profile := &models.Profile{ID: uuid.New(), Mobile: "+79991234567", Role: models.RoleWorker, CreatedAt: time.Now()}
	repo.On("GetOrCreateByMobile", ctx, "+79991234567").Return(profile, nil)

	assert.NoError(t, svc.SendOtp(ctx, "+79991234567"))
	code := sender.code

	_, err := svc.VerifyOtp(ctx, "+79991234567", code)
	assert.NoError(t, err)

	// Код одноразовый: повторная проверка отклоняется
	_, err = svc.VerifyOtp(ctx, "+79991234567", code)
	assert.ErrorIs(t, err, apperror.ErrInvalidOtp)
}

func TestAuthService_VerifyOtp_ExistingUserNotNew(t *testing.T) {
	repo := new(mockAuthRepo)
	store := newMemoryOTPStore()
	sender := &recordingSMSSender{}
	svc := NewAuthService(repo, store, sender, newTestTokenManager(), 5*time.Minute)
	ctx := context.Background()

	name := "Иван Петров"
	profile := &models.Profile{
		ID:        uuid.New(),
		Mobile:    "+79991234567",
		Role:      models.RoleWorker,
		FullName:  &name,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
	repo.On("GetOrCreateByMobile", ctx, "+79991234567").Return(profile, nil)

	assert.NoError(t, svc.SendOtp(ctx, "+79991234567"))

	result, err := svc.VerifyOtp(ctx, "+79991234567", sender.code)
	assert.NoError(t, err)
	assert.False(t, result.IsNewUser)
}

func TestAuthService_Refresh_RoundTrip(t *testing.T) {
	repo := new(mockAuthRepo)
	store := newMemoryOTPStore()
	sender := &recordingSMSSender{}
	svc := NewAuthService(repo, store, sender, newTestTokenManager(), 5*time.Minute)
	ctx := context.Background()

	profile := &models.Profile{ID: uuid.New(), Mobile: "+79991234567", Role: models.RoleWorker, CreatedAt: time.Now()}
	repo.On("GetOrCreateByMobile", ctx, "+79991234567").Return(profile, nil)
	repo.On("GetByID", ctx, profile.ID).Return(profile, nil)

	assert.NoError(t, svc.SendOtp(ctx, "+79991234567"))
	result, err := svc.VerifyOtp(ctx, "+79991234567", sender.code)
	assert.NoError(t, err)

	pair, err := svc.Refresh(ctx, result.TokenPair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	repo.AssertExpectations(t)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newMemoryOTPStore(), &recordingSMSSender{}, newTestTokenManager(), 5*time.Minute)

	_, err := svc.Refresh(context.Background(), "не-токен")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "GetByID")
}
