package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// OTPStore описывает хранилище одноразовых кодов с TTL.
type OTPStore interface {
	Save(ctx context.Context, mobile, code string, ttl time.Duration) error
	// Verify сверяет код и при успехе удаляет его: каждый код одноразовый.
	Verify(ctx context.Context, mobile, code string) (bool, error)
}

// RedisOTPStore хранит bcrypt-хеши кодов в Redis. Истечение TTL выполняет
// сам Redis, перезапуск сервиса активные коды не теряет.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore создаёт хранилище кодов.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(mobile string) string {
	return "otp:" + mobile
}

// Save сохраняет хеш кода с временем жизни. Повторная отправка кода
// перезаписывает предыдущий: активен всегда только последний код.
func (s *RedisOTPStore) Save(ctx context.Context, mobile, code string, ttl time.Duration) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("otp store: хеширование кода: %w", err)
	}

	if err := s.client.Set(ctx, otpKey(mobile), string(hash), ttl).Err(); err != nil {
		return fmt.Errorf("otp store: сохранение кода: %w", err)
	}
	return nil
}

// Verify сверяет код с сохранённым хешем и удаляет запись при успехе.
func (s *RedisOTPStore) Verify(ctx context.Context, mobile, code string) (bool, error) {
	hash, err := s.client.Get(ctx, otpKey(mobile)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("otp store: чтение кода: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return false, nil
	}

	if err := s.client.Del(ctx, otpKey(mobile)).Err(); err != nil {
		return false, fmt.Errorf("otp store: удаление кода: %w", err)
	}
	return true, nil
}

// GenerateOTPCode возвращает криптостойкий шестизначный код.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("генерация кода: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
