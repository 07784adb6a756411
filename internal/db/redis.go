package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedis создаёт клиент Redis по URL вида redis://host:port/db.
// Redis используется как TTL-хранилище одноразовых кодов: оно переживает
// рестарты процесса и работает при нескольких инстансах сервиса.
func NewRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redis: некорректный REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: не удалось подключиться к %s: %w", opts.Addr, err)
	}

	return client, nil
}
