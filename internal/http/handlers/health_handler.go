package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// HealthHandler проверяет доступность сервиса и его зависимостей.
type HealthHandler struct {
	db    *sqlx.DB
	redis *redis.Client
}

// NewHealthHandler создаёт хэндлер.
func NewHealthHandler(db *sqlx.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Health GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	result := gin.H{"status": "ok"}

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		result["status"] = "degraded"
		result["postgres"] = err.Error()
	}

	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		status = http.StatusServiceUnavailable
		result["status"] = "degraded"
		result["redis"] = err.Error()
	}

	c.JSON(status, result)
}
