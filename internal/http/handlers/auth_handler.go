package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zigger-app/gig-backend/internal/http/handlers/common"
	"github.com/zigger-app/gig-backend/internal/service"
)

// AuthHandler отвечает за вход по номеру телефона с одноразовым кодом.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SendOtp POST /auth/otp/send
func (h *AuthHandler) SendOtp(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "номер телефона обязателен")
		return
	}

	if err := h.auth.SendOtp(c.Request.Context(), req.Mobile); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondMessage(c, http.StatusOK, "код подтверждения отправлен")
}

// VerifyOtp POST /auth/otp/verify
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile" binding:"required"`
		Code   string `json:"code" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "номер телефона и код обязательны")
		return
	}

	result, err := h.auth.VerifyOtp(c.Request.Context(), req.Mobile, req.Code)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":     result.Profile,
		"tokens":      result.TokenPair,
		"is_new_user": result.IsNewUser,
	})
}

// Refresh POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "refresh_token обязателен")
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}
