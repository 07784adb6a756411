package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/zigger-app/gig-backend/internal/http/middleware"
)

func TestWalletHandler_Deposit_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WalletHandler{wallet: nil}
	r.POST("/wallet/deposit", handler.Deposit)

	req, _ := http.NewRequest("POST", "/wallet/deposit", strings.NewReader(`{"amount": 1000}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWalletHandler_Deposit_MissingAmount_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	handler := &WalletHandler{wallet: nil}
	r.POST("/wallet/deposit", handler.Deposit)

	req, _ := http.NewRequest("POST", "/wallet/deposit", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletHandler_GetBalance_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WalletHandler{wallet: nil}
	r.GET("/wallet/balance", handler.GetBalance)

	req, _ := http.NewRequest("GET", "/wallet/balance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWalletHandler_GetEscrow_InvalidGigID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	handler := &WalletHandler{wallet: nil}
	r.GET("/gigs/:id/escrow", handler.GetEscrow)

	req, _ := http.NewRequest("GET", "/gigs/invalid-uuid/escrow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
