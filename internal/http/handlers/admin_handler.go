package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zigger-app/gig-backend/internal/http/handlers/common"
	"github.com/zigger-app/gig-backend/internal/service"
)

// AdminHandler — обзор платформы и решения по верификации.
// Все маршруты стоят за RequireRole(admin).
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler создаёт хэндлер.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListProfiles GET /admin/profiles
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.admin.ListProfiles(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// ListGigs GET /admin/gigs
func (h *AdminHandler) ListGigs(c *gin.Context) {
	gigs, err := h.admin.ListGigs(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// ListTransactions GET /admin/transactions
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.admin.ListWalletTransactions(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// ListPendingKyc GET /admin/kyc/pending
func (h *AdminHandler) ListPendingKyc(c *gin.Context) {
	profiles, err := h.admin.ListPendingKyc(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// ApproveKyc POST /admin/kyc/:id/approve
func (h *AdminHandler) ApproveKyc(c *gin.Context) {
	h.adjudicate(c, true)
}

// RejectKyc POST /admin/kyc/:id/reject
func (h *AdminHandler) RejectKyc(c *gin.Context) {
	h.adjudicate(c, false)
}

func (h *AdminHandler) adjudicate(c *gin.Context, approve bool) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.admin.AdjudicateKyc(c.Request.Context(), userID, approve)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
