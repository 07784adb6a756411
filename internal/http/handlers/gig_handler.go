package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/http/handlers/common"
	"github.com/zigger-app/gig-backend/internal/service"
)

// GigHandler отвечает за жизненный цикл заданий.
type GigHandler struct {
	gigs *service.GigService
}

// NewGigHandler создаёт хэндлер.
func NewGigHandler(gigs *service.GigService) *GigHandler {
	return &GigHandler{gigs: gigs}
}

// Create POST /gigs
func (h *GigHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req service.CreateGigInput
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gig, err := h.gigs.CreateGig(c.Request.Context(), userID, req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gig)
}

// List GET /gigs — открытые задания, с фильтром по близости при наличии
// параметров lat/lng.
func (h *GigHandler) List(c *gin.Context) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			common.RespondError(c, http.StatusBadRequest, "lat и lng должны быть числами")
			return
		}
		radius, _ := strconv.ParseFloat(c.Query("radius_km"), 64)

		gigs, err := h.gigs.ListNearbyGigs(c.Request.Context(), lat, lng, radius)
		if err != nil {
			common.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"gigs": gigs})
		return
	}

	gigs, err := h.gigs.ListOpenGigs(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// ListMy GET /gigs/my
func (h *GigHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigs, err := h.gigs.ListMyGigs(c.Request.Context(), userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// Get GET /gigs/:id
func (h *GigHandler) Get(c *gin.Context) {
	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gig, err := h.gigs.GetGig(c.Request.Context(), gigID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// Apply POST /gigs/:id/apply
func (h *GigHandler) Apply(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req service.ApplyInput
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.gigs.Apply(c.Request.Context(), userID, gigID, req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// ListApplications GET /gigs/:id/applications
func (h *GigHandler) ListApplications(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	apps, err := h.gigs.ListApplications(c.Request.Context(), userID, gigID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// ListMyApplications GET /applications/my
func (h *GigHandler) ListMyApplications(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	apps, err := h.gigs.ListMyApplications(c.Request.Context(), userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// GetMyApplication GET /gigs/:id/applications/my
func (h *GigHandler) GetMyApplication(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.gigs.GetMyApplication(c.Request.Context(), userID, gigID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// Assign POST /gigs/:id/assign
func (h *GigHandler) Assign(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		WorkerID string `json:"worker_id" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "worker_id обязателен")
		return
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "неверный worker_id")
		return
	}

	gig, err := h.gigs.AssignWorker(c.Request.Context(), userID, gigID, workerID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// Start POST /gigs/:id/start
func (h *GigHandler) Start(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gig, err := h.gigs.StartGig(c.Request.Context(), userID, gigID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// Complete POST /gigs/:id/complete
func (h *GigHandler) Complete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gig, err := h.gigs.CompleteGig(c.Request.Context(), userID, gigID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// Cancel POST /gigs/:id/cancel
func (h *GigHandler) Cancel(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gig, err := h.gigs.CancelGig(c.Request.Context(), userID, gigID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// ListProgressPhotos GET /gigs/:id/photos
func (h *GigHandler) ListProgressPhotos(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	photos, err := h.gigs.ListProgressPhotos(c.Request.Context(), userID, gigID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// UpdateLiveLocation PUT /gigs/:id/location
func (h *GigHandler) UpdateLiveLocation(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Lat float64 `json:"lat" binding:"required"`
		Lng float64 `json:"lng" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "lat и lng обязательны")
		return
	}

	if err := h.gigs.UpdateLiveLocation(c.Request.Context(), userID, gigID, req.Lat, req.Lng); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondMessage(c, http.StatusOK, "позиция обновлена")
}
