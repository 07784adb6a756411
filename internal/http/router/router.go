package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zigger-app/gig-backend/internal/config"
	"github.com/zigger-app/gig-backend/internal/http/handlers"
	"github.com/zigger-app/gig-backend/internal/http/middleware"
	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	gigHandler *handlers.GigHandler,
	walletHandler *handlers.WalletHandler,
	chatHandler *handlers.ChatHandler,
	reviewHandler *handlers.ReviewHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.OTPRateLimit, cfg.OTPRatePeriod))
	{
		authGroup.POST("/otp/send", authHandler.SendOtp)
		authGroup.POST("/otp/verify", authHandler.VerifyOtp)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/gigs", gigHandler.List)
	api.GET("/gigs/:id", middleware.UUIDValidator("id"), gigHandler.Get)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListByUser)
	api.GET("/users/:id/rating", middleware.UUIDValidator("id"), reviewHandler.Rating)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.Get)
		protected.PUT("/profile", profileHandler.Update)
		protected.PUT("/profile/role", profileHandler.UpdateRole)
		protected.POST("/profile/kyc", profileHandler.SubmitKyc)
		protected.PUT("/profile/location", profileHandler.UpdateLocation)

		protected.POST("/gigs", gigHandler.Create)
		protected.GET("/gigs/my", gigHandler.ListMy)
		protected.POST("/gigs/:id/apply", middleware.UUIDValidator("id"), gigHandler.Apply)
		protected.GET("/gigs/:id/applications", middleware.UUIDValidator("id"), gigHandler.ListApplications)
		protected.GET("/gigs/:id/applications/my", middleware.UUIDValidator("id"), gigHandler.GetMyApplication)
		protected.GET("/applications/my", gigHandler.ListMyApplications)
		protected.POST("/gigs/:id/assign", middleware.UUIDValidator("id"), gigHandler.Assign)
		protected.POST("/gigs/:id/start", middleware.UUIDValidator("id"), gigHandler.Start)
		protected.POST("/gigs/:id/proof", middleware.UUIDValidator("id"), mediaHandler.UploadProof)
		protected.GET("/gigs/:id/photos", middleware.UUIDValidator("id"), gigHandler.ListProgressPhotos)
		protected.PUT("/gigs/:id/location", middleware.UUIDValidator("id"), gigHandler.UpdateLiveLocation)
		protected.POST("/gigs/:id/complete", middleware.UUIDValidator("id"), gigHandler.Complete)
		protected.POST("/gigs/:id/cancel", middleware.UUIDValidator("id"), gigHandler.Cancel)
		protected.GET("/gigs/:id/escrow", middleware.UUIDValidator("id"), walletHandler.GetEscrow)

		protected.POST("/wallet/deposit", walletHandler.Deposit)
		protected.GET("/wallet/balance", walletHandler.GetBalance)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)

		protected.GET("/gigs/:id/chat", middleware.UUIDValidator("id"), chatHandler.List)
		protected.POST("/gigs/:id/chat", middleware.UUIDValidator("id"), chatHandler.Send)

		protected.POST("/gigs/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.Create)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		protected.POST("/media/upload", mediaHandler.Upload)
	}

	// Администрирование
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/profiles", adminHandler.ListProfiles)
		admin.GET("/gigs", adminHandler.ListGigs)
		admin.GET("/transactions", adminHandler.ListTransactions)
		admin.GET("/kyc/pending", adminHandler.ListPendingKyc)
		admin.POST("/kyc/:id/approve", middleware.UUIDValidator("id"), adminHandler.ApproveKyc)
		admin.POST("/kyc/:id/reject", middleware.UUIDValidator("id"), adminHandler.RejectKyc)
	}

	return r
}
