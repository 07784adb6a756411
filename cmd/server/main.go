package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zigger-app/gig-backend/internal/config"
	"github.com/zigger-app/gig-backend/internal/db"
	httpHandlers "github.com/zigger-app/gig-backend/internal/http/handlers"
	httpRouter "github.com/zigger-app/gig-backend/internal/http/router"
	"github.com/zigger-app/gig-backend/internal/logger"
	"github.com/zigger-app/gig-backend/internal/repository"
	"github.com/zigger-app/gig-backend/internal/service"
	"github.com/zigger-app/gig-backend/internal/storage"
	"github.com/zigger-app/gig-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Redis для одноразовых кодов.
	redisClient, err := db.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к redis: %v", err)
	}
	defer redisClient.Close()

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	profileRepo := repository.NewProfileRepository(dbConn)
	gigRepo := repository.NewGigRepository(dbConn)
	walletRepo := repository.NewWalletRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	chatRepo := repository.NewChatRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	otpStore := service.NewRedisOTPStore(redisClient)
	authService := service.NewAuthService(profileRepo, otpStore, service.LogSMSSender{}, tokenManager, cfg.OTPTTL)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	profileService := service.NewProfileService(profileRepo)
	gigService := service.NewGigService(gigRepo, profileRepo, notificationService)
	walletService := service.NewWalletService(walletRepo)
	chatService := service.NewChatService(chatRepo, gigRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, gigRepo)
	adminService := service.NewAdminService(profileRepo, gigRepo, walletRepo, notificationService)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	gigHandler := httpHandlers.NewGigHandler(gigService)
	walletHandler := httpHandlers.NewWalletHandler(walletService, gigService)
	chatHandler := httpHandlers.NewChatHandler(chatService)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	adminHandler := httpHandlers.NewAdminHandler(adminService)
	mediaHandler := httpHandlers.NewMediaHandler(photoStorage, gigService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, redisClient)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg,
		authHandler, profileHandler, gigHandler, walletHandler, chatHandler,
		reviewHandler, notificationHandler, adminHandler, mediaHandler,
		wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
