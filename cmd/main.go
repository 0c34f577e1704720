package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/bus"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/category"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/client"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/config"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/db"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/handlers"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/notify"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/retry"
	api "github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/routes"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/screens"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/services"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/session"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/storage"
	"github.com/go-chi/chi/v5"
)

const version = "1.0.0"

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("token_store", cfg.TokenStoreDriver),
	)

	// Локальное хранилище токена
	dbConn, err := db.Connect(cfg.TokenStoreDriver, cfg.TokenStoreDSN, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to token store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close token store connection", slog.Any("error", err))
		} else {
			logger.Info("token store connection closed")
		}
	}()

	tokenStore, err := storage.NewSQLTokenStore(context.Background(), dbConn, cfg.TokenStoreDriver, cfg.TokenStoreSecret)
	if err != nil {
		logger.Error("failed to initialize token store", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("token store initialized")

	// Инициализация загрузчика файлов (Cloudflare R2), если он настроен
	var uploader storage.FileUploader
	if cfg.UploadsEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, event cover uploads are disabled")
	}

	// Шина событий и уведомления пользователю
	eventBus := bus.New(logger)
	notifier := notify.Multi{notify.NewSlogNotifier(logger), notify.NewBusNotifier(eventBus)}

	sessions := session.NewManager(tokenStore, logger)

	apiClient := client.New(client.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	}, sessions, logger)
	apiClient.OnUnauthorized(sessions.HandleUnauthorized)

	probe := connectivity.NewHTTPProbe(cfg.APIBaseURL, cfg.ProbeTimeout, cfg.ProbeTTL, logger)
	guard := connectivity.NewGuard(probe, notifier, logger)
	retrier := retry.New(retry.Options{Attempts: cfg.RetryAttempts, BaseDelay: cfg.RetryBaseDelay}, notifier, logger)

	// Инициализация сервисов
	eventService := services.NewEventService(apiClient, guard, uploader, logger)
	ratingService := services.NewRatingService(apiClient, guard, retrier, logger)
	friendshipService := services.NewFriendshipService(apiClient, guard, logger)
	notificationService := services.NewNotificationService(apiClient, guard, logger)
	messageService := services.NewMessageService(apiClient, guard, logger)
	reportService := services.NewReportService(apiClient, retrier, logger)
	logger.Info("Services initialized")

	// Экраны
	images := category.NewImages(uploader)
	registry := screens.NewRegistry(
		screens.EventDetailDeps{
			Events:   eventService,
			Ratings:  ratingService,
			Users:    sessions,
			Images:   images,
			Bus:      eventBus,
			Notifier: notifier,
			Logger:   logger,
		},
		screens.NewFriendRequests(friendshipService, logger),
		screens.NewNotifications(notificationService, logger),
		screens.NewParticipatedEvents(eventService, eventBus, images, logger),
	)
	defer registry.Close()

	// Инициализация обработчиков HTTP
	router := chi.NewRouter()
	api.SetupRoutes(router,
		api.Options{
			Logger:         logger,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Sessions:       sessions,
			WebSocket:      bus.ServeWS(eventBus, logger),
		},
		api.Handlers{
			Health:     handlers.NewHealthHandler(probe, eventBus, version),
			Session:    handlers.NewSessionHandler(sessions),
			Categories: handlers.NewCategoryHandler(images),
			Screens:    handlers.NewScreenHandler(registry),
			Events:     handlers.NewEventHandler(eventService, ratingService),
			Social:     handlers.NewSocialHandler(reportService, messageService, friendshipService),
		},
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
		// ReadTimeout держим коротким; WriteTimeout покрывает ретраи с бэкоффом
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			return
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
