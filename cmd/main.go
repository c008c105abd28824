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

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/config"
	"github.com/blackrose-gg/guild-system/db"
	"github.com/blackrose-gg/guild-system/handlers"
	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/repositories"
	api "github.com/blackrose-gg/guild-system/routes"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/blackrose-gg/guild-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := arena.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	guildRepo := repositories.NewPostgresGuildRepository(dbConn)
	tournamentRepo := repositories.NewPostgresCustomTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	queueRepo := repositories.NewPostgresBossQueueRepository(dbConn)
	leaveRepo := repositories.NewPostgresLeaveRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	noticeRepo := repositories.NewPostgresNoticeRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo, guildRepo)
	contextService := services.NewContextService(dbConn, guildRepo, tournamentRepo, participantRepo, matchRepo, auditRepo, hub, logger)
	bracketService := services.NewBracketService(dbConn, guildRepo, tournamentRepo, participantRepo, matchRepo, auditRepo, contextService, hub, logger)
	broadcastService := services.NewBroadcastService(guildRepo, tournamentRepo, matchRepo, userRepo, auditRepo, contextService, hub, logger)
	participantService := services.NewParticipantService(dbConn, participantRepo, matchRepo, guildRepo, auditRepo, contextService, hub, logger)
	profileService := services.NewProfileService(dbConn, userRepo, participantRepo, matchRepo, uploader, hub, logger)
	queueService := services.NewQueueService(queueRepo, guildRepo, auditRepo, hub, logger)
	leaveService := services.NewLeaveService(leaveRepo, auditRepo, logger)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo, guildRepo, auditRepo, uploader, logger)
	noticeService := services.NewNoticeService(noticeRepo, hub, logger)
	logger.Info("services initialized")

	scheduler, err := services.NewScheduler(noticeService, queueService, logger)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Error("failed to stop scheduler", slog.Any("error", err))
		}
	}()
	logger.Info("background scheduler started")

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey, userRepo)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	contextHandler := handlers.NewContextHandler(contextService)
	bracketHandler := handlers.NewBracketHandler(bracketService)
	broadcastHandler := handlers.NewBroadcastHandler(broadcastService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	profileHandler := handlers.NewProfileHandler(profileService)
	queueHandler := handlers.NewQueueHandler(queueService)
	leaveHandler := handlers.NewLeaveHandler(leaveService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	noticeHandler := handlers.NewNoticeHandler(noticeService)
	auditHandler := handlers.NewAuditHandler(auditRepo)
	webSocketHandler := handlers.NewWebSocketHandler(hub, contextService, logger)
	logger.Info("handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		contextHandler,
		bracketHandler,
		broadcastHandler,
		participantHandler,
		profileHandler,
		queueHandler,
		leaveHandler,
		leaderboardHandler,
		noticeHandler,
		auditHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}
