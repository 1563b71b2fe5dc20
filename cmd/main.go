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

	"github.com/padelpoint/padel-system/config"
	"github.com/padelpoint/padel-system/db"
	"github.com/padelpoint/padel-system/handlers"
	"github.com/padelpoint/padel-system/notify"
	"github.com/padelpoint/padel-system/realtime"
	"github.com/padelpoint/padel-system/repositories"
	api "github.com/padelpoint/padel-system/routes"
	"github.com/padelpoint/padel-system/services"
	"github.com/padelpoint/padel-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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

	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewR2Uploader(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 not configured, file uploads disabled")
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.SendGridAPIKey != "" {
		notifier, err = notify.NewSendGridNotifier(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromName:  cfg.SendGridFromName,
			FromEmail: cfg.SendGridFromEmail,
		})
		if err != nil {
			logger.Error("failed to initialize SendGrid notifier", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("SendGrid notifier initialized")
	} else {
		logger.Warn("SendGrid not configured, email notifications disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.TokenTTL)
	tournamentService := services.NewTournamentService(tournamentRepo, categoryRepo, uploader, logger)
	teamService := services.NewTeamService(teamRepo, categoryRepo, playerRepo)
	playerService := services.NewPlayerService(playerRepo, uploader, logger)
	standingsService := services.NewStandingsService(dbConn, bracketRepo, matchRepo, standingRepo, hub, logger)
	bracketService := services.NewBracketService(
		dbConn, bracketRepo, matchRepo, teamRepo, categoryRepo,
		tournamentRepo, userRepo, standingRepo, notifier, hub, logger,
	)
	matchService := services.NewMatchService(
		dbConn, bracketRepo, matchRepo, teamRepo, categoryRepo,
		standingsService, hub, logger,
	)

	router := api.InitRoutes(api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Team:       handlers.NewTeamHandler(teamService),
		Player:     handlers.NewPlayerHandler(playerService),
		Bracket:    handlers.NewBracketHandler(bracketService, standingsService),
		Match:      handlers.NewMatchHandler(matchService),
		WebSocket:  handlers.NewWebSocketHandler(hub, bracketService, logger),
	}, cfg.JWTSecretKey, cfg.AllowedOrigins)

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
		logger.Info("server stopped gracefully")
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
		logger.Info("server shutdown complete")
	}
}
