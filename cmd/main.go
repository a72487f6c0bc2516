package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/footbot/brackets"
	"github.com/Dosada05/footbot/config"
	"github.com/Dosada05/footbot/db"
	"github.com/Dosada05/footbot/handlers"
	"github.com/Dosada05/footbot/repositories"
	api "github.com/Dosada05/footbot/routes"
	"github.com/Dosada05/footbot/services"
	"github.com/Dosada05/footbot/storage"
	"github.com/Dosada05/footbot/teamapi"
	"github.com/go-chi/chi/v5"
)

const (
	schedulerInterval = 10 * time.Minute // How often idle workspaces are purged
	workspaceIdleTTL  = 24 * time.Hour
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("production_api", cfg.ProductionAPIURL),
		slog.String("testing_api", cfg.TestingAPIURL),
	)

	// Хранилище настроек: Postgres, если задан DATABASE_URL, иначе память
	var prefRepo repositories.PreferenceRepository
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), db.PoolConfig{DSN: cfg.DatabaseURL, PingTimeout: 5 * time.Second})
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer closeDB(logger, dbConn)

		if err := repositories.EnsurePreferencesSchema(context.Background(), dbConn); err != nil {
			logger.Error("failed to prepare database schema", slog.Any("error", err))
			os.Exit(1)
		}
		prefRepo = repositories.NewPostgresPreferenceRepository(dbConn)
		logger.Info("database connection established")
	} else {
		prefRepo = repositories.NewMemoryPreferenceRepository()
		logger.Warn("DATABASE_URL is not set, api preferences are kept in memory")
	}

	// Экспорт снимков в Cloudflare R2 (опционально)
	var snapshotStore storage.ObjectStore
	if cfg.ExportEnabled() {
		snapshotStore, err = storage.NewR2Store(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 store initialized")
	} else {
		logger.Info("snapshot export disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	workspaceRepo := repositories.NewMemoryWorkspaceRepository()
	apiClient := teamapi.NewClient(nil)

	// Инициализация сервисов
	sessionService := services.NewSessionService(workspaceRepo, cfg.JWTSecretKey)
	settingsService := services.NewSettingsService(prefRepo, cfg.ProductionAPIURL, cfg.TestingAPIURL, logger)
	rosterService := services.NewRosterService(workspaceRepo, wsHub)
	teamService := services.NewTeamService(workspaceRepo, settingsService, apiClient, wsHub, logger)
	scheduleService := services.NewScheduleService(workspaceRepo)
	simulationService := services.NewSimulationService(workspaceRepo, settingsService, apiClient, wsHub, logger)
	exportService := services.NewExportService(workspaceRepo, snapshotStore, logger)
	logger.Info("Services initialized")

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go runPurgeScheduler(schedulerCtx, logger, sessionService)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Session:   handlers.NewSessionHandler(sessionService),
		Workspace: handlers.NewWorkspaceHandler(teamService),
		Player:    handlers.NewPlayerHandler(rosterService),
		Team:      handlers.NewTeamHandler(teamService),
		Schedule:  handlers.NewScheduleHandler(scheduleService, simulationService),
		Settings:  handlers.NewSettingsHandler(settingsService),
		Export:    handlers.NewExportHandler(exportService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins),
	}, api.Options{
		Auth:           sessionService,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("Routes configured")

	// WriteTimeout покрывает холодный старт удалённого API.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
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
			os.Exit(1)
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
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

func runPurgeScheduler(ctx context.Context, logger *slog.Logger, sessions services.SessionService) {
	ticker := time.NewTicker(schedulerInterval)
	defer ticker.Stop()
	logger.Info("Workspace purge scheduler started", slog.Duration("interval", schedulerInterval), slog.Duration("idle_ttl", workspaceIdleTTL))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := sessions.PurgeIdleSessions(ctx, workspaceIdleTTL)
			if err != nil {
				logger.Error("Scheduler: purge failed", slog.Any("error", err))
				continue
			}
			if purged > 0 {
				logger.Info("Scheduler: idle workspaces purged", slog.Int("count", purged))
			}
		}
	}
}

func closeDB(logger *slog.Logger, conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	logger.Info("database connection closed")
}
