package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"hifz_tracker/internal/config"
	"hifz_tracker/internal/handlers"
	"hifz_tracker/internal/middleware"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/repository"
	"hifz_tracker/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger()
	slog.SetDefault(logger)
	slog.Info("Application starting...")

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := db.AutoMigrate(
		&model.Group{},
		&model.GroupMember{},
		&model.ProgressEntry{},
		&model.MasteryRecord{},
		&model.RecitationComment{},
		&model.GroupSession{},
		&model.AttendanceRecord{},
		&model.DailyActivityCompletion{},
		&model.WeeklyObjective{},
		&model.WeeklyObjectiveCompletion{},
		&model.CompletionCycle{},
	); err != nil {
		slog.Error("Error running migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency injection
	groupRepo := repository.NewGormGroupRepository()
	progressRepo := repository.NewGormProgressRepository()
	masteryRepo := repository.NewGormMasteryRepository()
	commentRepo := repository.NewGormCommentRepository()
	sessionRepo := repository.NewGormSessionRepository()
	attendanceRepo := repository.NewGormAttendanceRepository()
	activityRepo := repository.NewGormActivityRepository()

	accessService := service.NewAccessService(db, groupRepo)
	sessionService := service.NewSessionService(db, sessionRepo, attendanceRepo, accessService)
	masteryService := service.NewMasteryService(db, groupRepo, masteryRepo, progressRepo, commentRepo, sessionRepo, sessionService, accessService)
	progressService := service.NewProgressService(db, progressRepo, activityRepo)
	statsService := service.NewStatsService(db, progressRepo, masteryRepo, commentRepo, sessionRepo, attendanceRepo, activityRepo, accessService, &config.Cfg)

	masteryHandler := handlers.NewMasteryHandler(masteryService, sessionService)
	progressHandler := handlers.NewProgressHandler(progressService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		if config.Cfg.Auth.Enabled {
			r.Use(middleware.JWTAuthMiddleware(&config.Cfg))
		} else {
			slog.Warn("Auth disabled: resolving caller from X-User-ID header")
			r.Use(middleware.DevUserContextMiddleware)
		}

		r.Route("/groups/{group_id}", func(r chi.Router) {
			r.Get("/mastery", masteryHandler.GetGroupMastery)
			r.Put("/mastery/{learner_id}/{chapter}", masteryHandler.SetMastery)
			r.Post("/comments", masteryHandler.AddComment)
			r.Put("/attendance/{learner_id}", masteryHandler.UpsertAttendance)
		})

		r.Route("/comments/{comment_id}", func(r chi.Router) {
			r.Patch("/", masteryHandler.EditComment)
			r.Delete("/", masteryHandler.DeleteComment)
		})

		r.Route("/learners/{learner_id}", func(r chi.Router) {
			r.Get("/statistics", statsHandler.GetStatistics)
			r.Get("/profile", statsHandler.GetProfile)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Post("/", progressHandler.CreateEntry)
			r.Delete("/{entry_id}", progressHandler.DeleteEntry)
		})

		r.Put("/activities/{program}/{date}", progressHandler.UpsertDailyActivity)
		r.Post("/cycles", progressHandler.CreateCycle)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := sqlDB.PingContext(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}
	slog.Info("Server exiting")
}

func newLogger() *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}

	var handler slog.Handler
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	return slog.New(handler)
}
