package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/quizdeck-dev/quizdeck/db"
	"github.com/quizdeck-dev/quizdeck/internal/auth"
	"github.com/quizdeck-dev/quizdeck/internal/cache"
	"github.com/quizdeck-dev/quizdeck/internal/config"
	"github.com/quizdeck-dev/quizdeck/internal/handlers"
	"github.com/quizdeck-dev/quizdeck/internal/logging"
	"github.com/quizdeck-dev/quizdeck/internal/middleware"
	"github.com/quizdeck-dev/quizdeck/internal/repository"
	"github.com/quizdeck-dev/quizdeck/internal/router"
	"github.com/quizdeck-dev/quizdeck/internal/scheduler"
	"github.com/quizdeck-dev/quizdeck/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logging.L.Info("no .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.L.Fatalf("failed to load config: %v", err)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)

	conn, err := db.Connect(cfg.DSN())
	if err != nil {
		logging.L.Fatalf("failed to connect database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		logging.L.Fatalf("failed to migrate database: %v", err)
	}

	projection := cache.NewProjectionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer projection.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := projection.Ping(pingCtx); err != nil {
		// The projection is best-effort; the relational store stays
		// authoritative, so a dead cache is not fatal.
		logging.L.WithError(err).Warn("redis unreachable, submission projection degraded")
	}
	cancelPing()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience,
		time.Duration(cfg.JWTExpireMin)*time.Minute)

	userRepo := repository.NewUserRepo(conn)
	companyRepo := repository.NewCompanyRepo(conn)
	membershipRepo := repository.NewMembershipRepo(conn)
	quizRepo := repository.NewQuizRepo(conn)
	resultRepo := repository.NewResultRepo(conn)
	notificationRepo := repository.NewNotificationRepo(conn)

	userService := service.NewUserService(userRepo, tokens)
	companyService := service.NewCompanyService(companyRepo, membershipRepo)
	membershipService := service.NewMembershipService(membershipRepo, companyRepo, userRepo)
	quizService := service.NewQuizService(quizRepo, membershipRepo)
	submissionService := service.NewSubmissionService(resultRepo, quizRepo, membershipRepo, projection)
	notificationService := service.NewNotificationService(notificationRepo, companyRepo, membershipRepo, quizRepo, resultRepo)

	reminders := scheduler.NewScheduler(notificationService, time.Duration(cfg.SweepIntervalHr)*time.Hour)
	reminders.Start()
	defer reminders.Stop()

	r := router.NewRouter(router.Handlers{
		Auth:          handlers.NewAuthHandler(userService),
		Users:         handlers.NewUserHandler(userService),
		Companies:     handlers.NewCompanyHandler(companyService),
		Memberships:   handlers.NewMembershipHandler(membershipService),
		Quizzes:       handlers.NewQuizHandler(quizService),
		Submissions:   handlers.NewSubmissionHandler(submissionService),
		Notifications: handlers.NewNotificationHandler(notificationService),
	}, middleware.AuthMiddleware(tokens, conn), cfg.AllowedOrigins)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		logging.L.WithField("addr", cfg.HTTPAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.L.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.L.WithError(err).Error("forced shutdown")
	}
}
