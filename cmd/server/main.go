package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/task-api/config"
	"github.com/ErlanBelekov/task-api/internal/email"
	"github.com/ErlanBelekov/task-api/internal/health"
	"github.com/ErlanBelekov/task-api/internal/infrastructure/memory"
	"github.com/ErlanBelekov/task-api/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/task-api/internal/infrastructure/redisstore"
	ctxlog "github.com/ErlanBelekov/task-api/internal/log"
	"github.com/ErlanBelekov/task-api/internal/metrics"
	"github.com/ErlanBelekov/task-api/internal/password"
	"github.com/ErlanBelekov/task-api/internal/repository"
	"github.com/ErlanBelekov/task-api/internal/sweeper"
	httptransport "github.com/ErlanBelekov/task-api/internal/transport/http"
	"github.com/ErlanBelekov/task-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/task-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, login will fail until it is configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DatabaseURL, "up"); err != nil {
			stop()
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer)
	checker.Add("postgres", pool)

	// Verification codes: Redis when configured, otherwise process memory swept on a cron spec
	var codes repository.VerificationStore
	sweepDone := make(chan struct{})
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis url: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		redisCodes := redisstore.NewVerificationStore(rdb)
		checker.Add("redis", redisCodes)
		codes = redisCodes
		close(sweepDone)
	} else {
		memCodes := memory.NewVerificationStore()
		codes = memCodes
		sw := sweeper.NewSweeper(memCodes, logger, cfg.SweepSpec)
		go func() {
			defer close(sweepDone)
			if err := sw.Start(ctx); err != nil {
				logger.Error("sweeper", "error", err)
			}
		}()
	}

	// Users
	userRepo := postgres.NewUserRepository(pool)
	sender := email.NewSender(email.Options{
		Env:          cfg.Env,
		ResendAPIKey: cfg.ResendAPIKey,
		ResendFrom:   cfg.ResendFrom,
		SMTP: email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		},
	}, logger)
	authUsecase := usecase.NewAuthUsecase(userRepo, codes, sender, password.NewHasher(cfg.BcryptCost), usecase.AuthOptions{
		JWTKey:   []byte(cfg.JWTSecret),
		CodeTTL:  cfg.CodeTTL,
		TokenTTL: cfg.TokenTTL,
	})
	userHandler := handler.NewUserHandler(authUsecase, logger)

	// Tasks
	taskRepo := postgres.NewTaskRepository(pool)
	taskHandler := handler.NewTaskHandler(usecase.NewTaskUsecase(taskRepo), logger)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, userHandler, taskHandler, authUsecase, cfg.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	<-sweepDone
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
