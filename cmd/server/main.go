package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/ratelimit"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/router"
	"github.com/taskflow/taskflow-api/internal/services"
	"github.com/taskflow/taskflow-api/internal/validation"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Open(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Optional Redis-backed throttling of the auth routes
	var redisClient *redis.Client
	var authLimiter middleware.Limiter
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis not reachable, auth throttling will fail open", "redis", cfg.RedisAddr, "error", err)
		}
		authLimiter = ratelimit.NewFixedWindowLimiter(redisClient, "taskflow:ratelimit:", cfg.AuthRateLimit, cfg.AuthRateWindow)
		logger.Info("Auth rate limiting enabled", "redis", cfg.RedisAddr, "limit", cfg.AuthRateLimit, "window", cfg.AuthRateWindow)
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		logger.Info("OPENAI_API_KEY not set, task suggestions disabled")
	}

	validator := validation.New()
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)

	engine := router.Setup(router.Dependencies{
		Logger: logger,
		DB:     db,
		Tokens: tokens,
		AuthService: services.NewAuthService(
			repository.NewUserRepository(db),
			services.NewPasswordHasher(0),
			tokens,
			validator,
		),
		TaskService: services.NewTaskService(repository.NewTaskRepository(db), validator, aiService),
		AuthLimiter: authLimiter,
		CORSOrigin:  cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", srv.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			// In-flight requests finish before the pools they use are closed.
			"http-server": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				err := srv.Shutdown(ctx)
				if closeErr := database.Close(db); closeErr != nil {
					err = errors.Join(err, closeErr)
				}
				if redisClient != nil {
					if closeErr := redisClient.Close(); closeErr != nil {
						err = errors.Join(err, closeErr)
					}
				}
				return err
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server exited", "code", exitCode)
	os.Exit(exitCode)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.GinMode == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
