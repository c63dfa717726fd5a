// Package router assembles the HTTP route table.
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/handlers"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies are the long-lived objects the routes are built on.
type Dependencies struct {
	Logger      *slog.Logger
	DB          *gorm.DB
	Tokens      middleware.TokenVerifier
	AuthService *services.AuthService
	TaskService *services.TaskService
	// AuthLimiter throttles register and login; nil disables throttling.
	AuthLimiter middleware.Limiter
	CORSOrigin  string
}

// Setup builds the gin engine with every route and middleware.
func Setup(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.CORSOrigin),
	)

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	requireAuth := middleware.RequireAuth(deps.Tokens)
	requireTaskID := middleware.RequireTaskID()

	r.GET("/", healthHandler.Root)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		// Auth routes (public)
		auth := api.Group("/auth")
		throttled := auth.Group("")
		if deps.AuthLimiter != nil {
			throttled.Use(middleware.RateLimit(deps.AuthLimiter, "auth", deps.Logger))
		}
		{
			throttled.POST("/register", authHandler.Register)
			throttled.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/stats/summary", taskHandler.Summary)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", requireTaskID, taskHandler.GetTask)
			tasks.PUT("/:id", requireTaskID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireTaskID, taskHandler.DeleteTask)
		}
	}

	return r
}
