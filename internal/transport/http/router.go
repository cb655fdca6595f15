package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/task-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/task-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, userHandler *handler.UserHandler, taskHandler *handler.TaskHandler, verifier middleware.TokenVerifier, corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered", "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(corsOrigin))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(verifier)

	// Public account routes; verify-token is the only one that needs a session
	users := r.Group("/api/users")
	users.POST("/send-verification-code", userHandler.SendVerificationCode)
	users.POST("/validate-code", userHandler.ValidateCode)
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/verify-token", authMW, userHandler.VerifyToken)

	// Protected task routes
	tasks := r.Group("/api/tasks", authMW)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)

	return r
}
