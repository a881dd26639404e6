package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/themobileprof/fitzone-bot/internal/api/middleware"
	"github.com/themobileprof/fitzone-bot/internal/chat"
)

// RouterConfig collects what NewRouter wires together.
type RouterConfig struct {
	Chat           *ChatHandler
	WebSocket      gin.HandlerFunc // optional
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
	Status         func() chat.FallbackStatus // optional, reported by /health
}

// NewRouter builds the gin engine with the middleware chain and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", Health(cfg.Status))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := router.Group("")
	if cfg.Limiter != nil {
		limited.Use(middleware.PerIP(cfg.Limiter))
	}
	limited.POST("/chat", cfg.Chat.Chat)
	if cfg.WebSocket != nil {
		limited.GET("/ws/chat", cfg.WebSocket)
	}

	return router
}

// Health reports liveness and, when status is set, the fallback circuit.
// GET /health
func Health(status func() chat.FallbackStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "healthy"}
		if status != nil {
			body["fallback"] = status()
		}
		c.JSON(http.StatusOK, body)
	}
}
