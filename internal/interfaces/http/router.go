// Package http wires the HTTP surface: middleware, widget session routes and the
// stateless history summarizer.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ymjiot-spec/zendesk-yoyaku/docs"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/middleware"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/routes"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

const summarizePrefix = "/summarize"

// Router owns the gin engine and the container behind it.
type Router struct {
	engine    *gin.Engine
	container *Container
	logger    logger.Interface
	startedAt time.Time
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
	ModelEnabled   bool   `json:"model_enabled"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

func NewRouter(container *Container, log logger.Interface) *Router {
	return &Router{
		engine:    gin.New(),
		container: container,
		logger:    log,
		startedAt: time.Now(),
	}
}

// SetupRoutes installs the middleware chain and registers every route.
func (r *Router) SetupRoutes() {
	cfg := r.container.cfg

	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.CustomLogger(r.logger))
	r.engine.Use(middleware.SecurityHeaders())
	// the summarizer keeps its own permissive CORS contract
	r.engine.Use(middleware.PathCORS(summarizePrefix,
		middleware.SummarizerCORS(),
		middleware.CORS(cfg.Server.AllowedOrigins),
	))

	r.engine.GET("/health", r.health)

	if cfg.Server.Mode != gin.ReleaseMode {
		r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routes.SetupAssistRoutes(r.engine, &routes.AssistRouteConfig{
		Handler:       r.container.assistHandler,
		StreamHandler: r.container.streamHandler,
		RateLimiter:   r.container.assistLimiter,
	})

	routes.SetupSummarizerRoutes(r.engine, &routes.SummarizerRouteConfig{
		Handler:     r.container.summarizerHandler,
		RateLimiter: r.container.summarizeLimiter,
	})
}

// health reports liveness
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:         "ok",
		ActiveSessions: r.container.ActiveSessions(),
		ModelEnabled:   r.container.ModelEnabled(),
		UptimeSeconds:  int64(time.Since(r.startedAt).Seconds()),
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Shutdown releases the container's resources.
func (r *Router) Shutdown() {
	r.container.Shutdown()
}
