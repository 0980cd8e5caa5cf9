package routes

import (
	"github.com/gin-gonic/gin"

	summarizerhandlers "github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/handlers/summarizer"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/middleware"
)

type SummarizerRouteConfig struct {
	Handler     *summarizerhandlers.Handler
	RateLimiter *middleware.RateLimiter
}

func SetupSummarizerRoutes(engine *gin.Engine, config *SummarizerRouteConfig) {
	// CORS for this group is applied engine-wide by middleware.PathCORS
	summarize := engine.Group("/summarize")
	if config.RateLimiter != nil {
		summarize.Use(config.RateLimiter.Limit())
	}
	{
		summarize.POST("", config.Handler.Summarize)
	}
}
