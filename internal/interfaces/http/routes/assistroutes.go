package routes

import (
	"github.com/gin-gonic/gin"

	assisthandlers "github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/handlers/assist"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/middleware"
)

type AssistRouteConfig struct {
	Handler       *assisthandlers.Handler
	StreamHandler *assisthandlers.StreamHandler
	RateLimiter   *middleware.RateLimiter
}

func SetupAssistRoutes(engine *gin.Engine, config *AssistRouteConfig) {
	sessions := engine.Group("/api/v1/sessions")
	if config.RateLimiter != nil {
		sessions.Use(config.RateLimiter.Limit())
	}
	{
		sessions.POST("",
			config.Handler.CreateSession)

		// action endpoints before the bare /:sid route
		sessions.POST("/:sid/history",
			config.Handler.LoadHistory)
		sessions.PUT("/:sid/selection",
			config.Handler.SelectTicket)
		sessions.POST("/:sid/summaries/current",
			config.Handler.SummarizeCurrent)
		sessions.POST("/:sid/summaries/selected",
			config.Handler.SummarizeSelected)
		sessions.POST("/:sid/notes",
			config.Handler.AddNote)
		sessions.GET("/:sid/notes",
			config.Handler.ListNotes)

		if config.StreamHandler != nil {
			sessions.GET("/:sid/ws",
				config.StreamHandler.Stream)
		}

		sessions.DELETE("/:sid",
			config.Handler.DeleteSession)
	}
}
