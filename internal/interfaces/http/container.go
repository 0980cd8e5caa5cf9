package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist"
	assistUsecases "github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/usecases"
	historyUsecases "github.com/ymjiot-spec/zendesk-yoyaku/internal/application/historysummary/usecases"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/rules"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/infrastructure/config"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/infrastructure/llm"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/infrastructure/ratelimit"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/infrastructure/services"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/infrastructure/zendesk"
	assistHandlers "github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/handlers/assist"
	summarizerHandlers "github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/handlers/summarizer"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/http/middleware"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/biztime"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/services/markdown"
)

const (
	ScopeAssist    = "assist"
	ScopeSummarize = "summarize"

	summarizeRateLimitMessage = "APIリクエスト制限に達しました。しばらく待ってから再試行してください。"
)

// Container holds the infrastructure components, services and handlers. It wires
// everything together and releases resources in Shutdown.
type Container struct {
	cfg   *config.Config
	log   logger.Interface
	redis *redis.Client

	gateway ticket.Gateway
	model   llm.Completer
	hub     *services.RenderHub
	assist  *assist.Service

	assistHandler     *assistHandlers.Handler
	streamHandler     *assistHandlers.StreamHandler
	summarizerHandler *summarizerHandlers.Handler

	assistLimiter    *middleware.RateLimiter
	summarizeLimiter *middleware.RateLimiter
}

// NewContainer builds every component from cfg. Optional dependencies that are not
// configured (Redis, the support desk, the language model) are replaced by their
// disabled variants and logged.
func NewContainer(ctx context.Context, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{cfg: cfg, log: log}

	if err := biztime.Init(cfg.Assist.Timezone); err != nil {
		return nil, err
	}

	if err := c.initRedis(ctx); err != nil {
		return nil, err
	}
	if err := c.initGateway(); err != nil {
		return nil, err
	}
	if err := c.initModel(ctx); err != nil {
		return nil, err
	}

	rs, err := rules.Load(cfg.Assist.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	insight := assistUsecases.NewInsight(rs, cfg.Assist.MinCommentLength)

	c.hub = services.NewRenderHub(log)

	// a typed nil must not reach the use cases as a non-nil interface
	var model assistUsecases.LanguageModel
	var historyModel historyUsecases.LanguageModel
	if c.model != nil {
		model = c.model
		historyModel = c.model
	}

	c.assist = assist.NewService(
		c.gateway,
		insight,
		model,
		c.hub,
		c.hub,
		assist.Options{
			MaxTokens:     cfg.LLM.MaxTokens,
			DefaultLocale: cfg.Assist.Locale,
			IdleTimeout:   time.Duration(cfg.Assist.SessionIdleMinutes) * time.Minute,
		},
		log,
	)

	summarizeUC := historyUsecases.NewSummarizeHistoryUseCase(historyModel, markdown.NewMarkdownService(), cfg.LLM.MaxTokens, log)

	c.assistHandler = assistHandlers.NewHandler(c.assist, log)
	c.streamHandler = assistHandlers.NewStreamHandler(c.assist, c.hub, cfg.Server.AllowedOrigins, log)
	c.summarizerHandler = summarizerHandlers.NewHandler(summarizeUC, log)

	c.initRateLimiters()

	return c, nil
}

func (c *Container) initRedis(ctx context.Context) error {
	if !c.cfg.Redis.Enabled {
		c.log.Infow("redis disabled, rate limiting is off")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// the limiter fails open, so a missing Redis only disables limiting
		c.log.Warnw("redis unreachable at startup, rate limiting will fail open",
			"addr", c.cfg.Redis.GetAddr(),
			"error", err,
		)
	} else {
		c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr())
	}

	c.redis = client
	return nil
}

func (c *Container) initGateway() error {
	if !c.cfg.Zendesk.IsConfigured() {
		c.log.Warnw("zendesk credentials not configured, widget endpoints will return 503")
		c.gateway = zendesk.Unconfigured{}
		return nil
	}

	client, err := zendesk.NewClient(c.cfg.Zendesk, nil, c.log)
	if err != nil {
		return fmt.Errorf("failed to create zendesk client: %w", err)
	}
	c.gateway = client
	return nil
}

func (c *Container) initModel(ctx context.Context) error {
	model, err := llm.New(ctx, c.cfg.LLM, c.log)
	if err != nil {
		return fmt.Errorf("failed to create language model: %w", err)
	}
	if model == nil {
		c.log.Infow("language model disabled, heuristic summaries only")
		return nil
	}
	c.log.Infow("language model enabled", "provider", c.cfg.LLM.Provider)
	c.model = model
	return nil
}

func (c *Container) initRateLimiters() {
	if c.redis == nil {
		return
	}

	limiter := ratelimit.NewRedisRateLimiter(c.redis)
	window := time.Duration(c.cfg.RateLimit.WindowSeconds) * time.Second

	c.assistLimiter = middleware.NewRateLimiter(
		limiter,
		ScopeAssist,
		ratelimit.Policy{Limit: c.cfg.RateLimit.AssistLimit, Window: window},
		nil,
		c.log,
	)
	c.summarizeLimiter = middleware.NewRateLimiter(
		limiter,
		ScopeSummarize,
		ratelimit.Policy{Limit: c.cfg.RateLimit.SummarizeLimit, Window: window},
		rejectSummarize,
		c.log,
	)
}

// rejectSummarize keeps the summarizer's error body shape for throttled callers.
func rejectSummarize(c *gin.Context, _ ratelimit.Decision) {
	c.JSON(http.StatusTooManyRequests, summarizerHandlers.ErrorResponse{
		Error:   "TooManyRequestsException",
		Message: summarizeRateLimitMessage,
	})
}

// StartBackground launches the idle-session sweeper; it stops when ctx is cancelled.
func (c *Container) StartBackground(ctx context.Context) {
	interval := time.Duration(c.cfg.Assist.SessionIdleMinutes) * time.Minute / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	c.assist.StartSweeper(ctx, interval)
}

// ActiveSessions reports the number of open widget sessions.
func (c *Container) ActiveSessions() int {
	return c.assist.ActiveSessions()
}

// ModelEnabled reports whether a language model is configured.
func (c *Container) ModelEnabled() bool {
	return c.model != nil
}

// Shutdown closes widget streams and the Redis connection.
func (c *Container) Shutdown() {
	if c.hub != nil {
		c.hub.Shutdown()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis", "error", err)
		}
	}
}
