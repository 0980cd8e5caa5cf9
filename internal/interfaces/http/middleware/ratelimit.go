package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/infrastructure/ratelimit"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils"
)

// RejectFunc writes the response for a rejected request.
type RejectFunc func(c *gin.Context, decision ratelimit.Decision)

// RateLimiter enforces a per-IP policy for one route scope.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	scope   string
	policy  ratelimit.Policy
	reject  RejectFunc
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, policy ratelimit.Policy, reject RejectFunc, log logger.Interface) *RateLimiter {
	if reject == nil {
		reject = func(c *gin.Context, _ ratelimit.Decision) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
		}
	}
	return &RateLimiter{
		limiter: limiter,
		scope:   scope,
		policy:  policy,
		reject:  reject,
		logger:  log,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiter == nil || !rl.policy.Enabled() || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:ip:%s", rl.scope, c.ClientIP())
		decision, err := rl.limiter.Allow(c.Request.Context(), key, rl.policy)
		if err != nil {
			// fail open when Redis is unavailable
			rl.logger.Warnw("rate limiter unavailable", "scope", rl.scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.policy.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.ResetAfter.Seconds()))))
			rl.logger.Warnw("rate limit exceeded", "scope", rl.scope, "client_ip", c.ClientIP())
			rl.reject(c, decision)
			c.Abort()
			return
		}

		c.Next()
	}
}
