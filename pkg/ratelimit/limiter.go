package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/richxcame/cardlink/pkg/common"
	"github.com/richxcame/cardlink/pkg/config"
	"github.com/richxcame/cardlink/pkg/logger"
)

// fixed-window counter: first hit creates the key with a TTL, later hits
// within the window increment it
const windowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// Limiter is a redis-backed fixed-window rate limiter
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	script *redis.Script
	now    func() time.Time
}

// NewLimiter creates a rate limiter backed by the given redis client
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		cfg:    cfg,
		script: redis.NewScript(windowScript),
		now:    time.Now,
	}
}

// WithNow overrides the clock, for tests
func (l *Limiter) WithNow(now func() time.Time) {
	l.now = now
}

// Allow reports whether the caller identified by key may proceed, and the
// hit count observed inside the current window
func (l *Limiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	if !l.cfg.Enabled {
		return true, 0, nil
	}

	windowKey := fmt.Sprintf("%s:%s:%d", l.cfg.RedisPrefix, key, l.now().Unix()/int64(l.cfg.Window()))

	count, err := l.script.Run(ctx, l.client, []string{windowKey}, l.cfg.Window()).Int64()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	return count <= int64(l.cfg.ScanLimit), count, nil
}

// Middleware limits requests per client IP. Redis failures fail open so the
// scan endpoint stays available when redis is down.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, _, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable, failing open", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			common.ErrorResponse(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
