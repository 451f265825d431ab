package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/school-records/internal/config"
	"github.com/stemsi/school-records/internal/response"
)

// Counter increments a windowed counter and returns the new value. The key
// expires after ttl.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RedisCounter is a Counter backed by INCR and EXPIRE.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter is a fixed-window per-IP limiter shared across instances
// through the Counter.
type RateLimiter struct {
	counter Counter
	limit   int
	window  time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewRateLimiter allows limit requests per client IP in each window.
func NewRateLimiter(counter Counter, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		now:     time.Now,
		log:     log.With().Str("component", "rate_limiter").Logger(),
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP. A
// counter failure lets the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := config.CacheKey.RateLimitKey(ip, rl.window, rl.now())

		n, err := rl.counter.Incr(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.log.Warn().Err(err).Str("ip", ip).Msg("Rate limit counter unavailable")
			c.Next()
			return
		}

		remaining := int64(rl.limit) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > int64(rl.limit) {
			c.Header("Retry-After", strconv.Itoa(int(rl.window/time.Second)))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded, "")
			return
		}
		c.Next()
	}
}
