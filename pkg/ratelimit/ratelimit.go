package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Connect creates a Redis client and verifies connectivity.
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Counter increments a windowed counter and reports the new value.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCounter struct {
	rdb *redis.Client
}

// NewRedisCounter returns a Counter backed by INCR + PEXPIRE.
func NewRedisCounter(rdb *redis.Client) Counter {
	return &redisCounter{rdb: rdb}
}

func (r *redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		r.rdb.PExpire(ctx, key, window+time.Second)
	}
	return count, nil
}

// Limiter enforces a fixed-window request budget per key.
type Limiter struct {
	counter Counter
	max     int64
	window  time.Duration
	prefix  string
	now     func() time.Time
	log     *zap.Logger
}

func NewLimiter(counter Counter, max int, window time.Duration, log *zap.Logger) *Limiter {
	return &Limiter{
		counter: counter,
		max:     int64(max),
		window:  window,
		prefix:  "summarizer:rate_limit",
		now:     time.Now,
		log:     log.Named("ratelimit"),
	}
}

// Middleware limits requests keyed by keyFn. Counter errors fail open.
func (l *Limiter) Middleware(keyFn func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := keyFn(c)
		if id == "" || l.max <= 0 {
			c.Next()
			return
		}

		windowStart := l.now().Truncate(l.window).Unix()
		key := fmt.Sprintf("%s:%s:%d", l.prefix, id, windowStart)

		count, err := l.counter.Incr(c.Request.Context(), key, l.window)
		if err != nil {
			l.log.Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > l.max {
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please slow down"})
			return
		}

		c.Next()
	}
}
