package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store counts hits per key inside a fixed window
type Store interface {
	// Increment adds one hit to key and returns the new count; the key
	// expires after window
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

type counter struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore process local Store
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time
	lastGC   time.Time
}

// NewMemoryStore creates an in-memory Store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

// Increment implements Store
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.collect(now)

	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &counter{expiresAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, nil
}

// collect drops expired counters at most once a minute
func (s *MemoryStore) collect(now time.Time) {
	if now.Sub(s.lastGC) < time.Minute {
		return
	}
	s.lastGC = now
	for k, c := range s.counters {
		if !now.Before(c.expiresAt) {
			delete(s.counters, k)
		}
	}
}

// RedisStore Store shared by every instance behind the same Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment implements Store
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// NewStore builds the Store selected by cfg. A Redis store is pinged first
// and the in-memory store is used when Redis cannot be reached.
func NewStore(ctx context.Context, cfg *config.Config) (Store, func() error) {
	noop := func() error { return nil }
	if cfg.RateLimit.Storage != config.StorageRedis {
		return NewMemoryStore(), noop
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		common.LogWarn("Redis unavailable, rate limit counters kept in memory",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err),
		)
		_ = client.Close()
		return NewMemoryStore(), noop
	}

	common.LogInfo("Rate limit counters stored in Redis", zap.String("addr", cfg.Redis.Addr))
	return NewRedisStore(client), client.Close
}

// RateLimiter enforces a set of fixed window limits per client IP
type RateLimiter struct {
	store  Store
	limits []config.Limit
	prefix string
	now    func() time.Time
}

// NewRateLimiter creates a limiter; prefix separates the counters of different route groups
func NewRateLimiter(store Store, prefix string, limits []config.Limit) *RateLimiter {
	return &RateLimiter{
		store:  store,
		limits: limits,
		prefix: prefix,
		now:    time.Now,
	}
}

// Decision result of checking one request against every limit
type Decision struct {
	Allowed   bool
	Limit     config.Limit
	Remaining int
	ResetAt   time.Time
}

// Allow counts a hit for client against every limit. The returned decision
// describes the exceeded limit, or the one with the fewest requests left.
func (rl *RateLimiter) Allow(ctx context.Context, client string) (Decision, error) {
	now := rl.now()
	var tightest *Decision

	for _, l := range rl.limits {
		windowStart := now.Truncate(l.Window)
		key := fmt.Sprintf("%s:%s:%d:%d", rl.prefix, client, int64(l.Window.Seconds()), windowStart.Unix())

		count, err := rl.store.Increment(ctx, key, l.Window)
		if err != nil {
			return Decision{Allowed: true}, err
		}

		remaining := l.Requests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		d := Decision{
			Allowed:   int(count) <= l.Requests,
			Limit:     l,
			Remaining: remaining,
			ResetAt:   windowStart.Add(l.Window),
		}
		if !d.Allowed {
			return d, nil
		}
		if tightest == nil || d.Remaining < tightest.Remaining {
			tightest = &d
		}
	}

	if tightest == nil {
		return Decision{Allowed: true}, nil
	}
	return *tightest, nil
}

// Middleware rejects clients over budget with 429. Store failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(rl.limits) == 0 {
			c.Next()
			return
		}

		d, err := rl.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			common.LogWarn("Rate limit check failed",
				zap.Error(err),
				zap.String("prefix", rl.prefix),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			retryAfter := int(d.ResetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.String("limit", d.Limit.String()),
				zap.String("request_id", common.RequestID(c)),
			)

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       common.ErrTooManyRequests.Message,
				"code":        common.ErrTooManyRequests.Code,
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
