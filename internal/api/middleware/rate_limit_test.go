package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"secure-recipe/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 30, 0, time.UTC)}
}

func TestMemoryStore_Increment(t *testing.T) {
	clock := newClock()
	store := NewMemoryStore()
	store.now = clock.now
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Increment(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other, err := store.Increment(ctx, "other", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)

	clock.advance(2 * time.Minute)
	got, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "expired counters start over")

	store.mu.Lock()
	_, stale := store.counters["other"]
	store.mu.Unlock()
	assert.False(t, stale, "expired counters are collected")
}

func newLimiter(clock *fakeClock, limits ...config.Limit) *RateLimiter {
	store := NewMemoryStore()
	store.now = clock.now
	rl := NewRateLimiter(store, "test", limits)
	rl.now = clock.now
	return rl
}

func TestRateLimiter_Allow(t *testing.T) {
	clock := newClock()
	rl := newLimiter(clock, config.Limit{Requests: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := rl.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := rl.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 1, 0, 0, time.UTC), d.ResetAt)

	d, err = rl.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "clients are counted separately")

	clock.advance(30 * time.Second)
	d, err = rl.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "a new window resets the budget")
}

func TestRateLimiter_MultipleLimits(t *testing.T) {
	clock := newClock()
	rl := newLimiter(clock,
		config.Limit{Requests: 10, Window: time.Minute},
		config.Limit{Requests: 2, Window: time.Hour},
	)
	ctx := context.Background()

	d, err := rl.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Limit.Requests, "headers describe the tightest limit")
	assert.Equal(t, 1, d.Remaining)

	_, err = rl.Allow(ctx, "ip")
	require.NoError(t, err)

	clock.advance(time.Minute)
	d, err = rl.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, d.Allowed, "hourly budget outlives the minute window")
	assert.Equal(t, time.Hour, d.Limit.Window)
}

func setupLimited(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", rl.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRateLimiter_Middleware(t *testing.T) {
	clock := newClock()
	r := setupLimited(newLimiter(clock, config.Limit{Requests: 1, Window: time.Minute}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests","code":"TOO_MANY_REQUESTS","retry_after":30}`, w.Body.String())
}

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestRateLimiter_StoreFailureLetsRequestsThrough(t *testing.T) {
	rl := NewRateLimiter(failingStore{}, "test", []config.Limit{{Requests: 1, Window: time.Minute}})
	r := setupLimited(rl)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Error"))
	}
}

func TestNewStore_FallsBackToMemory(t *testing.T) {
	cfg := &config.Config{
		RateLimit: config.RateLimitConfig{Storage: config.StorageRedis},
		Redis:     config.RedisConfig{Addr: "127.0.0.1:1"},
	}
	store, closeFn := NewStore(context.Background(), cfg)
	defer closeFn()
	assert.IsType(t, &MemoryStore{}, store)

	cfg.RateLimit.Storage = config.StorageMemory
	store, _ = NewStore(context.Background(), cfg)
	assert.IsType(t, &MemoryStore{}, store)
}

// Runs against a real Redis when REDIS_ADDR is set
func TestRedisStore_Increment(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	key := "rate_limit:test:" + strconv.FormatInt(time.Now().UnixNano(), 10)
	defer client.Del(ctx, key)

	store := NewRedisStore(client)
	for want := int64(1); want <= 3; want++ {
		got, err := store.Increment(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
