package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"leedsbot-backend/internal/logger"
)

// Counter counts hits for a key within a fixed window and returns the
// running total.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type visitor struct {
	count       int64
	windowStart time.Time
}

// MemoryCounter is a per-process Counter used when Redis is not configured.
type MemoryCounter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (c *MemoryCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) > window {
		for k, v := range c.visitors {
			if now.Sub(v.windowStart) >= window {
				delete(c.visitors, k)
			}
		}
		c.lastSweep = now
	}

	v, exists := c.visitors[key]
	// The window opens at the first hit and does not slide with later ones.
	if !exists || now.Sub(v.windowStart) >= window {
		c.visitors[key] = &visitor{count: 1, windowStart: now}
		return 1, nil
	}

	v.count++
	return v.count, nil
}

// RedisCounter shares counts across instances with INCR and EXPIRE.
type RedisCounter struct {
	client *redis.Client
	prefix string
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client, prefix: "ratelimit:"}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	bucket := time.Now().UnixNano() / int64(window)
	k := c.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

type RateLimiter struct {
	counter Counter
	limit   int
	window  time.Duration
	log     *logger.Logger
}

func NewRateLimiter(counter Counter, limit int, window time.Duration, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		log:     log,
	}
}

// Middleware limits requests per authenticated email, or per client address
// when the request is anonymous. Counter failures let the request through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := GetEmail(r.Context())
		if key == "" {
			key = r.RemoteAddr
		}

		count, err := rl.counter.Incr(r.Context(), key, rl.window)
		if err != nil {
			rl.log.Warn("rate limit counter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(rl.limit) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
