package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig bounds how fast one client may hit the API.
// RequestsPerSecond is the sustained average; BurstSize is how far above it
// a client may spike before 429s start.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig suits the interactive screens this API serves:
// generous enough for a busy UI, tight enough to stop a scripted loop.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// tokenBucket refills continuously at rate tokens per second, capped at
// burst.
type tokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	burst    float64
	rate     float64
	lastFill time.Time
}

func newTokenBucket(rate float64, burst int) *tokenBucket {
	return &tokenBucket{
		tokens:   float64(burst),
		burst:    float64(burst),
		rate:     rate,
		lastFill: time.Now(),
	}
}

// take spends one token if available. When it cannot, it also reports the
// whole seconds until the next token, for the Retry-After header.
func (b *tokenBucket) take() (bool, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastFill).Seconds() * b.rate
	if b.tokens > b.burst {
		b.tokens = b.burst
	}
	b.lastFill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if b.rate <= 0 {
		return false, 1
	}
	return false, int((1-b.tokens)/b.rate) + 1
}

// bucketStore keeps one bucket per client, created on first sight.
type bucketStore struct {
	mu       sync.RWMutex
	byClient map[string]*tokenBucket
	cfg      RateLimitConfig
}

func newBucketStore(cfg RateLimitConfig) *bucketStore {
	return &bucketStore{
		byClient: make(map[string]*tokenBucket),
		cfg:      cfg,
	}
}

func (s *bucketStore) bucketFor(client string) *tokenBucket {
	s.mu.RLock()
	bucket, ok := s.byClient[client]
	s.mu.RUnlock()
	if ok {
		return bucket
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bucket, ok := s.byClient[client]; ok {
		return bucket
	}
	bucket = newTokenBucket(s.cfg.RequestsPerSecond, s.cfg.BurstSize)
	s.byClient[client] = bucket
	return bucket
}

// RateLimit throttles per client IP. Clients over the limit get a 429 with
// Retry-After; everyone sees the X-RateLimit-Limit header.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := newBucketStore(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)

			ok, retryAfter := store.bucketFor(c.RealIP()).take()
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
