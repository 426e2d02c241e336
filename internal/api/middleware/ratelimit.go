package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"pixelforge/internal/config"
	"pixelforge/internal/models"
	"pixelforge/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter holds per-client token buckets keyed by IP and endpoint
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	config   *config.Config

	cleanup     *time.Ticker
	stopCleanup chan struct{}
}

var (
	globalRateLimiter *RateLimiter
	once              sync.Once
)

// RateLimit middleware applies rate limiting per IP address and endpoint
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	once.Do(func() {
		globalRateLimiter = &RateLimiter{
			limiters:    make(map[string]*rate.Limiter),
			config:      cfg,
			cleanup:     time.NewTicker(10 * time.Minute),
			stopCleanup: make(chan struct{}),
		}
		go globalRateLimiter.startCleanup()
	})

	return globalRateLimiter.middleware
}

func (rl *RateLimiter) middleware(c *gin.Context) {
	clientIP := c.ClientIP()
	endpoint := c.Request.Method + " " + c.FullPath()
	key := fmt.Sprintf("%s:%s", clientIP, endpoint)

	limit := rl.getRateLimit(c.Request.Method, c.FullPath())
	if limit <= 0 {
		c.Next()
		return
	}

	limiter := rl.getLimiter(key, limit)
	if !limiter.Allow() {
		rl.handleRateLimitExceeded(c, clientIP, endpoint, limit)
		return
	}

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Minute).Unix()))

	c.Next()
}

// getRateLimit returns the per-minute limit for an endpoint class
func (rl *RateLimiter) getRateLimit(method, path string) int {
	if method == http.MethodPost && strings.HasSuffix(path, "/transform") {
		return rl.config.RateLimit.Transform
	}
	if method == http.MethodPost && strings.Contains(path, "/images") {
		return rl.config.RateLimit.Upload
	}
	if method == http.MethodGet && strings.HasPrefix(path, "/api/") {
		return rl.config.RateLimit.Read
	}
	return 0
}

// getLimiter gets or creates a rate limiter for a client+endpoint
func (rl *RateLimiter) getLimiter(key string, limit int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		// Burst = 2x rate; the per-minute limit refills continuously.
		limiter = rate.NewLimiter(rate.Limit(float64(limit)/60.0), limit*2)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *RateLimiter) handleRateLimitExceeded(c *gin.Context, clientIP, endpoint string, limit int) {
	logger.WarnWithContext(c.Request.Context(), "Rate limit exceeded",
		zap.String("client_ip", clientIP),
		zap.String("endpoint", endpoint),
		zap.Int("limit", limit))

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("Retry-After", "60")

	c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
		Error:   "Rate limit exceeded",
		Message: fmt.Sprintf("Too many requests. Limit: %d requests per minute", limit),
		Code:    http.StatusTooManyRequests,
	})
	c.Abort()
}

func (rl *RateLimiter) startCleanup() {
	for {
		select {
		case <-rl.cleanup.C:
			rl.cleanupOldLimiters()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupOldLimiters bounds the limiter map so idle clients don't accumulate
func (rl *RateLimiter) cleanupOldLimiters() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > 10000 {
		dropped := len(rl.limiters)
		rl.limiters = make(map[string]*rate.Limiter)
		logger.Debug("Reset rate limiter table", zap.Int("dropped", dropped))
	}
}

// Stop stops the rate limiter cleanup
func (rl *RateLimiter) Stop() {
	if rl.cleanup != nil {
		rl.cleanup.Stop()
	}
	if rl.stopCleanup != nil {
		close(rl.stopCleanup)
	}
}
