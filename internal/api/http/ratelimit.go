package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/garage-service/internal/config"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles unauthenticated auth traffic per client IP.
type RateLimiter struct {
	limit           rate.Limit
	burst           int
	perMinute       int
	cleanupInterval time.Duration
	logger          *zap.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter starts a limiter with a background sweep of idle clients.
// A non-positive rate disables limiting.
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		limit:           rate.Limit(float64(cfg.AuthRequestsPerMinute) / 60.0),
		burst:           cfg.AuthBurst,
		perMinute:       cfg.AuthRequestsPerMinute,
		cleanupInterval: 5 * time.Minute,
		logger:          logger,
		clients:         make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}
	if rl.burst < 1 {
		rl.burst = 1
	}
	if rl.enabled() {
		go rl.cleanupLoop()
	}
	return rl
}

func (rl *RateLimiter) enabled() bool {
	return rl != nil && rl.limit > 0
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	if rl == nil {
		return
	}
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Handle rejects the request with RATE_LIMITED once the client's bucket is empty.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if !rl.enabled() {
		return c.Next()
	}
	if rl.limiterFor(c.IP()).Allow() {
		return c.Next()
	}

	// Seconds until one token is refilled.
	retryAfter := (60 + rl.perMinute - 1) / rl.perMinute
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
	rl.logger.Warn("rate limit exceeded", zap.String("ip", c.IP()), zap.String("path", c.Path()))
	return apperrors.NewRateLimited()
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// sweep drops clients idle for more than two cleanup intervals.
func (rl *RateLimiter) sweep(now time.Time) {
	ttl := rl.cleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.clients {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.clients, key)
		}
	}
}
