package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
)

const maxLimiters = 10000

// RateLimiter keeps one token bucket per user (or client IP when anonymous).
// Admin sessions are not limited.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	log      *logrus.Entry
}

func NewRateLimiter(requestsPerSecond float64, burst int, log *logrus.Entry) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		log:      log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxLimiters {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Handler answers 429 once the caller's bucket is empty.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if s := SessionFrom(c); s != nil {
			if s.IsAdmin() {
				c.Next()
				return
			}
			key = "user:" + s.UserID.String()
		}
		if !rl.limiter(key).Allow() {
			rl.log.WithFields(logrus.Fields{"key": key, "path": c.Request.URL.Path}).Warn("rate limit exceeded")
			c.Header("Retry-After", "1")
			abortWith(c, apperror.TooManyRequests("요청이 너무 많습니다. 잠시 후 다시 시도해주세요."))
			return
		}
		c.Next()
	}
}

// StartCleanup drops all buckets every interval until stop is closed.
func (rl *RateLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.mu.Lock()
				rl.limiters = make(map[string]*rate.Limiter)
				rl.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}
