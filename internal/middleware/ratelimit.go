package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/domain/dto"
)

// bucket counts the requests of one client IP inside the current window.
type bucket struct {
	start time.Time
	count int
}

// sweepThreshold is the map size above which expired buckets are dropped.
const sweepThreshold = 1024

// In-memory per-IP counters. Single-instance only.
var (
	buckets = make(map[string]*bucket)
	window  = time.Minute
	limit   = 120
	mu      sync.Mutex
)

// SetRateLimit changes the number of requests allowed per client IP per
// minute. Values below 1 are ignored.
func SetRateLimit(perMinute int) {
	if perMinute < 1 {
		return
	}
	mu.Lock()
	limit = perMinute
	window = time.Minute
	mu.Unlock()
}

// RateLimiter allows at most `limit` requests per client IP in each fixed
// window and answers 429 with a Retry-After header beyond that.
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: 42
//	{"message": "rate limit exceeded", "timestamp": "..."}
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		retry, ok := allow(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second)/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}

// allow records one request from ip at now. When the request is over the
// limit it returns false and the time left in the window.
func allow(ip string, now time.Time) (time.Duration, bool) {
	mu.Lock()
	defer mu.Unlock()

	if len(buckets) > sweepThreshold {
		sweep(now)
	}

	b, ok := buckets[ip]
	if !ok || now.Sub(b.start) >= window {
		b = &bucket{start: now}
		buckets[ip] = b
	}
	b.count++
	if b.count > limit {
		return window - now.Sub(b.start), false
	}
	return 0, true
}

// sweep drops buckets whose window has ended. Callers hold mu.
func sweep(now time.Time) {
	for ip, b := range buckets {
		if now.Sub(b.start) >= window {
			delete(buckets, ip)
		}
	}
}
