package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/collabhub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// visitorIdleTTL is how long a caller's bucket survives without
	// traffic. Channel posting is bursty (a member uploads a handful of
	// screenshots, then goes quiet), so idle buckets are evicted quickly.
	visitorIdleTTL = 10 * time.Minute
	evictEvery     = 5 * time.Minute
)

// visitor holds one caller's token bucket and last-seen time.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles the write-heavy channel endpoints. Authenticated
// callers are keyed by user ID so members behind one office NAT do not
// starve each other; unauthenticated callers fall back to the client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst per caller.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go rl.evictLoop()
	return rl
}

// key identifies the caller: user ID when AuthRequired already ran, client
// IP otherwise.
func (rl *RateLimiter) key(c *gin.Context) string {
	if actor := GetActor(c); actor.UserID != 0 {
		return "u:" + strconv.FormatUint(uint64(actor.UserID), 10)
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) take(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) evictLoop() {
	for {
		time.Sleep(evictEvery)
		rl.mu.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastSeen) > visitorIdleTTL {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns a Gin middleware enforcing the per-caller limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.take(rl.key(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
				Code:    http.StatusTooManyRequests,
				Message: "too many requests, slow down and try again",
			})
			return
		}
		c.Next()
	}
}
