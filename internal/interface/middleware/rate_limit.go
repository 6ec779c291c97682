package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/oksasatya/classical-review/pkg/response"
)

const MsgRateLimited = "Too many requests, please try again later."

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true to bypass the limit
type AllowFunc func(*gin.Context) bool

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyByIP returns a key function that limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath returns a key function that limits by client IP and route
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits authenticated callers by user and everyone else by IP.
// It must run after Auth.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString(CtxUserIDKey)
		if uid == "" {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid
	}
}

// Lua script: atomic INCR + set PEXPIRE on the first hit of a window
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit allows max requests per window and key. With a Redis client the
// counter is shared across instances (fixed window, fail-open on Redis
// errors); without one it falls back to an in-process token bucket.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if rdb == nil {
		return LocalRateLimit(max, window, keyFn, allow)
	}
	return func(c *gin.Context) {
		if skipLimit(c, allow) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := keyFn(c)

		count, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int()
		if err != nil {
			c.Next()
			return
		}

		ttl, _ := rdb.PTTL(ctx, key).Result()
		resetSec := 0
		if ttl > 0 {
			resetSec = int((ttl + time.Second - 1) / time.Second)
		}

		if !admit(c, max, max-count, resetSec) {
			return
		}
		c.Next()
	}
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimit is a per-process token bucket per key, refilled at
// max/window with a burst of max. Idle keys are pruned after a window.
func LocalRateLimit(max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	var mu sync.Mutex
	entries := map[string]*localEntry{}
	interval := window / time.Duration(max)
	retryAfter := int((interval + time.Second - 1) / time.Second)
	lastPrune := time.Now()

	return func(c *gin.Context) {
		if skipLimit(c, allow) {
			c.Next()
			return
		}

		now := time.Now()
		key := keyFn(c)

		mu.Lock()
		if now.Sub(lastPrune) > window {
			for k, e := range entries {
				if now.Sub(e.lastSeen) > window {
					delete(entries, k)
				}
			}
			lastPrune = now
		}
		e, ok := entries[key]
		if !ok {
			e = &localEntry{limiter: rate.NewLimiter(rate.Every(interval), max)}
			entries[key] = e
		}
		e.lastSeen = now
		allowed := e.limiter.AllowN(now, 1)
		remaining := int(e.limiter.TokensAt(now))
		mu.Unlock()

		resetSec := int(window.Seconds())
		if allowed {
			if !admit(c, max, remaining, resetSec) {
				return
			}
		} else if !admit(c, max, -1, retryAfter) {
			return
		}
		c.Next()
	}
}

func skipLimit(c *gin.Context, allow AllowFunc) bool {
	if allow != nil && allow(c) {
		return true
	}
	return strings.EqualFold(c.Request.Method, http.MethodOptions)
}

// admit writes the rate-limit headers and aborts with 429 when remaining
// dropped below zero.
func admit(c *gin.Context, max, remaining, resetSec int) bool {
	c.Header("X-RateLimit-Limit", strconv.Itoa(max))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(maxInt(remaining, 0)))
	c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if remaining < 0 {
		if resetSec > 0 {
			c.Header("Retry-After", strconv.Itoa(resetSec))
		}
		response.Abort(c, http.StatusTooManyRequests, MsgRateLimited, nil)
		return false
	}
	return true
}

func abortForbidden(c *gin.Context) {
	response.Abort(c, http.StatusForbidden, "Forbidden.", nil)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
