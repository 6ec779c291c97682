package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.Any("/login", mw, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func hit(r *gin.Engine, method, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLocalRateLimit_BlocksAfterBurst(t *testing.T) {
	r := limitedRouter(RateLimit(nil, 2, time.Minute, KeyByIP(), nil))

	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodPost, "203.0.113.7").Code)
	w := hit(r, http.MethodPost, "203.0.113.7")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit(r, http.MethodPost, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), MsgRateLimited)

	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodPost, "198.51.100.1").Code, "other clients have their own bucket")
	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodOptions, "203.0.113.7").Code, "preflight is never limited")
}

func TestRateLimit_AllowBypass(t *testing.T) {
	r := limitedRouter(RateLimit(nil, 1, time.Minute, KeyByIP(), AllowPrivateIP()))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, http.MethodPost, "10.0.0.4").Code)
	}
}

func TestRateLimit_RedisErrorsFailOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer func() { _ = rdb.Close() }()

	r := limitedRouter(RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil))
	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodPost, "203.0.113.7").Code)
	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodPost, "203.0.113.7").Code)
}

func TestRateLimit_DisabledConfigPassesThrough(t *testing.T) {
	r := limitedRouter(RateLimit(nil, 0, time.Minute, KeyByIP(), nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, http.MethodPost, "203.0.113.7").Code)
	}
}

func TestKeyByUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ctxRealIPKey, "203.0.113.7")

	assert.Equal(t, "rl:user:anon:ip:203.0.113.7", KeyByUserID()(c))
	c.Set(CtxUserIDKey, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}
