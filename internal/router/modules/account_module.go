package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/classical-review/internal/interface/http"
	"github.com/oksasatya/classical-review/internal/interface/middleware"
)

type AccountModule struct {
	Handler *handlers.AccountHandler
	Auth    gin.HandlerFunc
	RDB     *redis.Client
}

func NewAccountModule(h *handlers.AccountHandler, auth gin.HandlerFunc, rdb *redis.Client) *AccountModule {
	return &AccountModule{Handler: h, Auth: auth, RDB: rdb}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(m.RDB, 10, time.Hour, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(m.RDB, 3, 10*time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	acc := rg.Group("/account")
	acc.POST("/register", registerLimiter, m.Handler.Register)
	acc.POST("/login", loginLimiter, m.Handler.Login)
	acc.POST("/verify", verifyLimiter, m.Handler.Verify)
	acc.POST("/verify/resend", resendLimiter, m.Handler.ResendVerification)
	acc.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	// Protected endpoints with user-based rate limit
	auth := acc.Group("/")
	auth.Use(m.Auth)
	auth.Use(middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/bio", m.Handler.UpdateBio)
		auth.POST("/avatar", middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByUserID(), nil), m.Handler.UploadAvatar)
	}
}
