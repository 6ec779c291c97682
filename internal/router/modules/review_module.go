package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/classical-review/internal/interface/http"
	"github.com/oksasatya/classical-review/internal/interface/middleware"
)

type ReviewModule struct {
	Handler *handlers.ReviewHandler
	Auth    gin.HandlerFunc
	RDB     *redis.Client
}

func NewReviewModule(h *handlers.ReviewHandler, auth gin.HandlerFunc, rdb *redis.Client) *ReviewModule {
	return &ReviewModule{Handler: h, Auth: auth, RDB: rdb}
}

// Register mounts the review routes; all of them need an access token.
func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	rv := rg.Group("/review")
	rv.Use(m.Auth)
	rv.Use(middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		rv.POST("", m.Handler.Create)
		rv.PUT("/:id", m.Handler.Change)
		rv.DELETE("/:id", m.Handler.Delete)
		rv.POST("/:id/like", m.Handler.Like)
		rv.DELETE("/:id/like", m.Handler.Unlike)
	}
}
