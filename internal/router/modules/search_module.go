package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/classical-review/internal/interface/http"
	"github.com/oksasatya/classical-review/internal/interface/middleware"
)

type SearchModule struct {
	Handler *handlers.SearchHandler
	RDB     *redis.Client
}

func NewSearchModule(h *handlers.SearchHandler, rdb *redis.Client) *SearchModule {
	return &SearchModule{Handler: h, RDB: rdb}
}

func (m *SearchModule) Register(rg *gin.RouterGroup) {
	s := rg.Group("/search")
	s.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), nil))
	{
		s.GET("/composers", m.Handler.Composers)
		s.GET("/composers/:id", m.Handler.Composer)
		s.GET("/compositions", m.Handler.Compositions)
		s.GET("/compositions/:id", m.Handler.Composition)
		s.GET("/users", m.Handler.Users)
		s.GET("/users/:id", m.Handler.User)
		s.GET("/reviews", m.Handler.Reviews)
		s.GET("/reviews/:id", m.Handler.Review)
	}
}
