package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/classical-review/pkg/response"
)

// Module is a feature that mounts its routes under /api.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and /api-wide middleware, then mounts them in
// one pass.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// Add queues mod for registration; nil modules are skipped.
func (r *Registry) Add(mod Module) {
	if mod == nil {
		return
	}
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts every module. Unknown paths answer with the error
// envelope instead of gin's plain text 404.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	r.Engine.NoRoute(func(c *gin.Context) {
		response.Abort(c, http.StatusNotFound, response.MsgNotFound, nil)
	})
}
